package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/corpai/corp-agent-backend/internal/model"
)

// UserStore is the persistence surface the auth handlers depend on.
// Implemented by UserRepo for MySQL and by fakes in handler tests.
type UserStore interface {
	// Create inserts the user and returns its new id. The email is
	// normalized before the insert; a duplicate maps to ErrEmailExists
	// and a row with neither password nor OAuth identity to
	// ErrNoAuthMethod.
	Create(ctx context.Context, u *model.User) (uint64, error)
	// GetByEmail fetches a user by normalized email. sql.ErrNoRows when
	// no such user exists.
	GetByEmail(ctx context.Context, email string) (model.User, error)
	// GetByID fetches a user by id.
	GetByID(ctx context.Context, id uint64) (model.User, error)
	// GetByOAuth fetches the user owning the (provider, external id)
	// identity.
	GetByOAuth(ctx context.Context, provider, oauthID string) (model.User, error)
	// LinkOAuth attaches an OAuth identity to an existing account and
	// marks it verified, since the provider attested the email.
	LinkOAuth(ctx context.Context, userID uint64, provider, oauthID string, fullName, pictureURL *string) error
	// RefreshOAuthProfile updates the mutable profile fields carried by
	// the provider on each sign-in.
	RefreshOAuthProfile(ctx context.Context, userID uint64, fullName, pictureURL *string) error
}

// UserRepo implements UserStore on MySQL.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,email,password_hash,first_name,last_name,full_name,company_name," +
	"role_id,oauth_provider,oauth_id,profile_picture_url,is_active,is_verified,created_at,updated_at"

// NormalizeEmail lowercases and trims an email so the unique index and every
// lookup agree on one canonical form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create inserts the user and returns its ID.
func (r *UserRepo) Create(ctx context.Context, u *model.User) (uint64, error) {
	if !u.HasPassword() && !u.HasOAuth() {
		return 0, ErrNoAuthMethod
	}
	u.Email = NormalizeEmail(u.Email)
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO users
		 (email, password_hash, first_name, last_name, full_name, company_name,
		  role_id, oauth_provider, oauth_id, profile_picture_url, is_active, is_verified)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		u.Email, u.PasswordHash, u.FirstName, u.LastName, u.FullName, u.CompanyName,
		u.RoleID, u.OAuthProvider, u.OAuthID, u.ProfilePictureURL, u.IsActive, u.IsVerified)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	u.ID = uint64(id)
	return u.ID, nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return r.one(ctx, "SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1",
		NormalizeEmail(email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.one(ctx, "SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
}

// GetByOAuth fetches a user by provider identity.
func (r *UserRepo) GetByOAuth(ctx context.Context, provider, oauthID string) (model.User, error) {
	return r.one(ctx,
		"SELECT "+userColumns+" FROM users WHERE oauth_provider=? AND oauth_id=? LIMIT 1",
		provider, oauthID)
}

// LinkOAuth attaches a provider identity to an existing account. The account
// becomes verified because the provider confirmed ownership of the email.
func (r *UserRepo) LinkOAuth(ctx context.Context, userID uint64, provider, oauthID string, fullName, pictureURL *string) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE users SET oauth_provider=?, oauth_id=?,
		 full_name=COALESCE(?, full_name),
		 profile_picture_url=COALESCE(?, profile_picture_url),
		 is_verified=1
		 WHERE id=?`,
		provider, oauthID, fullName, pictureURL, userID)
	return err
}

// RefreshOAuthProfile keeps name and picture current with the provider.
func (r *UserRepo) RefreshOAuthProfile(ctx context.Context, userID uint64, fullName, pictureURL *string) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE users SET
		 full_name=COALESCE(?, full_name),
		 profile_picture_url=COALESCE(?, profile_picture_url)
		 WHERE id=?`,
		fullName, pictureURL, userID)
	return err
}

func (r *UserRepo) one(ctx context.Context, query string, args ...any) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx, query, args...).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.FullName,
		&u.CompanyName, &u.RoleID, &u.OAuthProvider, &u.OAuthID, &u.ProfilePictureURL,
		&u.IsActive, &u.IsVerified, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}
