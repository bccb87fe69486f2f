package model

import "time"

// User represents an application user record as stored in the `users`
// table. A user authenticates with a password, with a linked OAuth
// identity, or both; PasswordHash is therefore nullable in the schema
// and modeled as a pointer here. Email is the stable external
// identifier and is unique across the whole system.
//
// Invariant: at least one of PasswordHash or the (OAuthProvider,
// OAuthID) pair must be set. The repository enforces this on insert so
// an unauthenticatable row can never be created.
type User struct {
	ID                uint64     // users.id
	Email             string     // users.email (unique, lowercased)
	PasswordHash      *string    // users.password_hash (nil for OAuth-only users)
	FirstName         string     // users.first_name
	LastName          string     // users.last_name
	FullName          string     // users.full_name
	CompanyName       string     // users.company_name
	RoleID            uint64     // users.role_id (references roles.id)
	OAuthProvider     *string    // users.oauth_provider ("google", "github")
	OAuthID           *string    // users.oauth_id (provider-scoped external id)
	ProfilePictureURL *string    // users.profile_picture_url
	IsActive          bool       // users.is_active
	IsVerified        bool       // users.is_verified
	CreatedAt         time.Time  // users.created_at
	UpdatedAt         time.Time  // users.updated_at
}

// HasPassword reports whether the user can authenticate with a password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// HasOAuth reports whether the user has a linked OAuth identity.
func (u *User) HasOAuth() bool {
	return u.OAuthProvider != nil && *u.OAuthProvider != "" &&
		u.OAuthID != nil && *u.OAuthID != ""
}

// Role represents a row in the `roles` table. Roles are coarse
// permission buckets; the gate middleware compares the role name
// embedded in the access token against a per-route allow-list.
//
// RoleUser must exist before registration can succeed. Its absence is
// a configuration fault, not a user error.
type Role struct {
	ID   uint64 // roles.id
	Name string // roles.name (unique)
}

// Well-known role names. The set is closed at token-issue time so the
// authorization gate never has to guess membership.
const (
	RoleAdmin      = "admin"
	RoleUser       = "user"
	RoleFinance    = "finance"
	RoleNetworkOps = "network_ops"
	RoleFraudTeam  = "fraud_team"
)
