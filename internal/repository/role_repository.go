package repository

import (
	"context"
	"database/sql"

	"github.com/corpai/corp-agent-backend/internal/model"
)

// RoleStore resolves role rows. Registration needs the default "user" role
// id, token issuance needs the name behind a user's role_id.
type RoleStore interface {
	GetByName(ctx context.Context, name string) (model.Role, error)
	GetByID(ctx context.Context, id uint64) (model.Role, error)
}

// RoleRepo implements RoleStore on MySQL.
type RoleRepo struct{ DB *sql.DB }

func NewRoleRepo(db *sql.DB) *RoleRepo { return &RoleRepo{DB: db} }

// GetByName fetches a role by its unique name.
func (r *RoleRepo) GetByName(ctx context.Context, name string) (model.Role, error) {
	var role model.Role
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name FROM roles WHERE name=? LIMIT 1", name).
		Scan(&role.ID, &role.Name)
	return role, err
}

// GetByID fetches a role by id.
func (r *RoleRepo) GetByID(ctx context.Context, id uint64) (model.Role, error) {
	var role model.Role
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name FROM roles WHERE id=? LIMIT 1", id).
		Scan(&role.ID, &role.Name)
	return role, err
}
