package postgres

import (
	"context"
	"database/sql"
	"time"

	"printshop/internal/model"
	"printshop/internal/repository"
)

const userColumns = `id, name, role, created_at, updated_at`

// UserPostgres is a PostgreSQL implementation of repository.UserRepository.
type UserPostgres struct {
	db *sql.DB
}

// NewUserPostgres creates a new UserPostgres repository.
func NewUserPostgres(db *sql.DB) *UserPostgres {
	return &UserPostgres{db: db}
}

var _ repository.UserRepository = (*UserPostgres)(nil)

func scanUser(row rowScanner) (*model.User, error) {
	var (
		u    model.User
		role string
	)
	if err := row.Scan(&u.ID, &u.Name, &role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.Role = model.Role(role)
	return &u, nil
}

// CreateIfNotExists inserts the user unless the id is taken, then reads it back.
// Concurrent first logins for the same subject both succeed.
func (r *UserPostgres) CreateIfNotExists(ctx context.Context, u *model.User) (*model.User, error) {
	const q = `
		INSERT INTO users (id, name, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (id) DO NOTHING
	`
	role := u.Role
	if role == "" {
		role = model.RoleCustomer
	}
	now := u.CreatedAt
	if now.IsZero() {
		now = time.Now().UTC()
	}
	if _, err := r.db.ExecContext(ctx, q, u.ID, u.Name, string(role), now); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, u.ID)
}

// FindByID fetches a single user by its ID.
func (r *UserPostgres) FindByID(ctx context.Context, id string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, q, id))
}

// UpdateRole sets the user's role. It returns sql.ErrNoRows for unknown users.
func (r *UserPostgres) UpdateRole(ctx context.Context, id string, role model.Role) (*model.User, error) {
	const q = `
		UPDATE users SET role = $2, updated_at = $3
		WHERE id = $1
		RETURNING ` + userColumns
	return scanUser(r.db.QueryRowContext(ctx, q, id, string(role), time.Now().UTC()))
}
