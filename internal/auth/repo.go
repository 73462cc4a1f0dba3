package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yoldosh/admin-api/internal/shared"
)

// Repository defines persistence operations for the auth module.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*Admin, error)
	GetByID(ctx context.Context, id string) (*Admin, error)
	Permissions(ctx context.Context, adminID string) (map[string]bool, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const adminColumns = `id, email, first_name, last_name, password_hash, role, is_active, created_at, updated_at`

// FindByEmail fetches an admin account by email.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*Admin, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+adminColumns+` FROM admins WHERE email = $1`, email)
	return scanAdmin(row)
}

// GetByID fetches an admin account by ID.
func (r *PGRepository) GetByID(ctx context.Context, id string) (*Admin, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+adminColumns+` FROM admins WHERE id = $1`, id)
	return scanAdmin(row)
}

// Permissions returns the granted feature-area permissions for an admin.
// Presence of a row means granted; everything else reads as false.
func (r *PGRepository) Permissions(ctx context.Context, adminID string) (map[string]bool, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT permission FROM admin_permissions WHERE admin_id = $1`, adminID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	perms := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		perms[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return perms, nil
}

func scanAdmin(row pgx.Row) (*Admin, error) {
	var admin Admin
	var role string
	err := row.Scan(&admin.ID, &admin.Email, &admin.FirstName, &admin.LastName,
		&admin.PasswordHash, &role, &admin.IsActive, &admin.CreatedAt, &admin.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	admin.Role = shared.Role(role)
	return &admin, nil
}

var _ Repository = (*PGRepository)(nil)
