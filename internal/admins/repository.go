package admins

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yoldosh/admin-api/internal/platform/db"
	"github.com/yoldosh/admin-api/internal/platform/httpx"
	"github.com/yoldosh/admin-api/internal/shared"
)

// RepositoryPort abstracts admin roster persistence.
type RepositoryPort interface {
	Create(ctx context.Context, email, firstName, lastName, passwordHash string) (Admin, error)
	List(ctx context.Context, limit, offset int) ([]Admin, int, error)
	GetByID(ctx context.Context, id string) (Admin, error)
	Deactivate(ctx context.Context, id string) error
	GrantPermission(ctx context.Context, adminID, permission string) error
	RevokePermission(ctx context.Context, adminID, permission string) error
	Stats(ctx context.Context) (Stats, error)
}

// Repository manages admin accounts in Postgres. Only accounts with the
// Admin role are visible here; super admins are provisioned out of band.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

var _ RepositoryPort = (*Repository)(nil)

func (r *Repository) Create(ctx context.Context, email, firstName, lastName, passwordHash string) (Admin, error) {
	a := Admin{
		ID:        uuid.NewString(),
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Role:      shared.RoleAdmin,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO admins (id, email, first_name, last_name, role, password_hash, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, true, $7)`,
		a.ID, a.Email, a.FirstName, a.LastName, a.Role, passwordHash, a.CreatedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return Admin{}, httpx.ErrDuplicate
	}
	if err != nil {
		return Admin{}, err
	}
	return a, nil
}

func (r *Repository) List(ctx context.Context, limit, offset int) ([]Admin, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM admins WHERE role = $1`, shared.RoleAdmin).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT a.id, a.email, a.first_name, a.last_name, a.role, a.is_active, a.created_at,
		       COALESCE(array_agg(p.permission) FILTER (WHERE p.permission IS NOT NULL), '{}')
		FROM admins a
		LEFT JOIN admin_permissions p ON p.admin_id = a.id
		WHERE a.role = $1
		GROUP BY a.id
		ORDER BY a.created_at DESC
		LIMIT $2 OFFSET $3`, shared.RoleAdmin, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]Admin, 0, limit)
	for rows.Next() {
		var a Admin
		if err := rows.Scan(&a.ID, &a.Email, &a.FirstName, &a.LastName, &a.Role, &a.IsActive, &a.CreatedAt, &a.Permissions); err != nil {
			return nil, 0, err
		}
		out = append(out, a)
	}
	return out, total, rows.Err()
}

func (r *Repository) GetByID(ctx context.Context, id string) (Admin, error) {
	var a Admin
	err := r.pool.QueryRow(ctx, `
		SELECT a.id, a.email, a.first_name, a.last_name, a.role, a.is_active, a.created_at,
		       COALESCE(array_agg(p.permission) FILTER (WHERE p.permission IS NOT NULL), '{}')
		FROM admins a
		LEFT JOIN admin_permissions p ON p.admin_id = a.id
		WHERE a.id = $1 AND a.role = $2
		GROUP BY a.id`, id, shared.RoleAdmin,
	).Scan(&a.ID, &a.Email, &a.FirstName, &a.LastName, &a.Role, &a.IsActive, &a.CreatedAt, &a.Permissions)
	if errors.Is(err, pgx.ErrNoRows) {
		return Admin{}, shared.ErrNotFound
	}
	if err != nil {
		return Admin{}, err
	}
	return a, nil
}

// Deactivate disables the account and drops its grants. The row is kept
// so the audit trail stays resolvable.
func (r *Repository) Deactivate(ctx context.Context, id string) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE admins SET is_active = false
			WHERE id = $1 AND role = $2 AND is_active = true`, id, shared.RoleAdmin)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return shared.ErrNotFound
		}
		_, err = tx.Exec(ctx, `DELETE FROM admin_permissions WHERE admin_id = $1`, id)
		return err
	})
}

func (r *Repository) GrantPermission(ctx context.Context, adminID, permission string) error {
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO admin_permissions (admin_id, permission)
		SELECT id, $2 FROM admins WHERE id = $1 AND role = $3
		ON CONFLICT (admin_id, permission) DO NOTHING`,
		adminID, permission, shared.RoleAdmin)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		// either the admin does not exist or the grant was already present
		if _, err := r.GetByID(ctx, adminID); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) RevokePermission(ctx context.Context, adminID, permission string) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM admin_permissions WHERE admin_id = $1 AND permission = $2`, adminID, permission)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, adminID); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE is_active)
		FROM admins WHERE role = $1`, shared.RoleAdmin,
	).Scan(&s.TotalAdmins, &s.ActiveAdmins)
	return s, err
}
