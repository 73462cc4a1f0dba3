package promocodes

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yoldosh/admin-api/internal/platform/httpx"
	"github.com/yoldosh/admin-api/internal/shared"
)

const promocodeColumns = `id, code, discount_percent, max_uses, used_count, is_active, expires_at, created_by, created_at`

// RepositoryPort abstracts promocode persistence.
type RepositoryPort interface {
	Create(ctx context.Context, p Promocode) (Promocode, error)
	List(ctx context.Context, activeOnly bool, limit, offset int) ([]Promocode, int, error)
	GetByID(ctx context.Context, id string) (Promocode, error)
	Deactivate(ctx context.Context, id string) error
	DeactivateExpired(ctx context.Context, ref time.Time) (int, error)
}

// Repository stores promocodes in Postgres.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

var _ RepositoryPort = (*Repository)(nil)

func (r *Repository) Create(ctx context.Context, p Promocode) (Promocode, error) {
	p.ID = uuid.NewString()
	p.CreatedAt = time.Now().UTC()
	p.IsActive = true
	_, err := r.pool.Exec(ctx, `
		INSERT INTO promocodes (id, code, discount_percent, max_uses, used_count, is_active, expires_at, created_by, created_at)
		VALUES ($1, $2, $3, $4, 0, true, $5, $6, $7)`,
		p.ID, p.Code, p.DiscountPercent, p.MaxUses, p.ExpiresAt, p.CreatedBy, p.CreatedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return Promocode{}, httpx.ErrDuplicate
	}
	if err != nil {
		return Promocode{}, err
	}
	return p, nil
}

func (r *Repository) List(ctx context.Context, activeOnly bool, limit, offset int) ([]Promocode, int, error) {
	where := ``
	if activeOnly {
		where = `WHERE is_active = true`
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM promocodes `+where).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+promocodeColumns+`
		FROM promocodes `+where+`
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]Promocode, 0, limit)
	for rows.Next() {
		p, err := scanPromocode(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

func (r *Repository) GetByID(ctx context.Context, id string) (Promocode, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+promocodeColumns+`
		FROM promocodes
		WHERE id = $1`, id)
	p, err := scanPromocode(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Promocode{}, shared.ErrNotFound
	}
	if err != nil {
		return Promocode{}, err
	}
	return p, nil
}

func (r *Repository) Deactivate(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE promocodes
		SET is_active = false
		WHERE id = $1 AND is_active = true`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeactivateExpired flips every active code whose expiry has passed.
// The sweep job calls this on a schedule.
func (r *Repository) DeactivateExpired(ctx context.Context, ref time.Time) (int, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE promocodes
		SET is_active = false
		WHERE is_active = true AND expires_at IS NOT NULL AND expires_at <= $1`, ref)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func scanPromocode(row pgx.Row) (Promocode, error) {
	var p Promocode
	err := row.Scan(&p.ID, &p.Code, &p.DiscountPercent, &p.MaxUses, &p.UsedCount, &p.IsActive, &p.ExpiresAt, &p.CreatedBy, &p.CreatedAt)
	return p, err
}
