package carmodels

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

const carModelColumns = `id, brand, model, year, created_at, updated_at`

// RepositoryPort abstracts car model persistence.
type RepositoryPort interface {
	Create(ctx context.Context, brand, model string, year *int) (CarModel, error)
	List(ctx context.Context, search string, limit, offset int) ([]CarModel, int, error)
	GetByID(ctx context.Context, id string) (CarModel, error)
	Update(ctx context.Context, id, brand, model string, year *int) (CarModel, error)
	Delete(ctx context.Context, id string) error
}

// Repository stores the car model catalog in Postgres.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

var _ RepositoryPort = (*Repository)(nil)

func (r *Repository) Create(ctx context.Context, brand, model string, year *int) (CarModel, error) {
	now := time.Now().UTC()
	cm := CarModel{ID: uuid.NewString(), Brand: brand, Model: model, Year: year, CreatedAt: now, UpdatedAt: now}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO car_models (id, brand, model, year, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)`,
		cm.ID, cm.Brand, cm.Model, cm.Year, now,
	)
	if isUniqueViolation(err) {
		return CarModel{}, httpx.ErrDuplicate
	}
	if err != nil {
		return CarModel{}, err
	}
	return cm, nil
}

func (r *Repository) List(ctx context.Context, search string, limit, offset int) ([]CarModel, int, error) {
	where, countWhere := ``, ``
	args := []any{limit, offset}
	var countArgs []any
	if search != "" {
		where = `WHERE brand ILIKE $3 OR model ILIKE $3`
		countWhere = `WHERE brand ILIKE $1 OR model ILIKE $1`
		args = append(args, "%"+search+"%")
		countArgs = append(countArgs, "%"+search+"%")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM car_models `+countWhere, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+carModelColumns+`
		FROM car_models `+where+`
		ORDER BY brand, model
		LIMIT $1 OFFSET $2`, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]CarModel, 0, limit)
	for rows.Next() {
		var cm CarModel
		if err := rows.Scan(&cm.ID, &cm.Brand, &cm.Model, &cm.Year, &cm.CreatedAt, &cm.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, cm)
	}
	return out, total, rows.Err()
}

func (r *Repository) GetByID(ctx context.Context, id string) (CarModel, error) {
	var cm CarModel
	err := r.pool.QueryRow(ctx, `
		SELECT `+carModelColumns+`
		FROM car_models
		WHERE id = $1`, id,
	).Scan(&cm.ID, &cm.Brand, &cm.Model, &cm.Year, &cm.CreatedAt, &cm.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return CarModel{}, shared.ErrNotFound
	}
	if err != nil {
		return CarModel{}, err
	}
	return cm, nil
}

func (r *Repository) Update(ctx context.Context, id, brand, model string, year *int) (CarModel, error) {
	var cm CarModel
	err := r.pool.QueryRow(ctx, `
		UPDATE car_models
		SET brand = $2, model = $3, year = $4, updated_at = now()
		WHERE id = $1
		RETURNING `+carModelColumns, id, brand, model, year,
	).Scan(&cm.ID, &cm.Brand, &cm.Model, &cm.Year, &cm.CreatedAt, &cm.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return CarModel{}, shared.ErrNotFound
	}
	if isUniqueViolation(err) {
		return CarModel{}, httpx.ErrDuplicate
	}
	if err != nil {
		return CarModel{}, err
	}
	return cm, nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM car_models WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
