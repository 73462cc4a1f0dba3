package applications

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yoldosh/admin-api/internal/shared"
)

// RepositoryPort defines persistence operations for driver applications.
type RepositoryPort interface {
	List(ctx context.Context, status Status, limit, offset int) ([]Application, int, error)
	GetByUserID(ctx context.Context, userID string) (*Application, error)
	UpdateStatus(ctx context.Context, userID string, status Status, adminID string) (*Application, error)
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns applications with their applicant summaries, newest first.
// An empty status matches everything.
func (r *Repository) List(ctx context.Context, status Status, limit, offset int) ([]Application, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM driver_applications
		 WHERE ($1 = '' OR status = $1)`, string(status)).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT a.id, a.user_id, a.status, a.passport_link, a.car_passport_link,
		        COALESCE(a.decided_by, ''), a.created_at, a.updated_at,
		        u.id, u.first_name, u.last_name, u.phone
		 FROM driver_applications a
		 JOIN users u ON u.id = a.user_id
		 WHERE ($1 = '' OR a.status = $1)
		 ORDER BY a.created_at DESC
		 LIMIT $2 OFFSET $3`,
		string(status), limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var apps []Application
	for rows.Next() {
		var app Application
		var user Applicant
		if err := rows.Scan(&app.ID, &app.UserID, &app.Status, &app.PassportLink,
			&app.CarPassportLink, &app.DecidedBy, &app.CreatedAt, &app.UpdatedAt,
			&user.ID, &user.FirstName, &user.LastName, &user.Phone); err != nil {
			return nil, 0, err
		}
		app.User = &user
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return apps, total, nil
}

// GetByUserID fetches the application belonging to a user.
func (r *Repository) GetByUserID(ctx context.Context, userID string) (*Application, error) {
	var app Application
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, status, passport_link, car_passport_link,
		        COALESCE(decided_by, ''), created_at, updated_at
		 FROM driver_applications WHERE user_id = $1`, userID).
		Scan(&app.ID, &app.UserID, &app.Status, &app.PassportLink,
			&app.CarPassportLink, &app.DecidedBy, &app.CreatedAt, &app.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &app, nil
}

// UpdateStatus applies a decision and records the deciding admin.
func (r *Repository) UpdateStatus(ctx context.Context, userID string, status Status, adminID string) (*Application, error) {
	var app Application
	err := r.pool.QueryRow(ctx,
		`UPDATE driver_applications
		 SET status = $2, decided_by = $3, updated_at = NOW()
		 WHERE user_id = $1
		 RETURNING id, user_id, status, passport_link, car_passport_link,
		           COALESCE(decided_by, ''), created_at, updated_at`,
		userID, string(status), adminID).
		Scan(&app.ID, &app.UserID, &app.Status, &app.PassportLink,
			&app.CarPassportLink, &app.DecidedBy, &app.CreatedAt, &app.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &app, nil
}

var _ RepositoryPort = (*Repository)(nil)
