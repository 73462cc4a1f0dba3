package notifications

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yoldosh/admin-api/internal/shared"
)

const notificationColumns = `id, content, type, status, recipients, created_by, created_at`

// RepositoryPort abstracts notification persistence.
type RepositoryPort interface {
	Create(ctx context.Context, content string, typ Type, createdBy string) (Notification, error)
	List(ctx context.Context, limit, offset int) ([]Notification, int, error)
	GetByID(ctx context.Context, id string) (Notification, error)
	MarkDispatched(ctx context.Context, id string, recipients int) error
	ActiveDeviceTokens(ctx context.Context) ([]string, error)
}

// Repository stores notifications in Postgres.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

var _ RepositoryPort = (*Repository)(nil)

func (r *Repository) Create(ctx context.Context, content string, typ Type, createdBy string) (Notification, error) {
	n := Notification{
		ID:        uuid.NewString(),
		Content:   content,
		Type:      typ,
		Status:    StatusQueued,
		CreatedBy: createdBy,
		CreatedAt: time.Now().UTC(),
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO notifications (id, content, type, status, recipients, created_by, created_at)
		VALUES ($1, $2, $3, $4, 0, $5, $6)`,
		n.ID, n.Content, n.Type, n.Status, n.CreatedBy, n.CreatedAt,
	)
	if err != nil {
		return Notification{}, err
	}
	return n, nil
}

func (r *Repository) List(ctx context.Context, limit, offset int) ([]Notification, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM notifications`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+notificationColumns+`
		FROM notifications
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]Notification, 0, limit)
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.Content, &n.Type, &n.Status, &n.Recipients, &n.CreatedBy, &n.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, n)
	}
	return out, total, rows.Err()
}

func (r *Repository) GetByID(ctx context.Context, id string) (Notification, error) {
	var n Notification
	err := r.pool.QueryRow(ctx, `
		SELECT `+notificationColumns+`
		FROM notifications
		WHERE id = $1`, id,
	).Scan(&n.ID, &n.Content, &n.Type, &n.Status, &n.Recipients, &n.CreatedBy, &n.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Notification{}, shared.ErrNotFound
	}
	if err != nil {
		return Notification{}, err
	}
	return n, nil
}

func (r *Repository) MarkDispatched(ctx context.Context, id string, recipients int) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE notifications
		SET status = $2, recipients = $3
		WHERE id = $1`, id, StatusDispatched, recipients)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ActiveDeviceTokens returns push tokens of users that are neither banned
// nor deleted. Consumed by the fan-out worker.
func (r *Repository) ActiveDeviceTokens(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT device_token
		FROM users
		WHERE is_banned = false
		  AND deleted_at IS NULL
		  AND device_token IS NOT NULL
		  AND device_token <> ''`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}
