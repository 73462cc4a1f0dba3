package moderation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yoldosh/admin-api/internal/platform/httpx"
	"github.com/yoldosh/admin-api/internal/shared"
)

// RepositoryPort abstracts restricted word persistence.
type RepositoryPort interface {
	Add(ctx context.Context, word, addedBy string) (RestrictedWord, error)
	Remove(ctx context.Context, id string) error
	List(ctx context.Context) ([]RestrictedWord, error)
	Words(ctx context.Context) ([]string, error)
}

// Repository stores restricted words in Postgres. Words are persisted
// in folded form so the table itself enforces uniqueness.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

var _ RepositoryPort = (*Repository)(nil)

func (r *Repository) Add(ctx context.Context, word, addedBy string) (RestrictedWord, error) {
	w := RestrictedWord{
		ID:        uuid.NewString(),
		Word:      word,
		AddedBy:   addedBy,
		CreatedAt: time.Now().UTC(),
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO restricted_words (id, word, added_by, created_at)
		VALUES ($1, $2, $3, $4)`,
		w.ID, w.Word, w.AddedBy, w.CreatedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return RestrictedWord{}, httpx.ErrDuplicate
	}
	if err != nil {
		return RestrictedWord{}, err
	}
	return w, nil
}

func (r *Repository) Remove(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM restricted_words WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *Repository) List(ctx context.Context) ([]RestrictedWord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, word, added_by, created_at
		FROM restricted_words
		ORDER BY word`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RestrictedWord
	for rows.Next() {
		var w RestrictedWord
		if err := rows.Scan(&w.ID, &w.Word, &w.AddedBy, &w.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (r *Repository) Words(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT word FROM restricted_words`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}
