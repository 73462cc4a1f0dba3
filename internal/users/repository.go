package users

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yoldosh/admin-api/internal/platform/db"
	"github.com/yoldosh/admin-api/internal/shared"
)

const userColumns = `
	u.id, u.phone_number, u.first_name, u.last_name, u.is_driver, u.is_banned,
	u.trips_count, u.rating, u.created_at, u.last_active_at`

// RepositoryPort abstracts rider account persistence.
type RepositoryPort interface {
	List(ctx context.Context, search string, bannedOnly bool, limit, offset int) ([]User, int, error)
	GetByID(ctx context.Context, id string) (User, error)
	Ban(ctx context.Context, userID, reason string, durationInDays *int, bannedBy string) (BanRecord, error)
	Unban(ctx context.Context, userID, liftedBy string) error
	BanHistory(ctx context.Context, userID string) ([]BanRecord, error)
}

// Repository reads and writes rider accounts in Postgres.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

var _ RepositoryPort = (*Repository)(nil)

func (r *Repository) List(ctx context.Context, search string, bannedOnly bool, limit, offset int) ([]User, int, error) {
	where := `WHERE u.deleted_at IS NULL`
	args := []any{limit, offset}
	if bannedOnly {
		where += ` AND u.is_banned = true`
	}
	if search != "" {
		where += ` AND (u.phone_number ILIKE $3 OR u.first_name ILIKE $3 OR u.last_name ILIKE $3)`
		args = append(args, "%"+search+"%")
	}

	var total int
	countArgs := args[2:]
	countWhere := where
	if search != "" {
		countWhere = `WHERE u.deleted_at IS NULL`
		if bannedOnly {
			countWhere += ` AND u.is_banned = true`
		}
		countWhere += ` AND (u.phone_number ILIKE $1 OR u.first_name ILIKE $1 OR u.last_name ILIKE $1)`
	}
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users u `+countWhere, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+userColumns+`
		FROM users u `+where+`
		ORDER BY u.created_at DESC
		LIMIT $1 OFFSET $2`, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]User, 0, limit)
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.PhoneNumber, &u.FirstName, &u.LastName, &u.IsDriver, &u.IsBanned,
			&u.TripsCount, &u.Rating, &u.RegisteredAt, &u.LastActiveAt); err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	return out, total, rows.Err()
}

func (r *Repository) GetByID(ctx context.Context, id string) (User, error) {
	var u User
	err := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`, b.expires_at, COALESCE(b.reason, '')
		FROM users u
		LEFT JOIN user_bans b ON b.user_id = u.id AND b.lifted_at IS NULL
		WHERE u.id = $1 AND u.deleted_at IS NULL`, id,
	).Scan(&u.ID, &u.PhoneNumber, &u.FirstName, &u.LastName, &u.IsDriver, &u.IsBanned,
		&u.TripsCount, &u.Rating, &u.RegisteredAt, &u.LastActiveAt,
		&u.CurrentBanEnds, &u.CurrentBanCause)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, shared.ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	return u, nil
}

// Ban records a ban and flags the account inside one transaction.
func (r *Repository) Ban(ctx context.Context, userID, reason string, durationInDays *int, bannedBy string) (BanRecord, error) {
	rec := BanRecord{
		ID:             uuid.NewString(),
		UserID:         userID,
		Reason:         reason,
		DurationInDays: durationInDays,
		BannedBy:       bannedBy,
		BannedAt:       time.Now().UTC(),
	}
	if durationInDays != nil {
		t := rec.BannedAt.AddDate(0, 0, *durationInDays)
		rec.ExpiresAt = &t
	}
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE users SET is_banned = true
			WHERE id = $1 AND deleted_at IS NULL AND is_banned = false`, userID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return shared.ErrNotFound
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO user_bans (id, user_id, reason, duration_in_days, banned_by, banned_at, expires_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			rec.ID, rec.UserID, rec.Reason, rec.DurationInDays, rec.BannedBy, rec.BannedAt, rec.ExpiresAt)
		return err
	})
	if err != nil {
		return BanRecord{}, err
	}
	return rec, nil
}

// Unban lifts the open ban and clears the account flag.
func (r *Repository) Unban(ctx context.Context, userID, liftedBy string) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE users SET is_banned = false
			WHERE id = $1 AND deleted_at IS NULL AND is_banned = true`, userID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return shared.ErrNotFound
		}
		_, err = tx.Exec(ctx, `
			UPDATE user_bans
			SET lifted_at = now(), lifted_by = $2
			WHERE user_id = $1 AND lifted_at IS NULL`, userID, liftedBy)
		return err
	})
}

func (r *Repository) BanHistory(ctx context.Context, userID string) ([]BanRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, reason, duration_in_days, banned_by, banned_at, expires_at, lifted_at, COALESCE(lifted_by, '')
		FROM user_bans
		WHERE user_id = $1
		ORDER BY banned_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BanRecord
	for rows.Next() {
		var b BanRecord
		if err := rows.Scan(&b.ID, &b.UserID, &b.Reason, &b.DurationInDays, &b.BannedBy, &b.BannedAt, &b.ExpiresAt, &b.LiftedAt, &b.LiftedBy); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
