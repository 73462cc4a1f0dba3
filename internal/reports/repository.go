package reports

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

// RepositoryPort defines persistence operations for user reports.
type RepositoryPort interface {
	List(ctx context.Context, status Status, limit, offset int) ([]Report, int, error)
	Get(ctx context.Context, id string) (*Report, error)
	UpdateStatus(ctx context.Context, id string, status Status) (*Report, error)
	BanByReport(ctx context.Context, reportID string, ban Ban) error
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const reportSelect = `
	SELECT r.id, r.reporting_user_id, r.reported_user_id, COALESCE(r.trip_id::text, ''),
	       r.reason, COALESCE(r.description, ''), r.status, r.created_at,
	       ru.first_name, tu.first_name
	FROM reports r
	JOIN users ru ON ru.id = r.reporting_user_id
	JOIN users tu ON tu.id = r.reported_user_id`

// List returns reports of the given status, newest first.
func (r *Repository) List(ctx context.Context, status Status, limit, offset int) ([]Report, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM reports WHERE status = $1`, string(status)).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		reportSelect+` WHERE r.status = $1 ORDER BY r.created_at DESC LIMIT $2 OFFSET $3`,
		string(status), limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var reports []Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, 0, err
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

// Get fetches one report by ID.
func (r *Repository) Get(ctx context.Context, id string) (*Report, error) {
	row := r.pool.QueryRow(ctx, reportSelect+` WHERE r.id = $1`, id)
	report, err := scanReport(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &report, nil
}

// UpdateStatus moves a report to its reviewed state.
func (r *Repository) UpdateStatus(ctx context.Context, id string, status Status) (*Report, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE reports SET status = $2, updated_at = NOW() WHERE id = $1`,
		id, string(status))
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, shared.ErrNotFound
	}
	return r.Get(ctx, id)
}

// BanByReport records the ban and resolves the report in one transaction,
// so a failed ban never leaves the report marked handled.
func (r *Repository) BanByReport(ctx context.Context, reportID string, ban Ban) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var expiresAt *time.Time
		if ban.DurationInDays != nil {
			t := time.Now().UTC().AddDate(0, 0, *ban.DurationInDays)
			expiresAt = &t
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO user_bans (id, user_id, reason, banned_by, expires_at, created_at)
			 VALUES ($1, $2, $3, $4, $5, NOW())`,
			uuid.NewString(), ban.UserID, ban.Reason, ban.BannedBy, expiresAt); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx,
			`UPDATE users SET is_banned = TRUE, updated_at = NOW() WHERE id = $1`,
			ban.UserID); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx,
			`UPDATE reports SET status = $2, updated_at = NOW() WHERE id = $1`,
			reportID, string(StatusResolved))
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

func scanReport(row pgx.Row) (Report, error) {
	var report Report
	err := row.Scan(&report.ID, &report.ReportingUserID, &report.ReportedUserID,
		&report.TripID, &report.Reason, &report.Description, &report.Status,
		&report.CreatedAt, &report.ReportingUser.FirstName, &report.ReportedUser.FirstName)
	if err != nil {
		return Report{}, err
	}
	report.ReportingUser.ID = report.ReportingUserID
	report.ReportedUser.ID = report.ReportedUserID
	return report, nil
}

var _ RepositoryPort = (*Repository)(nil)
