package trips

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yoldosh/admin-api/internal/shared"
)

// RepositoryPort defines persistence operations for trips.
type RepositoryPort interface {
	List(ctx context.Context, filter Filter, limit, offset int) ([]Trip, int, error)
	Get(ctx context.Context, id string) (*Trip, error)
	Update(ctx context.Context, id string, patch Patch) (*Trip, error)
	Cancel(ctx context.Context, id string) error
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const tripColumns = `t.id, t.driver_id, t.car_id, t.from_village_id, t.to_village_id,
	t.departure_ts, t.seats_available, t.price_per_person, t.max_two_back,
	t.status, COALESCE(t.comment, ''), COALESCE(p.total_paid, 0)`

const tripFrom = ` FROM trips t
	LEFT JOIN (SELECT trip_id, SUM(amount) AS total_paid FROM payments GROUP BY trip_id) p
	ON p.trip_id = t.id`

// List returns trips matching the filter, soonest departure first.
func (r *Repository) List(ctx context.Context, filter Filter, limit, offset int) ([]Trip, int, error) {
	where, args := buildFilter(filter)

	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM trips t`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	rows, err := r.pool.Query(ctx,
		`SELECT `+tripColumns+tripFrom+where+
			fmt.Sprintf(` ORDER BY t.departure_ts DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var trips []Trip
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, 0, err
		}
		trips = append(trips, trip)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return trips, total, nil
}

// Get fetches one trip by ID.
func (r *Repository) Get(ctx context.Context, id string) (*Trip, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+tripColumns+tripFrom+` WHERE t.id = $1`, id)
	trip, err := scanTrip(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &trip, nil
}

// Update applies the non-nil patch fields.
func (r *Repository) Update(ctx context.Context, id string, patch Patch) (*Trip, error) {
	sets := []string{"updated_at = NOW()"}
	args := []any{id}
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.DepartureTS != nil {
		add("departure_ts", *patch.DepartureTS)
	}
	if patch.SeatsAvailable != nil {
		add("seats_available", *patch.SeatsAvailable)
	}
	if patch.PricePerPerson != nil {
		add("price_per_person", *patch.PricePerPerson)
	}
	if patch.MaxTwoBack != nil {
		add("max_two_back", *patch.MaxTwoBack)
	}
	if patch.Comment != nil {
		add("comment", *patch.Comment)
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE trips SET `+strings.Join(sets, ", ")+` WHERE id = $1`, args...)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, shared.ErrNotFound
	}
	return r.Get(ctx, id)
}

// Cancel marks a trip cancelled; the row is kept for history.
func (r *Repository) Cancel(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE trips SET status = $2, updated_at = NOW() WHERE id = $1 AND status <> $2`,
		id, StatusCancelled)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func buildFilter(filter Filter) (string, []any) {
	var clauses []string
	var args []any
	add := func(clause string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}
	if filter.Status != "" {
		add("t.status = $%d", filter.Status)
	}
	if filter.FromVillageID != "" {
		add("t.from_village_id = $%d", filter.FromVillageID)
	}
	if filter.ToVillageID != "" {
		add("t.to_village_id = $%d", filter.ToVillageID)
	}
	if filter.Date != nil {
		add("t.departure_ts::date = $%d::date", *filter.Date)
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func scanTrip(row pgx.Row) (Trip, error) {
	var trip Trip
	err := row.Scan(&trip.ID, &trip.DriverID, &trip.CarID, &trip.FromVillageID,
		&trip.ToVillageID, &trip.DepartureTS, &trip.SeatsAvailable,
		&trip.PricePerPerson, &trip.MaxTwoBack, &trip.Status, &trip.Comment,
		&trip.TotalPricePaid)
	return trip, err
}

var _ RepositoryPort = (*Repository)(nil)
