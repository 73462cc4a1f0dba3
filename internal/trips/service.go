package trips

import (
	"context"
	"fmt"

	"github.com/yoldosh/admin-api/internal/platform/httpx"
	"github.com/yoldosh/admin-api/internal/shared"
)

const maxSeats = 8

// Service handles trip administration rules.
type Service struct {
	repo  RepositoryPort
	audit *shared.AuditLogger
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, audit *shared.AuditLogger) *Service {
	return &Service{repo: repo, audit: audit}
}

// List returns a page of trips matching the filter.
func (s *Service) List(ctx context.Context, filter Filter, page, perPage int) ([]Trip, shared.Pagination, error) {
	p := shared.NewPagination(page, perPage, 0)
	trips, total, err := s.repo.List(ctx, filter, p.PerPage, p.Offset())
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return trips, shared.NewPagination(p.Page, p.PerPage, total), nil
}

// Get fetches trip details.
func (s *Service) Get(ctx context.Context, id string) (*Trip, error) {
	return s.repo.Get(ctx, id)
}

// Update applies an admin edit to a trip. Finished or cancelled trips are
// immutable.
func (s *Service) Update(ctx context.Context, actor shared.Principal, id string, patch Patch) (*Trip, error) {
	if patch.Empty() {
		return nil, fmt.Errorf("%w: no fields to update", httpx.ErrValidation)
	}
	if patch.SeatsAvailable != nil && (*patch.SeatsAvailable < 1 || *patch.SeatsAvailable > maxSeats) {
		return nil, fmt.Errorf("%w: seats_available must be between 1 and %d", httpx.ErrValidation, maxSeats)
	}
	if patch.PricePerPerson != nil && *patch.PricePerPerson <= 0 {
		return nil, fmt.Errorf("%w: price_per_person must be positive", httpx.ErrValidation)
	}

	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == StatusFinished || current.Status == StatusCancelled {
		return nil, fmt.Errorf("%w: %s trips cannot be edited", httpx.ErrConflict, current.Status)
	}

	trip, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AdminLog{
			AdminID:  actor.ID,
			Action:   "TRIP_UPDATED",
			Entity:   "trip",
			EntityID: id,
		})
	}
	return trip, nil
}

// Cancel removes a trip from the schedule, keeping the record.
func (s *Service) Cancel(ctx context.Context, actor shared.Principal, id string) error {
	if err := s.repo.Cancel(ctx, id); err != nil {
		return err
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AdminLog{
			AdminID:  actor.ID,
			Action:   "TRIP_CANCELLED",
			Entity:   "trip",
			EntityID: id,
		})
	}
	return nil
}
