package applications

import (
	"context"
	"fmt"

	"github.com/yoldosh/admin-api/internal/platform/httpx"
	"github.com/yoldosh/admin-api/internal/shared"
)

// Service handles driver application review rules.
type Service struct {
	repo  RepositoryPort
	audit *shared.AuditLogger
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, audit *shared.AuditLogger) *Service {
	return &Service{repo: repo, audit: audit}
}

// List returns a page of applications filtered by status.
func (s *Service) List(ctx context.Context, status Status, page, perPage int) ([]Application, shared.Pagination, error) {
	if status != "" && !status.Valid() {
		return nil, shared.Pagination{}, fmt.Errorf("%w: unknown status %q", httpx.ErrValidation, status)
	}
	p := shared.NewPagination(page, perPage, 0)
	apps, total, err := s.repo.List(ctx, status, p.PerPage, p.Offset())
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return apps, shared.NewPagination(p.Page, p.PerPage, total), nil
}

// Decide resolves a pending application. Only PENDING applications can be
// verified or rejected; the deciding admin is recorded and the decision
// lands in the action log.
func (s *Service) Decide(ctx context.Context, actor shared.Principal, userID string, status Status) (*Application, error) {
	if !status.Decidable() {
		return nil, fmt.Errorf("%w: status must be VERIFIED or REJECTED", httpx.ErrValidation)
	}

	current, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if current.Status != StatusPending {
		return nil, fmt.Errorf("%w: application is %s, only PENDING can be decided", httpx.ErrConflict, current.Status)
	}

	app, err := s.repo.UpdateStatus(ctx, userID, status, actor.ID)
	if err != nil {
		return nil, err
	}

	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AdminLog{
			AdminID:  actor.ID,
			Action:   "APPLICATION_" + string(status),
			Entity:   "driver_application",
			EntityID: userID,
		})
	}
	return app, nil
}
