package promocodes

import (
	"context"
	"strings"
	"time"

	"github.com/yoldosh/admin-api/internal/platform/httpx"
	"github.com/yoldosh/admin-api/internal/shared"
)

// Service owns promocode lifecycle.
type Service struct {
	repo  RepositoryPort
	audit *shared.AuditLogger
}

func NewService(repo RepositoryPort, audit *shared.AuditLogger) *Service {
	return &Service{repo: repo, audit: audit}
}

// Create registers a new code. Codes are stored uppercase so redemption
// is case-insensitive.
func (s *Service) Create(ctx context.Context, actor shared.Principal, code string, discountPercent, maxUses int, expiresAt *time.Time) (Promocode, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" || discountPercent < 1 || discountPercent > 100 || maxUses < 0 {
		return Promocode{}, httpx.ErrValidation
	}
	if expiresAt != nil && expiresAt.Before(time.Now()) {
		return Promocode{}, httpx.ErrValidation
	}
	p, err := s.repo.Create(ctx, Promocode{
		Code:            code,
		DiscountPercent: discountPercent,
		MaxUses:         maxUses,
		ExpiresAt:       expiresAt,
		CreatedBy:       actor.ID,
	})
	if err != nil {
		return Promocode{}, err
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AdminLog{
			AdminID:  actor.ID,
			Action:   "PROMOCODE_CREATED",
			Entity:   "promocode",
			EntityID: p.ID,
			Details:  map[string]any{"code": code, "discountPercent": discountPercent},
		})
	}
	return p, nil
}

func (s *Service) List(ctx context.Context, activeOnly bool, page, perPage int) ([]Promocode, shared.Pagination, error) {
	p := shared.NewPagination(page, perPage, 0)
	items, total, err := s.repo.List(ctx, activeOnly, p.PerPage, p.Offset())
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return items, shared.NewPagination(page, perPage, total), nil
}

func (s *Service) Get(ctx context.Context, id string) (Promocode, error) {
	return s.repo.GetByID(ctx, id)
}

// Deactivate retires a code. Deactivating an already inactive or missing
// code reports not found.
func (s *Service) Deactivate(ctx context.Context, actor shared.Principal, id string) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return err
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AdminLog{
			AdminID:  actor.ID,
			Action:   "PROMOCODE_DEACTIVATED",
			Entity:   "promocode",
			EntityID: id,
		})
	}
	return nil
}

// SweepExpired deactivates codes past their expiry and returns how many
// were flipped.
func (s *Service) SweepExpired(ctx context.Context) (int, error) {
	return s.repo.DeactivateExpired(ctx, time.Now().UTC())
}
