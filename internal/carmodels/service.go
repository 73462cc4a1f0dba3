package carmodels

import (
	"context"
	"strings"
	"time"

	"github.com/yoldosh/admin-api/internal/platform/httpx"
	"github.com/yoldosh/admin-api/internal/shared"
)

// Service owns the car model catalog.
type Service struct {
	repo  RepositoryPort
	audit *shared.AuditLogger
}

func NewService(repo RepositoryPort, audit *shared.AuditLogger) *Service {
	return &Service{repo: repo, audit: audit}
}

func (s *Service) Create(ctx context.Context, actor shared.Principal, brand, model string, year *int) (CarModel, error) {
	brand, model = strings.TrimSpace(brand), strings.TrimSpace(model)
	if err := validateModel(brand, model, year); err != nil {
		return CarModel{}, err
	}
	cm, err := s.repo.Create(ctx, brand, model, year)
	if err != nil {
		return CarModel{}, err
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AdminLog{
			AdminID:  actor.ID,
			Action:   "CAR_MODEL_CREATED",
			Entity:   "car_model",
			EntityID: cm.ID,
			Details:  map[string]any{"label": brand + " " + model},
		})
	}
	return cm, nil
}

func (s *Service) List(ctx context.Context, search string, page, perPage int) ([]CarModel, shared.Pagination, error) {
	p := shared.NewPagination(page, perPage, 0)
	items, total, err := s.repo.List(ctx, strings.TrimSpace(search), p.PerPage, p.Offset())
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return items, shared.NewPagination(page, perPage, total), nil
}

func (s *Service) Get(ctx context.Context, id string) (CarModel, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, actor shared.Principal, id, brand, model string, year *int) (CarModel, error) {
	brand, model = strings.TrimSpace(brand), strings.TrimSpace(model)
	if err := validateModel(brand, model, year); err != nil {
		return CarModel{}, err
	}
	cm, err := s.repo.Update(ctx, id, brand, model, year)
	if err != nil {
		return CarModel{}, err
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AdminLog{
			AdminID:  actor.ID,
			Action:   "CAR_MODEL_UPDATED",
			Entity:   "car_model",
			EntityID: cm.ID,
			Details:  map[string]any{"label": brand + " " + model},
		})
	}
	return cm, nil
}

func (s *Service) Delete(ctx context.Context, actor shared.Principal, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AdminLog{
			AdminID:  actor.ID,
			Action:   "CAR_MODEL_DELETED",
			Entity:   "car_model",
			EntityID: id,
		})
	}
	return nil
}

func validateModel(brand, model string, year *int) error {
	if brand == "" || model == "" {
		return httpx.ErrValidation
	}
	if year != nil && (*year < 1980 || *year > time.Now().Year()+1) {
		return httpx.ErrValidation
	}
	return nil
}
