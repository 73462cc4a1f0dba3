package users

import (
	"context"
	"strings"

	"github.com/yoldosh/admin-api/internal/platform/httpx"
	"github.com/yoldosh/admin-api/internal/shared"
)

// Service owns rider account administration.
type Service struct {
	repo  RepositoryPort
	audit *shared.AuditLogger
}

func NewService(repo RepositoryPort, audit *shared.AuditLogger) *Service {
	return &Service{repo: repo, audit: audit}
}

func (s *Service) List(ctx context.Context, search string, bannedOnly bool, page, perPage int) ([]User, shared.Pagination, error) {
	p := shared.NewPagination(page, perPage, 0)
	items, total, err := s.repo.List(ctx, strings.TrimSpace(search), bannedOnly, p.PerPage, p.Offset())
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return items, shared.NewPagination(page, perPage, total), nil
}

func (s *Service) Get(ctx context.Context, id string) (User, error) {
	return s.repo.GetByID(ctx, id)
}

// Ban blocks an account. Duration is in days; nil means permanent.
// Banning an already banned account reports not found, mirroring the
// repository's guarded update.
func (s *Service) Ban(ctx context.Context, actor shared.Principal, userID, reason string, durationInDays *int) (BanRecord, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return BanRecord{}, httpx.ErrValidation
	}
	if durationInDays != nil && *durationInDays <= 0 {
		return BanRecord{}, httpx.ErrValidation
	}
	rec, err := s.repo.Ban(ctx, userID, reason, durationInDays, actor.ID)
	if err != nil {
		return BanRecord{}, err
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AdminLog{
			AdminID:  actor.ID,
			Action:   "USER_BANNED",
			Entity:   "user",
			EntityID: userID,
			Details:  map[string]any{"reason": reason},
		})
	}
	return rec, nil
}

func (s *Service) Unban(ctx context.Context, actor shared.Principal, userID string) error {
	if err := s.repo.Unban(ctx, userID, actor.ID); err != nil {
		return err
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AdminLog{
			AdminID:  actor.ID,
			Action:   "USER_UNBANNED",
			Entity:   "user",
			EntityID: userID,
		})
	}
	return nil
}

func (s *Service) BanHistory(ctx context.Context, userID string) ([]BanRecord, error) {
	if _, err := s.repo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.BanHistory(ctx, userID)
}
