package notifications

import (
	"context"
	"strings"

	"github.com/yoldosh/admin-api/internal/platform/httpx"
	"github.com/yoldosh/admin-api/internal/shared"
)

// Enqueuer schedules the asynchronous fan-out of a stored notification.
type Enqueuer interface {
	EnqueueNotificationFanout(ctx context.Context, notificationID string) error
}

// Service owns global notification workflows.
type Service struct {
	repo  RepositoryPort
	queue Enqueuer
	audit *shared.AuditLogger
}

func NewService(repo RepositoryPort, queue Enqueuer, audit *shared.AuditLogger) *Service {
	return &Service{repo: repo, queue: queue, audit: audit}
}

// Create stores a global notification and queues its delivery. The record
// is kept even if enqueueing fails so the dispatch can be retried.
func (s *Service) Create(ctx context.Context, actor shared.Principal, content string, typ Type) (Notification, error) {
	content = strings.TrimSpace(content)
	if content == "" || !typ.Valid() {
		return Notification{}, httpx.ErrValidation
	}
	n, err := s.repo.Create(ctx, content, typ, actor.ID)
	if err != nil {
		return Notification{}, err
	}
	if s.queue != nil {
		if err := s.queue.EnqueueNotificationFanout(ctx, n.ID); err != nil {
			return Notification{}, err
		}
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AdminLog{
			AdminID:  actor.ID,
			Action:   "NOTIFICATION_SENT",
			Entity:   "notification",
			EntityID: n.ID,
			Details:  map[string]any{"type": string(typ)},
		})
	}
	return n, nil
}

func (s *Service) List(ctx context.Context, page, perPage int) ([]Notification, shared.Pagination, error) {
	p := shared.NewPagination(page, perPage, 0)
	items, total, err := s.repo.List(ctx, p.PerPage, p.Offset())
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return items, shared.NewPagination(page, perPage, total), nil
}

func (s *Service) Get(ctx context.Context, id string) (Notification, error) {
	return s.repo.GetByID(ctx, id)
}
