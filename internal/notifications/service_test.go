package notifications

import (
	"context"
	"errors"
	"testing"

	"github.com/yoldosh/admin-api/internal/platform/httpx"
	"github.com/yoldosh/admin-api/internal/shared"
	_ "github.com/yoldosh/admin-api/testing"
)

type stubRepo struct {
	created []Notification
}

func (s *stubRepo) Create(_ context.Context, content string, typ Type, createdBy string) (Notification, error) {
	n := Notification{ID: "n-1", Content: content, Type: typ, Status: StatusQueued, CreatedBy: createdBy}
	s.created = append(s.created, n)
	return n, nil
}

func (s *stubRepo) List(context.Context, int, int) ([]Notification, int, error) {
	return s.created, len(s.created), nil
}

func (s *stubRepo) GetByID(context.Context, string) (Notification, error) {
	return Notification{}, shared.ErrNotFound
}

func (s *stubRepo) MarkDispatched(context.Context, string, int) error { return nil }

func (s *stubRepo) ActiveDeviceTokens(context.Context) ([]string, error) { return nil, nil }

type stubQueue struct {
	enqueued []string
	err      error
}

func (s *stubQueue) EnqueueNotificationFanout(_ context.Context, id string) error {
	if s.err != nil {
		return s.err
	}
	s.enqueued = append(s.enqueued, id)
	return nil
}

func TestCreateQueuesFanout(t *testing.T) {
	repo := &stubRepo{}
	queue := &stubQueue{}
	svc := NewService(repo, queue, nil)
	actor := shared.Principal{ID: "admin-1", Role: shared.RoleAdmin}

	n, err := svc.Create(context.Background(), actor, "  service window tonight  ", TypeGeneral)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if n.Content != "service window tonight" {
		t.Fatalf("content not trimmed: %q", n.Content)
	}
	if n.Status != StatusQueued {
		t.Fatalf("status = %q, want %q", n.Status, StatusQueued)
	}
	if len(queue.enqueued) != 1 || queue.enqueued[0] != n.ID {
		t.Fatalf("fan-out not enqueued for %s: %v", n.ID, queue.enqueued)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(&stubRepo{}, &stubQueue{}, nil)
	actor := shared.Principal{ID: "admin-1", Role: shared.RoleAdmin}

	cases := []struct {
		name    string
		content string
		typ     Type
	}{
		{"blank content", "   ", TypeGeneral},
		{"unknown type", "hello", Type("URGENT")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(context.Background(), actor, tc.content, tc.typ); !errors.Is(err, httpx.ErrValidation) {
				t.Fatalf("err = %v, want %v", err, httpx.ErrValidation)
			}
		})
	}
}

func TestCreateSurfacesEnqueueFailure(t *testing.T) {
	repo := &stubRepo{}
	queue := &stubQueue{err: errors.New("broker down")}
	svc := NewService(repo, queue, nil)
	actor := shared.Principal{ID: "admin-1", Role: shared.RoleAdmin}

	if _, err := svc.Create(context.Background(), actor, "hi", TypeChat); err == nil {
		t.Fatal("expected enqueue failure to surface")
	}
	if len(repo.created) != 1 {
		t.Fatalf("record should be kept for retry, got %d rows", len(repo.created))
	}
}
