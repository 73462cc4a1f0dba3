package applications

import (
	"context"
	"errors"
	"testing"

	"github.com/yoldosh/admin-api/internal/platform/httpx"
	"github.com/yoldosh/admin-api/internal/shared"
	_ "github.com/yoldosh/admin-api/testing"
)

type stubRepo struct {
	apps        map[string]*Application
	lastDecider string
}

func (s *stubRepo) List(ctx context.Context, status Status, limit, offset int) ([]Application, int, error) {
	var out []Application
	for _, app := range s.apps {
		if status == "" || app.Status == status {
			out = append(out, *app)
		}
	}
	return out, len(out), nil
}

func (s *stubRepo) GetByUserID(ctx context.Context, userID string) (*Application, error) {
	app, ok := s.apps[userID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return app, nil
}

func (s *stubRepo) UpdateStatus(ctx context.Context, userID string, status Status, adminID string) (*Application, error) {
	app, ok := s.apps[userID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	app.Status = status
	app.DecidedBy = adminID
	s.lastDecider = adminID
	return app, nil
}

var actor = shared.Principal{ID: "admin-1", Role: shared.RoleAdmin}

func TestDecideVerifiesPendingApplication(t *testing.T) {
	repo := &stubRepo{apps: map[string]*Application{
		"u1": {ID: 1, UserID: "u1", Status: StatusPending},
	}}
	svc := NewService(repo, nil)

	app, err := svc.Decide(context.Background(), actor, "u1", StatusVerified)
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if app.Status != StatusVerified {
		t.Fatalf("expected VERIFIED, got %s", app.Status)
	}
	if repo.lastDecider != "admin-1" {
		t.Fatalf("expected deciding admin recorded, got %q", repo.lastDecider)
	}
}

func TestDecideRejectsNonPending(t *testing.T) {
	repo := &stubRepo{apps: map[string]*Application{
		"u1": {ID: 1, UserID: "u1", Status: StatusVerified},
	}}
	svc := NewService(repo, nil)

	if _, err := svc.Decide(context.Background(), actor, "u1", StatusRejected); !errors.Is(err, httpx.ErrConflict) {
		t.Fatalf("expected conflict for already-decided application, got %v", err)
	}
}

func TestDecideRejectsIllegalTargetStatus(t *testing.T) {
	repo := &stubRepo{apps: map[string]*Application{
		"u1": {ID: 1, UserID: "u1", Status: StatusPending},
	}}
	svc := NewService(repo, nil)

	for _, status := range []Status{StatusPending, StatusNotApplied, Status("BOGUS")} {
		if _, err := svc.Decide(context.Background(), actor, "u1", status); !errors.Is(err, httpx.ErrValidation) {
			t.Fatalf("expected validation error for %s, got %v", status, err)
		}
	}
}

func TestDecideUnknownApplication(t *testing.T) {
	svc := NewService(&stubRepo{apps: map[string]*Application{}}, nil)
	if _, err := svc.Decide(context.Background(), actor, "ghost", StatusVerified); !errors.Is(err, shared.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListRejectsUnknownStatusFilter(t *testing.T) {
	svc := NewService(&stubRepo{apps: map[string]*Application{}}, nil)
	if _, _, err := svc.List(context.Background(), Status("WEIRD"), 1, 20); !errors.Is(err, httpx.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
