package reports

import (
	"context"
	"errors"
	"testing"

	"github.com/yoldosh/admin-api/internal/platform/httpx"
	"github.com/yoldosh/admin-api/internal/shared"
	_ "github.com/yoldosh/admin-api/testing"
)

type stubRepo struct {
	reports map[string]*Report
	bans    []Ban
}

func (s *stubRepo) List(ctx context.Context, status Status, limit, offset int) ([]Report, int, error) {
	var out []Report
	for _, r := range s.reports {
		if r.Status == status {
			out = append(out, *r)
		}
	}
	return out, len(out), nil
}

func (s *stubRepo) Get(ctx context.Context, id string) (*Report, error) {
	r, ok := s.reports[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return r, nil
}

func (s *stubRepo) UpdateStatus(ctx context.Context, id string, status Status) (*Report, error) {
	r, ok := s.reports[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	r.Status = status
	return r, nil
}

func (s *stubRepo) BanByReport(ctx context.Context, reportID string, ban Ban) error {
	r, ok := s.reports[reportID]
	if !ok {
		return shared.ErrNotFound
	}
	s.bans = append(s.bans, ban)
	r.Status = StatusResolved
	return nil
}

var actor = shared.Principal{ID: "admin-1", Role: shared.RoleAdmin}

func TestReviewResolvesPendingReport(t *testing.T) {
	repo := &stubRepo{reports: map[string]*Report{
		"r1": {ID: "r1", Status: StatusPending, ReportedUserID: "u2"},
	}}
	svc := NewService(repo, nil)

	report, err := svc.Review(context.Background(), actor, "r1", StatusResolved)
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if report.Status != StatusResolved {
		t.Fatalf("expected RESOLVED, got %s", report.Status)
	}
}

func TestReviewRejectsDoubleHandling(t *testing.T) {
	repo := &stubRepo{reports: map[string]*Report{
		"r1": {ID: "r1", Status: StatusResolved},
	}}
	svc := NewService(repo, nil)

	if _, err := svc.Review(context.Background(), actor, "r1", StatusRejected); !errors.Is(err, httpx.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestBanByReportTargetsReportedUser(t *testing.T) {
	repo := &stubRepo{reports: map[string]*Report{
		"r1": {ID: "r1", Status: StatusPending, ReportingUserID: "u1", ReportedUserID: "u2"},
	}}
	svc := NewService(repo, nil)

	days := 30
	if err := svc.BanByReport(context.Background(), actor, "r1", "harassment", &days); err != nil {
		t.Fatalf("ban: %v", err)
	}
	if len(repo.bans) != 1 {
		t.Fatalf("expected one ban, got %d", len(repo.bans))
	}
	ban := repo.bans[0]
	if ban.UserID != "u2" {
		t.Fatalf("ban must target the reported user, got %s", ban.UserID)
	}
	if ban.BannedBy != "admin-1" {
		t.Fatalf("ban must record the acting admin, got %s", ban.BannedBy)
	}
	if repo.reports["r1"].Status != StatusResolved {
		t.Fatalf("report must be resolved after ban")
	}
}

func TestBanByReportValidation(t *testing.T) {
	repo := &stubRepo{reports: map[string]*Report{
		"r1": {ID: "r1", Status: StatusPending, ReportedUserID: "u2"},
	}}
	svc := NewService(repo, nil)

	if err := svc.BanByReport(context.Background(), actor, "r1", "  ", nil); !errors.Is(err, httpx.ErrValidation) {
		t.Fatalf("expected validation error for empty reason, got %v", err)
	}
	zero := 0
	if err := svc.BanByReport(context.Background(), actor, "r1", "spam", &zero); !errors.Is(err, httpx.ErrValidation) {
		t.Fatalf("expected validation error for zero duration, got %v", err)
	}
	// Nil duration is a permanent ban, not an error.
	if err := svc.BanByReport(context.Background(), actor, "r1", "spam", nil); err != nil {
		t.Fatalf("permanent ban: %v", err)
	}
}

func TestListDefaultsToPending(t *testing.T) {
	repo := &stubRepo{reports: map[string]*Report{
		"r1": {ID: "r1", Status: StatusPending},
		"r2": {ID: "r2", Status: StatusResolved},
	}}
	svc := NewService(repo, nil)

	reports, pagination, err := svc.List(context.Background(), "", 1, 20)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(reports) != 1 || reports[0].ID != "r1" {
		t.Fatalf("expected only the pending report, got %+v", reports)
	}
	if pagination.Total != 1 {
		t.Fatalf("expected total 1, got %d", pagination.Total)
	}
}
