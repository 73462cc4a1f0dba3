package trips

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yoldosh/admin-api/internal/platform/httpx"
	"github.com/yoldosh/admin-api/internal/shared"
	_ "github.com/yoldosh/admin-api/testing"
)

type stubRepo struct {
	trips     map[string]*Trip
	lastPatch Patch
}

func (s *stubRepo) List(ctx context.Context, filter Filter, limit, offset int) ([]Trip, int, error) {
	var out []Trip
	for _, t := range s.trips {
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		out = append(out, *t)
	}
	return out, len(out), nil
}

func (s *stubRepo) Get(ctx context.Context, id string) (*Trip, error) {
	t, ok := s.trips[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return t, nil
}

func (s *stubRepo) Update(ctx context.Context, id string, patch Patch) (*Trip, error) {
	t, ok := s.trips[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	s.lastPatch = patch
	if patch.SeatsAvailable != nil {
		t.SeatsAvailable = *patch.SeatsAvailable
	}
	if patch.PricePerPerson != nil {
		t.PricePerPerson = *patch.PricePerPerson
	}
	return t, nil
}

func (s *stubRepo) Cancel(ctx context.Context, id string) error {
	t, ok := s.trips[id]
	if !ok || t.Status == StatusCancelled {
		return shared.ErrNotFound
	}
	t.Status = StatusCancelled
	return nil
}

var actor = shared.Principal{ID: "admin-1", Role: shared.RoleAdmin}

func intPtr(v int) *int { return &v }

func TestUpdateAppliesPatch(t *testing.T) {
	repo := &stubRepo{trips: map[string]*Trip{
		"t1": {ID: "t1", Status: StatusScheduled, SeatsAvailable: 4, PricePerPerson: 50000},
	}}
	svc := NewService(repo, nil)

	trip, err := svc.Update(context.Background(), actor, "t1", Patch{SeatsAvailable: intPtr(3)})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if trip.SeatsAvailable != 3 {
		t.Fatalf("expected 3 seats, got %d", trip.SeatsAvailable)
	}
}

func TestUpdateValidation(t *testing.T) {
	repo := &stubRepo{trips: map[string]*Trip{
		"t1": {ID: "t1", Status: StatusScheduled, SeatsAvailable: 4},
	}}
	svc := NewService(repo, nil)

	cases := []struct {
		name  string
		patch Patch
	}{
		{"empty patch", Patch{}},
		{"zero seats", Patch{SeatsAvailable: intPtr(0)}},
		{"too many seats", Patch{SeatsAvailable: intPtr(9)}},
		{"free ride", Patch{PricePerPerson: intPtr(0)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Update(context.Background(), actor, "t1", tc.patch); !errors.Is(err, httpx.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestUpdateRejectsImmutableTrips(t *testing.T) {
	now := time.Now()
	repo := &stubRepo{trips: map[string]*Trip{
		"done":      {ID: "done", Status: StatusFinished, DepartureTS: now},
		"cancelled": {ID: "cancelled", Status: StatusCancelled, DepartureTS: now},
	}}
	svc := NewService(repo, nil)

	for _, id := range []string{"done", "cancelled"} {
		if _, err := svc.Update(context.Background(), actor, id, Patch{SeatsAvailable: intPtr(2)}); !errors.Is(err, httpx.ErrConflict) {
			t.Fatalf("expected conflict for %s trip, got %v", id, err)
		}
	}
}

func TestCancel(t *testing.T) {
	repo := &stubRepo{trips: map[string]*Trip{
		"t1": {ID: "t1", Status: StatusScheduled},
	}}
	svc := NewService(repo, nil)

	if err := svc.Cancel(context.Background(), actor, "t1"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if repo.trips["t1"].Status != StatusCancelled {
		t.Fatalf("expected CANCELLED, got %s", repo.trips["t1"].Status)
	}
	// Cancelling twice reports not found, matching a deleted resource.
	if err := svc.Cancel(context.Background(), actor, "t1"); !errors.Is(err, shared.ErrNotFound) {
		t.Fatalf("expected not found on second cancel, got %v", err)
	}
}
