package users

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
	users map[string]User
	bans  map[string][]BanRecord
}

func newStubRepo(users ...User) *stubRepo {
	s := &stubRepo{users: map[string]User{}, bans: map[string][]BanRecord{}}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *stubRepo) List(context.Context, string, bool, int, int) ([]User, int, error) {
	out := make([]User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	return out, len(out), nil
}

func (s *stubRepo) GetByID(_ context.Context, id string) (User, error) {
	u, ok := s.users[id]
	if !ok {
		return User{}, shared.ErrNotFound
	}
	return u, nil
}

func (s *stubRepo) Ban(_ context.Context, userID, reason string, durationInDays *int, bannedBy string) (BanRecord, error) {
	u, ok := s.users[userID]
	if !ok || u.IsBanned {
		return BanRecord{}, shared.ErrNotFound
	}
	u.IsBanned = true
	s.users[userID] = u
	rec := BanRecord{ID: "ban-1", UserID: userID, Reason: reason, DurationInDays: durationInDays, BannedBy: bannedBy, BannedAt: time.Now()}
	if durationInDays != nil {
		t := rec.BannedAt.AddDate(0, 0, *durationInDays)
		rec.ExpiresAt = &t
	}
	s.bans[userID] = append(s.bans[userID], rec)
	return rec, nil
}

func (s *stubRepo) Unban(_ context.Context, userID, liftedBy string) error {
	u, ok := s.users[userID]
	if !ok || !u.IsBanned {
		return shared.ErrNotFound
	}
	u.IsBanned = false
	s.users[userID] = u
	now := time.Now()
	for i := range s.bans[userID] {
		if s.bans[userID][i].LiftedAt == nil {
			s.bans[userID][i].LiftedAt = &now
			s.bans[userID][i].LiftedBy = liftedBy
		}
	}
	return nil
}

func (s *stubRepo) BanHistory(_ context.Context, userID string) ([]BanRecord, error) {
	return s.bans[userID], nil
}

var actor = shared.Principal{ID: "admin-1", Role: shared.RoleAdmin}

func TestBanThenUnban(t *testing.T) {
	repo := newStubRepo(User{ID: "u-1", PhoneNumber: "+998901234567"})
	svc := NewService(repo, nil)
	ctx := context.Background()

	days := 7
	rec, err := svc.Ban(ctx, actor, "u-1", "fake trip postings", &days)
	if err != nil {
		t.Fatalf("ban: %v", err)
	}
	if rec.ExpiresAt == nil {
		t.Fatal("timed ban should carry an expiry")
	}
	if u, _ := svc.Get(ctx, "u-1"); !u.IsBanned {
		t.Fatal("user should be flagged banned")
	}

	if err := svc.Unban(ctx, actor, "u-1"); err != nil {
		t.Fatalf("unban: %v", err)
	}
	if u, _ := svc.Get(ctx, "u-1"); u.IsBanned {
		t.Fatal("user should be unbanned")
	}
	history, err := svc.BanHistory(ctx, "u-1")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 || history[0].LiftedAt == nil || history[0].LiftedBy != actor.ID {
		t.Fatalf("history = %+v", history)
	}
}

func TestBanValidation(t *testing.T) {
	svc := NewService(newStubRepo(User{ID: "u-1"}), nil)
	ctx := context.Background()
	zero := 0

	if _, err := svc.Ban(ctx, actor, "u-1", "   ", nil); !errors.Is(err, httpx.ErrValidation) {
		t.Fatalf("blank reason err = %v, want %v", err, httpx.ErrValidation)
	}
	if _, err := svc.Ban(ctx, actor, "u-1", "spam", &zero); !errors.Is(err, httpx.ErrValidation) {
		t.Fatalf("zero duration err = %v, want %v", err, httpx.ErrValidation)
	}
}

func TestBanAlreadyBannedUser(t *testing.T) {
	svc := NewService(newStubRepo(User{ID: "u-1", IsBanned: true}), nil)
	if _, err := svc.Ban(context.Background(), actor, "u-1", "spam", nil); !errors.Is(err, shared.ErrNotFound) {
		t.Fatalf("err = %v, want %v", err, shared.ErrNotFound)
	}
}

func TestPermanentBanHasNoExpiry(t *testing.T) {
	svc := NewService(newStubRepo(User{ID: "u-1"}), nil)
	rec, err := svc.Ban(context.Background(), actor, "u-1", "threats in chat", nil)
	if err != nil {
		t.Fatalf("ban: %v", err)
	}
	if rec.ExpiresAt != nil {
		t.Fatalf("permanent ban should not expire, got %v", rec.ExpiresAt)
	}
}
