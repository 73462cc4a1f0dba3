package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/yoldosh/admin-api/internal/auth"
	"github.com/yoldosh/admin-api/internal/shared"
	_ "github.com/yoldosh/admin-api/testing"
)

type stubRepo struct {
	admins map[string]*auth.Admin
	perms  map[string]map[string]bool
}

func (s *stubRepo) FindByEmail(ctx context.Context, email string) (*auth.Admin, error) {
	for _, a := range s.admins {
		if a.Email == email {
			return a, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (s *stubRepo) GetByID(ctx context.Context, id string) (*auth.Admin, error) {
	a, ok := s.admins[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return a, nil
}

func (s *stubRepo) Permissions(ctx context.Context, adminID string) (map[string]bool, error) {
	if s.perms == nil {
		return map[string]bool{}, nil
	}
	perms, ok := s.perms[adminID]
	if !ok {
		return map[string]bool{}, nil
	}
	return perms, nil
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return string(hashed)
}

func newService(t *testing.T, repo auth.Repository) (*auth.Service, *auth.TokenStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	tokens := auth.NewTokenStore(client, time.Hour)
	return auth.NewService(repo, tokens), tokens
}

func TestLoginIssuesTokenAndResolvesProfile(t *testing.T) {
	repo := &stubRepo{
		admins: map[string]*auth.Admin{
			"a1": {ID: "a1", Email: "admin@yoldosh.uz", PasswordHash: hashPassword(t, "secret1"), Role: shared.RoleAdmin, IsActive: true},
		},
		perms: map[string]map[string]bool{
			"a1": {shared.PermTrips: true},
		},
	}
	svc, _ := newService(t, repo)

	principal, token, err := svc.Login(context.Background(), auth.ScopeAdmin, "admin@yoldosh.uz", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" {
		t.Fatalf("expected access token")
	}
	if principal.Role != shared.RoleAdmin {
		t.Fatalf("expected Admin role, got %s", principal.Role)
	}

	resolved, err := svc.Profile(context.Background(), auth.ScopeAdmin, token)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if resolved.ID != "a1" {
		t.Fatalf("expected admin a1, got %s", resolved.ID)
	}
	if !resolved.Permissions[shared.PermTrips] {
		t.Fatalf("expected TRIPS permission granted")
	}
	if resolved.Permissions[shared.PermPromocodes] {
		t.Fatalf("expected PROMOCODES permission absent")
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	repo := &stubRepo{
		admins: map[string]*auth.Admin{
			"a1": {ID: "a1", Email: "admin@yoldosh.uz", PasswordHash: hashPassword(t, "secret1"), Role: shared.RoleAdmin, IsActive: true},
			"a2": {ID: "a2", Email: "off@yoldosh.uz", PasswordHash: hashPassword(t, "secret1"), Role: shared.RoleAdmin, IsActive: false},
		},
	}
	svc, _ := newService(t, repo)

	cases := []struct {
		name     string
		scope    auth.Scope
		email    string
		password string
	}{
		{"wrong password", auth.ScopeAdmin, "admin@yoldosh.uz", "nope123"},
		{"unknown email", auth.ScopeAdmin, "ghost@yoldosh.uz", "secret1"},
		{"deactivated account", auth.ScopeAdmin, "off@yoldosh.uz", "secret1"},
		{"admin on super-admin track", auth.ScopeSuperAdmin, "admin@yoldosh.uz", "secret1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := svc.Login(context.Background(), tc.scope, tc.email, tc.password); err != shared.ErrInvalidCredentials {
				t.Fatalf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestLoginSurfacesRepositoryFailure(t *testing.T) {
	// A backend outage must not masquerade as a credential rejection.
	svc, _ := newService(t, &downRepo{})

	_, _, err := svc.Login(context.Background(), auth.ScopeAdmin, "admin@yoldosh.uz", "secret1")
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, shared.ErrInvalidCredentials) {
		t.Fatalf("infrastructure failure reported as ErrInvalidCredentials: %v", err)
	}
}

func TestSuperAdminMayUseAdminTrack(t *testing.T) {
	repo := &stubRepo{
		admins: map[string]*auth.Admin{
			"s1": {ID: "s1", Email: "root@yoldosh.uz", PasswordHash: hashPassword(t, "secret1"), Role: shared.RoleSuperAdmin, IsActive: true},
		},
	}
	svc, _ := newService(t, repo)

	principal, token, err := svc.Login(context.Background(), auth.ScopeAdmin, "root@yoldosh.uz", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" {
		t.Fatalf("expected access token")
	}
	if principal.Permissions != nil {
		t.Fatalf("super-admin principals carry no permission map")
	}
}

func TestLogoutIdempotent(t *testing.T) {
	repo := &stubRepo{
		admins: map[string]*auth.Admin{
			"a1": {ID: "a1", Email: "admin@yoldosh.uz", PasswordHash: hashPassword(t, "secret1"), Role: shared.RoleAdmin, IsActive: true},
		},
	}
	svc, _ := newService(t, repo)

	_, token, err := svc.Login(context.Background(), auth.ScopeAdmin, "admin@yoldosh.uz", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := svc.Logout(context.Background(), auth.ScopeAdmin, token); err != nil {
		t.Fatalf("first logout: %v", err)
	}
	if err := svc.Logout(context.Background(), auth.ScopeAdmin, token); err != nil {
		t.Fatalf("second logout: %v", err)
	}
	if _, err := svc.Profile(context.Background(), auth.ScopeAdmin, token); err != shared.ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized after logout, got %v", err)
	}
}

func TestProfileRejectsDeactivatedAccountMidSession(t *testing.T) {
	admin := &auth.Admin{ID: "a1", Email: "admin@yoldosh.uz", PasswordHash: hashPassword(t, "secret1"), Role: shared.RoleAdmin, IsActive: true}
	repo := &stubRepo{admins: map[string]*auth.Admin{"a1": admin}}
	svc, _ := newService(t, repo)

	_, token, err := svc.Login(context.Background(), auth.ScopeAdmin, "admin@yoldosh.uz", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	admin.IsActive = false
	if _, err := svc.Profile(context.Background(), auth.ScopeAdmin, token); err != shared.ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized for deactivated account, got %v", err)
	}
}

func TestRevokeAllEndsEverySession(t *testing.T) {
	repo := &stubRepo{
		admins: map[string]*auth.Admin{
			"a1": {ID: "a1", Email: "admin@yoldosh.uz", PasswordHash: hashPassword(t, "secret1"), Role: shared.RoleAdmin, IsActive: true},
		},
	}
	svc, _ := newService(t, repo)

	_, t1, err := svc.Login(context.Background(), auth.ScopeAdmin, "admin@yoldosh.uz", "secret1")
	if err != nil {
		t.Fatalf("login 1: %v", err)
	}
	_, t2, err := svc.Login(context.Background(), auth.ScopeAdmin, "admin@yoldosh.uz", "secret1")
	if err != nil {
		t.Fatalf("login 2: %v", err)
	}

	if err := svc.RevokeAll(context.Background(), "a1"); err != nil {
		t.Fatalf("revoke all: %v", err)
	}
	for _, token := range []string{t1, t2} {
		if _, err := svc.Profile(context.Background(), auth.ScopeAdmin, token); err != shared.ErrUnauthorized {
			t.Fatalf("expected ErrUnauthorized after revoke, got %v", err)
		}
	}
}
