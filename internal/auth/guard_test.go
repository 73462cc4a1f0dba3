package auth_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/yoldosh/admin-api/internal/auth"
	"github.com/yoldosh/admin-api/internal/platform/httpx"
	"github.com/yoldosh/admin-api/internal/shared"
)

func markCalled(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestGuardRejectsMissingToken(t *testing.T) {
	repo := &stubRepo{admins: map[string]*auth.Admin{}}
	svc, _ := newService(t, repo)
	guard := auth.Guard{Service: svc}

	called := false
	handler := guard.RequireRole(auth.ScopeAdmin, shared.RoleAdmin)(markCalled(&called))

	req := httptest.NewRequest(http.MethodGet, "/admin/profile", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if called {
		t.Fatalf("protected handler must not run without a credential")
	}
	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.Code)
	}
}

func TestGuardClearsInvalidToken(t *testing.T) {
	// Token resolves in the store but the account no longer exists, the
	// same shape as a stale credential after an admin was deleted.
	repo := &stubRepo{admins: map[string]*auth.Admin{}}
	svc, tokens := newService(t, repo)
	guard := auth.Guard{Service: svc}

	token := auth.GenerateToken()
	if err := tokens.Save(context.Background(), auth.ScopeAdmin, token, "gone"); err != nil {
		t.Fatalf("save token: %v", err)
	}

	called := false
	handler := guard.RequireRole(auth.ScopeAdmin, shared.RoleAdmin)(markCalled(&called))

	req := httptest.NewRequest(http.MethodGet, "/admin/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if called {
		t.Fatalf("protected handler must not run with an invalid credential")
	}
	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.Code)
	}
	if _, err := tokens.Resolve(context.Background(), auth.ScopeAdmin, token); err != shared.ErrUnauthorized {
		t.Fatalf("expected token cleared from store, got %v", err)
	}
}

func TestGuardForbiddenRedirectTargetDependsOnRole(t *testing.T) {
	cases := []struct {
		name     string
		role     shared.Role
		wantHome string
	}{
		{"admin at super-admin route", shared.RoleAdmin, "/admin"},
		{"unknown role at any route", shared.Role("Manager"), "/"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &stubRepo{
				admins: map[string]*auth.Admin{
					"a1": {ID: "a1", Email: "admin@yoldosh.uz", Role: tc.role, IsActive: true},
				},
			}
			svc, tokens := newService(t, repo)
			guard := auth.Guard{Service: svc}

			token := auth.GenerateToken()
			if err := tokens.Save(context.Background(), auth.ScopeSuperAdmin, token, "a1"); err != nil {
				t.Fatalf("save token: %v", err)
			}

			called := false
			handler := guard.RequireRole(auth.ScopeSuperAdmin, shared.RoleSuperAdmin)(markCalled(&called))

			req := httptest.NewRequest(http.MethodGet, "/super-admin/admins", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			res := httptest.NewRecorder()
			handler.ServeHTTP(res, req)

			if called {
				t.Fatalf("protected handler must not run for an under-privileged principal")
			}
			if res.Code != http.StatusForbidden {
				t.Fatalf("expected 403, got %d", res.Code)
			}
			var problem httpx.ProblemDetail
			if err := json.Unmarshal(res.Body.Bytes(), &problem); err != nil {
				t.Fatalf("decode problem: %v", err)
			}
			if problem.Home != tc.wantHome {
				t.Fatalf("expected home %q, got %q", tc.wantHome, problem.Home)
			}
			// The session survives a forbidden decision.
			if _, err := tokens.Resolve(context.Background(), auth.ScopeSuperAdmin, token); err != nil {
				t.Fatalf("expected credential kept, got %v", err)
			}
		})
	}
}

func TestGuardAdmitsSufficientRole(t *testing.T) {
	repo := &stubRepo{
		admins: map[string]*auth.Admin{
			"s1": {ID: "s1", Email: "root@yoldosh.uz", Role: shared.RoleSuperAdmin, IsActive: true},
		},
	}
	svc, tokens := newService(t, repo)
	guard := auth.Guard{Service: svc}

	token := auth.GenerateToken()
	if err := tokens.Save(context.Background(), auth.ScopeAdmin, token, "s1"); err != nil {
		t.Fatalf("save token: %v", err)
	}

	var got shared.Principal
	handler := guard.RequireRole(auth.ScopeAdmin, shared.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = shared.PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin/trips", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if got.ID != "s1" {
		t.Fatalf("expected principal in context, got %+v", got)
	}
}

type downRepo struct{ stubRepo }

func (d *downRepo) GetByID(ctx context.Context, id string) (*auth.Admin, error) {
	return nil, errors.New("dial tcp 127.0.0.1:5432: connection refused")
}

func (d *downRepo) FindByEmail(ctx context.Context, email string) (*auth.Admin, error) {
	return nil, errors.New("dial tcp 127.0.0.1:5432: connection refused")
}

func TestGuardKeepsTokenWhenResolutionUnavailable(t *testing.T) {
	// The credential's validity is unknown while the backend is down, so
	// the guard must not discard it.
	svc, tokens := newService(t, &downRepo{})
	guard := auth.Guard{Service: svc}

	token := auth.GenerateToken()
	if err := tokens.Save(context.Background(), auth.ScopeAdmin, token, "a1"); err != nil {
		t.Fatalf("save token: %v", err)
	}

	called := false
	handler := guard.RequireRole(auth.ScopeAdmin, shared.RoleAdmin)(markCalled(&called))

	req := httptest.NewRequest(http.MethodGet, "/admin/trips", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if called {
		t.Fatalf("protected handler must not run on a resolution failure")
	}
	if res.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", res.Code)
	}
	if _, err := tokens.Resolve(context.Background(), auth.ScopeAdmin, token); err != nil {
		t.Fatalf("expected credential kept, got %v", err)
	}
}

func TestRequirePermissionGatesAdmins(t *testing.T) {
	repo := &stubRepo{admins: map[string]*auth.Admin{}}
	svc, _ := newService(t, repo)
	guard := auth.Guard{Service: svc}

	run := func(p shared.Principal, permission string) int {
		called := false
		handler := guard.RequirePermission(permission)(markCalled(&called))
		req := httptest.NewRequest(http.MethodGet, "/admin/reports", nil)
		req = req.WithContext(shared.ContextWithPrincipal(req.Context(), p))
		res := httptest.NewRecorder()
		handler.ServeHTTP(res, req)
		return res.Code
	}

	admin := shared.Principal{ID: "a1", Role: shared.RoleAdmin, Permissions: map[string]bool{shared.PermReports: true}}
	if code := run(admin, shared.PermReports); code != http.StatusOK {
		t.Fatalf("granted permission: expected 200, got %d", code)
	}
	if code := run(admin, shared.PermTrips); code != http.StatusForbidden {
		t.Fatalf("missing permission: expected 403, got %d", code)
	}

	super := shared.Principal{ID: "s1", Role: shared.RoleSuperAdmin}
	if code := run(super, shared.PermTrips); code != http.StatusOK {
		t.Fatalf("super-admin bypass: expected 200, got %d", code)
	}
}
