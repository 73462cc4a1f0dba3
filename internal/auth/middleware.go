package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/yoldosh/admin-api/internal/platform/httpx"
	"github.com/yoldosh/admin-api/internal/shared"
)

// Guard gates protected routes. Per request it runs the decision
// procedure: no credential -> 401 untouched; credential that fails to
// resolve -> cleared once, 401; resolved principal below the required
// role -> 403 carrying the principal's own home route; otherwise the
// request proceeds with the principal in context. Protected handlers
// never run before a decision is reached.
type Guard struct {
	Service *Service
	Logger  *slog.Logger
}

// RequireRole admits requests whose principal satisfies the required role
// on the given track.
func (g Guard) RequireRole(scope Scope, required shared.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "missing credential")
				return
			}

			principal, err := g.Service.Profile(r.Context(), scope, token)
			if err != nil {
				if errors.Is(err, shared.ErrUnauthorized) {
					// Invalid credential: clear it exactly once. Retrying
					// resolution cannot make it valid again.
					if clearErr := g.Service.DiscardCredential(r.Context(), scope, token); clearErr != nil && g.Logger != nil {
						g.Logger.Warn("discard credential", slog.Any("error", clearErr))
					}
					httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid or expired credential")
					return
				}
				// Infrastructure failure: the credential is not cleared,
				// since its validity is unknown.
				if g.Logger != nil {
					g.Logger.Error("resolve profile", slog.Any("error", err))
				}
				httpx.Problem(w, http.StatusServiceUnavailable, "Unavailable", "profile resolution failed")
				return
			}

			if !principal.Role.Satisfies(required) {
				httpx.ProblemWithHome(w, http.StatusForbidden, "Forbidden",
					"insufficient role", principal.Role.HomeRoute())
				return
			}

			ctx := shared.ContextWithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequirePermission admits requests whose principal holds the named
// feature-area permission. Must run after RequireRole. SuperAdmin always
// passes; for Admin, absent permissions read as false.
func (g Guard) RequirePermission(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := shared.PrincipalFromContext(r.Context())
			if !ok {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "missing credential")
				return
			}
			if !principal.Allowed(permission) {
				httpx.Problem(w, http.StatusForbidden, "Forbidden", "permission "+permission+" not granted")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// BearerToken extracts the bearer credential from the Authorization header.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
