package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/yoldosh/admin-api/internal/platform/httpx"
	"github.com/yoldosh/admin-api/internal/shared"
)

// Handler wires HTTP endpoints for both authentication tracks.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	audit     *shared.AuditLogger
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, audit *shared.AuditLogger) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		audit:     audit,
		validator: validator.New(),
	}
}

// MountRoutes registers login/logout/profile for one track. The profile
// route is guarded by the track's own role requirement.
func (h *Handler) MountRoutes(r chi.Router, scope Scope, guard Guard) {
	r.Post("/login", h.handleLogin(scope))
	r.Post("/logout", h.handleLogout(scope))
	r.Group(func(r chi.Router) {
		r.Use(guard.RequireRole(scope, scope.RequiredRole()))
		r.Get("/profile", h.handleProfile)
	})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginResponse struct {
	Admin       shared.Principal `json:"admin"`
	AccessToken string           `json:"accessToken"`
}

func (h *Handler) handleLogin(scope Scope) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
			return
		}
		if err := h.validator.Struct(req); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
			return
		}

		principal, token, err := h.service.Login(r.Context(), scope, req.Email, req.Password)
		if err != nil {
			if errors.Is(err, shared.ErrInvalidCredentials) {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid email or password")
				return
			}
			h.logger.Error("login", slog.Any("error", err))
			httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
			return
		}

		if h.audit != nil {
			if err := h.audit.Record(r.Context(), shared.AdminLog{
				AdminID: principal.ID,
				Action:  "LOGIN",
				Details: map[string]any{"scope": string(scope), "ip": r.RemoteAddr},
			}); err != nil {
				h.logger.Warn("record login", slog.Any("error", err))
			}
		}

		httpx.Data(w, http.StatusOK, loginResponse{Admin: principal, AccessToken: token})
	}
}

func (h *Handler) handleLogout(scope Scope) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := BearerToken(r)
		if err := h.service.Logout(r.Context(), scope, token); err != nil {
			// Client-side cleanup proceeds regardless; log and move on.
			h.logger.Warn("logout", slog.Any("error", err))
		}
		httpx.NoContent(w)
	}
}

func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	principal, ok := shared.PrincipalFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "missing credential")
		return
	}
	httpx.Data(w, http.StatusOK, principal)
}
