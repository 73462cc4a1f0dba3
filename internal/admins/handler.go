package admins

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/yoldosh/admin-api/internal/platform/httpx"
	"github.com/yoldosh/admin-api/internal/shared"
)

type Handler struct {
	logger   *slog.Logger
	service  *Service
	audit    *shared.AuditLogger
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service, audit *shared.AuditLogger) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		audit:    audit,
		validate: validator.New(),
	}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Post("/", h.handleCreate)
	r.Get("/stats", h.handleStats)
	r.Get("/permissions", h.handlePermissionCatalog)
	r.Get("/{adminID}", h.handleGet)
	r.Delete("/{adminID}", h.handleDeactivate)
	r.Post("/{adminID}/permissions", h.handleGrant)
	r.Delete("/{adminID}/permissions/{permission}", h.handleRevoke)
	r.Get("/{adminID}/logs", h.handleLogs)
}

type createRequest struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
}

type createResponse struct {
	Admin             Admin  `json:"admin"`
	TemporaryPassword string `json:"temporaryPassword"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	principal, ok := shared.PrincipalFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "missing credential")
		return
	}
	var req createRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	admin, password, err := h.service.Create(r.Context(), principal, req.Email, req.FirstName, req.LastName)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.Data(w, http.StatusCreated, createResponse{Admin: admin, TemporaryPassword: password})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page, perPage := shared.PageParams(r, 20, 100)
	items, pagination, err := h.service.List(r.Context(), page, perPage)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.Data(w, http.StatusOK, map[string]any{
		"rows":       items,
		"count":      pagination.Total,
		"pagination": pagination,
	})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	a, err := h.service.Get(r.Context(), chi.URLParam(r, "adminID"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.Data(w, http.StatusOK, a)
}

func (h *Handler) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	principal, ok := shared.PrincipalFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "missing credential")
		return
	}
	if err := h.service.Deactivate(r.Context(), principal, chi.URLParam(r, "adminID")); err != nil {
		h.respondError(w, err)
		return
	}
	httpx.NoContent(w)
}

type grantRequest struct {
	Permission string `json:"permission" validate:"required"`
}

func (h *Handler) handleGrant(w http.ResponseWriter, r *http.Request) {
	principal, ok := shared.PrincipalFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "missing credential")
		return
	}
	var req grantRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	a, err := h.service.Grant(r.Context(), principal, chi.URLParam(r, "adminID"), req.Permission)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.Data(w, http.StatusOK, a)
}

func (h *Handler) handleRevoke(w http.ResponseWriter, r *http.Request) {
	principal, ok := shared.PrincipalFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "missing credential")
		return
	}
	a, err := h.service.Revoke(r.Context(), principal, chi.URLParam(r, "adminID"), chi.URLParam(r, "permission"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.Data(w, http.StatusOK, a)
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.Data(w, http.StatusOK, stats)
}

func (h *Handler) handlePermissionCatalog(w http.ResponseWriter, _ *http.Request) {
	httpx.Data(w, http.StatusOK, shared.PermissionCatalog())
}

func (h *Handler) handleLogs(w http.ResponseWriter, r *http.Request) {
	if h.audit == nil {
		httpx.Data(w, http.StatusOK, []shared.AdminLog{})
		return
	}
	page, perPage := shared.PageParams(r, 20, 100)
	pagination := shared.NewPagination(page, perPage, 0)
	logs, total, err := h.audit.ListByAdmin(r.Context(), chi.URLParam(r, "adminID"), pagination.PerPage, pagination.Offset())
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.Data(w, http.StatusOK, map[string]any{
		"rows":       logs,
		"count":      total,
		"pagination": shared.NewPagination(page, perPage, total),
	})
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "admin not found")
	case errors.Is(err, shared.ErrUnknownPermission):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "permission is not part of the catalog")
	case errors.Is(err, httpx.ErrDuplicate):
		httpx.Problem(w, http.StatusConflict, "Conflict", "an admin with this email already exists")
	case errors.Is(err, httpx.ErrConflict):
		httpx.Problem(w, http.StatusConflict, "Conflict", "you cannot deactivate your own account")
	case errors.Is(err, httpx.ErrValidation):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "email, first name and last name are required")
	default:
		h.logger.Error("admins request failed", "error", err)
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
