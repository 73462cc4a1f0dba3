package applications

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/yoldosh/admin-api/internal/platform/httpx"
	"github.com/yoldosh/admin-api/internal/shared"
)

// Handler wires HTTP endpoints for driver application review.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers application routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Patch("/{userID}/status", h.decide)
}

type listResponse struct {
	Rows  []Application `json:"rows"`
	Count int           `json:"count"`
	shared.Pagination
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, perPage := shared.PageParams(r, 20, 50)
	status := Status(r.URL.Query().Get("status"))

	apps, pagination, err := h.service.List(r.Context(), status, page, perPage)
	if err != nil {
		h.respondError(w, "list applications", err)
		return
	}
	if apps == nil {
		apps = []Application{}
	}
	httpx.Data(w, http.StatusOK, listResponse{Rows: apps, Count: pagination.Total, Pagination: pagination})
}

type decideRequest struct {
	Status Status `json:"status" validate:"required,oneof=VERIFIED REJECTED"`
}

type decideResponse struct {
	Application *Application `json:"application"`
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request) {
	principal, ok := shared.PrincipalFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "missing credential")
		return
	}

	var req decideRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	app, err := h.service.Decide(r.Context(), principal, chi.URLParam(r, "userID"), req.Status)
	if err != nil {
		h.respondError(w, "decide application", err)
		return
	}
	httpx.Data(w, http.StatusOK, decideResponse{Application: app})
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, shared.ErrNotFound) {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "application not found")
		return
	}
	if errors.Is(err, httpx.ErrValidation) || errors.Is(err, httpx.ErrConflict) {
		httpx.RespondError(w, err)
		return
	}
	h.logger.Error(op, slog.Any("error", err))
	httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
}
