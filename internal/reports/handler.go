package reports

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/yoldosh/admin-api/internal/platform/httpx"
	"github.com/yoldosh/admin-api/internal/shared"
)

// Handler wires HTTP endpoints for report review.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers report routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Patch("/{reportID}", h.review)
	r.Post("/{reportID}/ban", h.ban)
}

type listResponse struct {
	Reports []Report `json:"reports"`
	shared.Pagination
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, perPage := shared.PageParams(r, 20, 50)
	status := Status(r.URL.Query().Get("status"))

	reports, pagination, err := h.service.List(r.Context(), status, page, perPage)
	if err != nil {
		h.respondError(w, "list reports", err)
		return
	}
	if reports == nil {
		reports = []Report{}
	}
	httpx.Data(w, http.StatusOK, listResponse{Reports: reports, Pagination: pagination})
}

type reviewRequest struct {
	Status Status `json:"status" validate:"required,oneof=RESOLVED REJECTED"`
}

func (h *Handler) review(w http.ResponseWriter, r *http.Request) {
	principal, ok := shared.PrincipalFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "missing credential")
		return
	}

	var req reviewRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	report, err := h.service.Review(r.Context(), principal, chi.URLParam(r, "reportID"), req.Status)
	if err != nil {
		h.respondError(w, "review report", err)
		return
	}
	httpx.Data(w, http.StatusOK, report)
}

type banRequest struct {
	Reason         string `json:"reason" validate:"required,min=3"`
	DurationInDays *int   `json:"durationInDays"`
}

func (h *Handler) ban(w http.ResponseWriter, r *http.Request) {
	principal, ok := shared.PrincipalFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "missing credential")
		return
	}

	var req banRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	if err := h.service.BanByReport(r.Context(), principal, chi.URLParam(r, "reportID"), req.Reason, req.DurationInDays); err != nil {
		h.respondError(w, "ban by report", err)
		return
	}
	httpx.Data(w, http.StatusOK, map[string]string{"message": "user banned"})
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, shared.ErrNotFound) {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "report not found")
		return
	}
	if errors.Is(err, httpx.ErrValidation) || errors.Is(err, httpx.ErrConflict) {
		httpx.RespondError(w, err)
		return
	}
	h.logger.Error(op, slog.Any("error", err))
	httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
}
