package trips

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/yoldosh/admin-api/internal/platform/httpx"
	"github.com/yoldosh/admin-api/internal/shared"
)

// Handler wires HTTP endpoints for trip administration.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers trip routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{tripID}", h.get)
	r.Patch("/{tripID}", h.update)
	r.Delete("/{tripID}", h.cancel)
}

type listResponse struct {
	Trips []Trip `json:"trips"`
	shared.Pagination
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, perPage := shared.PageParams(r, 20, 50)

	filter := Filter{
		Status:        r.URL.Query().Get("status"),
		FromVillageID: r.URL.Query().Get("from"),
		ToVillageID:   r.URL.Query().Get("to"),
	}
	if v := r.URL.Query().Get("date"); v != "" {
		date, err := time.Parse("2006-01-02", v)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "date must be YYYY-MM-DD")
			return
		}
		filter.Date = &date
	}

	trips, pagination, err := h.service.List(r.Context(), filter, page, perPage)
	if err != nil {
		h.respondError(w, "list trips", err)
		return
	}
	if trips == nil {
		trips = []Trip{}
	}
	httpx.Data(w, http.StatusOK, listResponse{Trips: trips, Pagination: pagination})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	trip, err := h.service.Get(r.Context(), chi.URLParam(r, "tripID"))
	if err != nil {
		h.respondError(w, "get trip", err)
		return
	}
	httpx.Data(w, http.StatusOK, trip)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	principal, ok := shared.PrincipalFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "missing credential")
		return
	}

	var patch Patch
	if err := httpx.DecodeJSON(r, &patch); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}

	trip, err := h.service.Update(r.Context(), principal, chi.URLParam(r, "tripID"), patch)
	if err != nil {
		h.respondError(w, "update trip", err)
		return
	}
	httpx.Data(w, http.StatusOK, trip)
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	principal, ok := shared.PrincipalFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "missing credential")
		return
	}

	if err := h.service.Cancel(r.Context(), principal, chi.URLParam(r, "tripID")); err != nil {
		h.respondError(w, "cancel trip", err)
		return
	}
	httpx.Data(w, http.StatusOK, map[string]string{"message": "trip cancelled"})
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, shared.ErrNotFound) {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "trip not found")
		return
	}
	if errors.Is(err, httpx.ErrValidation) || errors.Is(err, httpx.ErrConflict) {
		httpx.RespondError(w, err)
		return
	}
	h.logger.Error(op, slog.Any("error", err))
	httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
}
