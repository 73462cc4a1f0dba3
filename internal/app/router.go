package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/yoldosh/admin-api/internal/admins"
	"github.com/yoldosh/admin-api/internal/applications"
	"github.com/yoldosh/admin-api/internal/auth"
	"github.com/yoldosh/admin-api/internal/carmodels"
	"github.com/yoldosh/admin-api/internal/moderation"
	"github.com/yoldosh/admin-api/internal/nav"
	"github.com/yoldosh/admin-api/internal/notifications"
	"github.com/yoldosh/admin-api/internal/observability"
	"github.com/yoldosh/admin-api/internal/promocodes"
	"github.com/yoldosh/admin-api/internal/reports"
	"github.com/yoldosh/admin-api/internal/shared"
	"github.com/yoldosh/admin-api/internal/trips"
	"github.com/yoldosh/admin-api/internal/users"
	"github.com/yoldosh/admin-api/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger *slog.Logger
	Config *Config
	Guard  auth.Guard

	AuthHandler          *auth.Handler
	AdminsHandler        *admins.Handler
	ApplicationsHandler  *applications.Handler
	ReportsHandler       *reports.Handler
	TripsHandler         *trips.Handler
	NotificationsHandler *notifications.Handler
	CarModelsHandler     *carmodels.Handler
	PromocodesHandler    *promocodes.Handler
	ModerationHandler    *moderation.Handler
	UsersHandler         *users.Handler

	JobsHandler *jobs.Handler
	Metrics     *observability.Metrics
}

// NewRouter constructs the chi router with the two permission-scoped
// track groups the dashboard talks to.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}
	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/api/v1/admin", func(r chi.Router) {
		params.AuthHandler.MountRoutes(r, auth.ScopeAdmin, params.Guard)

		r.Group(func(r chi.Router) {
			r.Use(params.Guard.RequireRole(auth.ScopeAdmin, shared.RoleAdmin))

			r.Get("/navigation", nav.HandleAdminNavigation)

			mountGuarded(r, "/applications", params.Guard, shared.PermDriverApplications, params.ApplicationsHandler.MountRoutes)
			mountGuarded(r, "/reports", params.Guard, shared.PermReports, params.ReportsHandler.MountRoutes)
			mountGuarded(r, "/trips", params.Guard, shared.PermTrips, params.TripsHandler.MountRoutes)
			mountGuarded(r, "/notifications", params.Guard, shared.PermNotifications, params.NotificationsHandler.MountRoutes)
			mountGuarded(r, "/car-models", params.Guard, shared.PermCarModels, params.CarModelsHandler.MountRoutes)
			mountGuarded(r, "/promocodes", params.Guard, shared.PermPromocodes, params.PromocodesHandler.MountRoutes)
			mountGuarded(r, "/moderation", params.Guard, shared.PermModeration, params.ModerationHandler.MountRoutes)
			// rider ban tooling ships with the reports feature area
			mountGuarded(r, "/users", params.Guard, shared.PermReports, params.UsersHandler.MountRoutes)
		})
	})

	r.Route("/api/v1/super-admin", func(r chi.Router) {
		params.AuthHandler.MountRoutes(r, auth.ScopeSuperAdmin, params.Guard)

		r.Group(func(r chi.Router) {
			r.Use(params.Guard.RequireRole(auth.ScopeSuperAdmin, shared.RoleSuperAdmin))

			r.Get("/navigation", nav.HandleSuperAdminNavigation)
			r.Route("/admins", params.AdminsHandler.MountRoutes)
			if params.JobsHandler != nil {
				r.Route("/jobs", params.JobsHandler.MountRoutes)
			}
		})
	})

	return r
}

// mountGuarded mounts a resource behind its feature permission.
func mountGuarded(r chi.Router, pattern string, guard auth.Guard, permission string, mount func(chi.Router)) {
	r.Route(pattern, func(r chi.Router) {
		r.Use(guard.RequirePermission(permission))
		mount(r)
	})
}
