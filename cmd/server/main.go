package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/yoldosh/admin-api/internal/admins"
	"github.com/yoldosh/admin-api/internal/app"
	"github.com/yoldosh/admin-api/internal/applications"
	"github.com/yoldosh/admin-api/internal/auth"
	"github.com/yoldosh/admin-api/internal/carmodels"
	"github.com/yoldosh/admin-api/internal/moderation"
	"github.com/yoldosh/admin-api/internal/notifications"
	"github.com/yoldosh/admin-api/internal/observability"
	"github.com/yoldosh/admin-api/internal/platform/cache"
	"github.com/yoldosh/admin-api/internal/platform/db"
	"github.com/yoldosh/admin-api/internal/promocodes"
	"github.com/yoldosh/admin-api/internal/reports"
	"github.com/yoldosh/admin-api/internal/shared"
	"github.com/yoldosh/admin-api/internal/trips"
	"github.com/yoldosh/admin-api/internal/users"
	"github.com/yoldosh/admin-api/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	queueClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init queue client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := queueClient.Close(); err != nil {
			logger.Warn("queue client close", slog.Any("error", err))
		}
	}()

	auditLogger := shared.NewAuditLogger(pool)

	tokenStore := auth.NewTokenStore(redisClient, cfg.TokenTTL)
	authRepo := auth.NewRepository(pool)
	authService := auth.NewService(authRepo, tokenStore)
	authHandler := auth.NewHandler(logger, authService, auditLogger)
	guard := auth.Guard{Service: authService, Logger: logger}

	adminsService := admins.NewService(admins.NewRepository(pool), authService, auditLogger, cfg.BcryptCost)
	adminsHandler := admins.NewHandler(logger, adminsService, auditLogger)

	applicationsService := applications.NewService(applications.NewRepository(pool), auditLogger)
	applicationsHandler := applications.NewHandler(logger, applicationsService)

	reportsService := reports.NewService(reports.NewRepository(pool), auditLogger)
	reportsHandler := reports.NewHandler(logger, reportsService)

	tripsService := trips.NewService(trips.NewRepository(pool), auditLogger)
	tripsHandler := trips.NewHandler(logger, tripsService)

	notificationsService := notifications.NewService(notifications.NewRepository(pool), queueClient, auditLogger)
	notificationsHandler := notifications.NewHandler(logger, notificationsService)

	carModelsService := carmodels.NewService(carmodels.NewRepository(pool), auditLogger)
	carModelsHandler := carmodels.NewHandler(logger, carModelsService)

	promocodesService := promocodes.NewService(promocodes.NewRepository(pool), auditLogger)
	promocodesHandler := promocodes.NewHandler(logger, promocodesService)

	moderationService := moderation.NewService(moderation.NewRepository(pool), redisClient, auditLogger)
	moderationHandler := moderation.NewHandler(logger, moderationService)

	usersService := users.NewService(users.NewRepository(pool), auditLogger)
	usersHandler := users.NewHandler(logger, usersService)

	metrics := observability.NewMetrics()

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobsHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:               logger,
		Config:               cfg,
		Guard:                guard,
		AuthHandler:          authHandler,
		AdminsHandler:        adminsHandler,
		ApplicationsHandler:  applicationsHandler,
		ReportsHandler:       reportsHandler,
		TripsHandler:         tripsHandler,
		NotificationsHandler: notificationsHandler,
		CarModelsHandler:     carModelsHandler,
		PromocodesHandler:    promocodesHandler,
		ModerationHandler:    moderationHandler,
		UsersHandler:         usersHandler,
		JobsHandler:          jobsHandler,
		Metrics:              metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
