package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/yoldosh/admin-api/internal/app"
	"github.com/yoldosh/admin-api/internal/auth"
	"github.com/yoldosh/admin-api/internal/notifications"
	"github.com/yoldosh/admin-api/internal/platform/cache"
	"github.com/yoldosh/admin-api/internal/platform/db"
	"github.com/yoldosh/admin-api/internal/promocodes"
	"github.com/yoldosh/admin-api/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer redisClient.Close()

	notificationsRepo := notifications.NewRepository(pool)
	promocodesService := promocodes.NewService(promocodes.NewRepository(pool), nil)
	tokenStore := auth.NewTokenStore(redisClient, cfg.TokenTTL)

	fanoutHandler := jobs.NewNotificationFanoutHandler(logger, notificationsRepo, jobs.LogPusher{Logger: logger})
	sweepHandler := jobs.NewPromocodeSweepHandler(logger, promocodesService)
	sessionHandler := jobs.NewSessionSweepHandler(logger, tokenStore)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskNotificationFanout, Handler: fanoutHandler},
			{Type: jobs.TaskPromocodeSweep, Handler: sweepHandler},
			{Type: jobs.TaskSessionSweep, Handler: sessionHandler},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "0 * * * *", Task: jobs.NewPromocodeSweepTask(), Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: "30 * * * *", Task: jobs.NewSessionSweepTask(), Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
