package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/meridian-hr/meridian-access/internal/app"
	jobmetrics "github.com/meridian-hr/meridian-access/internal/jobs"
	"github.com/meridian-hr/meridian-access/internal/platform/db"
	"github.com/meridian-hr/meridian-access/internal/tenantstate"
	"github.com/meridian-hr/meridian-access/jobs"
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

	stateService := tenantstate.NewService(tenantstate.NewRepository(pool), logger)
	metrics := jobmetrics.NewMetrics(nil)
	sweepHandler := jobs.NewFreezeSweepHandler(stateService, logger, metrics)

	sweepTask, err := jobs.NewFreezeSweepTask(jobs.FreezeSweepPayload{RequestedBy: "scheduler"})
	if err != nil {
		logger.Error("build sweep task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskBillingFreezeSweep, Handler: sweepHandler},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.FreezeSweepCron, Task: sweepTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
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
