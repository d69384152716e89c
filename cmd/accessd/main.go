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

	"github.com/meridian-hr/meridian-access/internal/app"
	"github.com/meridian-hr/meridian-access/internal/auth"
	"github.com/meridian-hr/meridian-access/internal/decisions"
	"github.com/meridian-hr/meridian-access/internal/memberships"
	"github.com/meridian-hr/meridian-access/internal/observability"
	"github.com/meridian-hr/meridian-access/internal/overrides"
	"github.com/meridian-hr/meridian-access/internal/plans"
	"github.com/meridian-hr/meridian-access/internal/platform/cache"
	"github.com/meridian-hr/meridian-access/internal/platform/db"
	"github.com/meridian-hr/meridian-access/internal/shared"
	"github.com/meridian-hr/meridian-access/internal/tenantstate"
	"github.com/meridian-hr/meridian-access/jobs"
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

	verifier := auth.NewVerifier(cfg.JWTSecret, cfg.ServiceKeyHash)
	authMiddleware := auth.Middleware{Verifier: verifier, Logger: logger}

	auditLogger := shared.NewAuditLogger(pool)
	metrics := observability.NewMetrics()

	membershipService := memberships.NewService(memberships.NewRepository(pool))
	planService := plans.NewService(
		plans.NewRepository(pool),
		plans.NewCache(redisClient, cfg.PlanCacheTTL),
		logger,
	)
	stateService := tenantstate.NewService(tenantstate.NewRepository(pool), logger)
	overrideRepo := overrides.NewRepository(pool)

	builder := decisions.NewSnapshotBuilder(
		membershipService,
		planService,
		overrideRepo,
		stateService,
		cfg.SnapshotTTL,
	)

	overrideService := overrides.NewService(overrideRepo, membershipService, auditLogger, builder, logger)
	overridesHandler := overrides.NewHandler(logger, overrideService)
	membersHandler := memberships.NewHandler(logger, membershipService)

	accessHandler := decisions.NewHandler(logger, builder, metrics)
	accessMiddleware := decisions.Middleware{Builder: builder, Logger: logger, Metrics: metrics}

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, jobClient, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		AuthMiddleware:   authMiddleware,
		AccessMiddleware: accessMiddleware,
		AccessHandler:    accessHandler,
		OverridesHandler: overridesHandler,
		MembersHandler:   membersHandler,
		JobHandler:       jobHandler,
		Metrics:          metrics,
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
