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
	"golang.org/x/sync/errgroup"

	"github.com/scro-cloud/scro/internal/accounts"
	"github.com/scro-cloud/scro/internal/app"
	"github.com/scro-cloud/scro/internal/audit"
	"github.com/scro-cloud/scro/internal/auth"
	"github.com/scro-cloud/scro/internal/catalog"
	"github.com/scro-cloud/scro/internal/observability"
	"github.com/scro-cloud/scro/internal/platform/cache"
	"github.com/scro-cloud/scro/internal/platform/db"
	"github.com/scro-cloud/scro/internal/session"
	"github.com/scro-cloud/scro/internal/telemetry"
	"github.com/scro-cloud/scro/jobs"
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

	auditService := audit.NewService(nil, logger)
	if cfg.PGDSN != "" {
		pool, err := db.New(ctx, cfg.PGDSN)
		if err != nil {
			logger.Error("connect postgres", slog.Any("error", err))
			os.Exit(1)
		}
		defer pool.Close()
		auditService = audit.NewService(audit.NewRepository(pool), logger)
	}

	store, err := accounts.NewStore(accounts.DefaultSeed())
	if err != nil {
		logger.Error("seed accounts", slog.Any("error", err))
		os.Exit(1)
	}

	records := session.NewRecordStore(redisClient, cfg.SessionTTL)
	sessionManager := session.NewManager(store, records, cfg.AuthLatency, logger)
	csrfManager := session.NewCSRFManager(cfg.CSRFSecret)

	metrics := observability.NewMetrics()
	feed := telemetry.NewFeed(cfg.TelemetryInterval, metrics.Registerer())

	authHandler := auth.NewHandler(logger, sessionManager, auditService, csrfManager, metrics, cfg.SessionCookie, cfg.IsProduction())
	telemetryHandler := telemetry.NewHandler(feed, logger)
	catalogHandler := catalog.NewHandler(catalog.New(cfg.CatalogSeed), logger)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	jobsClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init jobs client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		SessionManager:   sessionManager,
		CSRFManager:      csrfManager,
		AuthHandler:      authHandler,
		TelemetryHandler: telemetryHandler,
		CatalogHandler:   catalogHandler,
		JobHandler:       jobHandler,
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return feed.Run(groupCtx)
	})

	group.Go(func() error {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-groupCtx.Done():
				return nil
			case <-ticker.C:
				snap, ok := feed.Latest()
				if !ok {
					continue
				}
				if _, err := jobsClient.EnqueueTelemetryRollup(groupCtx, jobs.TelemetryRollupPayload{
					TotalEnergy:      snap.TotalEnergy,
					ActiveVMs:        snap.ActiveVMs,
					LearningProgress: snap.LearningProgress,
				}); err != nil {
					logger.Warn("enqueue telemetry rollup", slog.Any("error", err))
				}
			}
		}
	})

	group.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && err != context.Canceled {
		logger.Error("run", slog.Any("error", err))
		os.Exit(1)
	}
}
