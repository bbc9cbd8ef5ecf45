package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "adpipe/internal/adapter/http"
	"adpipe/internal/adapter/memkv"
	"adpipe/internal/adapter/postgres"
	"adpipe/internal/adapter/rediskv"
	"adpipe/internal/adapter/scorer"
	"adpipe/internal/adapter/usecase"
	"adpipe/internal/config"
	"adpipe/internal/core/port"
	"adpipe/internal/db"
)

// main is the entry point of the ad server. It loads configuration,
// optionally runs database migrations, initializes the database pool, the
// cache/counter store and the decision pipeline, then starts the HTTP
// server. On receiving a termination signal it gracefully shuts down.
func main() {
	exitCode := 1
	defer func() {
		if r := recover(); r != nil {
			panic(r)
		} else {
			os.Exit(exitCode)
		}
	}()

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := slog.New(cfg.Log.Handler(os.Stdout))

	// Optionally run migrations if configured. We use the Psql sub-config.
	if cfg.Psql.RunMigrations {
		if err = db.Migrate(cfg.Psql.Addr.String()); err != nil {
			logger.Error("migration error", slog.Any("error", err))
		} else {
			logger.Info("migrations applied successfully")
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg.Psql)
	if err != nil {
		logger.Error("database connection error", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.Psql.SeedDemoData {
		if err = db.Seed(ctx, pool); err != nil {
			logger.Error("seed error", slog.Any("error", err))
		} else {
			logger.Info("demo data seeded")
		}
	}

	// Cache/counter store: Redis when enabled, in-memory single-node
	// fallback otherwise.
	var kv port.KVStore
	if cfg.Redis.Enabled {
		store, err := rediskv.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Error("redis connection error", slog.Any("error", err))
			os.Exit(1)
		}
		defer store.Close()
		kv = store
	} else {
		logger.Warn("redis disabled, using in-memory counter store")
		kv = memkv.New()
	}

	repo := postgres.NewAdRepository(pool, logger)

	cache := usecase.NewCampaignCache(repo, kv, usecase.CampaignCacheConfig{
		TTL:            cfg.Serving.CacheTTL,
		LocalTTL:       cfg.Serving.LocalCacheTTL,
		LocalCacheSize: cfg.Serving.LocalCacheSize,
		QueryLimit:     cfg.Serving.CampaignQueryLimit,
	}, logger)
	retriever := usecase.NewRetriever(cache, logger)
	admission := usecase.NewAdmission(repo, kv, logger)
	ranker := usecase.NewRanker(
		scorer.Static{PCTR: cfg.Serving.DefaultPCTR, PCVR: cfg.Serving.DefaultPCVR},
		cfg.Serving.DefaultPCTR, cfg.Serving.DefaultPCVR, logger)

	ads := usecase.NewAdService(cache, retriever, admission, ranker, usecase.AdServiceConfig{
		DefaultNumAds:  cfg.Serving.DefaultNumAds,
		MaxNumAds:      cfg.Serving.MaxNumAds,
		RetrievalLimit: cfg.Serving.RetrievalLimit,
	}, logger)
	ledger := usecase.NewEventLedger(repo, kv, logger)

	handler := httpadapter.NewHandler(ads, ledger, cfg.Serving.UseRefererTargeting, logger)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler: handler.Router(),
	}

	go func() {
		logger.Info("server listening", slog.Int("port", int(cfg.HTTP.Port)))
		if err = srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	value := <-quit
	exitCode = 128 + int(value.(syscall.Signal))

	ctx, cancel = context.WithTimeout(ctx, cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err = srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
	} else {
		logger.Info("server gracefully stopped")
	}
}
