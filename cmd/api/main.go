package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/skateparkfinder/skatepark-backend/api"
	"github.com/skateparkfinder/skatepark-backend/api/controllers"
	"github.com/skateparkfinder/skatepark-backend/api/routes"
	"github.com/skateparkfinder/skatepark-backend/internal/seed"
	"github.com/skateparkfinder/skatepark-backend/internal/store"
	"github.com/skateparkfinder/skatepark-backend/internal/submissions"
	"github.com/skateparkfinder/skatepark-backend/internal/venues"
	"github.com/skateparkfinder/skatepark-backend/pkg/config"
	"github.com/skateparkfinder/skatepark-backend/pkg/db"
	"github.com/skateparkfinder/skatepark-backend/pkg/instance"
	"github.com/skateparkfinder/skatepark-backend/pkg/logger"
	"github.com/skateparkfinder/skatepark-backend/pkg/metrics"
	"github.com/skateparkfinder/skatepark-backend/pkg/migrate"
	"github.com/skateparkfinder/skatepark-backend/pkg/pubsub"
	"github.com/skateparkfinder/skatepark-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (err error) {
	var closers []func() error
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			err = multierr.Append(err, closers[i]())
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	directoryMetrics := metrics.NewDirectoryMetrics(registry)
	readyChecks := map[string]controllers.Pinger{}

	recordStore, err := openStore(ctx, cfg, logg, readyChecks, &closers)
	if err != nil {
		return err
	}

	if cfg.Storage.SeedOnBoot {
		if _, err := seed.Run(ctx, recordStore, directoryMetrics, logg); err != nil {
			return err
		}
	}

	var limiter *redis.Client
	if cfg.Redis.Enabled() {
		limiter, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return err
		}
		closers = append(closers, limiter.Close)
		readyChecks["redis"] = limiter
	}

	var events pubsub.EventPublisher = pubsub.NoopPublisher{}
	if cfg.PubSub.Enabled() {
		psClient, err := pubsub.NewClient(ctx, cfg.PubSub, logg)
		if err != nil {
			return err
		}
		closers = append(closers, psClient.Close)
		topic, err := pubsub.NewTopicPublisher(psClient.ModerationPublisher())
		if err != nil {
			return err
		}
		closers = append(closers, func() error { topic.Stop(); return nil })
		events = topic
		readyChecks["pubsub"] = psClient
	}

	venueService, err := venues.NewService(recordStore, events, directoryMetrics, logg)
	if err != nil {
		return err
	}
	submissionService, err := submissions.NewService(recordStore, cfg.Submissions.FallbackImageURL, events, directoryMetrics, logg)
	if err != nil {
		return err
	}

	deps := routes.Dependencies{
		Venues:           venueService,
		Submissions:      submissionService,
		ReadyChecks:      readyChecks,
		Gatherer:         registry,
		HTTPMetrics:      metrics.NewHTTPMetrics(registry),
		DirectoryMetrics: directoryMetrics,
	}
	if limiter != nil {
		deps.RateLimiter = limiter
	}

	server := api.NewServer(cfg, os.Getenv("PORT"), routes.NewRouter(cfg, logg, deps))

	logCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     server.Addr,
		"storage":  cfg.Storage.Driver,
		"instance": instance.GetID(),
	})
	logg.Info(logCtx, "starting api server")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logg.Info(logCtx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// openStore selects the record store for the configured driver. Database-backed
// stores register their client for readiness checks and shutdown.
func openStore(ctx context.Context, cfg *config.Config, logg *logger.Logger, readyChecks map[string]controllers.Pinger, closers *[]func() error) (store.Store, error) {
	if cfg.Storage.UsesMemory() {
		logg.Warn(ctx, "using in-memory store, data is lost on restart")
		return store.NewMemory(), nil
	}

	dbClient, err := db.New(ctx, cfg.Storage, cfg.DB, logg)
	if err != nil {
		return nil, err
	}
	*closers = append(*closers, dbClient.Close)
	readyChecks["db"] = dbClient

	if err := migrate.MaybeRun(ctx, cfg, logg, dbClient); err != nil {
		return nil, err
	}
	return store.NewGorm(dbClient.DB()), nil
}
