package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"topicfeed/internal/app"
	"topicfeed/internal/infra/db"
	workerPkg "topicfeed/internal/infra/worker"
	"topicfeed/internal/observability/logging"
	"topicfeed/internal/observability/tracing"
	"topicfeed/internal/pkg/config"
)

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("worker stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := workerPkg.NewMetrics(nil)
	loader := config.NewLoader(logger, metrics.Config)
	cfg := workerPkg.LoadConfig(loader)
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", cfg.CronSchedule),
		slog.String("timezone", cfg.Timezone),
		slog.Duration("ingest_timeout", cfg.IngestTimeout),
		slog.Int("health_port", cfg.HealthPort),
		slog.Int("grpc_health_port", cfg.GRPCHealthPort))

	shutdownTracing := tracing.Init("topicfeed-worker", loader.String("VERSION", "dev"))
	defer func() { _ = shutdownTracing(context.Background()) }()

	database, err := initDatabase(ctx, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	ingestion, err := app.NewIngestion(ctx, loader, app.NewRepositories(database), logger)
	if err != nil {
		return err
	}
	defer func() { _ = ingestion.Close() }()
	loader.Done()

	health := workerPkg.NewHealthServer(logger)
	job := workerPkg.NewJob(ingestion.Service, cfg.IngestTimeout, metrics, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return health.ServeHTTP(gctx, fmt.Sprintf(":%d", cfg.HealthPort))
	})
	g.Go(func() error {
		return health.ServeGRPC(gctx, fmt.Sprintf(":%d", cfg.GRPCHealthPort))
	})
	g.Go(func() error {
		return workerPkg.ServeMetrics(gctx, logger, fmt.Sprintf(":%d", cfg.MetricsPort), promhttp.Handler())
	})
	g.Go(func() error {
		return schedule(gctx, logger, cfg, job, health)
	})
	return g.Wait()
}

// schedule runs job on the cron schedule until ctx is done. Overlapping
// ticks are skipped; the Redis lock covers other processes.
func schedule(ctx context.Context, logger *slog.Logger, cfg workerPkg.Config, job *workerPkg.Job, health *workerPkg.HealthServer) error {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone: %w", err)
	}

	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	if _, err := c.AddFunc(cfg.CronSchedule, func() {
		if err := job.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("scheduled ingestion returned an error", slog.Any("error", err))
		}
	}); err != nil {
		return fmt.Errorf("add cron job: %w", err)
	}

	c.Start()
	health.SetReady(true)
	logger.Info("scheduler started", slog.String("schedule", cfg.CronSchedule))

	<-ctx.Done()
	health.SetReady(false)
	logger.Info("stopping scheduler, waiting for the running job")
	<-c.Stop().Done()
	logger.Info("scheduler stopped")
	return nil
}

// initDatabase opens the pool and waits until the API has migrated the schema.
func initDatabase(ctx context.Context, logger *slog.Logger) (*sql.DB, error) {
	database, err := db.Open(ctx, logger)
	if err != nil {
		return nil, err
	}
	for attempt := 1; attempt <= 10; attempt++ {
		version, dirty, err := db.MigrationVersion(ctx, database)
		if err == nil && version > 0 && !dirty {
			return database, nil
		}
		logger.Info("waiting for migrations, retrying in 3s",
			slog.Int("attempt", attempt),
			slog.Any("error", err))
		select {
		case <-ctx.Done():
			_ = database.Close()
			return nil, ctx.Err()
		case <-time.After(3 * time.Second):
		}
	}
	_ = database.Close()
	return nil, errors.New("migrations did not complete in time")
}
