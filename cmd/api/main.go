package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"topicfeed/internal/app"
	"topicfeed/internal/common/pagination"
	hhttp "topicfeed/internal/handler/http"
	hauth "topicfeed/internal/handler/http/auth"
	"topicfeed/internal/infra/db"
	"topicfeed/internal/observability/logging"
	"topicfeed/internal/observability/tracing"
	"topicfeed/internal/pkg/config"

	_ "topicfeed/docs" // swagger docs
)

// @title           Topicfeed API
// @version         1.0
// @description     News ingestion with AI topic grouping, timelines and group subscriptions.

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT as "Bearer {token}". The jwtToken query parameter is accepted too.

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("api stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loader := config.NewLoader(logger, config.NewConfigMetrics(nil, "api"))
	version := loader.String("VERSION", "dev")
	port := loader.Int("PORT", 8080, config.IntRange(1, 65535))

	secret := os.Getenv("JWT_SECRET")
	if err := hauth.ValidateSecret(secret); err != nil {
		return fmt.Errorf("JWT_SECRET: %w", err)
	}

	shutdownTracing := tracing.Init("topicfeed-api", version)
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("tracer shutdown failed", slog.Any("error", err))
		}
	}()

	database, err := initDatabase(ctx, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	repos := app.NewRepositories(database)
	ingestion, err := app.NewIngestion(ctx, loader, repos, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := ingestion.Close(); err != nil {
			logger.Warn("failed to close redis client", slog.Any("error", err))
		}
	}()
	services := app.NewServices(repos, ingestion.Answerer)

	checks := make(map[string]hhttp.CheckFunc, len(ingestion.Checks))
	for name, fn := range ingestion.Checks {
		checks[name] = fn
	}

	handler := hhttp.NewRouter(hhttp.RouterDeps{
		DB:             database,
		Version:        version,
		News:           services.News,
		Groups:         services.Groups,
		Ingest:         ingestion.Service,
		Auth:           hauth.NewMiddleware(secret, logger),
		Pagination:     pagination.LoadFromEnv(loader),
		Logger:         logger,
		RateLimiter:    hhttp.NewRateLimiter(loader.Float("AI_RATE_LIMIT_RPS", 0.5, positiveFloat), loader.Int("AI_RATE_LIMIT_BURST", 5, config.IntRange(1, 1000))),
		HealthChecks:   checks,
		MaxBodyBytes:   int64(loader.Int("MAX_BODY_BYTES", 1<<20, config.IntRange(1<<10, 100<<20))),
		RequestTimeout: loader.Duration("REQUEST_TIMEOUT", 60*time.Second, config.DurationRange(time.Second, 10*time.Minute)),
	})
	loader.Done()

	return serve(ctx, logger, handler, fmt.Sprintf(":%d", port), version)
}

func positiveFloat(v float64) error {
	if v <= 0 {
		return fmt.Errorf("must be positive, got %v", v)
	}
	return nil
}

// initDatabase opens the pool and applies pending migrations.
func initDatabase(ctx context.Context, logger *slog.Logger) (*sql.DB, error) {
	database, err := db.Open(ctx, logger)
	if err != nil {
		return nil, err
	}
	if err := db.MigrateUp(ctx, database); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return database, nil
}

// serve runs the server until ctx is cancelled, then drains it.
func serve(ctx context.Context, logger *slog.Logger, handler http.Handler, addr, version string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return context.WithoutCancel(ctx)
		},
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", slog.String("addr", addr), slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
