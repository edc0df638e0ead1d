package worker

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"topicfeed/internal/handler/http/respond"
)

// ServiceName is the gRPC health service name reported by the worker.
const ServiceName = "topicfeed.worker"

type healthResponse struct {
	Status string `json:"status"`
}

// HealthServer exposes liveness and readiness over HTTP and the standard
// gRPC health protocol. The worker starts not ready and becomes ready once
// the scheduler is running.
type HealthServer struct {
	logger *slog.Logger
	ready  atomic.Bool
	grpc   *health.Server
}

// NewHealthServer returns a not-ready HealthServer.
func NewHealthServer(logger *slog.Logger) *HealthServer {
	if logger == nil {
		logger = slog.Default()
	}
	h := &HealthServer{logger: logger, grpc: health.NewServer()}
	h.grpc.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	h.grpc.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	return h
}

// SetReady flips readiness on both protocols.
func (h *HealthServer) SetReady(ready bool) {
	h.ready.Store(ready)
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if ready {
		status = healthpb.HealthCheckResponse_SERVING
	}
	h.grpc.SetServingStatus("", status)
	h.grpc.SetServingStatus(ServiceName, status)
	h.logger.Info("worker readiness changed", slog.Bool("ready", ready))
}

// Ready reports the current readiness.
func (h *HealthServer) Ready() bool {
	return h.ready.Load()
}

// Handler serves /health and /health/ready.
func (h *HealthServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		respond.JSON(w, http.StatusOK, healthResponse{Status: "ok"})
	})
	mux.HandleFunc("GET /health/ready", func(w http.ResponseWriter, _ *http.Request) {
		if !h.Ready() {
			respond.JSON(w, http.StatusServiceUnavailable, healthResponse{Status: "not ready"})
			return
		}
		respond.JSON(w, http.StatusOK, healthResponse{Status: "ok"})
	})
	return mux
}

// ServeHTTP runs the HTTP health endpoints on addr until ctx is done.
func (h *HealthServer) ServeHTTP(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return serveUntilDone(ctx, h.logger, "health", srv)
}

// ServeGRPC runs the gRPC health service on addr until ctx is done.
func (h *HealthServer) ServeGRPC(ctx context.Context, addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return h.serveGRPC(ctx, lis)
}

func (h *HealthServer) serveGRPC(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer()
	healthpb.RegisterHealthServer(srv, h.grpc)

	go func() {
		<-ctx.Done()
		h.grpc.Shutdown()
		srv.GracefulStop()
	}()

	h.logger.Info("grpc health server starting", slog.String("addr", lis.Addr().String()))
	if err := srv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}

// ServeMetrics runs handler (usually promhttp) on addr under /metrics until
// ctx is done.
func ServeMetrics(ctx context.Context, logger *slog.Logger, addr string, handler http.Handler) error {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", handler)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return serveUntilDone(ctx, logger, "metrics", srv)
}

func serveUntilDone(ctx context.Context, logger *slog.Logger, name string, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info(name+" server starting", slog.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error(name+" server shutdown failed", slog.Any("error", err))
			return err
		}
		logger.Info(name + " server stopped")
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
