package http

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	"topicfeed/internal/common/pagination"
	"topicfeed/internal/handler/http/auth"
	hgroup "topicfeed/internal/handler/http/group"
	hingest "topicfeed/internal/handler/http/ingest"
	hnews "topicfeed/internal/handler/http/news"
	"topicfeed/internal/handler/http/requestid"
	"topicfeed/internal/observability/tracing"
	groupUC "topicfeed/internal/usecase/group"
	newsUC "topicfeed/internal/usecase/news"
)

// RouterDeps is everything NewRouter mounts.
type RouterDeps struct {
	DB      *sql.DB
	Version string

	News   *newsUC.Service
	Groups *groupUC.Service
	// Ingest, when nil, leaves POST /ingest unmounted.
	Ingest hingest.Runner

	Auth       *auth.Middleware
	Pagination pagination.Config
	Logger     *slog.Logger

	// RateLimiter guards the AI answer and ingest endpoints. Optional.
	RateLimiter  *RateLimiter
	HealthChecks map[string]CheckFunc

	MaxBodyBytes   int64
	RequestTimeout time.Duration
}

// rateLimitedPrefixes are the routes that reach paid upstreams.
var rateLimitedPrefixes = []string{"/getAiAnswer/", "/ingest"}

// NewRouter builds the API handler with its middleware chain.
func NewRouter(d RouterDeps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxBody := d.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 1 << 20
	}

	mux := http.NewServeMux()
	hnews.Register(mux, d.News, d.Auth, d.Pagination, logger)
	hgroup.Register(mux, d.Groups, d.News, d.Auth, d.Pagination, logger)
	if d.Ingest != nil {
		hingest.Register(mux, d.Ingest, d.Auth, logger)
	}

	mux.Handle("GET /health", &HealthHandler{DB: d.DB, Version: d.Version, Optional: d.HealthChecks})
	mux.Handle("GET /ready", &ReadyHandler{DB: d.DB})
	mux.Handle("GET /live", LiveHandler{})
	mux.Handle("GET /metrics", MetricsHandler())
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	var app http.Handler = mux
	if d.RateLimiter != nil {
		app = limitPrefixes(d.RateLimiter, rateLimitedPrefixes, app)
	}

	return Chain(app,
		requestid.Middleware,
		tracing.Middleware,
		Recover(logger),
		Logging(logger),
		MetricsMiddleware,
		InputValidation(),
		LimitRequestBody(maxBody),
		Timeout(d.RequestTimeout),
	)
}

func limitPrefixes(rl *RateLimiter, prefixes []string, next http.Handler) http.Handler {
	limited := rl.Limit(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, p := range prefixes {
			if strings.HasPrefix(r.URL.Path, p) {
				limited.ServeHTTP(w, r)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
