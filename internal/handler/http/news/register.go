// Package news serves the news read endpoints: the paginated feed, a single
// item, the group timeline of an item, the all-sides stub and AI answers.
package news

import (
	"log/slog"
	"net/http"

	"topicfeed/internal/common/pagination"
	"topicfeed/internal/handler/http/auth"
	newsUC "topicfeed/internal/usecase/news"
)

// Register mounts the news routes on mux. Reads accept an optional viewer;
// AI answers require one.
func Register(mux *http.ServeMux, svc *newsUC.Service, authz *auth.Middleware, cfg pagination.Config, logger *slog.Logger) {
	mux.Handle("GET /news", authz.Optional(ListHandler{
		Svc:           svc,
		PaginationCfg: cfg.WithDefaultLimit(pagination.DefaultNewsLimit),
		Logger:        logger,
	}))
	mux.Handle("GET /news/{id}", authz.Optional(GetHandler{Svc: svc}))
	mux.Handle("GET /timeline/{newsId}", authz.Optional(TimelineHandler{
		Svc:           svc,
		PaginationCfg: cfg.WithDefaultLimit(pagination.DefaultTimelineLimit),
		Logger:        logger,
	}))
	mux.Handle("GET /getAllSides/{newsId}", authz.Optional(AllSidesHandler{Svc: svc}))
	mux.Handle("GET /getAiAnswer/{question}/{newsId}", authz.Required(AskHandler{Svc: svc, Logger: logger}))
}
