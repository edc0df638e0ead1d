// Package group serves the topic group endpoints: listing, detail, creation,
// the news of a group, and following.
package group

import (
	"log/slog"
	"net/http"

	"topicfeed/internal/common/pagination"
	"topicfeed/internal/handler/http/auth"
	groupUC "topicfeed/internal/usecase/group"
	newsUC "topicfeed/internal/usecase/news"
)

// Register mounts the group routes on mux.
func Register(mux *http.ServeMux, svc *groupUC.Service, newsSvc *newsUC.Service, authz *auth.Middleware, cfg pagination.Config, logger *slog.Logger) {
	mux.Handle("GET /groups", authz.Optional(ListHandler{
		Svc:           svc,
		PaginationCfg: cfg.WithDefaultLimit(pagination.DefaultGroupsLimit),
		Logger:        logger,
	}))
	mux.Handle("POST /groups", authz.Required(CreateHandler{Svc: svc, Logger: logger}))
	mux.Handle("GET /groups/{id}", authz.Optional(GetHandler{Svc: svc}))
	mux.Handle("GET /groups/{id}/news", authz.Optional(NewsHandler{
		Svc:           newsSvc,
		PaginationCfg: cfg.WithDefaultLimit(pagination.DefaultGroupNewsLimit),
		Logger:        logger,
	}))

	mux.Handle("POST /groups/{id}/follow", authz.Required(FollowHandler{Svc: svc, Follow: true}))
	mux.Handle("POST /groups/{id}/unfollow", authz.Required(FollowHandler{Svc: svc}))
	mux.Handle("POST /groups/{id}/user/{token}/follow", PathTokenFollowHandler{Svc: svc, Verifier: authz.Verifier, Follow: true})
	mux.Handle("POST /groups/{id}/user/{token}/unfollow", PathTokenFollowHandler{Svc: svc, Verifier: authz.Verifier})

	mux.Handle("GET /getFollowUp", authz.Required(FollowedHandler{
		Svc:           svc,
		PaginationCfg: cfg.WithDefaultLimit(pagination.DefaultFollowUpLimit),
		Logger:        logger,
	}))
}
