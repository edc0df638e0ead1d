// Package ingest exposes a manual trigger for one ingestion run.
package ingest

import (
	"context"
	"log/slog"
	"net/http"

	"topicfeed/internal/handler/http/auth"
	"topicfeed/internal/handler/http/respond"
	"topicfeed/internal/observability/logging"
	ingestUC "topicfeed/internal/usecase/ingest"
)

// Runner performs one ingestion run.
type Runner interface {
	Run(ctx context.Context) (ingestUC.Result, error)
}

// RunResponse summarises a finished run.
type RunResponse struct {
	Received       int   `json:"received"`
	Inserted       int   `json:"inserted"`
	Updated        int   `json:"updated"`
	Skipped        int   `json:"skipped"`
	ClassifyErrors int   `json:"classifyErrors"`
	LinkErrors     int   `json:"linkErrors"`
	GroupsLinked   int   `json:"groupsLinked"`
	DurationMs     int64 `json:"durationMs"`
}

// Register mounts POST /ingest behind required auth.
func Register(mux *http.ServeMux, runner Runner, authz *auth.Middleware, logger *slog.Logger) {
	mux.Handle("POST /ingest", authz.Required(Handler{Runner: runner, Logger: logger}))
}

type Handler struct {
	Runner Runner
	Logger *slog.Logger
}

// ServeHTTP runs ingestion synchronously.
// @Summary      Run ingestion
// @Description  Fetches the configured feeds, stores new articles and classifies them into groups.
// @Tags         ingest
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} RunResponse
// @Failure      401 {object} respond.ErrorBody
// @Failure      409 {object} respond.ErrorBody "A run is already in progress"
// @Failure      502 {object} respond.ErrorBody "Feed unavailable"
// @Router       /ingest [post]
func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.Logger
	if logger == nil {
		logger = logging.FromContext(ctx)
	}

	res, err := h.Runner.Run(ctx)
	if err != nil {
		logger.WarnContext(ctx, "manual ingestion failed",
			slog.String("viewer", auth.ViewerFromContext(ctx)),
			slog.String("error", respond.SanitizeError(err)))
		respond.FromError(w, err)
		return
	}

	st := res.Stats
	logger.InfoContext(ctx, "manual ingestion finished",
		slog.String("viewer", auth.ViewerFromContext(ctx)),
		slog.Int("inserted", st.Inserted),
		slog.Int("updated", st.Updated),
		slog.Int("skipped", st.Skipped))
	respond.JSON(w, http.StatusOK, RunResponse{
		Received:       st.Received,
		Inserted:       st.Inserted,
		Updated:        st.Updated,
		Skipped:        st.Skipped,
		ClassifyErrors: st.ClassifyErrors,
		LinkErrors:     st.LinkErrors,
		GroupsLinked:   st.GroupsLinked,
		DurationMs:     st.Duration.Milliseconds(),
	})
}
