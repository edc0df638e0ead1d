package news

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"topicfeed/internal/common/pagination"
	"topicfeed/internal/handler/http/auth"
	"topicfeed/internal/handler/http/pathutil"
	"topicfeed/internal/handler/http/respond"
	"topicfeed/internal/observability/logging"
	newsUC "topicfeed/internal/usecase/news"
)

type ListHandler struct {
	Svc           *newsUC.Service
	PaginationCfg pagination.Config
	Logger        *slog.Logger
}

// ServeHTTP lists news, newest first.
// @Summary      List news
// @Description  Returns one page of news. Each item carries its groups and whether the viewer follows any of them.
// @Tags         news
// @Security     BearerAuth
// @Produce      json
// @Param        page   query    int  false  "Page number (1-based)" default(1) minimum(1)
// @Param        limit  query    int  false  "Items per page" default(5) minimum(1) maximum(100)
// @Success      200 {object} pagination.Response[newsUC.NewsView]
// @Failure      400 {object} respond.ErrorBody "Invalid query parameters"
// @Failure      500 {object} respond.ErrorBody
// @Router       /news [get]
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	logger := loggerFor(h.Logger, r)

	params, err := pagination.ParseQueryParams(r, h.PaginationCfg)
	if err != nil {
		logger.WarnContext(ctx, "invalid pagination parameters", slog.String("error", err.Error()))
		pagination.RecordError("validation")
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	page, err := h.Svc.ListNews(ctx, params, auth.ViewerFromContext(ctx))
	if err != nil {
		logger.ErrorContext(ctx, "failed to list news",
			slog.Int("page", params.Page),
			slog.Int("limit", params.Limit),
			slog.String("error", respond.SanitizeError(err)))
		pagination.RecordError("database")
		respond.FromError(w, err)
		return
	}

	pagination.RecordRequest("news", http.StatusOK, params.Page)
	logger.DebugContext(ctx, "listed news",
		slog.Int("page", params.Page),
		slog.Int("returned", len(page.Data)),
		slog.Int64("total", page.Total),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))
	respond.JSON(w, http.StatusOK, page)
}

type TimelineHandler struct {
	Svc           *newsUC.Service
	PaginationCfg pagination.Config
	Logger        *slog.Logger
}

// ServeHTTP lists the news of the first group newsId belongs to.
// @Summary      News timeline
// @Description  Returns one page of news from the first group the given news item is linked to.
// @Tags         news
// @Security     BearerAuth
// @Produce      json
// @Param        newsId path     int  true   "News ID"
// @Param        page   query    int  false  "Page number (1-based)" default(1) minimum(1)
// @Param        limit  query    int  false  "Items per page" default(50) minimum(1) maximum(100)
// @Success      200 {object} pagination.Response[newsUC.NewsView]
// @Failure      400 {object} respond.ErrorBody
// @Failure      404 {object} respond.ErrorBody "News not found in any group"
// @Failure      500 {object} respond.ErrorBody
// @Router       /timeline/{newsId} [get]
func (h TimelineHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := loggerFor(h.Logger, r)

	newsID, err := pathutil.ParseID(r, "newsId")
	if err != nil {
		respond.FromError(w, newsUC.ErrInvalidNewsID)
		return
	}
	params, err := pagination.ParseQueryParams(r, h.PaginationCfg)
	if err != nil {
		pagination.RecordError("validation")
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	page, err := h.Svc.Timeline(ctx, newsID, params, auth.ViewerFromContext(ctx))
	if err != nil {
		if !errors.Is(err, newsUC.ErrNotInAnyGroup) {
			logger.ErrorContext(ctx, "failed to build timeline",
				slog.Int64("news_id", newsID),
				slog.String("error", respond.SanitizeError(err)))
		}
		respond.FromError(w, err)
		return
	}

	pagination.RecordRequest("timeline", http.StatusOK, params.Page)
	respond.JSON(w, http.StatusOK, page)
}

func loggerFor(base *slog.Logger, r *http.Request) *slog.Logger {
	if base == nil {
		base = logging.FromContext(r.Context())
	}
	return base.With(slog.String("method", r.Method), slog.String("path", r.URL.Path))
}
