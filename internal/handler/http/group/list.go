package group

import (
	"log/slog"
	"net/http"

	"topicfeed/internal/common/pagination"
	"topicfeed/internal/handler/http/auth"
	"topicfeed/internal/handler/http/pathutil"
	"topicfeed/internal/handler/http/respond"
	"topicfeed/internal/observability/logging"
	groupUC "topicfeed/internal/usecase/group"
	newsUC "topicfeed/internal/usecase/news"
)

type ListHandler struct {
	Svc           *groupUC.Service
	PaginationCfg pagination.Config
	Logger        *slog.Logger
}

// ServeHTTP lists groups with their counters.
// @Summary      List groups
// @Description  Returns one page of groups ordered by id, with news and follower counts and whether the viewer follows each.
// @Tags         groups
// @Security     BearerAuth
// @Produce      json
// @Param        page   query    int  false  "Page number (1-based)" default(1) minimum(1)
// @Param        limit  query    int  false  "Items per page" default(10) minimum(1) maximum(100)
// @Success      200 {object} pagination.Response[groupUC.GroupView]
// @Failure      400 {object} respond.ErrorBody
// @Failure      500 {object} respond.ErrorBody
// @Router       /groups [get]
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params, err := pagination.ParseQueryParams(r, h.PaginationCfg)
	if err != nil {
		pagination.RecordError("validation")
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	page, err := h.Svc.ListGroups(ctx, params, auth.ViewerFromContext(ctx))
	if err != nil {
		loggerOr(h.Logger, r).ErrorContext(ctx, "failed to list groups",
			slog.Int("page", params.Page),
			slog.String("error", respond.SanitizeError(err)))
		pagination.RecordError("database")
		respond.FromError(w, err)
		return
	}
	pagination.RecordRequest("groups", http.StatusOK, params.Page)
	respond.JSON(w, http.StatusOK, page)
}

type GetHandler struct {
	Svc *groupUC.Service
}

// ServeHTTP returns one group with its five most recent news.
// @Summary      Get group
// @Tags         groups
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  int  true  "Group ID"
// @Success      200 {object} groupUC.GroupDetail
// @Failure      400 {object} respond.ErrorBody
// @Failure      404 {object} respond.ErrorBody "Group not found"
// @Router       /groups/{id} [get]
func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ParseID(r, "id")
	if err != nil {
		respond.FromError(w, groupUC.ErrInvalidGroupID)
		return
	}
	detail, err := h.Svc.GetGroup(r.Context(), id, auth.ViewerFromContext(r.Context()))
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, detail)
}

type NewsHandler struct {
	Svc           *newsUC.Service
	PaginationCfg pagination.Config
	Logger        *slog.Logger
}

// ServeHTTP lists the news of one group, newest first.
// @Summary      List group news
// @Tags         groups
// @Security     BearerAuth
// @Produce      json
// @Param        id     path     int  true   "Group ID"
// @Param        page   query    int  false  "Page number (1-based)" default(1) minimum(1)
// @Param        limit  query    int  false  "Items per page" default(10) minimum(1) maximum(100)
// @Success      200 {object} pagination.Response[newsUC.NewsView]
// @Failure      400 {object} respond.ErrorBody
// @Failure      404 {object} respond.ErrorBody "Group not found"
// @Router       /groups/{id}/news [get]
func (h NewsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathutil.ParseID(r, "id")
	if err != nil {
		respond.FromError(w, groupUC.ErrInvalidGroupID)
		return
	}
	params, err := pagination.ParseQueryParams(r, h.PaginationCfg)
	if err != nil {
		pagination.RecordError("validation")
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	page, err := h.Svc.ListGroupNews(ctx, id, params, auth.ViewerFromContext(ctx))
	if err != nil {
		if code, _ := respond.StatusFor(err); code >= http.StatusInternalServerError {
			loggerOr(h.Logger, r).ErrorContext(ctx, "failed to list group news",
				slog.Int64("group_id", id),
				slog.String("error", respond.SanitizeError(err)))
		}
		respond.FromError(w, err)
		return
	}
	pagination.RecordRequest("group_news", http.StatusOK, params.Page)
	respond.JSON(w, http.StatusOK, page)
}

type FollowedHandler struct {
	Svc           *groupUC.Service
	PaginationCfg pagination.Config
	Logger        *slog.Logger
}

// ServeHTTP lists the groups the viewer follows.
// @Summary      Followed groups
// @Tags         groups
// @Security     BearerAuth
// @Produce      json
// @Param        page   query    int  false  "Page number (1-based)" default(1) minimum(1)
// @Param        limit  query    int  false  "Items per page" default(50) minimum(1) maximum(100)
// @Success      200 {object} pagination.Response[groupUC.GroupSummary]
// @Failure      400 {object} respond.ErrorBody
// @Failure      401 {object} respond.ErrorBody
// @Router       /getFollowUp [get]
func (h FollowedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params, err := pagination.ParseQueryParams(r, h.PaginationCfg)
	if err != nil {
		pagination.RecordError("validation")
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	page, err := h.Svc.ListFollowed(ctx, auth.ViewerFromContext(ctx), params)
	if err != nil {
		if code, _ := respond.StatusFor(err); code >= http.StatusInternalServerError {
			loggerOr(h.Logger, r).ErrorContext(ctx, "failed to list followed groups",
				slog.String("error", respond.SanitizeError(err)))
		}
		respond.FromError(w, err)
		return
	}
	pagination.RecordRequest("follow_up", http.StatusOK, params.Page)
	respond.JSON(w, http.StatusOK, page)
}

func loggerOr(l *slog.Logger, r *http.Request) *slog.Logger {
	if l != nil {
		return l
	}
	return logging.FromContext(r.Context())
}
