package news

import (
	"log/slog"
	"net/http"

	"topicfeed/internal/handler/http/auth"
	"topicfeed/internal/handler/http/pathutil"
	"topicfeed/internal/handler/http/respond"
	newsUC "topicfeed/internal/usecase/news"
)

type GetHandler struct {
	Svc *newsUC.Service
}

// ServeHTTP returns one news item.
// @Summary      Get news
// @Tags         news
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  int  true  "News ID"
// @Success      200 {object} newsUC.NewsView
// @Failure      400 {object} respond.ErrorBody
// @Failure      404 {object} respond.ErrorBody "News not found"
// @Router       /news/{id} [get]
func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ParseID(r, "id")
	if err != nil {
		respond.FromError(w, newsUC.ErrInvalidNewsID)
		return
	}
	view, err := h.Svc.GetNews(r.Context(), id, auth.ViewerFromContext(r.Context()))
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, view)
}

type AllSidesHandler struct {
	Svc *newsUC.Service
}

// ServeHTTP returns the left, right and center takes on a news item.
// @Summary      All sides of a news item
// @Description  Bias comparison placeholder. Every side is currently null.
// @Tags         news
// @Produce      json
// @Param        newsId  path  int  true  "News ID"
// @Success      200 {object} newsUC.AllSides
// @Failure      400 {object} respond.ErrorBody
// @Router       /getAllSides/{newsId} [get]
func (h AllSidesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ParseID(r, "newsId")
	if err != nil {
		respond.FromError(w, newsUC.ErrInvalidNewsID)
		return
	}
	sides, err := h.Svc.AllSides(r.Context(), id)
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, sides)
}

type AskHandler struct {
	Svc    *newsUC.Service
	Logger *slog.Logger
}

// ServeHTTP answers a question about a news item.
// @Summary      Ask about a news item
// @Tags         news
// @Security     BearerAuth
// @Produce      json
// @Param        question  path  string  true  "Question"
// @Param        newsId    path  int     true  "News ID"
// @Success      200 {object} newsUC.Answer
// @Failure      400 {object} respond.ErrorBody
// @Failure      401 {object} respond.ErrorBody
// @Failure      403 {object} respond.ErrorBody
// @Failure      404 {object} respond.ErrorBody "News not found"
// @Failure      500 {object} respond.ErrorBody
// @Router       /getAiAnswer/{question}/{newsId} [get]
func (h AskHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ParseID(r, "newsId")
	if err != nil {
		respond.FromError(w, newsUC.ErrInvalidNewsID)
		return
	}
	answer, err := h.Svc.Ask(r.Context(), r.PathValue("question"), id)
	if err != nil {
		code, _ := respond.StatusFor(err)
		if code >= http.StatusInternalServerError {
			loggerFor(h.Logger, r).ErrorContext(r.Context(), "failed to answer question",
				slog.Int64("news_id", id),
				slog.String("error", respond.SanitizeError(err)))
		}
		respond.FromError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, answer)
}
