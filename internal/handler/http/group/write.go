package group

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"topicfeed/internal/handler/http/auth"
	"topicfeed/internal/handler/http/pathutil"
	"topicfeed/internal/handler/http/respond"
	groupUC "topicfeed/internal/usecase/group"
)

type createRequest struct {
	Name        string `json:"name" example:"Artificial Intelligence Regulation"`
	Description string `json:"description" example:"Laws and policy on AI systems"`
}

// MessageBody is the response of follow and unfollow.
type MessageBody struct {
	Message string `json:"message"`
}

type CreateHandler struct {
	Svc    *groupUC.Service
	Logger *slog.Logger
}

// ServeHTTP creates a group.
// @Summary      Create group
// @Tags         groups
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body createRequest true "Group"
// @Success      201 {object} groupUC.GroupSummary
// @Failure      400 {object} respond.ErrorBody "Name missing or already taken"
// @Failure      401 {object} respond.ErrorBody
// @Router       /groups [post]
func (h CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}
	g, err := h.Svc.Create(r.Context(), req.Name, req.Description)
	if err != nil {
		if code, _ := respond.StatusFor(err); code >= http.StatusInternalServerError {
			loggerOr(h.Logger, r).ErrorContext(r.Context(), "failed to create group",
				slog.String("error", respond.SanitizeError(err)))
		}
		respond.FromError(w, err)
		return
	}
	loggerOr(h.Logger, r).InfoContext(r.Context(), "group created",
		slog.Int64("group_id", g.ID),
		slog.String("name", g.Name))
	respond.JSON(w, http.StatusCreated, groupUC.GroupSummary{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		CreatedAt:   g.CreatedAt,
	})
}

// FollowHandler follows (Follow true) or unfollows the group as the viewer.
type FollowHandler struct {
	Svc    *groupUC.Service
	Follow bool
}

// ServeHTTP follows or unfollows a group.
// @Summary      Follow or unfollow a group
// @Tags         groups
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  int  true  "Group ID"
// @Success      200 {object} MessageBody
// @Failure      400 {object} respond.ErrorBody "Already following"
// @Failure      401 {object} respond.ErrorBody
// @Failure      404 {object} respond.ErrorBody "Group not found or not following"
// @Router       /groups/{id}/follow [post]
// @Router       /groups/{id}/unfollow [post]
func (h FollowHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	toggle(w, r, h.Svc, auth.ViewerFromContext(r.Context()), h.Follow)
}

// PathTokenFollowHandler is FollowHandler for links that carry the JWT in
// the path instead of a header.
type PathTokenFollowHandler struct {
	Svc      *groupUC.Service
	Verifier *auth.Verifier
	Follow   bool
}

// ServeHTTP follows or unfollows a group using the token in the path.
// @Summary      Follow or unfollow a group with a path token
// @Tags         groups
// @Produce      json
// @Param        id     path  int     true  "Group ID"
// @Param        token  path  string  true  "JWT"
// @Success      200 {object} MessageBody
// @Failure      400 {object} respond.ErrorBody
// @Failure      401 {object} respond.ErrorBody "Invalid token"
// @Failure      404 {object} respond.ErrorBody
// @Router       /groups/{id}/user/{token}/follow [post]
// @Router       /groups/{id}/user/{token}/unfollow [post]
func (h PathTokenFollowHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID, err := h.Verifier.Verify(r.PathValue("token"))
	if err != nil {
		auth.RecordPathToken("invalid", start)
		respond.SafeError(w, http.StatusUnauthorized, errors.New("invalid token"))
		return
	}
	auth.RecordPathToken("success", start)
	toggle(w, r, h.Svc, userID, h.Follow)
}

func toggle(w http.ResponseWriter, r *http.Request, svc *groupUC.Service, userID string, follow bool) {
	id, err := pathutil.ParseID(r, "id")
	if err != nil {
		respond.FromError(w, groupUC.ErrInvalidGroupID)
		return
	}

	msg := "Successfully unfollowed the group"
	op := svc.Unfollow
	if follow {
		msg = "Successfully followed the group"
		op = svc.Follow
	}
	if err := op(r.Context(), userID, id); err != nil {
		respond.FromError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, MessageBody{Message: msg})
}
