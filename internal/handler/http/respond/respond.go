// Package respond writes JSON responses and maps use case errors to HTTP
// status codes without leaking internal details.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"topicfeed/internal/domain/entity"
	"topicfeed/internal/usecase/group"
	"topicfeed/internal/usecase/ingest"
	"topicfeed/internal/usecase/news"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
}

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are already sent.
		slog.Default().Error("failed to encode JSON response",
			slog.Int("status_code", code),
			slog.Any("error", err))
	}
}

// Error writes err's message verbatim.
func Error(w http.ResponseWriter, code int, err error) {
	JSON(w, code, ErrorBody{Error: err.Error()})
}

var safeFragments = []string{
	"required",
	"invalid",
	"not found",
	"already",
	"not following",
	"must be",
	"cannot be",
	"too long",
	"too short",
	"unauthorized",
	"forbidden",
	"rate limit",
}

// SafeError returns user-facing messages (validation, not found and the like)
// as-is. Anything else, and every 5xx, is logged sanitised and replaced by
// "internal server error".
func SafeError(w http.ResponseWriter, code int, err error) {
	if err == nil {
		return
	}
	msg := err.Error()
	if code < 500 && isSafe(msg) {
		JSON(w, code, ErrorBody{Error: msg})
		return
	}
	slog.Default().Error("internal server error",
		slog.String("status", http.StatusText(code)),
		slog.Int("code", code),
		slog.String("error", SanitizeError(err)))
	JSON(w, code, ErrorBody{Error: "internal server error"})
}

func isSafe(msg string) bool {
	lower := strings.ToLower(msg)
	for _, f := range safeFragments {
		if strings.Contains(lower, f) {
			return true
		}
	}
	return false
}

type mapping struct {
	target error
	code   int
}

// Checked in order; the first sentinel found in the chain wins.
var mappings = []mapping{
	{news.ErrNewsNotFound, http.StatusNotFound},
	{news.ErrNotInAnyGroup, http.StatusNotFound},
	{group.ErrGroupNotFound, http.StatusNotFound},
	{group.ErrNotFollowing, http.StatusNotFound},
	{entity.ErrNotFound, http.StatusNotFound},
	{news.ErrInvalidNewsID, http.StatusBadRequest},
	{news.ErrQuestionRequired, http.StatusBadRequest},
	{group.ErrInvalidGroupID, http.StatusBadRequest},
	{group.ErrGroupExists, http.StatusBadRequest},
	{group.ErrAlreadyFollowing, http.StatusBadRequest},
	{entity.ErrInvalidInput, http.StatusBadRequest},
	{group.ErrViewerRequired, http.StatusUnauthorized},
	{ingest.ErrRunInProgress, http.StatusConflict},
	{ingest.ErrFeedUnavailable, http.StatusBadGateway},
	{ingest.ErrNoFeedSource, http.StatusServiceUnavailable},
}

// StatusFor returns the HTTP status for err and the message safe to show.
func StatusFor(err error) (int, string) {
	var ve *entity.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, ve.Error()
	}
	for _, m := range mappings {
		if errors.Is(err, m.target) {
			return m.code, m.target.Error()
		}
	}
	return http.StatusInternalServerError, "internal server error"
}

// FromError writes the response for a use case error. Known sentinels keep
// their own message without the wrapping context; the rest become a logged 500.
func FromError(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	code, msg := StatusFor(err)
	if code >= 500 {
		slog.Default().Error("request failed",
			slog.Int("code", code),
			slog.String("error", SanitizeError(err)))
		if code == http.StatusInternalServerError {
			msg = "internal server error"
		}
	}
	JSON(w, code, ErrorBody{Error: msg})
}
