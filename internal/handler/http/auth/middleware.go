// Package auth resolves the viewer of a request from an HS256 JWT. Tokens are
// issued elsewhere; this package only verifies them.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"topicfeed/internal/handler/http/respond"
)

type ctxKey string

const ctxViewer ctxKey = "viewer"

// WithViewer returns a copy of ctx carrying the user id.
func WithViewer(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxViewer, userID)
}

// ViewerFromContext returns the authenticated user id, or "" for anonymous
// requests.
func ViewerFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxViewer).(string)
	return id
}

// Middleware attaches the viewer to requests.
type Middleware struct {
	Verifier *Verifier
	Logger   *slog.Logger
}

// NewMiddleware returns a Middleware verifying tokens signed with secret.
func NewMiddleware(secret string, logger *slog.Logger) *Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return &Middleware{Verifier: NewVerifier(secret), Logger: logger}
}

// Optional sets the viewer when a valid token is present. Missing or invalid
// tokens leave the request anonymous.
func (m *Middleware) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		userID, err := m.Verifier.Verify(TokenFromRequest(r))
		switch {
		case err == nil:
			recordAuth("optional", "success", start)
			r = r.WithContext(WithViewer(r.Context(), userID))
		case errors.Is(err, ErrMissingToken):
			recordAuth("optional", "anonymous", start)
		default:
			recordAuth("optional", "invalid", start)
			m.Logger.DebugContext(r.Context(), "ignoring invalid token", slog.Any("error", err))
		}
		next.ServeHTTP(w, r)
	})
}

// Required rejects requests without a token with 401 and requests with an
// invalid token with 403.
func (m *Middleware) Required(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		userID, err := m.Verifier.Verify(TokenFromRequest(r))
		if err != nil {
			if errors.Is(err, ErrMissingToken) {
				recordAuth("required", "missing", start)
				respond.SafeError(w, http.StatusUnauthorized, errors.New("unauthorized: missing token"))
				return
			}
			recordAuth("required", "invalid", start)
			m.Logger.InfoContext(r.Context(), "rejected token",
				slog.String("path", r.URL.Path),
				slog.String("error", respond.SanitizeError(err)))
			respond.SafeError(w, http.StatusForbidden, errors.New("forbidden: invalid token"))
			return
		}
		recordAuth("required", "success", start)
		next.ServeHTTP(w, r.WithContext(WithViewer(r.Context(), userID)))
	})
}
