package ingest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"topicfeed/internal/handler/http/auth"
	ingestUC "topicfeed/internal/usecase/ingest"
)

const secret = "0123456789abcdef0123456789abcdef"

type stubRunner struct {
	res ingestUC.Result
	err error
}

func (s stubRunner) Run(context.Context) (ingestUC.Result, error) { return s.res, s.err }

func bearer(t *testing.T) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "operator",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(secret))
	require.NoError(t, err)
	return "Bearer " + s
}

func TestHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		runner   stubRunner
		auth     bool
		wantCode int
		wantBody string
	}{
		{
			name:     "requires auth",
			runner:   stubRunner{},
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "success",
			runner: stubRunner{res: ingestUC.Result{Stats: ingestUC.Stats{
				Received: 3, Inserted: 2, Updated: 1, GroupsLinked: 4, Duration: 1500 * time.Millisecond,
			}}},
			auth:     true,
			wantCode: http.StatusOK,
			wantBody: `{"received":3,"inserted":2,"updated":1,"skipped":0,"classifyErrors":0,"linkErrors":0,"groupsLinked":4,"durationMs":1500}`,
		},
		{
			name:     "run in progress",
			runner:   stubRunner{err: ingestUC.ErrRunInProgress},
			auth:     true,
			wantCode: http.StatusConflict,
			wantBody: `{"error":"ingestion run already in progress"}`,
		},
		{
			name:     "feed down",
			runner:   stubRunner{err: fmt.Errorf("%w: newsapi: %w", ingestUC.ErrFeedUnavailable, errors.New("status 503"))},
			auth:     true,
			wantCode: http.StatusBadGateway,
			wantBody: `{"error":"feed unavailable"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mux := http.NewServeMux()
			Register(mux, tt.runner, auth.NewMiddleware(secret, nil), nil)

			req := httptest.NewRequest(http.MethodPost, "/ingest", nil)
			if tt.auth {
				req.Header.Set("Authorization", bearer(t))
			}
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}
