package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"topicfeed/internal/domain/entity"
	"topicfeed/internal/resilience/retry"
	"topicfeed/internal/usecase/ingest"
)

func testConfig(provider string) Config {
	cfg := DefaultConfig(provider)
	cfg.RPS = 0
	cfg.CallTimeout = 5 * time.Second
	return cfg
}

func fastRetry() retry.Config {
	return retry.Config{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond, Multiplier: 2}
}

func claudeReply(text string) string {
	body, _ := json.Marshal(map[string]any{
		"id":            "msg_01",
		"type":          "message",
		"role":          "assistant",
		"model":         "claude-sonnet-4-5-20250929",
		"content":       []map[string]any{{"type": "text", "text": text}},
		"stop_reason":   "end_turn",
		"stop_sequence": nil,
		"usage":         map[string]any{"input_tokens": 12, "output_tokens": 34},
	})
	return string(body)
}

func openAIReply(text string) string {
	body, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": text},
			"finish_reason": "stop",
		}},
		"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
	})
	return string(body)
}

func TestClaude_Classify(t *testing.T) {
	t.Parallel()

	var gotPath atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath.Store(r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(claudeReply("```json\n[{\"name\":\"Topic A\",\"description\":\"first\"}]\n```")))
	}))
	defer srv.Close()

	c := NewClaude("test-key", testConfig(ProviderClaude), option.WithBaseURL(srv.URL+"/"))
	got, err := c.Classify(t.Context(), ingest.ClassifyInput{Title: "t", Content: "c"})
	require.NoError(t, err)
	assert.Equal(t, []ingest.Suggestion{{Name: "Topic A", Description: "first"}}, got)
	assert.Equal(t, "/v1/messages", gotPath.Load())
	assert.Equal(t, ProviderClaude, c.Provider())
}

func TestClaude_Classify_RetriesServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"type":"error","error":{"type":"api_error","message":"boom"}}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(claudeReply(`[{"name":"Topic B"}]`)))
	}))
	defer srv.Close()

	c := NewClaude("test-key", testConfig(ProviderClaude), option.WithBaseURL(srv.URL+"/"))
	c.retryConfig = fastRetry()

	got, err := c.Classify(t.Context(), ingest.ClassifyInput{Title: "t"})
	require.NoError(t, err)
	assert.Equal(t, []ingest.Suggestion{{Name: "Topic B"}}, got)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClaude_Classify_ClientErrorNotRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"authentication_error","message":"bad key"}}`))
	}))
	defer srv.Close()

	c := NewClaude("bad", testConfig(ProviderClaude), option.WithBaseURL(srv.URL+"/"))
	c.retryConfig = fastRetry()

	_, err := c.Classify(t.Context(), ingest.ClassifyInput{Title: "t"})
	require.Error(t, err)

	var httpErr *retry.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}

func TestOpenAI_ClassifyAndAnswer(t *testing.T) {
	t.Parallel()

	var gotPath atomic.Value
	var reply atomic.Value
	reply.Store(`[{"name":"Markets Rally July 2024","description":"Stocks climb"}]`)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath.Store(r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(openAIReply(reply.Load().(string))))
	}))
	defer srv.Close()

	c := NewOpenAI("test-key", testConfig(ProviderOpenAI), srv.URL+"/v1")

	got, err := c.Classify(t.Context(), ingest.ClassifyInput{Title: "Markets"})
	require.NoError(t, err)
	assert.Equal(t, []ingest.Suggestion{{Name: "Markets Rally July 2024", Description: "Stocks climb"}}, got)
	assert.Equal(t, "/v1/chat/completions", gotPath.Load())

	reply.Store("Because of earnings.")
	answer, err := c.Answer(t.Context(), "why?", entity.News{Title: "Markets"})
	require.NoError(t, err)
	assert.Equal(t, "Because of earnings.", answer)
}

func TestOpenAI_Classify_RateLimitedIsRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":{"message":"slow down","type":"rate_limit_exceeded"}}`))
			return
		}
		_, _ = w.Write([]byte(openAIReply(`[{"name":"X"}]`)))
	}))
	defer srv.Close()

	c := NewOpenAI("k", testConfig(ProviderOpenAI), srv.URL+"/v1")
	c.retryConfig = fastRetry()

	got, err := c.Classify(t.Context(), ingest.ClassifyInput{Title: "t"})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_MalformedReply(t *testing.T) {
	t.Parallel()

	c := newClient("fake", testConfig(ProviderNoop), func(context.Context, string) (string, usage, error) {
		return "I cannot help with that.", usage{}, nil
	})
	_, err := c.Classify(t.Context(), ingest.ClassifyInput{Title: "t"})
	require.ErrorIs(t, err, ErrMalformedReply)
}

func TestClient_EmptyReplyIsRetriedThenFails(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c := newClient("fake", testConfig(ProviderNoop), func(context.Context, string) (string, usage, error) {
		calls.Add(1)
		return "", usage{}, ErrEmptyReply
	})
	c.retryConfig = fastRetry()

	_, err := c.Classify(t.Context(), ingest.ClassifyInput{Title: "t"})
	require.ErrorIs(t, err, ErrEmptyReply)
	// ErrEmptyReply is not transient.
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_RateLimiterHonoursContext(t *testing.T) {
	t.Parallel()

	cfg := testConfig(ProviderNoop)
	cfg.RPS = 0.001
	cfg.Burst = 1
	var calls atomic.Int32
	c := newClient("fake", cfg, func(context.Context, string) (string, usage, error) {
		calls.Add(1)
		return `[]`, usage{}, nil
	})

	_, err := c.Classify(t.Context(), ingest.ClassifyInput{Title: "first"})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()
	_, err = c.Classify(ctx, ingest.ClassifyInput{Title: "second"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limiter")
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_ContextCancelledStopsRetry(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	c := newClient("fake", testConfig(ProviderNoop), func(context.Context, string) (string, usage, error) {
		cancel()
		return "", usage{}, &retry.HTTPError{StatusCode: http.StatusBadGateway, Message: "bad gateway"}
	})
	c.retryConfig = retry.Config{MaxAttempts: 3, InitialDelay: time.Minute, MaxDelay: time.Minute, Multiplier: 1}

	_, err := c.Classify(ctx, ingest.ClassifyInput{Title: "t"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestNoop(t *testing.T) {
	t.Parallel()

	got, err := NewNoop().Classify(t.Context(), ingest.ClassifyInput{Title: "t"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNew(t *testing.T) {
	t.Parallel()

	cls, answerer, err := New(DefaultConfig(ProviderNoop), Keys{})
	require.NoError(t, err)
	assert.IsType(t, &Noop{}, cls)
	assert.Nil(t, answerer)

	_, _, err = New(DefaultConfig(ProviderClaude), Keys{})
	require.ErrorContains(t, err, "ANTHROPIC_API_KEY")

	_, _, err = New(DefaultConfig(ProviderOpenAI), Keys{})
	require.ErrorContains(t, err, "OPENAI_API_KEY")

	cls, answerer, err = New(DefaultConfig(ProviderOpenAI), Keys{OpenAI: "k"})
	require.NoError(t, err)
	assert.Same(t, answerer, cls.(*Client))

	_, _, err = New(Config{Provider: "gemini"}, Keys{})
	require.ErrorContains(t, err, "unknown classifier")
}
