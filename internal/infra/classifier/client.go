// Package classifier adapts LLM providers (Anthropic Claude, OpenAI) to the
// ingestion Classifier port and the news Answerer port. Every call goes
// through a client-side rate limiter, retry with backoff and a circuit
// breaker.
package classifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"topicfeed/internal/domain/entity"
	"topicfeed/internal/resilience/circuitbreaker"
	"topicfeed/internal/resilience/retry"
	"topicfeed/internal/usecase/ingest"
	"topicfeed/internal/utils/text"
)

// ErrEmptyReply is returned when the provider answers with no text.
var ErrEmptyReply = errors.New("llm returned empty response")

type usage struct {
	input, output int64
}

// completeFunc performs one provider call without retry or breaker.
type completeFunc func(ctx context.Context, prompt string) (string, usage, error)

// Client is an LLM-backed Classifier and Answerer.
type Client struct {
	provider       string
	cfg            Config
	complete       completeFunc
	limiter        *rate.Limiter
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
}

var _ ingest.Classifier = (*Client)(nil)

func newClient(provider string, cfg Config, complete completeFunc) *Client {
	var limiter *rate.Limiter
	if cfg.RPS > 0 {
		burst := max(cfg.Burst, 1)
		limiter = rate.NewLimiter(rate.Limit(cfg.RPS), burst)
	}
	slog.Info("initialized llm classifier",
		slog.String("provider", provider),
		slog.String("model", cfg.Model),
		slog.Int("max_groups", cfg.MaxGroups),
		slog.Float64("rps", cfg.RPS))

	return &Client{
		provider:       provider,
		cfg:            cfg,
		complete:       complete,
		limiter:        limiter,
		circuitBreaker: circuitbreaker.New(circuitbreaker.ClassifierConfig(provider + "-api")),
		retryConfig:    retry.AIAPIConfig(),
	}
}

// Provider returns "claude" or "openai".
func (c *Client) Provider() string { return c.provider }

// Classify asks the model for groups matching in.
func (c *Client) Classify(ctx context.Context, in ingest.ClassifyInput) ([]ingest.Suggestion, error) {
	prompt := BuildClassifyPrompt(in, c.cfg.MaxGroups, c.cfg.MaxInputRunes)
	reply, err := c.call(ctx, "classify", prompt)
	if err != nil {
		return nil, err
	}
	suggestions, err := ParseSuggestions(reply, c.cfg.MaxGroups)
	if err != nil {
		malformedReplies.WithLabelValues(c.provider).Inc()
		replyHead, _ := text.Truncate(reply, 200)
		slog.WarnContext(ctx, "classifier reply could not be parsed",
			slog.String("provider", c.provider),
			slog.String("reply", replyHead),
			slog.Any("error", err))
		return nil, err
	}
	return suggestions, nil
}

// Answer asks the model a free-form question about n.
func (c *Client) Answer(ctx context.Context, question string, n entity.News) (string, error) {
	return c.call(ctx, "answer", BuildAnswerPrompt(question, n, c.cfg.MaxInputRunes))
}

func (c *Client) call(ctx context.Context, purpose, prompt string) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("%s rate limiter: %w", c.provider, err)
		}
	}

	var result string
	retryErr := retry.WithBackoff(ctx, c.retryConfig, func() error {
		cbResult, err := c.circuitBreaker.Execute(func() (interface{}, error) {
			return c.attempt(ctx, purpose, prompt)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.WarnContext(ctx, "llm circuit breaker open, request rejected",
					slog.String("service", c.provider+"-api"),
					slog.String("state", c.circuitBreaker.State().String()))
				return fmt.Errorf("%s api unavailable: circuit breaker open", c.provider)
			}
			return err
		}
		result = cbResult.(string)
		return nil
	})
	if retryErr != nil {
		return "", fmt.Errorf("%s %s failed: %w", c.provider, purpose, retryErr)
	}
	return result, nil
}

func (c *Client) attempt(ctx context.Context, purpose, prompt string) (string, error) {
	requestID := uuid.New().String()
	ctx, cancel := context.WithTimeout(ctx, c.cfg.CallTimeout)
	defer cancel()

	start := time.Now()
	reply, u, err := c.complete(ctx, prompt)
	duration := time.Since(start)
	recordUpstream(c.provider, purpose, err)
	recordTokens(c.provider, u)

	if err != nil {
		slog.ErrorContext(ctx, "llm call failed",
			slog.String("request_id", requestID),
			slog.String("provider", c.provider),
			slog.String("purpose", purpose),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return "", err
	}

	slog.DebugContext(ctx, "llm call completed",
		slog.String("request_id", requestID),
		slog.String("provider", c.provider),
		slog.String("purpose", purpose),
		slog.Int64("input_tokens", u.input),
		slog.Int64("output_tokens", u.output),
		slog.Duration("duration", duration))
	return reply, nil
}
