package classifier

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"topicfeed/internal/resilience/retry"
)

// NewClaude returns a Client backed by the Anthropic Messages API. Extra
// request options (e.g. a base URL) are appended after the API key.
func NewClaude(apiKey string, cfg Config, opts ...option.RequestOption) *Client {
	reqOpts := append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}, opts...)
	client := anthropic.NewClient(reqOpts...)

	return newClient(ProviderClaude, cfg, func(ctx context.Context, prompt string) (string, usage, error) {
		message, err := client.Messages.New(ctx, anthropic.MessageNewParams{
			Model:     anthropic.Model(cfg.Model),
			MaxTokens: int64(cfg.MaxTokens),
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
			},
		})
		if err != nil {
			return "", usage{}, claudeError(err)
		}

		u := usage{input: message.Usage.InputTokens, output: message.Usage.OutputTokens}
		var sb strings.Builder
		for _, block := range message.Content {
			if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
				sb.WriteString(tb.Text)
			}
		}
		if sb.Len() == 0 {
			return "", u, ErrEmptyReply
		}
		return sb.String(), u, nil
	})
}

// claudeError exposes the HTTP status so retry can tell transient failures.
func claudeError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return fmt.Errorf("claude api error: %w", &retry.HTTPError{
			StatusCode: apiErr.StatusCode,
			Message:    apiErr.Error(),
		})
	}
	return fmt.Errorf("claude api error: %w", err)
}
