package classifier

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"topicfeed/internal/resilience/retry"
)

// NewOpenAI returns a Client backed by the OpenAI chat completions API.
// baseURL may be empty for the public endpoint.
func NewOpenAI(apiKey string, cfg Config, baseURL string) *Client {
	clientCfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientCfg.BaseURL = baseURL
	}
	client := openai.NewClientWithConfig(clientCfg)

	return newClient(ProviderOpenAI, cfg, func(ctx context.Context, prompt string) (string, usage, error) {
		resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:     cfg.Model,
			MaxTokens: cfg.MaxTokens,
			Messages: []openai.ChatCompletionMessage{{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			}},
		})
		if err != nil {
			return "", usage{}, openAIError(err)
		}

		u := usage{input: int64(resp.Usage.PromptTokens), output: int64(resp.Usage.CompletionTokens)}
		if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
			return "", u, ErrEmptyReply
		}
		return resp.Choices[0].Message.Content, u, nil
	})
}

func openAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("openai api error: %w", &retry.HTTPError{
			StatusCode: apiErr.HTTPStatusCode,
			Message:    apiErr.Message,
		})
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("openai api error: %w", &retry.HTTPError{
			StatusCode: reqErr.HTTPStatusCode,
			Message:    reqErr.Error(),
		})
	}
	return fmt.Errorf("openai api error: %w", err)
}
