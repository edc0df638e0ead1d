package classifier

import (
	"fmt"

	"topicfeed/internal/usecase/ingest"
)

// Keys carries provider credentials.
type Keys struct {
	Anthropic     string
	OpenAI        string
	OpenAIBaseURL string
}

// New builds the classifier selected by cfg.Provider. The returned Client is
// nil for the noop provider and can be used as an Answerer otherwise.
func New(cfg Config, keys Keys) (ingest.Classifier, *Client, error) {
	switch cfg.Provider {
	case ProviderClaude:
		if keys.Anthropic == "" {
			return nil, nil, fmt.Errorf("classifier %s: ANTHROPIC_API_KEY is required", cfg.Provider)
		}
		c := NewClaude(keys.Anthropic, cfg)
		return c, c, nil
	case ProviderOpenAI:
		if keys.OpenAI == "" {
			return nil, nil, fmt.Errorf("classifier %s: OPENAI_API_KEY is required", cfg.Provider)
		}
		c := NewOpenAI(keys.OpenAI, cfg, keys.OpenAIBaseURL)
		return c, c, nil
	case ProviderNoop, "":
		return NewNoop(), nil, nil
	default:
		return nil, nil, ValidateProvider(cfg.Provider)
	}
}
