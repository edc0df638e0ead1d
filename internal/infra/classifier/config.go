package classifier

import (
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	openai "github.com/sashabaranov/go-openai"

	"topicfeed/internal/pkg/config"
	"topicfeed/internal/usecase/ingest"
)

// Provider names accepted by CLASSIFIER_TYPE.
const (
	ProviderClaude = "claude"
	ProviderOpenAI = "openai"
	ProviderNoop   = "noop"
)

// Config holds classifier settings shared by every provider.
type Config struct {
	Provider string
	Model    string

	// MaxTokens bounds the completion length.
	MaxTokens int

	// MaxGroups caps how many suggestions are returned per article.
	MaxGroups int

	// RPS and Burst feed the client-side rate limiter. RPS <= 0 disables it.
	RPS   float64
	Burst int

	// MaxInputRunes truncates article content before it is sent upstream.
	MaxInputRunes int

	// CallTimeout bounds one upstream attempt.
	CallTimeout time.Duration
}

// DefaultConfig returns the defaults for provider.
func DefaultConfig(provider string) Config {
	cfg := Config{
		Provider:      provider,
		MaxTokens:     1024,
		MaxGroups:     ingest.DefaultMaxGroups,
		RPS:           1,
		Burst:         2,
		MaxInputRunes: 8000,
		CallTimeout:   30 * time.Second,
	}
	switch provider {
	case ProviderClaude:
		cfg.Model = string(anthropic.ModelClaudeSonnet4_5_20250929)
	case ProviderOpenAI:
		cfg.Model = openai.GPT4oMini
	}
	return cfg
}

// LoadConfig reads CLASSIFIER_* variables through l. Invalid values fall
// back to the defaults.
func LoadConfig(l *config.Loader) Config {
	provider := l.Validated("CLASSIFIER_TYPE", ProviderNoop, ValidateProvider)
	cfg := DefaultConfig(provider)

	cfg.Model = l.String("CLASSIFIER_MODEL", cfg.Model)
	cfg.MaxTokens = l.Int("CLASSIFIER_MAX_TOKENS", cfg.MaxTokens, config.IntRange(64, 8192))
	cfg.MaxGroups = l.Int("CLASSIFIER_MAX_GROUPS", cfg.MaxGroups, config.IntRange(1, 10))
	cfg.RPS = l.Float("CLASSIFIER_RPS", cfg.RPS, func(v float64) error {
		if v < 0 || v > 100 {
			return fmt.Errorf("must be between 0 and 100, got %v", v)
		}
		return nil
	})
	cfg.Burst = l.Int("CLASSIFIER_BURST", cfg.Burst, config.IntRange(1, 100))
	cfg.CallTimeout = l.Duration("CLASSIFIER_CALL_TIMEOUT", cfg.CallTimeout,
		config.DurationRange(time.Second, 5*time.Minute))
	return cfg
}

// ValidateProvider rejects unknown CLASSIFIER_TYPE values.
func ValidateProvider(p string) error {
	switch p {
	case ProviderClaude, ProviderOpenAI, ProviderNoop:
		return nil
	default:
		return fmt.Errorf("unknown classifier %q (want claude, openai or noop)", p)
	}
}
