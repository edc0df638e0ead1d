package fetcher

import (
	"fmt"
	"time"

	"topicfeed/internal/pkg/config"
)

// ContentFetchConfig controls article page downloads used to enrich the
// classifier input.
type ContentFetchConfig struct {
	// Enabled turns enrichment on. Default: false.
	Enabled bool

	// Threshold is the content length in runes below which the page is
	// fetched. Default: 500.
	Threshold int

	// Timeout bounds one HTTP request. Default: 10s.
	Timeout time.Duration

	// MaxBodySize rejects larger responses while reading. Default: 5MB.
	MaxBodySize int64

	// MaxRedirects bounds redirect chains; every target is re-validated.
	MaxRedirects int

	// DenyPrivateIPs rejects hosts resolving to loopback, link-local or
	// private addresses. Only tests turn it off.
	DenyPrivateIPs bool
}

// DefaultConfig returns production defaults with enrichment disabled.
func DefaultConfig() ContentFetchConfig {
	return ContentFetchConfig{
		Enabled:        false,
		Threshold:      500,
		Timeout:        10 * time.Second,
		MaxBodySize:    5 * 1024 * 1024,
		MaxRedirects:   5,
		DenyPrivateIPs: true,
	}
}

// Validate checks the limits.
func (c ContentFetchConfig) Validate() error {
	if c.Threshold < 0 {
		return fmt.Errorf("threshold must be non-negative, got %d", c.Threshold)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	const minBody, maxBody = int64(1024), int64(100 * 1024 * 1024)
	if c.MaxBodySize < minBody || c.MaxBodySize > maxBody {
		return fmt.Errorf("max body size must be between %d and %d bytes, got %d", minBody, maxBody, c.MaxBodySize)
	}
	if c.MaxRedirects < 0 || c.MaxRedirects > 10 {
		return fmt.Errorf("max redirects must be between 0 and 10, got %d", c.MaxRedirects)
	}
	return nil
}

// LoadConfig reads CONTENT_FETCH_* variables through l:
//
//	CONTENT_FETCH_ENABLED        bool      (false)
//	CONTENT_FETCH_THRESHOLD      int       (500, 0..100000)
//	CONTENT_FETCH_TIMEOUT        duration  (10s, 1s..2m)
//	CONTENT_FETCH_MAX_BODY_SIZE  int bytes (5MB, 1KB..100MB)
//	CONTENT_FETCH_MAX_REDIRECTS  int       (5, 0..10)
func LoadConfig(l *config.Loader) ContentFetchConfig {
	def := DefaultConfig()
	return ContentFetchConfig{
		Enabled:        l.Bool("CONTENT_FETCH_ENABLED", def.Enabled),
		Threshold:      l.Int("CONTENT_FETCH_THRESHOLD", def.Threshold, config.IntRange(0, 100000)),
		Timeout:        l.Duration("CONTENT_FETCH_TIMEOUT", def.Timeout, config.DurationRange(time.Second, 2*time.Minute)),
		MaxBodySize:    int64(l.Int("CONTENT_FETCH_MAX_BODY_SIZE", int(def.MaxBodySize), config.IntRange(1024, 100*1024*1024))),
		MaxRedirects:   l.Int("CONTENT_FETCH_MAX_REDIRECTS", def.MaxRedirects, config.IntRange(0, 10)),
		DenyPrivateIPs: true,
	}
}
