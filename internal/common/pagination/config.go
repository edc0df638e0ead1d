// Package pagination implements offset pagination shared by every list
// endpoint: query parsing, offset arithmetic and the response envelope.
package pagination

import (
	"topicfeed/internal/pkg/config"
)

// Per-endpoint default page sizes.
const (
	DefaultNewsLimit      = 5
	DefaultTimelineLimit  = 50
	DefaultFollowUpLimit  = 50
	DefaultGroupsLimit    = 10
	DefaultGroupNewsLimit = 10
	DefaultMaxLimit       = 100
	defaultPage           = 1
	maxLimitUpperBoundary = 1000
)

// Config holds pagination settings for one endpoint.
type Config struct {
	DefaultPage  int
	DefaultLimit int
	MaxLimit     int
}

// DefaultConfig returns page=1, limit=10, max=100.
func DefaultConfig() Config {
	return Config{
		DefaultPage:  defaultPage,
		DefaultLimit: DefaultGroupsLimit,
		MaxLimit:     DefaultMaxLimit,
	}
}

// LoadFromEnv reads PAGINATION_MAX_LIMIT.
func LoadFromEnv(l *config.Loader) Config {
	cfg := DefaultConfig()
	cfg.MaxLimit = l.Int("PAGINATION_MAX_LIMIT", DefaultMaxLimit, config.IntRange(1, maxLimitUpperBoundary))
	return cfg
}

// WithDefaultLimit returns a copy of c using limit when the request has none.
func (c Config) WithDefaultLimit(limit int) Config {
	c.DefaultLimit = limit
	if c.DefaultLimit > c.MaxLimit {
		c.DefaultLimit = c.MaxLimit
	}
	return c
}
