package fetcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"topicfeed/internal/pkg/config"
)

func TestContentFetchConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*ContentFetchConfig)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*ContentFetchConfig) {}},
		{name: "zero threshold", mutate: func(c *ContentFetchConfig) { c.Threshold = 0 }},
		{name: "negative threshold", mutate: func(c *ContentFetchConfig) { c.Threshold = -1 }, wantErr: true},
		{name: "zero timeout", mutate: func(c *ContentFetchConfig) { c.Timeout = 0 }, wantErr: true},
		{name: "tiny body", mutate: func(c *ContentFetchConfig) { c.MaxBodySize = 10 }, wantErr: true},
		{name: "too many redirects", mutate: func(c *ContentFetchConfig) { c.MaxRedirects = 11 }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("CONTENT_FETCH_ENABLED", "true")
	t.Setenv("CONTENT_FETCH_THRESHOLD", "1200")
	t.Setenv("CONTENT_FETCH_TIMEOUT", "nope")
	t.Setenv("CONTENT_FETCH_MAX_REDIRECTS", "50")

	l := config.NewLoader(nil, nil)
	cfg := LoadConfig(l)

	assert.True(t, cfg.Enabled)
	assert.Equal(t, 1200, cfg.Threshold)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, 5, cfg.MaxRedirects)
	assert.True(t, cfg.DenyPrivateIPs)
	assert.Equal(t, 2, l.Fallbacks())
	require.NoError(t, cfg.Validate())
}
