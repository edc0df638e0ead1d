package pagination_test

import (
	"testing"

	"topicfeed/internal/common/pagination"
	"topicfeed/internal/pkg/config"
)

func TestLoadFromEnv(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want int
	}{
		{"unset", "", 100},
		{"override", "50", 50},
		{"invalid falls back", "lots", 100},
		{"out of range falls back", "0", 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PAGINATION_MAX_LIMIT", tt.env)
			cfg := pagination.LoadFromEnv(config.NewLoader(nil, nil))
			if cfg.MaxLimit != tt.want {
				t.Errorf("MaxLimit = %d, want %d", cfg.MaxLimit, tt.want)
			}
			if cfg.DefaultPage != 1 {
				t.Errorf("DefaultPage = %d, want 1", cfg.DefaultPage)
			}
		})
	}
}
