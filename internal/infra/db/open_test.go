package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"topicfeed/internal/pkg/config"
)

func TestDefaultConnectionConfig(t *testing.T) {
	cfg := DefaultConnectionConfig()

	assert.Equal(t, 25, cfg.MaxOpenConns)
	assert.Equal(t, 10, cfg.MaxIdleConns)
	assert.Equal(t, time.Hour, cfg.ConnMaxLifetime)
	assert.Equal(t, 30*time.Minute, cfg.ConnMaxIdleTime)
}

func TestConnectionConfigFromEnv(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want ConnectionConfig
	}{
		{
			name: "defaults",
			env:  map[string]string{},
			want: DefaultConnectionConfig(),
		},
		{
			name: "overrides",
			env: map[string]string{
				"DB_MAX_OPEN_CONNS":     "50",
				"DB_MAX_IDLE_CONNS":     "20",
				"DB_CONN_MAX_LIFETIME":  "2h",
				"DB_CONN_MAX_IDLE_TIME": "10m",
			},
			want: ConnectionConfig{MaxOpenConns: 50, MaxIdleConns: 20, ConnMaxLifetime: 2 * time.Hour, ConnMaxIdleTime: 10 * time.Minute},
		},
		{
			name: "invalid values fall back",
			env: map[string]string{
				"DB_MAX_OPEN_CONNS":    "zero",
				"DB_CONN_MAX_LIFETIME": "-5m",
			},
			want: DefaultConnectionConfig(),
		},
		{
			name: "idle capped at open",
			env: map[string]string{
				"DB_MAX_OPEN_CONNS": "5",
				"DB_MAX_IDLE_CONNS": "8",
			},
			want: ConnectionConfig{MaxOpenConns: 5, MaxIdleConns: 5, ConnMaxLifetime: time.Hour, ConnMaxIdleTime: 30 * time.Minute},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range []string{"DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS", "DB_CONN_MAX_LIFETIME", "DB_CONN_MAX_IDLE_TIME"} {
				t.Setenv(k, tt.env[k])
			}
			got := ConnectionConfigFromEnv(config.NewLoader(nil, nil))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOpen_MissingURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	_, err := Open(t.Context(), nil)
	assert.ErrorIs(t, err, ErrMissingDatabaseURL)
}
