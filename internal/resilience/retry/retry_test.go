package retry

import (
	"context"
	"errors"
	"fmt"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig(attempts int) Config {
	return Config{
		MaxAttempts:  attempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2,
	}
}

func TestWithBackoff(t *testing.T) {
	t.Parallel()

	transient := &HTTPError{StatusCode: 503, Message: "unavailable"}

	tests := []struct {
		name      string
		errs      []error
		attempts  int
		wantCalls int
		wantErr   bool
	}{
		{"first try succeeds", []error{nil}, 3, 1, false},
		{"succeeds after transient", []error{transient, transient, nil}, 3, 3, false},
		{"gives up after max attempts", []error{transient, transient, transient}, 3, 3, true},
		{"non retryable stops immediately", []error{errors.New("bad request body")}, 3, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			calls := 0
			err := WithBackoff(context.Background(), fastConfig(tt.attempts), func() error {
				e := tt.errs[calls]
				calls++
				return e
			})
			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWithBackoff_ContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cfg := Config{MaxAttempts: 5, InitialDelay: time.Hour, MaxDelay: time.Hour, Multiplier: 1}

	calls := 0
	go cancel()
	err := WithBackoff(ctx, cfg, func() error {
		calls++
		return syscall.ECONNRESET
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestIsRetryable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"canceled", context.Canceled, false},
		{"deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), false},
		{"conn reset", fmt.Errorf("read: %w", syscall.ECONNRESET), true},
		{"conn refused", syscall.ECONNREFUSED, true},
		{"500", &HTTPError{StatusCode: 500}, true},
		{"429", fmt.Errorf("wrapped: %w", &HTTPError{StatusCode: 429}), true},
		{"408", &HTTPError{StatusCode: 408}, true},
		{"401", &HTTPError{StatusCode: 401}, false},
		{"plain", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestAddJitter(t *testing.T) {
	t.Parallel()

	assert.Equal(t, time.Second, addJitter(time.Second, 0))
	for range 20 {
		d := addJitter(time.Second, 0.5)
		assert.GreaterOrEqual(t, d, time.Second)
		assert.LessOrEqual(t, d, 1500*time.Millisecond)
	}
}
