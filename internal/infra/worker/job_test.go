package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"topicfeed/internal/usecase/ingest"
)

type runnerFunc func(ctx context.Context) (ingest.Result, error)

func (f runnerFunc) Run(ctx context.Context) (ingest.Result, error) { return f(ctx) }

func TestJob_Run(t *testing.T) {
	t.Parallel()

	feedErr := errors.New("newsapi down")
	tests := []struct {
		name       string
		result     ingest.Result
		err        error
		wantErr    error
		wantStatus string
		wantIns    float64
	}{
		{
			name:       "success",
			result:     ingest.Result{Stats: ingest.Stats{Received: 3, Inserted: 2, Updated: 1}},
			wantStatus: StatusSuccess,
			wantIns:    2,
		},
		{
			name:       "run in progress is skipped",
			err:        ingest.ErrRunInProgress,
			wantStatus: StatusSkipped,
		},
		{
			name:       "failure",
			err:        feedErr,
			wantErr:    feedErr,
			wantStatus: StatusFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := NewMetrics(prometheus.NewRegistry())
			job := NewJob(runnerFunc(func(context.Context) (ingest.Result, error) {
				return tt.result, tt.err
			}), time.Minute, m, nil)

			err := job.Run(t.Context())
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			assert.InDelta(t, 1, testutil.ToFloat64(m.RunsTotal.WithLabelValues(tt.wantStatus)), 0)
			assert.InDelta(t, tt.wantIns, testutil.ToFloat64(m.ArticlesIngested.WithLabelValues("inserted")), 0)
			if tt.wantStatus == StatusSuccess {
				assert.Positive(t, testutil.ToFloat64(m.LastSuccessSeconds))
			} else {
				assert.Zero(t, testutil.ToFloat64(m.LastSuccessSeconds))
			}
		})
	}
}

func TestJob_RunAppliesTimeout(t *testing.T) {
	t.Parallel()

	var deadline time.Time
	job := NewJob(runnerFunc(func(ctx context.Context) (ingest.Result, error) {
		deadline, _ = ctx.Deadline()
		return ingest.Result{}, nil
	}), time.Minute, nil, nil)

	require.NoError(t, job.Run(t.Context()))
	assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)
}
