package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"topicfeed/internal/usecase/ingest"
)

// Runner performs one ingestion run.
type Runner interface {
	Run(ctx context.Context) (ingest.Result, error)
}

// Job is the cron entry: one bounded ingestion run with metrics.
type Job struct {
	Runner  Runner
	Timeout time.Duration
	Metrics *Metrics
	Logger  *slog.Logger

	now func() time.Time
}

// NewJob wires a Job. metrics may be nil.
func NewJob(runner Runner, timeout time.Duration, metrics *Metrics, logger *slog.Logger) *Job {
	if logger == nil {
		logger = slog.Default()
	}
	return &Job{Runner: runner, Timeout: timeout, Metrics: metrics, Logger: logger, now: time.Now}
}

// Run executes one run under parent. A run already in progress elsewhere is
// reported as skipped, not failed.
func (j *Job) Run(parent context.Context) error {
	ctx := parent
	if j.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(parent, j.Timeout)
		defer cancel()
	}

	start := j.now()
	res, err := j.Runner.Run(ctx)
	elapsed := j.now().Sub(start)

	switch {
	case errors.Is(err, ingest.ErrRunInProgress):
		j.record(StatusSkipped, elapsed)
		j.Logger.InfoContext(ctx, "ingestion skipped, another run holds the lock")
		return nil
	case err != nil:
		j.record(StatusFailure, elapsed)
		if j.Metrics != nil {
			j.Metrics.recordArticles(res.Stats.Inserted, res.Stats.Updated, res.Stats.Skipped)
		}
		j.Logger.ErrorContext(ctx, "scheduled ingestion failed",
			slog.Any("error", err),
			slog.Duration("duration", elapsed))
		return err
	}

	j.record(StatusSuccess, elapsed)
	if j.Metrics != nil {
		j.Metrics.recordArticles(res.Stats.Inserted, res.Stats.Updated, res.Stats.Skipped)
	}
	j.Logger.InfoContext(ctx, "scheduled ingestion finished",
		slog.Int("received", res.Stats.Received),
		slog.Int("inserted", res.Stats.Inserted),
		slog.Int("groups_linked", res.Stats.GroupsLinked),
		slog.Duration("duration", elapsed))
	return nil
}

func (j *Job) record(status string, d time.Duration) {
	if j.Metrics != nil {
		j.Metrics.recordRun(status, d)
	}
}
