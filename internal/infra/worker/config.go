// Package worker holds the scheduled-ingestion plumbing: configuration,
// the cron job wrapper, health endpoints and metrics.
package worker

import (
	"errors"
	"fmt"
	"time"

	"topicfeed/internal/pkg/config"
)

// Config controls the ingestion worker.
type Config struct {
	// CronSchedule is a standard five-field cron expression.
	CronSchedule string
	// Timezone is the IANA zone the schedule is evaluated in.
	Timezone string
	// IngestTimeout bounds one run, lock wait excluded.
	IngestTimeout time.Duration
	// LockTTL is how long the Redis run lock survives a crashed holder.
	LockTTL time.Duration

	HealthPort     int
	MetricsPort    int
	GRPCHealthPort int
}

// DefaultConfig runs every 30 minutes in UTC.
func DefaultConfig() Config {
	return Config{
		CronSchedule:   "*/30 * * * *",
		Timezone:       "UTC",
		IngestTimeout:  10 * time.Minute,
		LockTTL:        15 * time.Minute,
		HealthPort:     9091,
		MetricsPort:    9090,
		GRPCHealthPort: 9092,
	}
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error
	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errs = append(errs, fmt.Errorf("cron schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := config.ValidateDuration(c.IngestTimeout, time.Minute, 4*time.Hour); err != nil {
		errs = append(errs, fmt.Errorf("ingest timeout: %w", err))
	}
	if c.LockTTL < c.IngestTimeout {
		errs = append(errs, fmt.Errorf("lock ttl %v must not be shorter than ingest timeout %v", c.LockTTL, c.IngestTimeout))
	}
	for name, port := range map[string]int{
		"health port":      c.HealthPort,
		"metrics port":     c.MetricsPort,
		"grpc health port": c.GRPCHealthPort,
	} {
		if err := config.ValidateIntRange(port, 1024, 65535); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// LoadConfig reads the worker variables through l:
//
//	CRON_SCHEDULE     (*/30 * * * *)
//	WORKER_TIMEZONE   (UTC)
//	INGEST_TIMEOUT    (10m, 1m..4h)
//	INGEST_LOCK_TTL   (15m, 1m..24h)
//	HEALTH_PORT       (9091)
//	METRICS_PORT      (9090)
//	GRPC_HEALTH_PORT  (9092)
//
// A lock TTL shorter than the run timeout is raised to the timeout.
func LoadConfig(l *config.Loader) Config {
	def := DefaultConfig()
	port := config.IntRange(1024, 65535)
	cfg := Config{
		CronSchedule:   l.Validated("CRON_SCHEDULE", def.CronSchedule, config.ValidateCronSchedule),
		Timezone:       l.Validated("WORKER_TIMEZONE", def.Timezone, config.ValidateTimezone),
		IngestTimeout:  l.Duration("INGEST_TIMEOUT", def.IngestTimeout, config.DurationRange(time.Minute, 4*time.Hour)),
		LockTTL:        l.Duration("INGEST_LOCK_TTL", def.LockTTL, config.DurationRange(time.Minute, 24*time.Hour)),
		HealthPort:     l.Int("HEALTH_PORT", def.HealthPort, port),
		MetricsPort:    l.Int("METRICS_PORT", def.MetricsPort, port),
		GRPCHealthPort: l.Int("GRPC_HEALTH_PORT", def.GRPCHealthPort, port),
	}
	cfg.LockTTL = max(cfg.LockTTL, cfg.IngestTimeout)
	return cfg
}
