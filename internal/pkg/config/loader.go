// Package config loads process configuration from environment variables.
// Loading is fail-open: an invalid value falls back to the default, and the
// fallback is reported as a warning instead of stopping the process.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"
)

// LoadResult is the outcome of loading one configuration value.
type LoadResult[T any] struct {
	Value           T
	Warning         string
	FallbackApplied bool
}

// LoadEnvString returns the variable or defaultValue when unset or empty.
func LoadEnvString(envKey, defaultValue string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	return defaultValue
}

// LoadEnvWithFallback loads a string and validates it. Invalid values fall
// back to defaultValue with a warning.
func LoadEnvWithFallback(envKey, defaultValue string, validator func(string) error) LoadResult[string] {
	value := os.Getenv(envKey)
	if value == "" {
		return LoadResult[string]{Value: defaultValue}
	}
	if validator != nil {
		if err := validator(value); err != nil {
			return fallback(envKey, value, err, defaultValue)
		}
	}
	return LoadResult[string]{Value: value}
}

// LoadEnvDuration parses a Go duration ("30s", "5m").
func LoadEnvDuration(envKey string, defaultValue time.Duration, validator func(time.Duration) error) LoadResult[time.Duration] {
	raw := os.Getenv(envKey)
	if raw == "" {
		return LoadResult[time.Duration]{Value: defaultValue}
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback(envKey, raw, err, defaultValue)
	}
	if validator != nil {
		if err := validator(d); err != nil {
			return fallback(envKey, raw, err, defaultValue)
		}
	}
	return LoadResult[time.Duration]{Value: d}
}

// LoadEnvInt parses a base-10 integer.
func LoadEnvInt(envKey string, defaultValue int, validator func(int) error) LoadResult[int] {
	raw := os.Getenv(envKey)
	if raw == "" {
		return LoadResult[int]{Value: defaultValue}
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback(envKey, raw, fmt.Errorf("invalid integer format"), defaultValue)
	}
	if validator != nil {
		if err := validator(n); err != nil {
			return fallback(envKey, raw, err, defaultValue)
		}
	}
	return LoadResult[int]{Value: n}
}

// LoadEnvFloat parses a float64.
func LoadEnvFloat(envKey string, defaultValue float64, validator func(float64) error) LoadResult[float64] {
	raw := os.Getenv(envKey)
	if raw == "" {
		return LoadResult[float64]{Value: defaultValue}
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback(envKey, raw, fmt.Errorf("invalid number format"), defaultValue)
	}
	if validator != nil {
		if err := validator(f); err != nil {
			return fallback(envKey, raw, err, defaultValue)
		}
	}
	return LoadResult[float64]{Value: f}
}

// LoadEnvBool accepts the strconv.ParseBool spellings.
func LoadEnvBool(envKey string, defaultValue bool) LoadResult[bool] {
	raw := os.Getenv(envKey)
	if raw == "" {
		return LoadResult[bool]{Value: defaultValue}
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback(envKey, raw, fmt.Errorf("invalid boolean format, expected 'true' or 'false'"), defaultValue)
	}
	return LoadResult[bool]{Value: b}
}

func fallback[T any](envKey, raw string, err error, defaultValue T) LoadResult[T] {
	return LoadResult[T]{
		Value:           defaultValue,
		Warning:         fmt.Sprintf("Invalid %s='%s': %v, falling back to default '%v'", envKey, raw, err, defaultValue),
		FallbackApplied: true,
	}
}

// Loader loads the settings of one component, logging every fallback and
// recording it in ConfigMetrics when metrics are provided.
type Loader struct {
	logger    *slog.Logger
	metrics   *ConfigMetrics
	fallbacks int
}

// NewLoader returns a Loader. metrics may be nil.
func NewLoader(logger *slog.Logger, metrics *ConfigMetrics) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger, metrics: metrics}
}

func (l *Loader) String(envKey, defaultValue string) string {
	return LoadEnvString(envKey, defaultValue)
}

func (l *Loader) Validated(envKey, defaultValue string, validator func(string) error) string {
	return observe(l, envKey, LoadEnvWithFallback(envKey, defaultValue, validator))
}

func (l *Loader) Int(envKey string, defaultValue int, validator func(int) error) int {
	return observe(l, envKey, LoadEnvInt(envKey, defaultValue, validator))
}

func (l *Loader) Float(envKey string, defaultValue float64, validator func(float64) error) float64 {
	return observe(l, envKey, LoadEnvFloat(envKey, defaultValue, validator))
}

func (l *Loader) Duration(envKey string, defaultValue time.Duration, validator func(time.Duration) error) time.Duration {
	return observe(l, envKey, LoadEnvDuration(envKey, defaultValue, validator))
}

func (l *Loader) Bool(envKey string, defaultValue bool) bool {
	return observe(l, envKey, LoadEnvBool(envKey, defaultValue))
}

// Fallbacks returns how many values fell back to their default.
func (l *Loader) Fallbacks() int {
	return l.fallbacks
}

// Done records the load timestamp and the fallback gauge.
func (l *Loader) Done() {
	if l.metrics == nil {
		return
	}
	l.metrics.RecordLoadTimestamp()
	l.metrics.SetFallbackActive(l.fallbacks > 0)
}

func observe[T any](l *Loader, envKey string, res LoadResult[T]) T {
	if res.FallbackApplied {
		l.fallbacks++
		l.logger.Warn("configuration fallback applied",
			slog.String("key", envKey),
			slog.String("warning", res.Warning))
		if l.metrics != nil {
			l.metrics.RecordValidationError(envKey)
			l.metrics.RecordFallback(envKey)
		}
	}
	return res.Value
}
