package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateCronSchedule(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		schedule string
		wantErr  bool
	}{
		{"every 30 minutes", "*/30 * * * *", false},
		{"hourly at quarter past", "15 * * * *", false},
		{"weekdays", "30 9 * * 1-5", false},
		{"empty", "", true},
		{"too few fields", "0 0", true},
		{"seconds field", "0 0 * * * *", true},
		{"minute out of range", "60 * * * *", true},
		{"garbage", "not a schedule", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateCronSchedule(tt.schedule)
			if tt.wantErr {
				assert.ErrorContains(t, err, "invalid cron schedule")
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateTimezone(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateTimezone("UTC"))
	assert.NoError(t, ValidateTimezone("Asia/Tokyo"))
	assert.ErrorContains(t, ValidateTimezone(""), "cannot be empty")
	assert.ErrorContains(t, ValidateTimezone("Mars/Olympus"), "invalid timezone")
}

func TestValidateDuration(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateDuration(time.Minute, time.Second, time.Hour))
	assert.NoError(t, ValidateDuration(time.Second, time.Second, time.Hour))
	assert.ErrorContains(t, ValidateDuration(time.Millisecond, time.Second, time.Hour), "below minimum")
	assert.ErrorContains(t, ValidateDuration(2*time.Hour, time.Second, time.Hour), "exceeds maximum")
	assert.ErrorContains(t, ValidateDuration(time.Minute, time.Hour, time.Second), "invalid range")
}

func TestValidateIntRange(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateIntRange(3, 1, 10))
	assert.ErrorContains(t, ValidateIntRange(0, 1, 10), "below minimum")
	assert.ErrorContains(t, ValidateIntRange(11, 1, 10), "exceeds maximum")
	assert.ErrorContains(t, ValidateIntRange(5, 10, 1), "invalid range")
}

func TestValidatePositiveDuration(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidatePositiveDuration(time.Nanosecond))
	assert.Error(t, ValidatePositiveDuration(0))
	assert.Error(t, ValidatePositiveDuration(-time.Second))
}

func TestValidateHTTPURL(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateHTTPURL("https://newsapi.org/v2/everything"))
	assert.ErrorContains(t, ValidateHTTPURL("ftp://example.com"), "scheme")
	assert.ErrorContains(t, ValidateHTTPURL("https://"), "host")
}
