package entity

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		message  string
		expected string
	}{
		{
			name:     "url required",
			field:    "url",
			message:  "URL is required",
			expected: "validation error on field 'url': URL is required",
		},
		{
			name:     "group name required",
			field:    "name",
			message:  "name is required",
			expected: "validation error on field 'name': name is required",
		},
		{
			name:     "empty message",
			field:    "test",
			message:  "",
			expected: "validation error on field 'test': ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &ValidationError{Field: tt.field, Message: tt.message}
			assert.Equal(t, tt.expected, err.Error())
		})
	}
}

func TestValidationError_MatchesSentinel(t *testing.T) {
	err := &ValidationError{Field: "url", Message: "URL is required"}

	assert.True(t, errors.Is(err, ErrValidationFailed))
	assert.False(t, errors.Is(err, ErrNotFound))

	wrapped := fmt.Errorf("Normalize: %w", err)
	assert.True(t, errors.Is(wrapped, ErrValidationFailed))

	var ve *ValidationError
	assert.True(t, errors.As(wrapped, &ve))
	assert.Equal(t, "url", ve.Field)
}

func TestIsValidationError(t *testing.T) {
	assert.True(t, IsValidationError(&ValidationError{Field: "name"}))
	assert.True(t, IsValidationError(fmt.Errorf("wrap: %w", &ValidationError{Field: "name"})))
	assert.False(t, IsValidationError(ErrValidationFailed))
	assert.False(t, IsValidationError(nil))
}

func TestSentinelErrors_ErrorMessages(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "ErrNotFound", err: ErrNotFound, expected: "entity not found"},
		{name: "ErrInvalidInput", err: ErrInvalidInput, expected: "invalid input"},
		{name: "ErrValidationFailed", err: ErrValidationFailed, expected: "validation failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}
