package service_test

import (
	"errors"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ikigai-ua/formrelay/internal/service"
)

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *service.ValidationError
		expected string
	}{
		{
			name:     "with field",
			err:      &service.ValidationError{Field: "name", Message: "name and phone are required"},
			expected: `validation error for "name": name and phone are required`,
		},
		{
			name:     "without field",
			err:      &service.ValidationError{Message: "bad input"},
			expected: "bad input",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestConfigError_Error(t *testing.T) {
	err := &service.ConfigError{Missing: []string{"SMTP_HOST", "SMTP_PASS"}}
	assert.Equal(t, "mail configuration incomplete: missing SMTP_HOST, SMTP_PASS", err.Error())
}

func TestDeliveryError_Unwrap(t *testing.T) {
	err := &service.DeliveryError{Provider: "smtp", Err: syscall.ECONNREFUSED}
	assert.ErrorIs(t, err, syscall.ECONNREFUSED)
	assert.Contains(t, err.Error(), "notification via smtp failed")

	var de *service.DeliveryError
	assert.True(t, errors.As(error(err), &de))
}
