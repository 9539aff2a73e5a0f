package service

import (
	"fmt"
	"strings"
)

// ValidationError is returned when request data fails validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
	}
	return e.Message
}

// ConfigError is returned when required delivery settings are absent.
// Missing holds setting names only.
type ConfigError struct {
	Missing []string
}

func (e *ConfigError) Error() string {
	return "mail configuration incomplete: missing " + strings.Join(e.Missing, ", ")
}

// DeliveryError is returned when the notification could not be sent.
type DeliveryError struct {
	Provider string
	Err      error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("notification via %s failed: %v", e.Provider, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }
