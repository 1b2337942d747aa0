package boxstack

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned when there is no image to process or it
	// could not be decoded.
	ErrInvalidInput = errors.New("boxstack: invalid input")
	// ErrInvalidConfig is wrapped by every *ConfigError.
	ErrInvalidConfig = errors.New("boxstack: invalid config")
)

// ConfigError reports an Options field that failed validation.
type ConfigError struct {
	Field string
	Value any
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("boxstack: invalid config: %s must be positive, got %v", e.Field, e.Value)
}

func (e *ConfigError) Unwrap() error { return ErrInvalidConfig }
