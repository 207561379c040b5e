// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrInvalidStatus      = errors.New("invalid trade status")
	ErrInvalidActionType  = errors.New("invalid action type")
	ErrInvalidAlertType   = errors.New("invalid alert type")
	ErrInvalidSeverity    = errors.New("invalid severity")
	ErrInvalidDirection   = errors.New("invalid plan direction")
	ErrInvalidTradeResult = errors.New("invalid trade result")
	ErrInvalidBreaker     = errors.New("invalid circuit breaker status")
	ErrInputValidation    = errors.New("input validation failed")
	ErrConfigInvalid      = errors.New("invalid configuration")
	ErrInsufficientData   = errors.New("insufficient data")
	ErrUnsupportedFormat  = errors.New("unsupported input format")
	ErrNotLocked          = errors.New("circuit breaker is not locked")
	ErrUnlockDenied       = errors.New("unlock denied")
)

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

// Unwrap lets callers match any validation failure with ErrInputValidation.
func (e *ValidationError) Unwrap() error {
	return ErrInputValidation
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// RecordError represents a failure to load an input record.
type RecordError struct {
	Kind   string // trade, action, history, result, execution
	Source string
	Err    error
}

func (e *RecordError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("record error [%s] %s: %v", e.Kind, e.Source, e.Err)
	}
	return fmt.Sprintf("record error [%s]: %v", e.Kind, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// NewRecordError creates a new RecordError.
func NewRecordError(kind, source string, err error) *RecordError {
	return &RecordError{
		Kind:   kind,
		Source: source,
		Err:    err,
	}
}

// IsValidationError checks if an error is a validation error.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
