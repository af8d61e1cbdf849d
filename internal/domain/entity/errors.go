package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain layer operations.
var (
	// ErrInvalidInput indicates that the provided input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrValidationFailed indicates that validation checks have failed
	ErrValidationFailed = errors.New("validation failed")

	// ErrEmptyInput indicates that there is no text to work on
	ErrEmptyInput = errors.New("input text is required")

	// ErrInvalidWindow indicates chunk window parameters that cannot make progress
	ErrInvalidWindow = errors.New("invalid chunk window")

	// ErrModelUnavailable indicates that the language model handle could not be acquired
	ErrModelUnavailable = errors.New("language model unavailable")

	// ErrUnsupportedLanguage indicates a language code the detector does not know
	ErrUnsupportedLanguage = errors.New("unsupported language")
)

// ValidationError represents a validation error with detailed field information.
// It implements the error interface and provides context about which field failed validation.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// Unwrap lets callers match validation failures with errors.Is(err, ErrValidationFailed).
func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}
