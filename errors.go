package encrust

import (
	"errors"
	"fmt"
)

// Error types represent different categories of errors

// ValidationError represents a configuration or value shape validation error
type ValidationError struct {
	Field   string // The field, parameter or type path that failed validation
	Value   any    // The invalid value
	Message string // Human-readable error message
	Err     error  // Underlying error, if any
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ContractError represents misuse of a container or guard. It is never
// returned: it is the value passed to panic, because continuing would
// corrupt the protected value.
type ContractError struct {
	Operation string // "decrust", "reseed", "get", ...
	Message   string // Human-readable error message
	Err       error  // Underlying sentinel
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("contract violation: %s: %s", e.Operation, e.Message)
}

func (e *ContractError) Unwrap() error {
	return e.Err
}

// SeedError represents a failure of the randomness source
type SeedError struct {
	Source  string // Seed source description
	Message string // Human-readable error message
	Err     error  // Underlying error
}

func (e *SeedError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("seed error: %s: %s", e.Source, e.Message)
	}
	return fmt.Sprintf("seed error: %s", e.Message)
}

func (e *SeedError) Unwrap() error {
	return e.Err
}

// Common sentinel errors
var (
	ErrNilConfig            = errors.New("config cannot be nil")
	ErrNilSeedSource        = errors.New("seed source cannot be nil")
	ErrUnsupportedType      = errors.New("type cannot be encrusted")
	ErrUnsupportedKeystream = errors.New("unsupported keystream suite")
	ErrUnsupportedDigest    = errors.New("unsupported digest suite")
	ErrAlreadyExposed       = errors.New("value is already decrusted")
	ErrExposedReseed        = errors.New("cannot reseed while the value is decrusted")
	ErrReleased             = errors.New("guard has been released")
	ErrDestroyed            = errors.New("container has been destroyed")
)

// Helper functions for creating structured errors

// NewValidationError creates a new validation error
func NewValidationError(field string, value any, message string) error {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// NewSeedError creates a new seed error
func NewSeedError(source string, err error) error {
	return &SeedError{
		Source:  source,
		Message: err.Error(),
		Err:     err,
	}
}

// violation panics with a ContractError wrapping sentinel
func violation(operation string, sentinel error) {
	panic(&ContractError{
		Operation: operation,
		Message:   sentinel.Error(),
		Err:       sentinel,
	})
}

// Error checking helpers

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsContractError checks if an error is a contract violation
func IsContractError(err error) bool {
	var ce *ContractError
	return errors.As(err, &ce)
}

// IsSeedError checks if an error is a seed source failure
func IsSeedError(err error) bool {
	var se *SeedError
	return errors.As(err, &se)
}
