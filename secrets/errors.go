package secrets

import (
	"errors"
	"fmt"
)

// Sentinel errors, matched with errors.Is.
var (
	// ErrSecretNotFound means the secret, version or field does not exist.
	ErrSecretNotFound = errors.New("secret not found")

	// ErrProviderError means the backend failed, e.g. a network error.
	ErrProviderError = errors.New("provider error")

	// ErrInvalidRef means a malformed SecretRef, e.g. an empty path.
	ErrInvalidRef = errors.New("invalid secret reference")

	// ErrAccessDenied means the caller may not read the secret.
	ErrAccessDenied = errors.New("access denied")
)

// ProviderError records which provider failed on which path. Secret
// values never appear in it.
type ProviderError struct {
	Provider string
	Path     string
	Op       string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("secrets: %s %q via %s: %v", e.Op, e.Path, e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// WrapProviderError attaches provider and path to err. A nil err yields nil.
func WrapProviderError(provider string, ref SecretRef, err error, op string) error {
	if err == nil {
		return nil
	}
	return &ProviderError{Provider: provider, Path: ref.Path, Op: op, Err: err}
}

// IsProviderError reports whether err's chain holds a *ProviderError.
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}

// ValidationError means a secret's value does not have the expected
// shape. It names the field, never the value.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("secrets: invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError returns a ValidationError for field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidationError reports whether err's chain holds a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
