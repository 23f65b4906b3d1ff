// Package secrets resolves sensitive values, such as the storage key pair,
// from pluggable providers with explicit memory cleanup.
//
// # Basic Usage
//
//	manager := secrets.NewManager(&secrets.Config{DefaultProvider: "env"})
//	defer manager.Close()
//
//	_ = manager.RegisterProvider("env", env.New())
//
//	secret, err := manager.Resolve(ctx, secrets.SecretRef{Path: "AWS_ACCESS_KEY_ID"})
//	if errors.Is(err, secrets.ErrSecretNotFound) {
//		// Handle missing secret
//	}
//	keyID := secret.String()
//
// A provider may return a JSON object; SecretRef.Field selects one member.
package secrets

import (
	"encoding/json"
	"fmt"
	"time"
)

// Secret represents a resolved secret value with metadata.
type Secret struct {
	// Value contains the secret data as bytes. This should never be logged or exposed.
	Value []byte
	// Version indicates the version of this secret, if the provider has one.
	Version string
	// CreatedAt records when this secret was created.
	CreatedAt time.Time
	// AutoClear controls whether String and Bytes clear the value after use.
	AutoClear bool
}

// SecretRef represents a reference to a secret without containing the actual value.
type SecretRef struct {
	// Path identifies the secret, e.g. an environment variable or a
	// Secrets Manager secret id.
	Path string
	// Version specifies which version of the secret to retrieve (empty for latest).
	Version string
	// Field, when set, selects one member of a JSON object secret.
	Field string
}

// String returns the secret value as a string.
// If AutoClear is enabled, the secret value is cleared after use.
func (s *Secret) String() string {
	if s.Value == nil {
		return ""
	}

	value := string(s.Value)

	if s.AutoClear {
		s.Clear()
	}

	return value
}

// Bytes returns a copy of the secret value.
// If AutoClear is enabled, the secret value is cleared after use.
func (s *Secret) Bytes() []byte {
	if s.Value == nil {
		return nil
	}

	value := make([]byte, len(s.Value))
	copy(value, s.Value)

	if s.AutoClear {
		s.Clear()
	}

	return value
}

// Clear zeros the secret value in memory.
func (s *Secret) Clear() {
	if s.Value != nil {
		for i := range s.Value {
			s.Value[i] = 0
		}
		s.Value = nil
	}
}

// Field returns a new Secret holding the named string member of a JSON
// object secret. The receiver is left untouched.
func (s *Secret) Field(name string) (*Secret, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(s.Value, &fields); err != nil {
		return nil, NewValidationError("value", "secret is not a JSON object")
	}

	raw, ok := fields[name]
	if !ok {
		return nil, fmt.Errorf("field %q: %w", name, ErrSecretNotFound)
	}

	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, NewValidationError(name, "field is not a string")
	}

	return &Secret{
		Value:     []byte(value),
		Version:   s.Version,
		CreatedAt: s.CreatedAt,
		AutoClear: s.AutoClear,
	}, nil
}
