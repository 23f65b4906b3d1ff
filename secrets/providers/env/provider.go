// Package env resolves secrets from process environment variables.
package env

import (
	"context"
	"fmt"
	"os"

	"github.com/hhm970/Museum-Kiosk-Pipeline-Project/secrets"
)

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Provider treats SecretRef.Path as an environment variable name.
// Versions are not supported.
type Provider struct {
	lookup LookupFunc
}

// New returns a provider reading the process environment.
func New() *Provider {
	return NewWithLookup(os.LookupEnv)
}

// NewWithLookup returns a provider backed by lookup, for tests.
func NewWithLookup(lookup LookupFunc) *Provider {
	return &Provider{lookup: lookup}
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return "env"
}

// Close is a no-op.
func (p *Provider) Close() error {
	return nil
}

// Resolve reads the variable. Unset and empty variables are both reported
// as ErrSecretNotFound.
func (p *Provider) Resolve(_ context.Context, ref secrets.SecretRef) (*secrets.Secret, error) {
	if ref.Path == "" {
		return nil, fmt.Errorf("secret reference path cannot be empty: %w", secrets.ErrInvalidRef)
	}

	value, ok := p.lookup(ref.Path)
	if !ok || value == "" {
		return nil, fmt.Errorf("environment variable %s: %w", ref.Path, secrets.ErrSecretNotFound)
	}

	return &secrets.Secret{Value: []byte(value)}, nil
}

// Exists reports whether the variable is set and non-empty.
func (p *Provider) Exists(_ context.Context, ref secrets.SecretRef) (bool, error) {
	value, ok := p.lookup(ref.Path)
	return ok && value != "", nil
}

var _ secrets.Provider = (*Provider)(nil)
