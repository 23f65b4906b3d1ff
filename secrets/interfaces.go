package secrets

import "context"

// Resolver looks secrets up by reference.
type Resolver interface {
	// Resolve returns the secret ref points at, or ErrSecretNotFound.
	Resolve(ctx context.Context, ref SecretRef) (*Secret, error)

	// Exists reports whether ref resolves, without reading the value.
	Exists(ctx context.Context, ref SecretRef) (bool, error)
}

// Provider is a named Resolver that a Manager can register and close.
type Provider interface {
	Resolver

	// Name is the registration key, e.g. "env" or "aws".
	Name() string

	// Close drops any secrets the provider still holds.
	Close() error
}
