// Package memory provides an in-memory secret provider for tests and local runs.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hhm970/Museum-Kiosk-Pipeline-Project/secrets"
)

// latestVersion is stored when a ref names no version.
const latestVersion = "latest"

// Provider is a thread-safe secret store with no persistence.
type Provider struct {
	// store holds the secrets keyed by path and version
	store map[string]map[string]*secrets.Secret
	mu    sync.RWMutex
}

// New creates an empty memory provider.
func New() *Provider {
	return &Provider{
		store: make(map[string]map[string]*secrets.Secret),
	}
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return "memory"
}

// Close clears every stored secret.
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for path, versions := range p.store {
		for _, secret := range versions {
			secret.Clear()
		}
		delete(p.store, path)
	}

	return nil
}

// Resolve returns a copy of the stored secret.
func (p *Provider) Resolve(ctx context.Context, ref secrets.SecretRef) (*secrets.Secret, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("resolve operation cancelled: %w", err)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	secret, ok := p.lookup(ref)
	if !ok {
		return nil, fmt.Errorf("secret %s@%s: %w", ref.Path, versionOf(ref), secrets.ErrSecretNotFound)
	}

	return &secrets.Secret{
		Value:     append([]byte(nil), secret.Value...),
		Version:   secret.Version,
		CreatedAt: secret.CreatedAt,
	}, nil
}

// Exists reports whether the referenced version is stored.
func (p *Provider) Exists(ctx context.Context, ref secrets.SecretRef) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("exists operation cancelled: %w", err)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	_, ok := p.lookup(ref)
	return ok, nil
}

// Store saves a copy of value under ref, replacing any previous value.
func (p *Provider) Store(ctx context.Context, ref secrets.SecretRef, value []byte) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("store operation cancelled: %w", err)
	}
	if ref.Path == "" {
		return fmt.Errorf("secret reference path cannot be empty: %w", secrets.ErrInvalidRef)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.store[ref.Path] == nil {
		p.store[ref.Path] = make(map[string]*secrets.Secret)
	}

	version := versionOf(ref)
	p.store[ref.Path][version] = &secrets.Secret{
		Value:     append([]byte(nil), value...),
		Version:   version,
		CreatedAt: time.Now(),
	}
	return nil
}

func (p *Provider) lookup(ref secrets.SecretRef) (*secrets.Secret, bool) {
	versions, ok := p.store[ref.Path]
	if !ok {
		return nil, false
	}
	secret, ok := versions[versionOf(ref)]
	return secret, ok
}

func versionOf(ref secrets.SecretRef) string {
	if ref.Version == "" {
		return latestVersion
	}
	return ref.Version
}

var _ secrets.Provider = (*Provider)(nil)
