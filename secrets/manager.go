package secrets

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Config holds the configuration for the Manager.
type Config struct {
	// DefaultProvider is the name of the provider Resolve uses.
	DefaultProvider string

	// AutoClear sets AutoClear on every resolved secret.
	AutoClear bool

	// Logger receives one audit entry per resolution. Secret values are
	// never logged. Nil disables auditing.
	Logger *zap.Logger
}

// Manager orchestrates secret resolution across registered providers.
type Manager struct {
	providers       map[string]Provider
	defaultProvider string
	autoClear       bool
	logger          *zap.Logger

	mu sync.RWMutex
}

// NewManager creates a new Manager with the provided configuration.
func NewManager(config *Config) *Manager {
	if config == nil {
		config = &Config{}
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Manager{
		providers:       make(map[string]Provider),
		defaultProvider: config.DefaultProvider,
		autoClear:       config.AutoClear,
		logger:          logger,
	}
}

// RegisterProvider adds a provider under name. Names are unique.
func (m *Manager) RegisterProvider(name string, provider Provider) error {
	if name == "" {
		return fmt.Errorf("provider name cannot be empty")
	}

	if provider == nil {
		return fmt.Errorf("provider cannot be nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.providers[name]; exists {
		return fmt.Errorf("provider with name %q already registered", name)
	}

	m.providers[name] = provider
	return nil
}

// Resolve resolves a secret using the default provider.
func (m *Manager) Resolve(ctx context.Context, ref SecretRef) (*Secret, error) {
	if m.defaultProvider == "" {
		return nil, fmt.Errorf("no default provider configured")
	}

	return m.ResolveFrom(ctx, m.defaultProvider, ref)
}

// ResolveFrom resolves a secret using a specific provider. When ref.Field
// is set, the returned secret holds only that member of the JSON object.
func (m *Manager) ResolveFrom(
	ctx context.Context,
	providerName string,
	ref SecretRef,
) (*Secret, error) {
	if providerName == "" {
		return nil, fmt.Errorf("provider name cannot be empty")
	}
	if ref.Path == "" {
		return nil, fmt.Errorf("secret reference path cannot be empty: %w", ErrInvalidRef)
	}

	m.mu.RLock()
	provider, exists := m.providers[providerName]
	m.mu.RUnlock()

	if !exists {
		err := fmt.Errorf("provider %q not found", providerName)
		m.audit(providerName, ref, err)
		return nil, err
	}

	secret, err := provider.Resolve(ctx, ref)
	if err == nil && ref.Field != "" {
		whole := secret
		secret, err = whole.Field(ref.Field)
		whole.Clear()
	}

	m.audit(providerName, ref, err)
	if err != nil {
		return nil, WrapProviderError(providerName, ref, err, "resolve")
	}

	secret.AutoClear = m.autoClear
	return secret, nil
}

// Exists checks if a secret exists using the default provider.
func (m *Manager) Exists(ctx context.Context, ref SecretRef) (bool, error) {
	if m.defaultProvider == "" {
		return false, fmt.Errorf("no default provider configured")
	}

	m.mu.RLock()
	provider, exists := m.providers[m.defaultProvider]
	m.mu.RUnlock()

	if !exists {
		return false, fmt.Errorf("provider %q not found", m.defaultProvider)
	}

	ok, err := provider.Exists(ctx, ref)
	if err != nil {
		return false, WrapProviderError(m.defaultProvider, ref, err, "exists")
	}
	return ok, nil
}

// Close shuts down all registered providers and aggregates their errors.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	for name, provider := range m.providers {
		if err := provider.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close provider %q: %w", name, err))
		}
	}

	m.providers = make(map[string]Provider)

	return errors.Join(errs...)
}

func (m *Manager) audit(provider string, ref SecretRef, err error) {
	fields := []zap.Field{
		zap.String("provider", provider),
		zap.String("path", ref.Path),
		zap.Bool("success", err == nil),
	}
	if ref.Field != "" {
		fields = append(fields, zap.String("field", ref.Field))
	}
	if err != nil {
		m.logger.Warn("secret resolution failed", append(fields, zap.Error(err))...)
		return
	}
	m.logger.Debug("secret resolved", fields...)
}
