// Package credentials resolves the storage key pair once at start-up,
// from the environment or from an AWS Secrets Manager secret.
package credentials

import (
	"context"
	stderrors "errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/hhm970/Museum-Kiosk-Pipeline-Project/errors"
	"github.com/hhm970/Museum-Kiosk-Pipeline-Project/internal/config"
	"github.com/hhm970/Museum-Kiosk-Pipeline-Project/secrets"
	awssecrets "github.com/hhm970/Museum-Kiosk-Pipeline-Project/secrets/providers/aws"
	"github.com/hhm970/Museum-Kiosk-Pipeline-Project/secrets/providers/env"
)

// KeyPair is a static access key.
type KeyPair struct {
	AccessKeyID     string
	SecretAccessKey string
}

// Resolver reads the key pair through a secrets.Manager.
type Resolver struct {
	manager *secrets.Manager
	cfg     config.CredentialsConfig
}

// New builds a Resolver for the configured source. The secretsmanager
// source uses the storage region.
func New(cfg *config.Config, logger *zap.Logger) (*Resolver, error) {
	var provider secrets.Provider
	switch cfg.Credentials.Source {
	case config.SourceEnv:
		provider = env.New()
	case config.SourceSecretsManager:
		var opts []awssecrets.Option
		if cfg.Storage.Region != "" {
			opts = append(opts, awssecrets.WithRegion(cfg.Storage.Region))
		}
		p, err := awssecrets.New(opts...)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInvalidConfig, "failed to create secrets manager provider")
		}
		provider = p
	default:
		return nil, errors.Newf(errors.CodeInvalidConfig, "unknown credentials source %q", cfg.Credentials.Source)
	}

	return NewWithProvider(cfg.Credentials, provider, logger)
}

// NewWithProvider builds a Resolver over an existing provider.
func NewWithProvider(cfg config.CredentialsConfig, provider secrets.Provider, logger *zap.Logger) (*Resolver, error) {
	manager := secrets.NewManager(&secrets.Config{
		DefaultProvider: provider.Name(),
		Logger:          logger,
	})
	if err := manager.RegisterProvider(provider.Name(), provider); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to register secrets provider")
	}
	return &Resolver{manager: manager, cfg: cfg}, nil
}

// Resolve returns the key pair. A missing value is coded
// CodeInvalidConfig and names the missing variable or field.
func (r *Resolver) Resolve(ctx context.Context) (KeyPair, error) {
	accessKey, err := r.resolve(ctx, r.cfg.AccessKeyEnv)
	if err != nil {
		return KeyPair{}, err
	}
	secretKey, err := r.resolve(ctx, r.cfg.SecretKeyEnv)
	if err != nil {
		return KeyPair{}, err
	}
	return KeyPair{AccessKeyID: accessKey, SecretAccessKey: secretKey}, nil
}

// Close releases the provider.
func (r *Resolver) Close() error {
	return r.manager.Close()
}

func (r *Resolver) resolve(ctx context.Context, name string) (string, error) {
	ref := secrets.SecretRef{Path: name}
	where := "environment"
	if r.cfg.Source == config.SourceSecretsManager {
		ref = secrets.SecretRef{Path: r.cfg.SecretID, Field: name}
		where = fmt.Sprintf("secret %s", r.cfg.SecretID)
	}

	secret, err := r.manager.Resolve(ctx, ref)
	switch {
	case err == nil:
		value := secret.String()
		secret.Clear()
		return value, nil
	case stderrors.Is(err, secrets.ErrSecretNotFound):
		return "", errors.Wrap(err, errors.CodeInvalidConfig,
			fmt.Sprintf("credential %s not found in %s", name, where))
	case stderrors.Is(err, secrets.ErrAccessDenied):
		return "", errors.Wrap(err, errors.CodeUnauthorized,
			fmt.Sprintf("access denied reading credential %s from %s", name, where))
	default:
		return "", errors.Wrap(err, errors.CodeInvalidConfig,
			fmt.Sprintf("failed to read credential %s from %s", name, where))
	}
}
