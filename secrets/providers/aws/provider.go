// Package aws resolves secrets from AWS Secrets Manager.
//
//	provider, err := aws.New(aws.WithRegion("eu-west-2"))
//	if err != nil {
//	    return err
//	}
//	secret, err := provider.Resolve(ctx, secrets.SecretRef{Path: "museum/extract"})
//
// String secrets are returned as-is, so a JSON object secret can be narrowed
// to one member with SecretRef.Field through the secrets.Manager.
package aws

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/aws/smithy-go"

	"github.com/hhm970/Museum-Kiosk-Pipeline-Project/secrets"
)

// SecretsManagerAPI is the subset of the Secrets Manager client the
// provider calls, so tests can substitute it.
type SecretsManagerAPI interface {
	GetSecretValue(
		ctx context.Context,
		params *secretsmanager.GetSecretValueInput,
		optFns ...func(*secretsmanager.Options),
	) (*secretsmanager.GetSecretValueOutput, error)
	DescribeSecret(
		ctx context.Context,
		params *secretsmanager.DescribeSecretInput,
		optFns ...func(*secretsmanager.Options),
	) (*secretsmanager.DescribeSecretOutput, error)
}

var _ SecretsManagerAPI = (*secretsmanager.Client)(nil)

// Provider implements secrets.Provider for AWS Secrets Manager.
// Provider is safe for concurrent use by multiple goroutines.
type Provider struct {
	client SecretsManagerAPI
}

// Config holds the configuration for the provider.
type Config struct {
	// Region specifies the AWS region for Secrets Manager operations
	Region string
	// MaxRetries specifies the maximum number of attempts per request
	MaxRetries int
	// Endpoint overrides the service endpoint, e.g. for LocalStack
	Endpoint string
}

// Option configures the provider.
type Option func(*Config)

// WithRegion sets the AWS region for the provider.
func WithRegion(region string) Option {
	return func(c *Config) {
		c.Region = region
	}
}

// WithMaxRetries sets the maximum number of attempts per request.
func WithMaxRetries(maxRetries int) Option {
	return func(c *Config) {
		c.MaxRetries = maxRetries
	}
}

// WithEndpoint sets a custom Secrets Manager endpoint.
func WithEndpoint(endpoint string) Option {
	return func(c *Config) {
		c.Endpoint = endpoint
	}
}

// New creates a provider using the default AWS credential chain.
func New(opts ...Option) (*Provider, error) {
	cfg := &Config{}
	for _, opt := range opts {
		opt(cfg)
	}

	return NewWithConfig(cfg)
}

// NewWithConfig creates a provider from cfg. A nil cfg uses defaults.
func NewWithConfig(cfg *Config) (*Provider, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	awsCfg, err := config.LoadDefaultConfig(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	if cfg.Region != "" {
		awsCfg.Region = cfg.Region
	}
	if cfg.MaxRetries > 0 {
		awsCfg.RetryMaxAttempts = cfg.MaxRetries
	}

	client := secretsmanager.NewFromConfig(awsCfg, func(o *secretsmanager.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return NewWithClient(client), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client SecretsManagerAPI) *Provider {
	return &Provider{client: client}
}

// Name returns the provider's identifier.
func (p *Provider) Name() string {
	return "aws"
}

// Close is a no-op; SDK clients hold no resources that need releasing.
func (p *Provider) Close() error {
	return nil
}

// Resolve fetches the secret named by ref.Path. ref.Version may be a
// staging label (AWSCURRENT, AWSPREVIOUS, AWSPENDING) or a version id.
func (p *Provider) Resolve(ctx context.Context, ref secrets.SecretRef) (*secrets.Secret, error) {
	if ref.Path == "" {
		return nil, fmt.Errorf("secret reference path cannot be empty: %w", secrets.ErrInvalidRef)
	}

	input := &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(ref.Path),
	}

	switch ref.Version {
	case "":
	case "AWSCURRENT", "AWSPREVIOUS", "AWSPENDING":
		input.VersionStage = aws.String(ref.Version)
	default:
		input.VersionId = aws.String(ref.Version)
	}

	output, err := p.client.GetSecretValue(ctx, input)
	if err != nil {
		return nil, mapAWSError(ref, err)
	}

	var value []byte
	switch {
	case output.SecretString != nil:
		value = []byte(*output.SecretString)
	case output.SecretBinary != nil:
		value = output.SecretBinary
	default:
		return nil, fmt.Errorf("secret %q has no value: %w", ref.Path, secrets.ErrProviderError)
	}

	return &secrets.Secret{
		Value:     value,
		Version:   aws.ToString(output.VersionId),
		CreatedAt: aws.ToTime(output.CreatedDate),
	}, nil
}

// Exists checks for the secret with DescribeSecret, which never returns the value.
func (p *Provider) Exists(ctx context.Context, ref secrets.SecretRef) (bool, error) {
	if ref.Path == "" {
		return false, fmt.Errorf("secret reference path cannot be empty: %w", secrets.ErrInvalidRef)
	}

	_, err := p.client.DescribeSecret(ctx, &secretsmanager.DescribeSecretInput{
		SecretId: aws.String(ref.Path),
	})
	if err == nil {
		return true, nil
	}

	var rnf *types.ResourceNotFoundException
	if errors.As(err, &rnf) {
		return false, nil
	}
	return false, mapAWSError(ref, err)
}

// mapAWSError maps SDK errors onto the secrets sentinels.
func mapAWSError(ref secrets.SecretRef, err error) error {
	var rnf *types.ResourceNotFoundException
	if errors.As(err, &rnf) {
		return fmt.Errorf("secret %q not found: %w", ref.Path, secrets.ErrSecretNotFound)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDeniedException", "UnrecognizedClientException":
			return fmt.Errorf("access denied for secret %q: %w", ref.Path, secrets.ErrAccessDenied)
		}
	}

	return secrets.WrapProviderError("aws", ref, fmt.Errorf("%w: %w", secrets.ErrProviderError, err), "request")
}

var _ secrets.Provider = (*Provider)(nil)
