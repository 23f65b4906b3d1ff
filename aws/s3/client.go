// Package s3 provides client initialization and configuration.
package s3

import (
	"context"
	"net/http"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/hhm970/Museum-Kiosk-Pipeline-Project/aws/s3/errors"
	"github.com/hhm970/Museum-Kiosk-Pipeline-Project/aws/s3/internal/s3api"
	"github.com/hhm970/Museum-Kiosk-Pipeline-Project/aws/s3/s3types"
	"github.com/hhm970/Museum-Kiosk-Pipeline-Project/fs"
	"github.com/hhm970/Museum-Kiosk-Pipeline-Project/fs/billy"
)

// DefaultRegion is used when neither options nor the environment name one.
const DefaultRegion = "us-east-1"

// Client is a read-only S3 client. It is safe for concurrent use.
type Client struct {
	// s3Client is the underlying AWS SDK S3 client
	s3Client s3api.S3API

	// config holds the AWS configuration
	config aws.Config

	// mu protects fs
	mu sync.RWMutex

	// fs is where DownloadFile writes
	fs fs.Filesystem
}

// New creates a new S3 client with the provided options.
// Without WithCredentials or WithAWSConfig, credentials come from the
// default AWS credential chain.
//
// Example:
//
//	client, err := s3.New(
//	    s3.WithRegion("eu-west-2"),
//	    s3.WithCredentials(keyID, secret, ""),
//	)
func New(opts ...s3types.Option) (*Client, error) {
	clientCfg := &s3types.ClientConfig{
		MaxRetries: 3,
	}
	for _, opt := range opts {
		opt(clientCfg)
	}

	var cfg aws.Config
	if clientCfg.CustomAWSConfig != nil {
		cfg = *clientCfg.CustomAWSConfig
	} else {
		var loadOpts []func(*config.LoadOptions) error
		if c := clientCfg.Credentials; c != nil {
			loadOpts = append(loadOpts, config.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(c.AccessKeyID, c.SecretAccessKey, c.SessionToken),
			))
		}

		var err error
		cfg, err = config.LoadDefaultConfig(context.Background(), loadOpts...)
		if err != nil {
			return nil, errors.NewError("client initialization", err)
		}
	}

	if clientCfg.Region != "" {
		cfg.Region = clientCfg.Region
	} else if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}

	if clientCfg.MaxRetries > 0 {
		cfg.RetryMaxAttempts = clientCfg.MaxRetries
	}

	var s3Opts []func(*s3.Options)

	if clientCfg.Endpoint != "" {
		endpoint := clientCfg.Endpoint
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
		})
	}

	if clientCfg.ForcePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	switch {
	case clientCfg.CustomHTTPClient != nil:
		httpClient := clientCfg.CustomHTTPClient
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.HTTPClient = httpClient
		})
	case clientCfg.Timeout > 0:
		httpClient := &http.Client{
			Timeout: clientCfg.Timeout,
		}
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.HTTPClient = httpClient
		})
	}

	filesystem := clientCfg.Filesystem
	if filesystem == nil {
		// Relative download paths resolve against the working directory.
		filesystem = billy.NewOSFS(".")
	}

	return &Client{
		s3Client: s3.NewFromConfig(cfg, s3Opts...),
		config:   cfg,
		fs:       filesystem,
	}, nil
}

// NewWithClient creates a new S3 client with a custom S3API implementation.
// This is primarily used for testing with mocked clients.
func NewWithClient(s3Client s3api.S3API) *Client {
	return &Client{
		s3Client: s3Client,
		config:   aws.Config{},
		fs:       billy.NewOSFS("."),
	}
}

// SetFilesystem sets the filesystem DownloadFile writes through.
func (c *Client) SetFilesystem(filesystem fs.Filesystem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fs = filesystem
}

// Region returns the region the client was configured with.
func (c *Client) Region() string {
	return c.config.Region
}

// Close releases any resources held by the client.
func (c *Client) Close() error {
	return nil
}

func (c *Client) filesystem() fs.Filesystem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fs
}
