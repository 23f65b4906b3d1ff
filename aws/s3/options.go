package s3

import (
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/hhm970/Museum-Kiosk-Pipeline-Project/aws/s3/s3types"
	"github.com/hhm970/Museum-Kiosk-Pipeline-Project/fs"
)

// WithRegion sets the AWS region for S3 operations.
// If not specified, uses the default AWS region from the credential chain.
func WithRegion(region string) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.Region = region
	}
}

// WithMaxRetries sets the maximum number of attempts for failed requests.
// Default is 3.
func WithMaxRetries(maxRetries int) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.MaxRetries = maxRetries
	}
}

// WithTimeout sets the HTTP timeout for individual S3 requests.
// Default is no timeout.
func WithTimeout(timeout time.Duration) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.Timeout = timeout
	}
}

// WithForcePathStyle forces path-style URLs instead of virtual-hosted style.
// S3-compatible stores such as LocalStack need this.
func WithForcePathStyle(forcePathStyle bool) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.ForcePathStyle = forcePathStyle
	}
}

// WithAWSConfig supplies a complete AWS configuration, skipping the
// default config loader and WithCredentials.
func WithAWSConfig(config *aws.Config) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.CustomAWSConfig = config
	}
}

// WithEndpoint sets a custom S3 endpoint URL.
func WithEndpoint(endpoint string) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.Endpoint = endpoint
	}
}

// WithCredentials injects a static key pair instead of the default chain.
func WithCredentials(accessKeyID, secretAccessKey, sessionToken string) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.Credentials = &s3types.Credentials{
			AccessKeyID:     accessKeyID,
			SecretAccessKey: secretAccessKey,
			SessionToken:    sessionToken,
		}
	}
}

// WithCustomHTTPClient allows providing a custom HTTP client.
// It takes precedence over WithTimeout.
func WithCustomHTTPClient(client *http.Client) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.CustomHTTPClient = client
	}
}

// WithFilesystem sets the filesystem DownloadFile writes through.
// If not specified, defaults to the OS filesystem rooted at the working
// directory.
func WithFilesystem(filesystem fs.Filesystem) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.Filesystem = filesystem
	}
}

// WithDownloadProgress sets a progress tracker for download operations.
func WithDownloadProgress(tracker s3types.ProgressTracker) s3types.DownloadOption {
	return func(c *s3types.DownloadOptionConfig) {
		c.ProgressTracker = tracker
	}
}

// WithPrefix restricts a listing to keys starting with prefix.
func WithPrefix(prefix string) s3types.ListOption {
	return func(c *s3types.ListOptionConfig) {
		c.Prefix = prefix
	}
}

// WithStartAfter starts a listing after the given key.
func WithStartAfter(key string) s3types.ListOption {
	return func(c *s3types.ListOptionConfig) {
		c.StartAfter = key
	}
}

// WithMaxKeys sets the page size used while listing. The listing still
// returns every matching key.
func WithMaxKeys(maxKeys int32) s3types.ListOption {
	return func(c *s3types.ListOptionConfig) {
		c.MaxKeys = maxKeys
	}
}
