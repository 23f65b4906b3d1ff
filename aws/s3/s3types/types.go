// Package s3types holds the values shared between the S3 client, its
// internal operations and the other storage backends.
package s3types

import (
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/hhm970/Museum-Kiosk-Pipeline-Project/fs"
)

// Bucket is a bucket visible to the caller's credentials.
type Bucket struct {
	Name         string
	CreationDate time.Time
}

// Object is one listed object. ETag is the store's entity tag, quotes
// included.
type Object struct {
	Key          string
	Size         int64
	LastModified time.Time
	ETag         string
	StorageClass string
}

// ProgressTracker receives byte counts while an object is transferred.
// Exactly one of Complete or Error ends a transfer.
type ProgressTracker interface {
	Update(bytesTransferred, totalBytes int64)
	Complete()
	Error(err error)
}

// DownloadResult describes a finished download. Path is empty when the
// object was streamed to a writer rather than a file.
type DownloadResult struct {
	Key         string
	Path        string
	Size        int64
	ContentType string
	ETag        string
	VersionID   string
	Duration    time.Duration
}

// Credentials is a static key pair. A nil *Credentials on ClientConfig
// means the default AWS chain.
type Credentials struct {
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
}

// ClientConfig collects the client options.
type ClientConfig struct {
	Region           string
	Endpoint         string
	MaxRetries       int
	Timeout          time.Duration
	ForcePathStyle   bool
	CustomAWSConfig  *aws.Config
	CustomHTTPClient *http.Client
	Credentials      *Credentials
	// Filesystem receives DownloadFile output. Nil means the working
	// directory.
	Filesystem fs.Filesystem
}

// DownloadOptionConfig collects the per-download options.
type DownloadOptionConfig struct {
	ProgressTracker ProgressTracker
}

// DownloadConfig is what the downloader receives once options are applied.
type DownloadConfig struct {
	ProgressTracker ProgressTracker
}

// ListOptionConfig collects the listing options.
type ListOptionConfig struct {
	Prefix     string
	MaxKeys    int32
	StartAfter string
}

type (
	// Option configures a Client.
	Option func(*ClientConfig)
	// DownloadOption configures one download.
	DownloadOption func(*DownloadOptionConfig)
	// ListOption configures one listing.
	ListOption func(*ListOptionConfig)
)
