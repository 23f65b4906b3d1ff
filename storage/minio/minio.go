// Package minio is a storage backend for S3-compatible servers built on
// minio-go. It offers the same listing and download operations as the
// aws/s3 client and reports failures with the same aws/s3/errors
// sentinels, so callers can switch backends through configuration.
package minio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	s3errors "github.com/hhm970/Museum-Kiosk-Pipeline-Project/aws/s3/errors"
	"github.com/hhm970/Museum-Kiosk-Pipeline-Project/aws/s3/s3types"
	"github.com/hhm970/Museum-Kiosk-Pipeline-Project/fs"
	"github.com/hhm970/Museum-Kiosk-Pipeline-Project/fs/billy"
)

// Object is an open object body. *minio.Object satisfies it.
type Object interface {
	io.ReadCloser
	Stat() (minio.ObjectInfo, error)
}

// API is the part of the minio client the backend calls.
type API interface {
	ListBuckets(ctx context.Context) ([]minio.BucketInfo, error)
	ListObjects(ctx context.Context, bucket string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
	GetObject(ctx context.Context, bucket, key string, opts minio.GetObjectOptions) (Object, error)
}

// Config holds connection settings.
type Config struct {
	// Endpoint is host[:port] without a scheme, e.g. "localhost:9000".
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	UseSSL          bool
}

// Client lists and downloads objects from an S3-compatible server.
type Client struct {
	api API
	fs  fs.Filesystem
}

// New connects to cfg.Endpoint with static credentials.
func New(cfg Config, filesystem fs.Filesystem) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, s3errors.NewError("client initialization", s3errors.ErrInvalidInput).
			WithMessage("endpoint cannot be empty")
	}

	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, s3errors.NewError("client initialization", err)
	}

	return NewWithAPI(clientAPI{mc}, filesystem), nil
}

// NewWithAPI wraps an existing API, for tests. A nil filesystem uses the
// OS filesystem rooted at the working directory.
func NewWithAPI(api API, filesystem fs.Filesystem) *Client {
	if filesystem == nil {
		filesystem = billy.NewOSFS(".")
	}
	return &Client{api: api, fs: filesystem}
}

// ListBuckets returns every bucket the credentials can see.
func (c *Client) ListBuckets(ctx context.Context) ([]s3types.Bucket, error) {
	infos, err := c.api.ListBuckets(ctx)
	if err != nil {
		return nil, translateError("listBuckets", err)
	}

	buckets := make([]s3types.Bucket, 0, len(infos))
	for _, info := range infos {
		buckets = append(buckets, s3types.Bucket{Name: info.Name, CreationDate: info.CreationDate})
	}
	return buckets, nil
}

// ListObjects returns every object in bucket, recursing into prefixes.
func (c *Client) ListObjects(
	ctx context.Context,
	bucket string,
	opts ...s3types.ListOption,
) ([]s3types.Object, error) {
	if bucket == "" {
		return nil, s3errors.NewError("listObjects", s3errors.ErrInvalidBucketName).
			WithMessage("bucket name cannot be empty")
	}

	config := &s3types.ListOptionConfig{}
	for _, opt := range opts {
		opt(config)
	}

	// Cancelling stops the listing goroutine inside minio-go.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var objects []s3types.Object
	for info := range c.api.ListObjects(ctx, bucket, minio.ListObjectsOptions{
		Prefix:     config.Prefix,
		StartAfter: config.StartAfter,
		MaxKeys:    int(config.MaxKeys),
		Recursive:  true,
	}) {
		if info.Err != nil {
			return nil, translateError("listObjects", info.Err).WithBucket(bucket)
		}
		objects = append(objects, s3types.Object{
			Key:          info.Key,
			Size:         info.Size,
			LastModified: info.LastModified,
			ETag:         info.ETag,
			StorageClass: info.StorageClass,
		})
	}
	return objects, nil
}

// DownloadFile writes bucket/key to path on the client's filesystem,
// creating parent directories and overwriting any existing file.
func (c *Client) DownloadFile(
	ctx context.Context,
	bucket, key, path string,
	opts ...s3types.DownloadOption,
) (*s3types.DownloadResult, error) {
	if !filepath.IsLocal(key) {
		return nil, s3errors.NewError("downloadFile", s3errors.ErrInvalidObjectKey).
			WithBucket(bucket).
			WithKey(key).
			WithMessage("object key must be a local relative path")
	}
	if path == "" {
		return nil, s3errors.NewError("downloadFile", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage("path cannot be empty")
	}

	config := &s3types.DownloadOptionConfig{}
	for _, opt := range opts {
		opt(config)
	}

	start := time.Now()

	obj, err := c.api.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, c.fail(config, translateError("downloadFile", err).WithBucket(bucket).WithKey(key))
	}
	defer obj.Close()

	// minio-go defers the request until the first read or Stat.
	info, err := obj.Stat()
	if err != nil {
		return nil, c.fail(config, translateError("downloadFile", err).WithBucket(bucket).WithKey(key))
	}

	file, err := c.fs.Create(path)
	if err != nil {
		return nil, c.fail(config, s3errors.NewError("downloadFile", err).WithBucket(bucket).WithKey(key))
	}

	var reader io.Reader = obj
	if config.ProgressTracker != nil {
		reader = io.TeeReader(obj, &progressWriter{tracker: config.ProgressTracker, total: info.Size})
	}

	written, err := io.Copy(file, reader)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, c.fail(config, translateError("downloadFile", err).WithBucket(bucket).WithKey(key))
	}

	if config.ProgressTracker != nil {
		config.ProgressTracker.Complete()
	}

	return &s3types.DownloadResult{
		Key:         key,
		Path:        path,
		Size:        written,
		ContentType: info.ContentType,
		ETag:        info.ETag,
		VersionID:   info.VersionID,
		Duration:    time.Since(start),
	}, nil
}

func (c *Client) fail(config *s3types.DownloadOptionConfig, err error) error {
	if config.ProgressTracker != nil {
		config.ProgressTracker.Error(err)
	}
	return err
}

// errorCodes maps S3 error response codes to sentinels.
var errorCodes = map[string]error{
	"NoSuchBucket":          s3errors.ErrBucketNotFound,
	"NoSuchKey":             s3errors.ErrObjectNotFound,
	"AccessDenied":          s3errors.ErrAccessDenied,
	"InvalidAccessKeyId":    s3errors.ErrInvalidCredentials,
	"SignatureDoesNotMatch": s3errors.ErrInvalidCredentials,
	"InvalidBucketName":     s3errors.ErrInvalidBucketName,
}

// translateError converts a minio-go error into an *s3errors.Error.
func translateError(op string, err error) *s3errors.Error {
	e := s3errors.NewError(op, err)

	resp := minio.ToErrorResponse(err)
	if resp.Code != "" {
		e.Code = resp.Code
		if sentinel, ok := errorCodes[resp.Code]; ok {
			e.Err = fmt.Errorf("%w: %w", sentinel, err)
		}
		return e
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		e.Err = fmt.Errorf("%w: %w", s3errors.ErrTimeout, err)
	}
	return e
}

type progressWriter struct {
	tracker s3types.ProgressTracker
	total   int64
	written int64
}

func (w *progressWriter) Write(p []byte) (int, error) {
	w.written += int64(len(p))
	w.tracker.Update(w.written, w.total)
	return len(p), nil
}

// clientAPI adapts *minio.Client to API.
type clientAPI struct {
	*minio.Client
}

func (c clientAPI) GetObject(ctx context.Context, bucket, key string, opts minio.GetObjectOptions) (Object, error) {
	obj, err := c.Client.GetObject(ctx, bucket, key, opts)
	if err != nil {
		return nil, err
	}
	return obj, nil
}
