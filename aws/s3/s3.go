package s3

import (
	"context"
	"time"

	s3errors "github.com/hhm970/Museum-Kiosk-Pipeline-Project/aws/s3/errors"
	"github.com/hhm970/Museum-Kiosk-Pipeline-Project/aws/s3/internal/operations/download"
	"github.com/hhm970/Museum-Kiosk-Pipeline-Project/aws/s3/internal/operations/list"
	"github.com/hhm970/Museum-Kiosk-Pipeline-Project/aws/s3/internal/validation"
	"github.com/hhm970/Museum-Kiosk-Pipeline-Project/aws/s3/s3types"
)

// ListBuckets returns every bucket the credentials can see, in the order
// the service reports them.
//
// Errors:
//   - ErrInvalidCredentials: If the key pair is rejected
//   - ErrAccessDenied: If the credentials lack s3:ListAllMyBuckets
func (c *Client) ListBuckets(ctx context.Context) ([]s3types.Bucket, error) {
	buckets, err := list.New(c.s3Client).Buckets(ctx)
	if err != nil {
		return nil, s3errors.FromAWS("listBuckets", err)
	}
	return buckets, nil
}

// ListObjects returns every object in bucket. Continuation tokens are
// followed until the listing is exhausted, so buckets larger than one
// page are listed completely.
//
// Errors:
//   - ErrInvalidBucketName: If bucket is not a valid S3 bucket name
//   - ErrBucketNotFound: If the bucket doesn't exist
//   - ErrAccessDenied: If the credentials lack permission to list
//
// Example:
//
//	objects, err := client.ListObjects(ctx, "resources-museum", s3.WithPrefix("lmnh_"))
//	if err != nil {
//	    return err
//	}
//	for _, obj := range objects {
//	    fmt.Println(obj.Key, obj.Size)
//	}
func (c *Client) ListObjects(
	ctx context.Context,
	bucket string,
	opts ...s3types.ListOption,
) ([]s3types.Object, error) {
	if err := validation.ValidateBucketName(bucket); err != nil {
		return nil, err
	}

	config := &s3types.ListOptionConfig{}
	for _, opt := range opts {
		opt(config)
	}

	objects, err := list.New(c.s3Client).All(ctx, &list.Config{
		Bucket:     bucket,
		Prefix:     config.Prefix,
		StartAfter: config.StartAfter,
		PageSize:   config.MaxKeys,
	})
	if err != nil {
		return nil, s3errors.FromAWS("listObjects", err).WithBucket(bucket)
	}
	return objects, nil
}

// DownloadFile downloads bucket/key to path on the client's filesystem.
// The file is created or overwritten, and missing parent directories are
// created. On failure a partially written file may remain.
//
// Errors:
//   - ErrInvalidInput: If the bucket or key is invalid, or path is empty
//   - ErrObjectNotFound: If the object doesn't exist
//   - ErrBucketNotFound: If the bucket doesn't exist
//   - Filesystem errors if the file cannot be created or written
//
// Example:
//
//	result, err := client.DownloadFile(ctx, "resources-museum",
//	    "lmnh_hist_data_0.csv", "bucket_data/lmnh_hist_data_0.csv")
func (c *Client) DownloadFile(
	ctx context.Context,
	bucket, key, path string,
	opts ...s3types.DownloadOption,
) (*s3types.DownloadResult, error) {
	if err := c.validateObject("downloadFile", bucket, key); err != nil {
		return nil, err
	}
	if path == "" {
		return nil, s3errors.NewError("downloadFile", s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage("path cannot be empty")
	}

	startTime := time.Now()
	return download.New(c.s3Client).DownloadFile(
		ctx, c.filesystem(), bucket, key, path, downloadConfig(opts), startTime,
	)
}

func (c *Client) validateObject(op, bucket, key string) error {
	if err := validation.ValidateBucketName(bucket); err != nil {
		return s3errors.NewError(op, err).WithBucket(bucket).WithKey(key)
	}
	if err := validation.ValidateObjectKey(key); err != nil {
		return s3errors.NewError(op, err).WithBucket(bucket).WithKey(key)
	}
	return nil
}

func downloadConfig(opts []s3types.DownloadOption) *s3types.DownloadConfig {
	config := &s3types.DownloadOptionConfig{}
	for _, opt := range opts {
		opt(config)
	}
	return &s3types.DownloadConfig{
		ProgressTracker: config.ProgressTracker,
	}
}
