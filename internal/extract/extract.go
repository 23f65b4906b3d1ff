// Package extract finds the museum's exhibition and history files in a
// bucket and downloads them into a local folder.
package extract

import (
	"context"
	stderrors "errors"
	"fmt"
	iofs "io/fs"
	"path"
	"slices"
	"strings"

	"go.uber.org/zap"

	s3client "github.com/hhm970/Museum-Kiosk-Pipeline-Project/aws/s3"
	s3errors "github.com/hhm970/Museum-Kiosk-Pipeline-Project/aws/s3/errors"
	"github.com/hhm970/Museum-Kiosk-Pipeline-Project/aws/s3/s3types"
	"github.com/hhm970/Museum-Kiosk-Pipeline-Project/errors"
)

// DefaultFolder receives downloads when no folder is given.
const DefaultFolder = "bucket_data"

const (
	exhibitionPrefix = "lmnh_exhibition_"
	exhibitionSuffix = ".json"
	historyPrefix    = "lmnh_hist_data_"
	historySuffix    = ".csv"
)

// ErrBucketNotFound is returned by Download when the bucket is not among
// the listed buckets. The returned error reads "bucket <name> not found".
var ErrBucketNotFound = errors.New(errors.CodeNotFound, "not found")

// Storage is the object store the extract step reads from. Both
// *s3.Client and *minio.Client satisfy it.
type Storage interface {
	ListBuckets(ctx context.Context) ([]s3types.Bucket, error)
	ListObjects(ctx context.Context, bucket string, opts ...s3types.ListOption) ([]s3types.Object, error)
	DownloadFile(
		ctx context.Context,
		bucket, key, path string,
		opts ...s3types.DownloadOption,
	) (*s3types.DownloadResult, error)
}

// GetBucketNames returns the names of every visible bucket, in the order
// the store reports them.
func GetBucketNames(ctx context.Context, storage Storage) ([]string, error) {
	buckets, err := storage.ListBuckets(ctx)
	if err != nil {
		return nil, storageError(err, "failed to list buckets")
	}

	names := make([]string, 0, len(buckets))
	for _, b := range buckets {
		names = append(names, b.Name)
	}
	return names, nil
}

// GetBucketObjects returns every object key in bucket, in the order the
// store reports them.
func GetBucketObjects(ctx context.Context, storage Storage, bucket string) ([]string, error) {
	objects, err := storage.ListObjects(ctx, bucket)
	if err != nil {
		return nil, storageError(err, fmt.Sprintf("failed to list objects in bucket %s", bucket))
	}

	keys := make([]string, 0, len(objects))
	for _, o := range objects {
		keys = append(keys, o.Key)
	}
	return keys, nil
}

// IsExhibitionKey reports whether key names an exhibition descriptor:
// lmnh_exhibition_*.json.
func IsExhibitionKey(key string) bool {
	return strings.HasPrefix(key, exhibitionPrefix) && strings.HasSuffix(key, exhibitionSuffix)
}

// IsHistoryKey reports whether key names a numbered history file:
// lmnh_hist_data_<digits>.csv with at least one ASCII digit.
func IsHistoryKey(key string) bool {
	if !strings.HasPrefix(key, historyPrefix) || !strings.HasSuffix(key, historySuffix) {
		return false
	}
	number := key[len(historyPrefix) : len(key)-len(historySuffix)]
	if number == "" {
		return false
	}
	for _, r := range number {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// FilterKeys keeps the keys matching either pattern, in input order. Each
// pattern is tested separately, so a key matching both is kept twice.
func FilterKeys(keys []string) []string {
	result := []string{}
	for _, key := range keys {
		if IsExhibitionKey(key) {
			result = append(result, key)
		}
		if IsHistoryKey(key) {
			result = append(result, key)
		}
	}
	return result
}

// storageError codes a storage failure by its sentinel.
func storageError(err error, message string) error {
	var pathErr *iofs.PathError
	switch {
	case s3errors.IsBucketNotFound(err), s3errors.IsObjectNotFound(err):
		return errors.Wrap(err, errors.CodeNotFound, message)
	case s3errors.IsInvalidCredentials(err):
		return errors.Wrap(err, errors.CodeUnauthorized, message)
	case s3errors.IsAccessDenied(err):
		return errors.Wrap(err, errors.CodeForbidden, message)
	case s3errors.IsInvalidInput(err):
		return errors.Wrap(err, errors.CodeInvalidInput, message)
	case s3errors.IsTimeout(err):
		return errors.Wrap(err, errors.CodeTimeout, message)
	case stderrors.As(err, &pathErr):
		return errors.Wrap(err, errors.CodeFilesystem, message)
	default:
		return errors.Wrap(err, errors.CodeStorage, message)
	}
}

// Extractor downloads the matching files of a bucket.
type Extractor struct {
	storage  Storage
	logger   *zap.Logger
	progress func(key string) s3types.ProgressTracker
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger. Nil keeps the default, which discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithProgress attaches the tracker returned by newTracker to the download
// of each key.
func WithProgress(newTracker func(key string) s3types.ProgressTracker) Option {
	return func(e *Extractor) {
		e.progress = newTracker
	}
}

// New returns an Extractor reading from storage.
func New(storage Storage, opts ...Option) *Extractor {
	e := &Extractor{storage: storage, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// DownloadReport summarises one Download call.
type DownloadReport struct {
	Bucket string
	Folder string

	// Listed is the number of keys in the bucket.
	Listed int

	// Matched holds the filtered keys, duplicates included.
	Matched []string

	// Files holds the local paths written, in download order.
	Files []string

	// Bytes is the total size of the written files.
	Bytes int64
}

// Download checks that bucket exists, then downloads every matching key
// to folder/key, one at a time. An empty folder means DefaultFolder.
//
// A missing bucket is logged at error level and reported as
// ErrBucketNotFound before anything is downloaded. The first failed
// download stops the batch; files already written stay in place and the
// partial report is returned with the error.
func (e *Extractor) Download(ctx context.Context, bucket, folder string) (*DownloadReport, error) {
	if folder == "" {
		folder = DefaultFolder
	}
	report := &DownloadReport{Bucket: bucket, Folder: folder}

	names, err := GetBucketNames(ctx, e.storage)
	if err != nil {
		return report, err
	}
	if !slices.Contains(names, bucket) {
		e.logger.Error("bucket not found", zap.String("bucket", bucket), zap.Int("visible_buckets", len(names)))
		return report, fmt.Errorf("bucket %s %w", bucket, ErrBucketNotFound)
	}

	keys, err := GetBucketObjects(ctx, e.storage, bucket)
	if err != nil {
		return report, err
	}
	report.Listed = len(keys)
	report.Matched = FilterKeys(keys)

	e.logger.Info("objects listed",
		zap.String("bucket", bucket),
		zap.Int("listed", report.Listed),
		zap.Int("matched", len(report.Matched)),
	)

	for _, key := range report.Matched {
		dest := path.Join(folder, key)

		var opts []s3types.DownloadOption
		if e.progress != nil {
			opts = append(opts, s3client.WithDownloadProgress(e.progress(key)))
		}

		result, err := e.storage.DownloadFile(ctx, bucket, key, dest, opts...)
		if err != nil {
			e.logger.Error("download failed",
				zap.String("bucket", bucket),
				zap.String("key", key),
				zap.Int("downloaded", len(report.Files)),
				zap.Error(err),
			)
			return report, storageError(err, fmt.Sprintf("failed to download %s", key))
		}

		report.Files = append(report.Files, dest)
		report.Bytes += result.Size

		e.logger.Debug("object downloaded",
			zap.String("key", key),
			zap.String("path", dest),
			zap.Int64("bytes", result.Size),
			zap.String("content_type", result.ContentType),
			zap.Duration("duration", result.Duration),
		)
	}

	e.logger.Info("download complete",
		zap.String("bucket", bucket),
		zap.String("folder", folder),
		zap.Int("files", len(report.Files)),
		zap.Int64("bytes", report.Bytes),
	)
	return report, nil
}
