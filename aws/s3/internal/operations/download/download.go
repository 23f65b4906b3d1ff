// Package download handles S3 object download operations.
//
// Objects are streamed to an io.Writer or to a file created through the
// fs.Filesystem abstraction, with optional progress tracking.
package download

import (
	"context"
	"io"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"

	"github.com/hhm970/Museum-Kiosk-Pipeline-Project/aws/s3/errors"
	"github.com/hhm970/Museum-Kiosk-Pipeline-Project/aws/s3/internal/s3api"
	"github.com/hhm970/Museum-Kiosk-Pipeline-Project/aws/s3/s3types"
	"github.com/hhm970/Museum-Kiosk-Pipeline-Project/fs"
)

// DefaultContentType is reported for empty objects with no declared type.
const DefaultContentType = "application/octet-stream"

// Downloader handles S3 download operations with progress tracking support.
type Downloader struct {
	s3Client s3api.S3API
}

// New creates a new Downloader instance.
func New(s3Client s3api.S3API) *Downloader {
	return &Downloader{
		s3Client: s3Client,
	}
}

// Download fetches bucket/key and streams the body into writer.
func (d *Downloader) Download(
	ctx context.Context,
	bucket, key string,
	writer io.Writer,
	config *s3types.DownloadConfig,
	startTime time.Time,
) (*s3types.DownloadResult, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}

	output, err := d.s3Client.GetObject(ctx, input)
	if err != nil {
		if config.ProgressTracker != nil {
			config.ProgressTracker.Error(err)
		}
		return nil, errors.FromAWS("download", err).WithBucket(bucket).WithKey(key)
	}
	if output.Body == nil {
		return nil, errors.NewError("download", errors.ErrObjectNotFound).
			WithBucket(bucket).
			WithKey(key).
			WithMessage("response has no body")
	}
	defer output.Body.Close()

	size := aws.ToInt64(output.ContentLength)

	var reader io.Reader = output.Body
	if config.ProgressTracker != nil {
		reader = &progressReader{
			reader:          output.Body,
			progressTracker: config.ProgressTracker,
			total:           size,
		}
	}

	sniff := &sniffWriter{}
	written, err := io.Copy(io.MultiWriter(writer, sniff), reader)
	if err != nil {
		if config.ProgressTracker != nil {
			config.ProgressTracker.Error(err)
		}
		return nil, errors.FromAWS("download", err).WithBucket(bucket).WithKey(key)
	}

	// ContentLength is absent for chunked responses.
	if size == 0 {
		size = written
	}

	if config.ProgressTracker != nil {
		config.ProgressTracker.Update(written, size)
		config.ProgressTracker.Complete()
	}

	return &s3types.DownloadResult{
		Key:         key,
		Size:        size,
		ContentType: contentType(key, aws.ToString(output.ContentType), sniff.buf),
		ETag:        aws.ToString(output.ETag),
		VersionID:   aws.ToString(output.VersionId),
		Duration:    time.Since(startTime),
	}, nil
}

// DownloadFile downloads bucket/key into dest on filesystem. The file is
// created or truncated and missing parent directories are created.
func (d *Downloader) DownloadFile(
	ctx context.Context,
	filesystem fs.Filesystem,
	bucket, key, dest string,
	config *s3types.DownloadConfig,
	startTime time.Time,
) (*s3types.DownloadResult, error) {
	file, err := filesystem.Create(dest)
	if err != nil {
		return nil, errors.NewError("downloadFile", err).WithBucket(bucket).WithKey(key)
	}

	result, err := d.Download(ctx, bucket, key, file, config, startTime)
	if cerr := file.Close(); err == nil && cerr != nil {
		return nil, errors.NewError("downloadFile", cerr).WithBucket(bucket).WithKey(key)
	}
	if err != nil {
		return nil, err
	}

	result.Path = dest
	return result, nil
}

// progressReader wraps an io.Reader to track progress
type progressReader struct {
	reader          io.Reader
	progressTracker s3types.ProgressTracker
	total           int64
	bytesRead       int64
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.reader.Read(p)
	if n > 0 {
		pr.bytesRead += int64(n)
		pr.progressTracker.Update(pr.bytesRead, pr.total)
	}
	//nolint:wrapcheck // io.Reader contract
	return n, err
}

// sniffLimit matches the header size mimetype inspects.
const sniffLimit = 3072

// sniffWriter keeps the head of a stream for content detection.
type sniffWriter struct {
	buf []byte
}

func (w *sniffWriter) Write(p []byte) (int, error) {
	if room := sniffLimit - len(w.buf); room > 0 {
		w.buf = append(w.buf, p[:min(room, len(p))]...)
	}
	return len(p), nil
}

// contentType prefers the store's value, then the key's extension, then
// the detected type of the body's head.
func contentType(key, reported string, head []byte) string {
	if reported != "" {
		return reported
	}
	if byExt := mime.TypeByExtension(strings.ToLower(path.Ext(key))); byExt != "" {
		return byExt
	}
	if len(head) > 0 {
		return mimetype.Detect(head).String()
	}
	return DefaultContentType
}
