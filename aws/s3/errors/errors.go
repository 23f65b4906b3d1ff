// Package errors provides error types and handling for AWS S3 operations.
package errors

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/smithy-go"
)

// Error represents an S3 operation error with context about the operation that failed.
// It wraps the underlying AWS SDK error with additional context for better debugging.
type Error struct {
	// Op is the operation that failed (e.g., "listBuckets", "listObjects", "downloadFile")
	Op string

	// Bucket is the S3 bucket name (if applicable)
	Bucket string

	// Key is the S3 object key (if applicable)
	Key string

	// Code is the service error code, e.g. "NoSuchBucket" (if the service returned one)
	Code string

	// Err is the underlying error from the AWS SDK or other source
	Err error
}

// Error implements the error interface by providing a formatted error message.
func (e *Error) Error() string {
	if e.Bucket != "" && e.Key != "" {
		return fmt.Sprintf("s3.%s %s/%s: %v", e.Op, e.Bucket, e.Key, e.Err)
	}
	if e.Bucket != "" {
		return fmt.Sprintf("s3.%s bucket %s: %v", e.Op, e.Bucket, e.Err)
	}
	if e.Key != "" {
		return fmt.Sprintf("s3.%s object %s: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("s3.%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error chaining support.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithBucket adds bucket context to an existing error.
func (e *Error) WithBucket(bucket string) *Error {
	e.Bucket = bucket
	return e
}

// WithKey adds object key context to an existing error.
func (e *Error) WithKey(key string) *Error {
	e.Key = key
	return e
}

// WithMessage wraps the underlying error with a custom message.
func (e *Error) WithMessage(message string) *Error {
	e.Err = fmt.Errorf("%s: %w", message, e.Err)
	return e
}

// NewError creates a new Error with the given operation and underlying error.
func NewError(op string, err error) *Error {
	return &Error{
		Op:  op,
		Err: err,
	}
}

// Sentinel errors for common S3 operation failures.
// These can be used with errors.Is() for error checking.
var (
	// ErrObjectNotFound indicates that the requested object does not exist
	ErrObjectNotFound = errors.New("s3: object not found")

	// ErrBucketNotFound indicates that the requested bucket does not exist
	ErrBucketNotFound = errors.New("s3: bucket not found")

	// ErrAccessDenied indicates that access to the resource is denied
	ErrAccessDenied = errors.New("s3: access denied")

	// ErrInvalidInput indicates that the provided input is invalid
	ErrInvalidInput = errors.New("s3: invalid input")

	// ErrInvalidBucketName indicates that the bucket name is invalid
	ErrInvalidBucketName = errors.New("s3: invalid bucket name")

	// ErrInvalidObjectKey indicates that the object key is invalid
	ErrInvalidObjectKey = errors.New("s3: invalid object key")

	// ErrInvalidCredentials indicates that the AWS credentials are invalid
	ErrInvalidCredentials = errors.New("s3: invalid credentials")

	// ErrTimeout indicates that the operation timed out or was cancelled
	ErrTimeout = errors.New("s3: operation timeout")
)

// apiCodes maps S3 service error codes to sentinels.
var apiCodes = map[string]error{
	"NoSuchBucket":          ErrBucketNotFound,
	"NoSuchKey":             ErrObjectNotFound,
	"NotFound":              ErrObjectNotFound,
	"AccessDenied":          ErrAccessDenied,
	"AllAccessDisabled":     ErrAccessDenied,
	"InvalidAccessKeyId":    ErrInvalidCredentials,
	"SignatureDoesNotMatch": ErrInvalidCredentials,
	"ExpiredToken":          ErrInvalidCredentials,
	"InvalidBucketName":     ErrInvalidBucketName,
	"RequestTimeout":        ErrTimeout,
}

// FromAWS builds an Error for op from an SDK error. When the service
// returned a known error code, the sentinel is joined into the chain so
// errors.Is matches both the sentinel and the original SDK error.
func FromAWS(op string, err error) *Error {
	if err == nil {
		return nil
	}

	e := &Error{Op: op, Err: err}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		e.Code = apiErr.ErrorCode()
		if sentinel, ok := apiCodes[e.Code]; ok {
			e.Err = fmt.Errorf("%w: %w", sentinel, err)
		}
		return e
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		e.Err = fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return e
}

// IsObjectNotFound checks if an error indicates that an object was not found.
func IsObjectNotFound(err error) bool {
	return errors.Is(err, ErrObjectNotFound)
}

// IsBucketNotFound checks if an error indicates that a bucket was not found.
func IsBucketNotFound(err error) bool {
	return errors.Is(err, ErrBucketNotFound)
}

// IsAccessDenied checks if an error indicates access was denied.
func IsAccessDenied(err error) bool {
	return errors.Is(err, ErrAccessDenied)
}

// IsInvalidInput checks if an error indicates invalid input.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidBucketName) ||
		errors.Is(err, ErrInvalidObjectKey)
}

// IsInvalidCredentials checks if an error indicates rejected credentials.
func IsInvalidCredentials(err error) bool {
	return errors.Is(err, ErrInvalidCredentials)
}

// IsTimeout checks if an error indicates a timeout or cancellation.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}
