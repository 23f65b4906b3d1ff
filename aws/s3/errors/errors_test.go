package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Error(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{name: "bucket and key", err: NewError("downloadFile", cause).WithBucket("b").WithKey("k.csv"), want: "s3.downloadFile b/k.csv: boom"},
		{name: "bucket only", err: NewError("listObjects", cause).WithBucket("b"), want: "s3.listObjects bucket b: boom"},
		{name: "key only", err: NewError("validateObjectKey", cause).WithKey("k"), want: "s3.validateObjectKey object k: boom"},
		{name: "no context", err: NewError("listBuckets", cause), want: "s3.listBuckets: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
			assert.ErrorIs(t, tt.err, cause)
		})
	}
}

func TestError_WithMessage(t *testing.T) {
	err := NewError("download", ErrInvalidInput).WithMessage("writer cannot be nil")
	assert.Equal(t, "s3.download: writer cannot be nil: s3: invalid input", err.Error())
	assert.True(t, IsInvalidInput(err))
}

func TestFromAWS(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     string
		sentinel error
	}{
		{name: "no such bucket", err: &smithy.GenericAPIError{Code: "NoSuchBucket", Message: "gone"}, code: "NoSuchBucket", sentinel: ErrBucketNotFound},
		{name: "no such key", err: &smithy.GenericAPIError{Code: "NoSuchKey"}, code: "NoSuchKey", sentinel: ErrObjectNotFound},
		{name: "access denied", err: &smithy.GenericAPIError{Code: "AccessDenied"}, code: "AccessDenied", sentinel: ErrAccessDenied},
		{name: "bad key id", err: &smithy.GenericAPIError{Code: "InvalidAccessKeyId"}, code: "InvalidAccessKeyId", sentinel: ErrInvalidCredentials},
		{name: "wrapped api error", err: fmt.Errorf("operation error S3: %w", &smithy.GenericAPIError{Code: "NoSuchBucket"}), code: "NoSuchBucket", sentinel: ErrBucketNotFound},
		{name: "deadline", err: context.DeadlineExceeded, sentinel: ErrTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromAWS("listObjects", tt.err).WithBucket("resources-museum")
			require.NotNil(t, got)
			assert.Equal(t, tt.code, got.Code)
			assert.ErrorIs(t, got, tt.sentinel)
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestFromAWS_Unclassified(t *testing.T) {
	assert.Nil(t, FromAWS("listBuckets", nil))

	cause := &smithy.GenericAPIError{Code: "SlowDown"}
	got := FromAWS("listBuckets", cause)
	assert.Equal(t, "SlowDown", got.Code)
	assert.ErrorIs(t, got, cause)
	assert.False(t, IsBucketNotFound(got))
	assert.False(t, IsAccessDenied(got))
}

func TestIsHelpers(t *testing.T) {
	assert.True(t, IsObjectNotFound(fmt.Errorf("x: %w", ErrObjectNotFound)))
	assert.True(t, IsBucketNotFound(NewError("listObjects", ErrBucketNotFound)))
	assert.True(t, IsAccessDenied(NewError("listObjects", ErrAccessDenied)))
	assert.True(t, IsInvalidInput(ErrInvalidObjectKey))
	assert.True(t, IsInvalidCredentials(ErrInvalidCredentials))
	assert.False(t, IsInvalidInput(errors.New("other")))
}
