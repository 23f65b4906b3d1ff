// Package testutil provides test utilities and mocks for S3 operations.
// This package is internal and should only be used for testing within the S3 module.
package testutil

import (
	"context"
	"io"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/hhm970/Museum-Kiosk-Pipeline-Project/aws/s3/internal/s3api"
)

// MockS3Client is a mock implementation of the S3API interface for testing.
// It allows customization of each S3 operation through function fields.
type MockS3Client struct {
	ListBucketsFunc   func(context.Context, *s3.ListBucketsInput, ...func(*s3.Options)) (*s3.ListBucketsOutput, error)
	ListObjectsV2Func func(context.Context, *s3.ListObjectsV2Input, ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	GetObjectFunc     func(context.Context, *s3.GetObjectInput, ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// ListBuckets mocks the S3 ListBuckets operation.
func (m *MockS3Client) ListBuckets(
	ctx context.Context,
	params *s3.ListBucketsInput,
	optFns ...func(*s3.Options),
) (*s3.ListBucketsOutput, error) {
	if m.ListBucketsFunc != nil {
		return m.ListBucketsFunc(ctx, params, optFns...)
	}
	return &s3.ListBucketsOutput{}, nil
}

// ListObjectsV2 mocks the S3 ListObjectsV2 operation.
func (m *MockS3Client) ListObjectsV2(
	ctx context.Context,
	params *s3.ListObjectsV2Input,
	optFns ...func(*s3.Options),
) (*s3.ListObjectsV2Output, error) {
	if m.ListObjectsV2Func != nil {
		return m.ListObjectsV2Func(ctx, params, optFns...)
	}
	return &s3.ListObjectsV2Output{}, nil
}

// GetObject mocks the S3 GetObject operation.
func (m *MockS3Client) GetObject(
	ctx context.Context,
	params *s3.GetObjectInput,
	optFns ...func(*s3.Options),
) (*s3.GetObjectOutput, error) {
	if m.GetObjectFunc != nil {
		return m.GetObjectFunc(ctx, params, optFns...)
	}
	return &s3.GetObjectOutput{}, nil
}

// Ensure MockS3Client implements s3api.S3API interface
var _ s3api.S3API = (*MockS3Client)(nil)

// NewMockStore returns a MockS3Client serving the given buckets from memory.
// Object listings are returned in key order, pageSize keys per page
// (0 means a single page). Unknown buckets and keys fail with the
// service's NoSuchBucket and NoSuchKey codes.
func NewMockStore(buckets map[string]map[string]string, pageSize int) *MockS3Client {
	names := make([]string, 0, len(buckets))
	for name := range buckets {
		names = append(names, name)
	}
	sort.Strings(names)

	return &MockS3Client{
		ListBucketsFunc: func(context.Context, *s3.ListBucketsInput, ...func(*s3.Options)) (*s3.ListBucketsOutput, error) {
			out := &s3.ListBucketsOutput{}
			for _, name := range names {
				out.Buckets = append(out.Buckets, types.Bucket{Name: aws.String(name)})
			}
			return out, nil
		},
		ListObjectsV2Func: func(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
			objects, ok := buckets[aws.ToString(in.Bucket)]
			if !ok {
				return nil, &smithy.GenericAPIError{Code: "NoSuchBucket", Message: "The specified bucket does not exist"}
			}

			keys := make([]string, 0, len(objects))
			for k := range objects {
				if strings.HasPrefix(k, aws.ToString(in.Prefix)) {
					keys = append(keys, k)
				}
			}
			sort.Strings(keys)

			// Continuation tokens are the last key of the previous page.
			start := 0
			if token := aws.ToString(in.ContinuationToken); token != "" {
				start = sort.SearchStrings(keys, token) + 1
			}
			end := len(keys)
			if pageSize > 0 && start+pageSize < end {
				end = start + pageSize
			}

			out := &s3.ListObjectsV2Output{KeyCount: aws.Int32(int32(end - start))}
			for _, k := range keys[start:end] {
				out.Contents = append(out.Contents, types.Object{
					Key:  aws.String(k),
					Size: aws.Int64(int64(len(objects[k]))),
				})
			}
			if end < len(keys) {
				out.IsTruncated = aws.Bool(true)
				out.NextContinuationToken = aws.String(keys[end-1])
			}
			return out, nil
		},
		GetObjectFunc: func(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
			objects, ok := buckets[aws.ToString(in.Bucket)]
			if !ok {
				return nil, &smithy.GenericAPIError{Code: "NoSuchBucket", Message: "The specified bucket does not exist"}
			}
			body, ok := objects[aws.ToString(in.Key)]
			if !ok {
				return nil, &smithy.GenericAPIError{Code: "NoSuchKey", Message: "The specified key does not exist"}
			}
			return &s3.GetObjectOutput{
				Body:          io.NopCloser(strings.NewReader(body)),
				ContentLength: aws.Int64(int64(len(body))),
				ETag:          aws.String(`"` + aws.ToString(in.Key) + `"`),
			}, nil
		},
	}
}
