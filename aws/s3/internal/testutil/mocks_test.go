package testutil

import (
	"context"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMockStore_Paging(t *testing.T) {
	store := NewMockStore(map[string]map[string]string{
		"resources-museum": {"a": "1", "b": "22", "c": "333"},
	}, 2)
	ctx := context.Background()

	first, err := store.ListObjectsV2(ctx, &s3.ListObjectsV2Input{Bucket: aws.String("resources-museum")})
	require.NoError(t, err)
	require.Len(t, first.Contents, 2)
	assert.True(t, aws.ToBool(first.IsTruncated))

	second, err := store.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:            aws.String("resources-museum"),
		ContinuationToken: first.NextContinuationToken,
	})
	require.NoError(t, err)
	require.Len(t, second.Contents, 1)
	assert.Equal(t, "c", aws.ToString(second.Contents[0].Key))
	assert.False(t, aws.ToBool(second.IsTruncated))
}

func TestNewMockStore_Errors(t *testing.T) {
	store := NewMockStore(map[string]map[string]string{"resources-museum": {"a": "1"}}, 0)
	ctx := context.Background()

	_, err := store.ListObjectsV2(ctx, &s3.ListObjectsV2Input{Bucket: aws.String("missing")})
	var apiErr smithy.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "NoSuchBucket", apiErr.ErrorCode())

	_, err = store.GetObject(ctx, &s3.GetObjectInput{Bucket: aws.String("resources-museum"), Key: aws.String("nope")})
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "NoSuchKey", apiErr.ErrorCode())

	out, err := store.GetObject(ctx, &s3.GetObjectInput{Bucket: aws.String("resources-museum"), Key: aws.String("a")})
	require.NoError(t, err)
	body, err := io.ReadAll(out.Body)
	require.NoError(t, err)
	assert.Equal(t, "1", string(body))
}
