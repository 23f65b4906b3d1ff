package list

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hhm970/Museum-Kiosk-Pipeline-Project/aws/s3/internal/testutil"
)

func TestLister_Buckets(t *testing.T) {
	created := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	client := &testutil.MockS3Client{
		ListBucketsFunc: func(context.Context, *s3.ListBucketsInput, ...func(*s3.Options)) (*s3.ListBucketsOutput, error) {
			return &s3.ListBucketsOutput{Buckets: []types.Bucket{
				{Name: aws.String("Hi"), CreationDate: aws.Time(created)},
				{Name: aws.String("Hello")},
				{Name: aws.String("Cya!")},
			}}, nil
		},
	}

	buckets, err := New(client).Buckets(context.Background())
	require.NoError(t, err)
	require.Len(t, buckets, 3)
	assert.Equal(t, "Hi", buckets[0].Name)
	assert.Equal(t, created, buckets[0].CreationDate)
	assert.Equal(t, "Hello", buckets[1].Name)
	assert.Equal(t, "Cya!", buckets[2].Name)
}

func TestLister_Buckets_Error(t *testing.T) {
	cause := errors.New("no credentials")
	client := &testutil.MockS3Client{
		ListBucketsFunc: func(context.Context, *s3.ListBucketsInput, ...func(*s3.Options)) (*s3.ListBucketsOutput, error) {
			return nil, cause
		},
	}

	_, err := New(client).Buckets(context.Background())
	assert.ErrorIs(t, err, cause)
}

func TestLister_All(t *testing.T) {
	objects := make(map[string]string)
	for i := 0; i < 7; i++ {
		objects[fmt.Sprintf("lmnh_hist_data_%d.csv", i)] = "x"
	}

	tests := []struct {
		name     string
		pageSize int
	}{
		{name: "single page", pageSize: 0},
		{name: "several pages", pageSize: 3},
		{name: "one key per page", pageSize: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := testutil.NewMockStore(map[string]map[string]string{"resources-museum": objects}, tt.pageSize)

			got, err := New(store).All(context.Background(), &Config{Bucket: "resources-museum"})
			require.NoError(t, err)
			require.Len(t, got, 7)
			for i, obj := range got {
				assert.Equal(t, fmt.Sprintf("lmnh_hist_data_%d.csv", i), obj.Key)
				assert.Equal(t, int64(1), obj.Size)
			}
		})
	}
}

func TestLister_All_EmptyBucket(t *testing.T) {
	store := testutil.NewMockStore(map[string]map[string]string{"resources-museum": {}}, 0)

	got, err := New(store).All(context.Background(), &Config{Bucket: "resources-museum"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLister_All_Prefix(t *testing.T) {
	store := testutil.NewMockStore(map[string]map[string]string{"resources-museum": {
		"lmnh_hist_data_1.csv":   "x",
		"lmnh_exhibition_1.json": "y",
	}}, 0)

	got, err := New(store).All(context.Background(), &Config{Bucket: "resources-museum", Prefix: "lmnh_exhibition_"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "lmnh_exhibition_1.json", got[0].Key)
}

func TestPaginator_Input(t *testing.T) {
	var inputs []*s3.ListObjectsV2Input
	client := &testutil.MockS3Client{
		ListObjectsV2Func: func(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
			inputs = append(inputs, in)
			if len(inputs) == 1 {
				return &s3.ListObjectsV2Output{IsTruncated: aws.Bool(true), NextContinuationToken: aws.String("tok")}, nil
			}
			return &s3.ListObjectsV2Output{}, nil
		},
	}

	_, err := New(client).All(context.Background(), &Config{Bucket: "b", StartAfter: "a", PageSize: 5000})
	require.NoError(t, err)
	require.Len(t, inputs, 2)

	assert.Equal(t, "a", aws.ToString(inputs[0].StartAfter))
	assert.Nil(t, inputs[0].ContinuationToken)
	assert.Equal(t, maxPageSize, aws.ToInt32(inputs[0].MaxKeys))

	assert.Equal(t, "tok", aws.ToString(inputs[1].ContinuationToken))
	assert.Nil(t, inputs[1].StartAfter)
}

func TestLister_All_PageError(t *testing.T) {
	cause := errors.New("throttled")
	client := &testutil.MockS3Client{
		ListObjectsV2Func: func(context.Context, *s3.ListObjectsV2Input, ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
			return nil, cause
		},
	}

	got, err := New(client).All(context.Background(), &Config{Bucket: "b"})
	assert.ErrorIs(t, err, cause)
	assert.Nil(t, got)
}
