// Package list handles bucket and object listing.
package list

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	s3types "github.com/hhm970/Museum-Kiosk-Pipeline-Project/aws/s3/s3types"
)

// maxPageSize is the largest page ListObjectsV2 returns.
const maxPageSize int32 = 1000

// S3Interface defines the S3 operations we need.
type S3Interface interface {
	ListBuckets(
		ctx context.Context,
		input *s3.ListBucketsInput,
		opts ...func(*s3.Options),
	) (*s3.ListBucketsOutput, error)
	ListObjectsV2(
		ctx context.Context,
		input *s3.ListObjectsV2Input,
		opts ...func(*s3.Options),
	) (*s3.ListObjectsV2Output, error)
}

// Lister handles listing of S3 buckets and objects.
type Lister struct {
	client S3Interface
}

// New creates a new Lister.
func New(client S3Interface) *Lister {
	return &Lister{
		client: client,
	}
}

// Config holds configuration for object list operations.
type Config struct {
	Bucket     string
	Prefix     string
	StartAfter string
	PageSize   int32
}

// Result represents one page of a list operation.
type Result struct {
	Objects           []s3types.Object
	IsTruncated       bool
	ContinuationToken string
}

// Buckets lists every bucket visible to the caller, in the order the
// service returns them. The bucket listing is not paginated by default.
func (l *Lister) Buckets(ctx context.Context) ([]s3types.Bucket, error) {
	output, err := l.client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, fmt.Errorf("list buckets: %w", err)
	}

	buckets := make([]s3types.Bucket, 0, len(output.Buckets))
	for _, b := range output.Buckets {
		buckets = append(buckets, s3types.Bucket{
			Name:         aws.ToString(b.Name),
			CreationDate: aws.ToTime(b.CreationDate),
		})
	}
	return buckets, nil
}

// All follows continuation tokens until the listing is exhausted and
// returns every object in service order.
func (l *Lister) All(ctx context.Context, config *Config) ([]s3types.Object, error) {
	paginator := l.ListWithPaginator(config)

	var objects []s3types.Object
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		objects = append(objects, page.Objects...)
	}
	return objects, nil
}

// ListWithPaginator creates a paginator for multi-page listing.
func (l *Lister) ListWithPaginator(config *Config) *Paginator {
	return &Paginator{
		client:    l.client,
		config:    config,
		pageSize:  optimalPageSize(config),
		firstPage: true,
	}
}

// Paginator walks ListObjectsV2 pages.
type Paginator struct {
	client            S3Interface
	config            *Config
	pageSize          int32
	continuationToken *string
	hasMorePages      bool
	firstPage         bool
}

// HasMorePages returns true if there are more pages to fetch.
func (p *Paginator) HasMorePages() bool {
	return p.firstPage || p.hasMorePages
}

// NextPage fetches the next page of results.
func (p *Paginator) NextPage(ctx context.Context) (*Result, error) {
	input := &s3.ListObjectsV2Input{
		Bucket:  aws.String(p.config.Bucket),
		MaxKeys: aws.Int32(p.pageSize),
	}

	if p.config.Prefix != "" {
		input.Prefix = aws.String(p.config.Prefix)
	}

	if !p.firstPage && p.continuationToken != nil {
		input.ContinuationToken = p.continuationToken
	} else if p.config.StartAfter != "" {
		input.StartAfter = aws.String(p.config.StartAfter)
	}

	output, err := p.client.ListObjectsV2(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("list objects page: %w", err)
	}

	p.firstPage = false
	p.hasMorePages = aws.ToBool(output.IsTruncated) && output.NextContinuationToken != nil
	p.continuationToken = output.NextContinuationToken

	return convertOutput(output), nil
}

// convertOutput converts S3 output to our Result type.
func convertOutput(output *s3.ListObjectsV2Output) *Result {
	result := &Result{
		Objects:     make([]s3types.Object, 0, len(output.Contents)),
		IsTruncated: aws.ToBool(output.IsTruncated),
	}

	if output.NextContinuationToken != nil {
		result.ContinuationToken = *output.NextContinuationToken
	}

	for _, obj := range output.Contents {
		result.Objects = append(result.Objects, s3types.Object{
			Key:          aws.ToString(obj.Key),
			Size:         aws.ToInt64(obj.Size),
			LastModified: aws.ToTime(obj.LastModified),
			ETag:         aws.ToString(obj.ETag),
			StorageClass: string(obj.StorageClass),
		})
	}

	return result
}

// optimalPageSize determines the page size for pagination.
func optimalPageSize(config *Config) int32 {
	if config.PageSize > 0 && config.PageSize <= maxPageSize {
		return config.PageSize
	}
	return maxPageSize
}
