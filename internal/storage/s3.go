// Package storage publishes exported car park layouts to object storage.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Object store errors.
var (
	ErrNoBucket = errors.New("no S3 bucket configured")
	ErrNotFound = errors.New("object not found")
)

// notFound is implemented by store errors that mean the key does not exist.
type notFound interface {
	NotFound() bool
}

// IsNotFound reports whether err means the requested object does not exist,
// as opposed to a transport or permission failure.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var nf notFound
	return errors.As(err, &nf) && nf.NotFound()
}

// ObjectStore defines the object storage operations used for publishing.
type ObjectStore interface {
	GetObject(ctx context.Context, key string) ([]byte, error)
	PutObject(ctx context.Context, key string, data []byte, contentType string) error
	ListObjects(ctx context.Context, prefix string) ([]string, error)
}

// S3Adapter adapts the AWS S3 client to ObjectStore.
type S3Adapter struct {
	client *s3.Client
	bucket string
}

// NewS3Adapter loads the default AWS configuration for region and returns
// an adapter bound to bucket.
func NewS3Adapter(ctx context.Context, region, bucket string) (*S3Adapter, error) {
	if bucket == "" {
		return nil, ErrNoBucket
	}
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &S3Adapter{client: s3.NewFromConfig(cfg), bucket: bucket}, nil
}

// Bucket returns the bucket the adapter writes to.
func (a *S3Adapter) Bucket() string { return a.bucket }

func (a *S3Adapter) GetObject(ctx context.Context, key string) ([]byte, error) {
	output, err := a.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	var noKey *types.NoSuchKey
	if errors.As(err, &noKey) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	defer output.Body.Close()
	return io.ReadAll(output.Body)
}

func (a *S3Adapter) PutObject(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to put %s: %w", key, err)
	}
	return nil
}

// ListObjects returns every key under prefix, following continuation tokens.
func (a *S3Adapter) ListObjects(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	paginator := s3.NewListObjectsV2Paginator(a.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(a.bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", prefix, err)
		}
		for _, obj := range page.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}
	}
	return keys, nil
}
