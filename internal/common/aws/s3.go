// internal/common/aws/s3.go
package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Client reads catalog objects.
type S3Client struct {
	client *s3.Client
}

func NewS3Client(ctx context.Context, opts ClientOptions) (*S3Client, error) {
	cfg, err := loadConfig(ctx, opts)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint := opts.baseEndpoint(); endpoint != nil {
			// S3-compatible stores (MinIO, B2) need path-style addressing
			o.BaseEndpoint = endpoint
			o.UsePathStyle = true
		}
	})

	return &S3Client{client: client}, nil
}

// ListObjectsV2 implements catalog.S3API.
func (c *S3Client) ListObjectsV2(ctx context.Context, input *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	return c.client.ListObjectsV2(ctx, input, optFns...)
}

// GetObject implements catalog.S3API.
func (c *S3Client) GetObject(ctx context.Context, input *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	return c.client.GetObject(ctx, input, optFns...)
}
