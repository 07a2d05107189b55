// internal/catalog/s3.go
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	apperrors "plan-access-bot/internal/common/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3API is the subset of the S3 client the catalog uses.
type S3API interface {
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Catalog serves objects stored under <prefix><folder>/<name>. Only direct children of the
// folder are listed, sorted by name.
type S3Catalog struct {
	client S3API
	bucket string
	prefix string
}

func NewS3Catalog(client S3API, bucket, prefix string) *S3Catalog {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &S3Catalog{client: client, bucket: bucket, prefix: prefix}
}

func (c *S3Catalog) folderPrefix(folder string) string {
	return c.prefix + folder + "/"
}

func (c *S3Catalog) List(ctx context.Context, folder string) ([]string, error) {
	prefix := c.folderPrefix(folder)
	paginator := s3.NewListObjectsV2Paginator(c.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(c.bucket),
		Prefix: aws.String(prefix),
	})

	var names []string
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, apperrors.NewRemoteUnavailableError("s3", err)
		}
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), prefix)
			if !validName(name) || name == ListFile {
				continue
			}
			names = append(names, name)
		}
	}

	sort.Strings(names)
	return names, nil
}

func (c *S3Catalog) Fetch(ctx context.Context, folder, name string) ([]byte, error) {
	if !validName(name) {
		return nil, ErrFileNotFound
	}

	out, err := c.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(c.folderPrefix(folder) + name),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, ErrFileNotFound
		}
		return nil, apperrors.NewRemoteUnavailableError("s3", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, apperrors.NewRemoteUnavailableError("s3", fmt.Errorf("read %s: %w", name, err))
	}
	return data, nil
}
