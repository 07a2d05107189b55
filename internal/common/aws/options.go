// internal/common/aws/options.go
package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

// DefaultRegion is used when no region is configured.
const DefaultRegion = "us-east-1"

// ClientOptions is shared by the S3, SES and SNS constructors. Empty keys fall back to the
// default credential chain; Endpoint targets a local or S3-compatible service.
type ClientOptions struct {
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

func (o ClientOptions) region() string {
	if o.Region == "" {
		return DefaultRegion
	}
	return o.Region
}

func (o ClientOptions) baseEndpoint() *string {
	if o.Endpoint == "" {
		return nil
	}
	return awssdk.String(o.Endpoint)
}

func loadConfig(ctx context.Context, opts ClientOptions) (awssdk.Config, error) {
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(opts.region())}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return awssdk.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return cfg, nil
}
