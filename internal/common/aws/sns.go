// internal/common/aws/sns.go
package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// SNSClient publishes admin notifications to a topic.
type SNSClient struct {
	client *sns.Client
	region string
}

func NewSNSClient(ctx context.Context, opts ClientOptions) (*SNSClient, error) {
	cfg, err := loadConfig(ctx, opts)
	if err != nil {
		return nil, err
	}
	client := sns.NewFromConfig(cfg, func(o *sns.Options) {
		o.BaseEndpoint = opts.baseEndpoint()
	})
	return &SNSClient{client: client, region: cfg.Region}, nil
}

func (s *SNSClient) Region() string { return s.region }

// Publish implements notify.SNSService.
func (s *SNSClient) Publish(ctx context.Context, input *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	return s.client.Publish(ctx, input, optFns...)
}
