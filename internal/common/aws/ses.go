// internal/common/aws/ses.go
package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/ses"
)

// SESClient sends admin notification emails.
type SESClient struct {
	client *ses.Client
	region string
}

func NewSESClient(ctx context.Context, opts ClientOptions) (*SESClient, error) {
	cfg, err := loadConfig(ctx, opts)
	if err != nil {
		return nil, err
	}
	client := ses.NewFromConfig(cfg, func(o *ses.Options) {
		o.BaseEndpoint = opts.baseEndpoint()
	})
	return &SESClient{client: client, region: cfg.Region}, nil
}

func (s *SESClient) Region() string { return s.region }

// SendEmail implements notify.SESService.
func (s *SESClient) SendEmail(ctx context.Context, input *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	return s.client.SendEmail(ctx, input, optFns...)
}
