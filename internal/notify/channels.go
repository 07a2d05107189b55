// internal/notify/channels.go
package notify

import (
	"context"
	"errors"
	"fmt"

	"plan-access-bot/internal/common/transport"
	"plan-access-bot/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// Define interfaces for mocking
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Sender is the part of the chat transport used to message admins directly.
type Sender interface {
	Send(ctx context.Context, msg transport.Message) error
}

// TelegramChannel messages every admin in a private chat.
type TelegramChannel struct {
	sender Sender
	admins func() []int64
}

func NewTelegramChannel(sender Sender, admins func() []int64) *TelegramChannel {
	return &TelegramChannel{sender: sender, admins: admins}
}

func (c *TelegramChannel) Name() string { return models.ChannelTelegram }

func (c *TelegramChannel) Send(ctx context.Context, text string) error {
	var errs []error
	for _, id := range c.admins() {
		if err := c.sender.Send(ctx, transport.Message{ChatID: id, Text: text}); err != nil {
			errs = append(errs, fmt.Errorf("admin %d: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

// SNSChannel publishes to a topic, e.g. one with an SMS or chat-ops subscription.
type SNSChannel struct {
	client   SNSService
	topicARN string
	subject  string
}

func NewSNSChannel(client SNSService, topicARN, subject string) *SNSChannel {
	return &SNSChannel{client: client, topicARN: topicARN, subject: subject}
}

func (c *SNSChannel) Name() string { return models.ChannelSNS }

func (c *SNSChannel) Send(ctx context.Context, text string) error {
	input := &sns.PublishInput{
		TopicArn: aws.String(c.topicARN),
		Message:  aws.String(text),
	}
	if c.subject != "" {
		input.Subject = aws.String(c.subject)
	}
	_, err := c.client.Publish(ctx, input)
	return err
}

// SESChannel emails the text to a fixed recipient list.
type SESChannel struct {
	client  SESService
	from    string
	to      []string
	subject string
}

func NewSESChannel(client SESService, from string, to []string, subject string) *SESChannel {
	return &SESChannel{client: client, from: from, to: to, subject: subject}
}

func (c *SESChannel) Name() string { return models.ChannelSES }

func (c *SESChannel) Send(ctx context.Context, text string) error {
	_, err := c.client.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: c.to,
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(c.subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(text)},
			},
		},
		Source: aws.String(c.from),
	})
	return err
}
