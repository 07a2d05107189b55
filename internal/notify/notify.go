// Package notify delivers best-effort administrator notifications over every configured channel.
package notify

import (
	"context"
	"time"

	apperrors "plan-access-bot/internal/common/errors"
	"plan-access-bot/internal/common/logger"
	"plan-access-bot/internal/models"

	"github.com/google/uuid"
)

// Channel delivers one notification text.
type Channel interface {
	Name() string
	Send(ctx context.Context, text string) error
}

// Notifier fans a text out to every channel. Failures are logged and never returned.
type Notifier struct {
	channels []Channel
	logger   logger.Logger
}

func NewNotifier(log logger.Logger, channels ...Channel) *Notifier {
	return &Notifier{
		channels: channels,
		logger:   log.WithFields(map[string]interface{}{"component": "notifier"}),
	}
}

// Notify sends text on every channel and reports the outcome of each.
func (n *Notifier) Notify(ctx context.Context, text string) []models.Notification {
	if n == nil || len(n.channels) == 0 {
		return nil
	}

	results := make([]models.Notification, 0, len(n.channels))
	for _, ch := range n.channels {
		result := models.Notification{
			ID:      uuid.New().String(),
			Channel: ch.Name(),
			Status:  models.NotificationSent,
			Text:    text,
			SentAt:  time.Now().UTC().Format(time.RFC3339),
		}

		if err := ch.Send(ctx, text); err != nil {
			stdErr := apperrors.NewNotificationSendFailedError(ch.Name(), err)
			n.logger.Warn("admin notification failed", map[string]interface{}{
				"notificationId": result.ID,
				"channel":        ch.Name(),
				"errorCode":      string(stdErr.Code),
				"details":        stdErr.Details,
			})
			result.Status = models.NotificationFailed
		}
		results = append(results, result)
	}
	return results
}
