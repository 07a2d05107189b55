// internal/models/notification.go
package models

type Notification struct {
	ID      string `json:"id"`
	Channel string `json:"channel"` // "telegram", "sns", "ses"
	Status  string `json:"status"`  // "sent", "failed", "disabled"
	Text    string `json:"text"`
	SentAt  string `json:"sentAt"`
}

const (
	ChannelTelegram = "telegram"
	ChannelSNS      = "sns"
	ChannelSES      = "ses"
)

const (
	NotificationSent     = "sent"
	NotificationFailed   = "failed"
	NotificationDisabled = "disabled"
)
