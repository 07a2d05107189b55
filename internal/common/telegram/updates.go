// internal/common/telegram/updates.go
package telegram

import (
	"strings"
	"time"

	"plan-access-bot/internal/common/transport"
	"plan-access-bot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
)

// ToEvent maps an update to a transport event. ok is false for updates the bot ignores.
func ToEvent(update tgbotapi.Update) (transport.Event, bool) {
	event := transport.Event{
		ID:         uuid.New().String(),
		ReceivedAt: time.Now().UTC(),
	}

	if cq := update.CallbackQuery; cq != nil {
		if cq.From == nil || cq.Message == nil || cq.Message.Chat == nil {
			return transport.Event{}, false
		}
		event.Kind = transport.KindCallback
		event.User = toUser(cq.From)
		event.ChatID = cq.Message.Chat.ID
		event.MessageID = cq.Message.MessageID
		event.CallbackID = cq.ID
		event.Data = cq.Data
		return event, true
	}

	msg := update.Message
	if msg == nil || msg.From == nil || msg.Chat == nil {
		return transport.Event{}, false
	}
	event.User = toUser(msg.From)
	event.ChatID = msg.Chat.ID
	event.MessageID = msg.MessageID

	switch {
	case len(msg.Photo) > 0:
		event.Kind = transport.KindPhoto
		// sizes are ordered smallest first
		event.PhotoRef = msg.Photo[len(msg.Photo)-1].FileID
	case msg.IsCommand():
		event.Kind = transport.KindCommand
		event.Command = strings.ToLower(msg.Command())
		event.Args = strings.TrimSpace(msg.CommandArguments())
	case msg.Text != "":
		event.Kind = transport.KindText
		event.Text = msg.Text
	default:
		return transport.Event{}, false
	}
	return event, true
}

func toUser(u *tgbotapi.User) models.User {
	return models.User{ID: u.ID, Username: u.UserName}
}
