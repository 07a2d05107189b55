// Package transport defines the chat-agnostic events the bot reacts to and the replies
// handlers can send back.
package transport

import (
	"context"
	"time"

	"plan-access-bot/internal/models"
)

type EventKind string

const (
	KindCommand  EventKind = "command"
	KindCallback EventKind = "callback"
	KindPhoto    EventKind = "photo"
	KindText     EventKind = "text"
)

// Event is one inbound update, already stripped of transport-specific payload.
type Event struct {
	ID         string
	Kind       EventKind
	User       models.User
	ChatID     int64
	MessageID  int
	Command    string // lower case, without the leading slash
	Args       string
	CallbackID string
	Data       string // callback data
	PhotoRef   string // largest photo size
	Text       string
	ReceivedAt time.Time
}

// IsCallback reports whether the event came from an inline button.
func (e Event) IsCallback() bool { return e.Kind == KindCallback }

// Button is an inline keyboard button carrying callback data.
type Button struct {
	Text string
	Data string
}

// Keyboard is a list of button rows.
type Keyboard [][]Button

// Row builds a single keyboard row.
func Row(buttons ...Button) []Button { return buttons }

// ParseModeMarkdown selects Telegram legacy Markdown rendering.
const ParseModeMarkdown = "Markdown"

// Message is an outbound text message.
type Message struct {
	ChatID    int64
	Text      string
	ReplyTo   int
	ParseMode string
	Keyboard  Keyboard
}

// Responder sends replies on behalf of handlers.
type Responder interface {
	Send(ctx context.Context, msg Message) error
	SendPhoto(ctx context.Context, chatID int64, fileRef, caption string) error
	SendDocument(ctx context.Context, chatID int64, name string, data []byte) error
	AnswerCallback(ctx context.Context, callbackID, text string, alert bool) error
}

// Reply sends text to the chat the event came from.
func Reply(ctx context.Context, client Responder, event Event, text string) error {
	return client.Send(ctx, Message{ChatID: event.ChatID, Text: text, ReplyTo: event.MessageID})
}
