// Package transporttest provides an in-memory Responder for handler tests.
package transporttest

import (
	"context"
	"sync"

	"plan-access-bot/internal/common/transport"
)

type Photo struct {
	ChatID  int64
	FileRef string
	Caption string
}

type Document struct {
	ChatID int64
	Name   string
	Data   []byte
}

type Answer struct {
	CallbackID string
	Text       string
	Alert      bool
}

// Recorder records every reply. Setting Err makes every call fail with it.
type Recorder struct {
	mu        sync.Mutex
	Messages  []transport.Message
	Photos    []Photo
	Documents []Document
	Answers   []Answer

	Err error
	// FailChats makes sends to these chats fail with Err.
	FailChats map[int64]bool
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) fails(chatID int64) bool {
	if r.Err == nil {
		return false
	}
	return len(r.FailChats) == 0 || r.FailChats[chatID]
}

func (r *Recorder) Send(_ context.Context, msg transport.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fails(msg.ChatID) {
		return r.Err
	}
	r.Messages = append(r.Messages, msg)
	return nil
}

func (r *Recorder) SendPhoto(_ context.Context, chatID int64, fileRef, caption string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fails(chatID) {
		return r.Err
	}
	r.Photos = append(r.Photos, Photo{ChatID: chatID, FileRef: fileRef, Caption: caption})
	return nil
}

func (r *Recorder) SendDocument(_ context.Context, chatID int64, name string, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fails(chatID) {
		return r.Err
	}
	r.Documents = append(r.Documents, Document{ChatID: chatID, Name: name, Data: data})
	return nil
}

func (r *Recorder) AnswerCallback(_ context.Context, callbackID, text string, alert bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Answers = append(r.Answers, Answer{CallbackID: callbackID, Text: text, Alert: alert})
	return nil
}

// MessagesTo returns the messages sent to chatID.
func (r *Recorder) MessagesTo(chatID int64) []transport.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []transport.Message
	for _, m := range r.Messages {
		if m.ChatID == chatID {
			out = append(out, m)
		}
	}
	return out
}

// LastMessage returns the most recent message, or a zero Message.
func (r *Recorder) LastMessage() transport.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Messages) == 0 {
		return transport.Message{}
	}
	return r.Messages[len(r.Messages)-1]
}

// Command builds a command event from userID in their private chat.
func Command(userID int64, command, args string) transport.Event {
	ev := base(userID)
	ev.Kind = transport.KindCommand
	ev.Command = command
	ev.Args = args
	return ev
}

// Callback builds an inline button event.
func Callback(userID int64, data string) transport.Event {
	ev := base(userID)
	ev.Kind = transport.KindCallback
	ev.CallbackID = "cb-1"
	ev.Data = data
	return ev
}

// PhotoEvent builds a photo submission event.
func PhotoEvent(userID int64, username, fileRef string) transport.Event {
	ev := base(userID)
	ev.Kind = transport.KindPhoto
	ev.User.Username = username
	ev.PhotoRef = fileRef
	return ev
}

func base(userID int64) transport.Event {
	ev := transport.Event{ID: "evt-test", ChatID: userID, MessageID: 1}
	ev.User.ID = userID
	return ev
}
