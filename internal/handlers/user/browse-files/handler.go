// internal/handlers/user/browse-files/handler.go
package browsefiles

import (
	"context"

	"plan-access-bot/internal/access"
	"plan-access-bot/internal/catalog"
	apperrors "plan-access-bot/internal/common/errors"
	"plan-access-bot/internal/common/logger"
	"plan-access-bot/internal/common/transport"
)

const (
	TaskType = "browse-files"

	// CallbackPrefix selects a file: send:<folder>:<file>.
	CallbackPrefix = "send:"

	// Telegram rejects callback data longer than this.
	maxCallbackData = 64

	menuText    = "📂 Choose a file:"
	noFilesText = "❌ No files available right now."
)

// AccessDecider is the part of the access engine this handler needs.
type AccessDecider interface {
	DecideAccess(ctx context.Context, userID int64) access.Decision
}

type Handler struct {
	config  *Config
	access  AccessDecider
	catalog catalog.Catalog
	errors  *apperrors.ErrorHandler
	logger  logger.Logger
}

func NewHandler(config *Config, decider AccessDecider, cat catalog.Catalog, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:  config,
		access:  decider,
		catalog: cat,
		errors:  apperrors.NewErrorHandler(l),
		logger:  l,
	}
}

func (h *Handler) Handle(client transport.Responder, event transport.Event) error {
	h.logger.Info("processing event", map[string]interface{}{
		"eventId": event.ID,
		"userId":  event.User.ID,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &Input{UserID: event.User.ID})
	if err != nil {
		h.failEvent(ctx, client, event, err)
		return err
	}

	return client.Send(ctx, transport.Message{
		ChatID:   event.ChatID,
		Text:     output.Text,
		Keyboard: output.Keyboard,
	})
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	decision := h.access.DecideAccess(ctx, input.UserID)
	output := &Output{Entitled: decision.Entitled}

	var keyboard transport.Keyboard
	for _, folder := range decision.Folders() {
		files := h.listFolder(ctx, folder)
		if len(files) == 0 {
			continue
		}
		output.Folders = append(output.Folders, Folder{Name: folder, Files: files})

		keyboard = append(keyboard, transport.Row(transport.Button{Text: "📁 " + folder, Data: "dummy"}))
		for _, file := range files {
			keyboard = append(keyboard, transport.Row(transport.Button{
				Text: "📄 " + file,
				Data: CallbackPrefix + folder + ":" + file,
			}))
		}
	}

	if len(keyboard) == 0 {
		output.Text = noFilesText
		return output, nil
	}
	output.Text = menuText
	output.Keyboard = keyboard
	return output, nil
}

// listFolder never fails: an unreachable catalog is the same as an empty folder.
func (h *Handler) listFolder(ctx context.Context, folder string) []string {
	names, err := h.catalog.List(ctx, folder)
	if err != nil {
		h.logger.Warn("catalog listing failed", map[string]interface{}{
			"folder": folder,
			"error":  err,
		})
		return nil
	}

	files := make([]string, 0, len(names))
	for _, name := range names {
		if len(CallbackPrefix)+len(folder)+1+len(name) > maxCallbackData {
			h.logger.Warn("file name too long for a button, skipping", map[string]interface{}{
				"folder": folder,
				"file":   name,
			})
			continue
		}
		files = append(files, name)
		if h.config.MaxFilesPerFolder > 0 && len(files) == h.config.MaxFilesPerFolder {
			break
		}
	}
	return files
}

func (h *Handler) failEvent(ctx context.Context, client transport.Responder, event transport.Event, err error) {
	msg := h.errors.HandleEventError(TaskType, event.ID, err)
	if sendErr := transport.Reply(ctx, client, event, msg); sendErr != nil {
		h.logger.Error("failed to send error reply", map[string]interface{}{
			"eventId": event.ID,
			"error":   sendErr,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
