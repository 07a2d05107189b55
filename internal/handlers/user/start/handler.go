// internal/handlers/user/start/handler.go
package start

import (
	"context"

	apperrors "plan-access-bot/internal/common/errors"
	"plan-access-bot/internal/common/logger"
	"plan-access-bot/internal/common/transport"
	browsefiles "plan-access-bot/internal/handlers/user/browse-files"
	selectplan "plan-access-bot/internal/handlers/user/select-plan"
)

const (
	TaskType = "start"

	AdminHelpText = "👤 Admin panel:\n" +
		"/activate <user_id> <days> <VIP/NORMAL>\n" +
		"/unactivate <user_id>\n" +
		"/listsubs\n" +
		"/requests"
)

type AdminPolicy interface {
	IsAdmin(userID int64) bool
}

type FileBrowser interface {
	Execute(ctx context.Context, input *browsefiles.Input) (*browsefiles.Output, error)
}

type Handler struct {
	config  *Config
	admins  AdminPolicy
	browser FileBrowser
	errors  *apperrors.ErrorHandler
	logger  logger.Logger
}

func NewHandler(config *Config, admins AdminPolicy, browser FileBrowser, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:  config,
		admins:  admins,
		browser: browser,
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
		msg := h.errors.HandleEventError(TaskType, event.ID, err)
		if sendErr := transport.Reply(ctx, client, event, msg); sendErr != nil {
			h.logger.Error("failed to send error reply", map[string]interface{}{"error": sendErr})
		}
		return err
	}

	return client.Send(ctx, transport.Message{
		ChatID:   event.ChatID,
		Text:     output.Text,
		Keyboard: output.Keyboard,
	})
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if h.admins.IsAdmin(input.UserID) {
		return &Output{Screen: ScreenAdmin, Text: AdminHelpText}, nil
	}

	files, err := h.browser.Execute(ctx, &browsefiles.Input{UserID: input.UserID})
	if err != nil {
		return nil, err
	}
	if files.Entitled {
		return &Output{Screen: ScreenFiles, Text: files.Text, Keyboard: files.Keyboard}, nil
	}

	return &Output{
		Screen:   ScreenPlans,
		Text:     selectplan.PromptText,
		Keyboard: selectplan.PlanKeyboard(),
	}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
