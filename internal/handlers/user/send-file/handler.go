// internal/handlers/user/send-file/handler.go
package sendfile

import (
	"context"
	"errors"
	"strings"

	"plan-access-bot/internal/access"
	"plan-access-bot/internal/catalog"
	apperrors "plan-access-bot/internal/common/errors"
	"plan-access-bot/internal/common/logger"
	"plan-access-bot/internal/common/transport"
)

const (
	TaskType       = "send-file"
	CallbackPrefix = "send:"

	expiredText = "⏳ Your subscription has expired!"
)

var (
	ErrSubscriptionExpired = errors.New("SUBSCRIPTION_EXPIRED")
)

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

// Handle answers the callback in every path so the button never keeps spinning.
func (h *Handler) Handle(client transport.Responder, event transport.Event) error {
	h.logger.Info("processing event", map[string]interface{}{
		"eventId": event.ID,
		"userId":  event.User.ID,
		"data":    event.Data,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	input, err := parseInput(event)
	if err != nil {
		h.failEvent(ctx, client, event, err)
		return err
	}

	output, err := h.execute(ctx, input)
	if errors.Is(err, ErrSubscriptionExpired) {
		h.answer(ctx, client, event, expiredText, true)
		return nil
	}
	if err != nil {
		h.failEvent(ctx, client, event, err)
		return err
	}

	if err := client.SendDocument(ctx, event.ChatID, output.Name, output.Data); err != nil {
		stdErr := apperrors.NewTransportSendFailedError(err)
		h.failEvent(ctx, client, event, stdErr)
		return stdErr
	}
	h.answer(ctx, client, event, "", false)
	return nil
}

func parseInput(event transport.Event) (*Input, error) {
	rest := strings.TrimPrefix(event.Data, CallbackPrefix)
	folder, file, ok := strings.Cut(rest, ":")
	if !ok || folder == "" || file == "" {
		return nil, apperrors.NewValidationError("Invalid file selection", event.Data)
	}
	return &Input{UserID: event.User.ID, Folder: folder, File: file}, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	decision := h.access.DecideAccess(ctx, input.UserID)
	if !decision.Entitled {
		return nil, ErrSubscriptionExpired
	}
	if !decision.Allows(input.Folder) {
		return nil, apperrors.NewAccessDeniedError(
			"tier " + string(decision.Tier) + " cannot open folder " + input.Folder)
	}

	data, err := h.catalog.Fetch(ctx, input.Folder, input.File)
	if err != nil {
		if errors.Is(err, catalog.ErrFileNotFound) {
			return nil, apperrors.NewFileNotFoundError(input.Folder, input.File)
		}
		return nil, err
	}

	h.logger.Info("file fetched", map[string]interface{}{
		"userId": input.UserID,
		"folder": input.Folder,
		"file":   input.File,
		"size":   len(data),
	})

	return &Output{Name: input.File, Data: data, Size: len(data)}, nil
}

func (h *Handler) answer(ctx context.Context, client transport.Responder, event transport.Event, text string, alert bool) {
	if err := client.AnswerCallback(ctx, event.CallbackID, text, alert); err != nil {
		h.logger.Warn("failed to answer callback", map[string]interface{}{
			"eventId": event.ID,
			"error":   err,
		})
	}
}

func (h *Handler) failEvent(ctx context.Context, client transport.Responder, event transport.Event, err error) {
	h.answer(ctx, client, event, h.errors.HandleEventError(TaskType, event.ID, err), true)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
