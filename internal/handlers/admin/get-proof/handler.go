// internal/handlers/admin/get-proof/handler.go
package getproof

import (
	"context"
	"fmt"
	"strings"

	apperrors "plan-access-bot/internal/common/errors"
	"plan-access-bot/internal/common/logger"
	"plan-access-bot/internal/common/transport"
	"plan-access-bot/internal/models"
	"plan-access-bot/internal/subscription"
)

const (
	TaskType       = "get-proof"
	CallbackPrefix = "photo:"

	missingText = "❌ No photo for this request."
)

type AdminPolicy interface {
	IsAdmin(userID int64) bool
}

type Queue interface {
	Get(ctx context.Context, userID int64) (*models.PendingRequest, bool)
}

type Handler struct {
	config *Config
	admins AdminPolicy
	queue  Queue
	errors *apperrors.ErrorHandler
	logger logger.Logger
}

func NewHandler(config *Config, admins AdminPolicy, queue Queue, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		admins: admins,
		queue:  queue,
		errors: apperrors.NewErrorHandler(l),
		logger: l,
	}
}

func (h *Handler) Handle(client transport.Responder, event transport.Event) error {
	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	if !h.admins.IsAdmin(event.User.ID) {
		h.answer(ctx, client, event, "")
		return nil
	}

	h.logger.Info("processing event", map[string]interface{}{
		"eventId": event.ID,
		"adminId": event.User.ID,
		"data":    event.Data,
	})

	userID, err := subscription.ParseUserID(strings.TrimPrefix(event.Data, CallbackPrefix))
	if err != nil {
		h.answer(ctx, client, event, h.errors.HandleEventError(TaskType, event.ID, err))
		return err
	}

	output, err := h.execute(ctx, &Input{AdminID: event.User.ID, UserID: userID})
	if err != nil {
		h.answer(ctx, client, event, h.errors.HandleEventError(TaskType, event.ID, err))
		return err
	}

	if !output.Found {
		sendErr := client.Send(ctx, transport.Message{ChatID: event.ChatID, Text: missingText})
		h.answer(ctx, client, event, "")
		return sendErr
	}

	req := output.Request
	caption := fmt.Sprintf("ID: %d | plan: %s", req.UserID, req.PlanType)
	sendErr := client.SendPhoto(ctx, event.ChatID, req.ProofReference, caption)
	h.answer(ctx, client, event, "")
	if sendErr != nil {
		return apperrors.NewTransportSendFailedError(sendErr)
	}
	return nil
}

// execute treats a missing request as a normal negative result.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	req, ok := h.queue.Get(ctx, input.UserID)
	if !ok {
		h.logger.Debug("no pending request", map[string]interface{}{"userId": input.UserID})
		return &Output{}, nil
	}
	return &Output{Found: true, Request: req}, nil
}

func (h *Handler) answer(ctx context.Context, client transport.Responder, event transport.Event, text string) {
	if err := client.AnswerCallback(ctx, event.CallbackID, text, text != ""); err != nil {
		h.logger.Warn("failed to answer callback", map[string]interface{}{
			"eventId": event.ID,
			"error":   err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
