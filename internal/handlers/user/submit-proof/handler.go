// internal/handlers/user/submit-proof/handler.go
package submitproof

import (
	"context"
	"fmt"

	apperrors "plan-access-bot/internal/common/errors"
	"plan-access-bot/internal/common/logger"
	"plan-access-bot/internal/common/transport"
	"plan-access-bot/internal/intent"
	"plan-access-bot/internal/models"
)

const (
	TaskType = "submit-proof"

	ackText = "✅ Payment screenshot received! It will be verified soon."
)

type Queue interface {
	Submit(ctx context.Context, userID int64, plan models.Tier, proofRef string) (*models.PendingRequest, error)
}

type Notifier interface {
	Notify(ctx context.Context, text string) []models.Notification
}

type Handler struct {
	config   *Config
	queue    Queue
	intent   intent.Cache
	notifier Notifier
	errors   *apperrors.ErrorHandler
	logger   logger.Logger
}

func NewHandler(config *Config, queue Queue, cache intent.Cache, notifier Notifier, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:   config,
		queue:    queue,
		intent:   cache,
		notifier: notifier,
		errors:   apperrors.NewErrorHandler(l),
		logger:   l,
	}
}

func (h *Handler) Handle(client transport.Responder, event transport.Event) error {
	h.logger.Info("processing event", map[string]interface{}{
		"eventId": event.ID,
		"userId":  event.User.ID,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	_, err := h.execute(ctx, &Input{User: event.User, ProofRef: event.PhotoRef})
	if err != nil {
		msg := h.errors.HandleEventError(TaskType, event.ID, err)
		if sendErr := transport.Reply(ctx, client, event, msg); sendErr != nil {
			h.logger.Error("failed to send error reply", map[string]interface{}{"error": sendErr})
		}
		return err
	}

	return client.Send(ctx, transport.Message{ChatID: event.ChatID, Text: ackText})
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	plan := intent.NewSession(h.intent, input.User.ID).Plan(ctx)

	req, err := h.queue.Submit(ctx, input.User.ID, plan, input.ProofRef)
	if err != nil {
		return nil, err
	}

	text := fmt.Sprintf("📥 new request (%s) from %s\nTo view all requests: /requests", plan, input.User.Handle())
	return &Output{
		Request:       req,
		Notifications: h.notifier.Notify(ctx, text),
	}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
