// internal/handlers/admin/deactivate-subscription/handler.go
package deactivatesubscription

import (
	"context"
	"fmt"

	apperrors "plan-access-bot/internal/common/errors"
	"plan-access-bot/internal/common/logger"
	"plan-access-bot/internal/common/transport"
	"plan-access-bot/internal/subscription"
)

const (
	TaskType = "deactivate-subscription"

	Command      = "unactivate"
	AliasCommand = "deactivate"

	userNoticeText = "⚠️ Your subscription was cancelled by the admin"
)

type AdminPolicy interface {
	IsAdmin(userID int64) bool
}

type Ledger interface {
	Deactivate(ctx context.Context, userID int64) error
}

type Handler struct {
	config *Config
	admins AdminPolicy
	ledger Ledger
	errors *apperrors.ErrorHandler
	logger logger.Logger
}

func NewHandler(config *Config, admins AdminPolicy, ledger Ledger, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		admins: admins,
		ledger: ledger,
		errors: apperrors.NewErrorHandler(l),
		logger: l,
	}
}

func (h *Handler) Handle(client transport.Responder, event transport.Event) error {
	if !h.admins.IsAdmin(event.User.ID) {
		return nil
	}

	h.logger.Info("processing event", map[string]interface{}{
		"eventId": event.ID,
		"adminId": event.User.ID,
		"args":    event.Args,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	userID, err := subscription.ParseDeactivateArgs(event.Args)
	if err != nil {
		h.failEvent(ctx, client, event, err)
		return err
	}

	output, err := h.execute(ctx, &Input{AdminID: event.User.ID, UserID: userID})
	if err != nil {
		h.failEvent(ctx, client, event, err)
		return err
	}

	if !output.Removed {
		return transport.Reply(ctx, client, event, fmt.Sprintf("❌ User %d has no active subscription.", userID))
	}

	if err := transport.Reply(ctx, client, event, fmt.Sprintf("✅ Subscription cancelled for %d", userID)); err != nil {
		return err
	}
	if h.config.NotifyUser {
		if err := client.Send(ctx, transport.Message{ChatID: userID, Text: userNoticeText}); err != nil {
			h.logger.Warn("failed to notify deactivated user", map[string]interface{}{
				"userId": userID,
				"error":  err,
			})
		}
	}
	return nil
}

// execute reports a missing record as Removed=false rather than an error.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	err := h.ledger.Deactivate(ctx, input.UserID)
	if apperrors.IsNotFound(err) {
		return &Output{UserID: input.UserID}, nil
	}
	if err != nil {
		return nil, err
	}

	h.logger.Info("admin cancelled subscription", map[string]interface{}{
		"adminId": input.AdminID,
		"userId":  input.UserID,
	})
	return &Output{UserID: input.UserID, Removed: true}, nil
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
