// internal/handlers/admin/activate-subscription/handler.go
package activatesubscription

import (
	"context"
	"fmt"

	apperrors "plan-access-bot/internal/common/errors"
	"plan-access-bot/internal/common/logger"
	"plan-access-bot/internal/common/transport"
	"plan-access-bot/internal/models"
	"plan-access-bot/internal/subscription"
)

const (
	TaskType = "activate-subscription"
	Command  = "activate"

	userNoticeText = "🎉 Your subscription is active! Use /start to view files."
)

type AdminPolicy interface {
	IsAdmin(userID int64) bool
}

type Ledger interface {
	Activate(ctx context.Context, userID int64, days int, tier models.Tier) (*subscription.Activation, error)
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
		h.logger.Debug("ignoring command from non-admin", map[string]interface{}{
			"eventId": event.ID,
			"userId":  event.User.ID,
		})
		return nil
	}

	h.logger.Info("processing event", map[string]interface{}{
		"eventId": event.ID,
		"adminId": event.User.ID,
		"args":    event.Args,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	args, err := subscription.ParseActivateArgs(event.Args)
	if err != nil {
		h.failEvent(ctx, client, event, err)
		return err
	}

	output, err := h.execute(ctx, &Input{
		AdminID: event.User.ID,
		UserID:  args.UserID,
		Days:    args.Days,
		Tier:    args.Tier,
	})
	if err != nil {
		h.failEvent(ctx, client, event, err)
		return err
	}

	if h.config.NotifyUser {
		// The user may have blocked the bot; the activation stands regardless.
		if err := client.Send(ctx, transport.Message{ChatID: output.UserID, Text: userNoticeText}); err != nil {
			h.logger.Warn("failed to notify activated user", map[string]interface{}{
				"userId": output.UserID,
				"error":  err,
			})
		}
	}

	text := fmt.Sprintf("✅ Activated %d as %s for %d days.", output.UserID, output.Tier, output.Days)
	return transport.Reply(ctx, client, event, text)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	activation, err := h.ledger.Activate(ctx, input.UserID, input.Days, input.Tier)
	if err != nil {
		return nil, err
	}

	h.logger.Info("admin activated subscription", map[string]interface{}{
		"adminId": input.AdminID,
		"userId":  activation.UserID,
		"tier":    string(activation.Tier),
		"days":    activation.Days,
	})

	return &Output{
		UserID: activation.UserID,
		Tier:   activation.Tier,
		Days:   activation.Days,
		Expiry: models.FormatTimestamp(activation.Expiry),
	}, nil
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
