// internal/handlers/user/select-plan/handler.go
package selectplan

import (
	"context"
	"strings"

	apperrors "plan-access-bot/internal/common/errors"
	"plan-access-bot/internal/common/logger"
	"plan-access-bot/internal/common/transport"
	"plan-access-bot/internal/intent"
	"plan-access-bot/internal/models"
)

const (
	TaskType       = "select-plan"
	CallbackPrefix = "select_plan:"

	PromptText = "🎯 Choose your subscription type:"
)

// PlanKeyboard is the plan chooser shown to users without an active subscription.
func PlanKeyboard() transport.Keyboard {
	return transport.Keyboard{
		transport.Row(
			transport.Button{Text: "NORMAL", Data: CallbackPrefix + string(models.TierNormal)},
			transport.Button{Text: "VIP", Data: CallbackPrefix + string(models.TierVIP)},
		),
	}
}

type Handler struct {
	config *Config
	intent intent.Cache
	errors *apperrors.ErrorHandler
	logger logger.Logger
}

func NewHandler(config *Config, cache intent.Cache, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		intent: cache,
		errors: apperrors.NewErrorHandler(l),
		logger: l,
	}
}

func (h *Handler) Handle(client transport.Responder, event transport.Event) error {
	h.logger.Info("processing event", map[string]interface{}{
		"eventId": event.ID,
		"userId":  event.User.ID,
		"data":    event.Data,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	plan, ok := models.ParseTier(strings.TrimPrefix(event.Data, CallbackPrefix))
	if !ok {
		err := apperrors.NewValidationError("Unknown plan", event.Data)
		h.answer(ctx, client, event, h.errors.HandleEventError(TaskType, event.ID, err), true)
		return err
	}

	output, err := h.execute(ctx, &Input{UserID: event.User.ID, Plan: plan})
	if err != nil {
		h.answer(ctx, client, event, h.errors.HandleEventError(TaskType, event.ID, err), true)
		return err
	}

	sendErr := client.Send(ctx, transport.Message{
		ChatID:   event.ChatID,
		Text:     output.Text,
		Keyboard: output.Keyboard,
	})
	h.answer(ctx, client, event, "", false)
	return sendErr
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	output := &Output{
		Plan:     input.Plan,
		Text:     "Choose a payment method for the " + string(input.Plan) + " plan:",
		Keyboard: paymentKeyboard(input.Plan),
	}

	// A lost intent only means the proof is labelled NORMAL; the menu is still useful.
	if err := intent.NewSession(h.intent, input.UserID).Select(ctx, input.Plan); err != nil {
		h.logger.Warn("failed to record plan intent", map[string]interface{}{
			"userId": input.UserID,
			"plan":   string(input.Plan),
			"error":  err,
		})
		return output, nil
	}
	output.IntentSaved = true
	return output, nil
}

func paymentKeyboard(plan models.Tier) transport.Keyboard {
	return transport.Keyboard{
		transport.Row(
			transport.Button{Text: "🎮 UC top-up (" + string(plan) + ")", Data: "offer:" + string(plan) + ":uc"},
			transport.Button{Text: "💎 Stars/gift (" + string(plan) + ")", Data: "offer:" + string(plan) + ":stars"},
		),
	}
}

func (h *Handler) answer(ctx context.Context, client transport.Responder, event transport.Event, text string, alert bool) {
	if err := client.AnswerCallback(ctx, event.CallbackID, text, alert); err != nil {
		h.logger.Warn("failed to answer callback", map[string]interface{}{
			"eventId": event.ID,
			"error":   err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
