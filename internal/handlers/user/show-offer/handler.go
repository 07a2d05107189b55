// internal/handlers/user/show-offer/handler.go
package showoffer

import (
	"context"
	"fmt"
	"strings"

	apperrors "plan-access-bot/internal/common/errors"
	"plan-access-bot/internal/common/logger"
	"plan-access-bot/internal/common/transport"
	"plan-access-bot/internal/models"
)

const (
	TaskType       = "show-offer"
	CallbackPrefix = "offer:"
)

type Handler struct {
	config *Config
	errors *apperrors.ErrorHandler
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
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

	output, err := h.parseAndExecute(ctx, event.Data)
	if err != nil {
		h.answer(ctx, client, event, h.errors.HandleEventError(TaskType, event.ID, err), true)
		return err
	}

	sendErr := client.Send(ctx, transport.Message{
		ChatID:    event.ChatID,
		Text:      output.Text,
		ParseMode: transport.ParseModeMarkdown,
	})
	h.answer(ctx, client, event, "", false)
	return sendErr
}

func (h *Handler) parseAndExecute(ctx context.Context, data string) (*Output, error) {
	parts := strings.Split(strings.TrimPrefix(data, CallbackPrefix), ":")
	if len(parts) != 2 {
		return nil, apperrors.NewValidationError("Unknown offer", data)
	}
	plan, ok := models.ParseTier(parts[0])
	if !ok {
		return nil, apperrors.NewValidationError("Unknown plan", parts[0])
	}
	return h.execute(ctx, &Input{Plan: plan, Method: strings.ToLower(parts[1])})
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	if input.Method != MethodUC && input.Method != MethodStars {
		return nil, apperrors.NewValidationError("Unknown payment method", input.Method)
	}

	var lines []PriceLine
	for _, offer := range h.config.Offers {
		if strings.EqualFold(offer.Plan, string(input.Plan)) && strings.EqualFold(offer.Method, input.Method) {
			lines = append(lines, PriceLine{Price: offer.Price, Days: offer.Days})
		}
	}
	if len(lines) == 0 {
		return nil, apperrors.NewNotFoundError("Offer", string(input.Plan)+":"+input.Method)
	}

	return &Output{Lines: lines, Text: h.render(input, lines)}, nil
}

func (h *Handler) render(input *Input, lines []PriceLine) string {
	var b strings.Builder
	if input.Method == MethodUC {
		fmt.Fprintf(&b, "🎮 *UC top-up - %s plan*\n\n", input.Plan)
		fmt.Fprintf(&b, "Account: `%s`\n\n", h.config.PubgID)
	} else {
		fmt.Fprintf(&b, "💎 *Stars/gift - %s plan*\n\n", input.Plan)
	}

	for _, line := range lines {
		fmt.Fprintf(&b, " - %s = %d %s\n", line.Price, line.Days, pluralDays(line.Days))
	}
	b.WriteString("\n")

	if input.Method == MethodUC {
		b.WriteString("📸 Send a screenshot of the top-up now.")
	} else {
		fmt.Fprintf(&b, "📩 Send the stars to: `@%s`\n", h.config.TelegramUsername)
		b.WriteString("📸 Then send the receipt screenshot now.")
	}
	return b.String()
}

func pluralDays(n int) string {
	if n == 1 {
		return "day"
	}
	return "days"
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
