// internal/handlers/admin/list-subscriptions/handler.go
package listsubscriptions

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
	TaskType = "list-subscriptions"
	Command  = "listsubs"

	headerText = "📋 Subscribers:"
	emptyText  = "📭 No active subscribers."
)

type AdminPolicy interface {
	IsAdmin(userID int64) bool
}

type Ledger interface {
	List(ctx context.Context) []models.SubscriptionEntry
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
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &Input{AdminID: event.User.ID})
	if err != nil {
		msg := h.errors.HandleEventError(TaskType, event.ID, err)
		if sendErr := transport.Reply(ctx, client, event, msg); sendErr != nil {
			h.logger.Error("failed to send error reply", map[string]interface{}{"error": sendErr})
		}
		return err
	}

	if len(output.Entries) == 0 {
		return transport.Reply(ctx, client, event, emptyText)
	}

	for _, page := range output.Pages {
		err := client.Send(ctx, transport.Message{
			ChatID:    event.ChatID,
			Text:      page,
			ReplyTo:   event.MessageID,
			ParseMode: transport.ParseModeMarkdown,
		})
		if err != nil {
			return apperrors.NewTransportSendFailedError(err)
		}
	}
	return nil
}

func (h *Handler) execute(ctx context.Context, _ *Input) (*Output, error) {
	entries := h.ledger.List(ctx)
	if len(entries) == 0 {
		return &Output{}, nil
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, formatEntry(e))
	}

	h.logger.Debug("subscriptions listed", map[string]interface{}{"count": len(entries)})
	return &Output{
		Entries: entries,
		Pages:   paginate(headerText, lines, h.config.MaxMessageLength),
	}, nil
}

func formatEntry(e models.SubscriptionEntry) string {
	var status string
	switch e.Status {
	case models.StatusActive:
		status = "✅ active"
	case models.StatusExpired:
		status = "❌ expired"
	default:
		status = "❓ unknown"
	}

	line := fmt.Sprintf("ID: `%s` | type: %s | status: %s", e.UserID, e.Tier, status)
	if e.Expires != "" {
		line += " | until: " + e.Expires
	}
	return line
}

// paginate packs lines under header into pages no longer than limit bytes.
func paginate(header string, lines []string, limit int) []string {
	var pages []string
	var b strings.Builder
	b.WriteString(header)

	for _, line := range lines {
		if limit > 0 && b.Len()+1+len(line) > limit && b.Len() > 0 {
			pages = append(pages, b.String())
			b.Reset()
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(line)
	}
	if b.Len() > 0 {
		pages = append(pages, b.String())
	}
	return pages
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
