// internal/handlers/admin/list-pending/handler.go
package listpending

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	apperrors "plan-access-bot/internal/common/errors"
	"plan-access-bot/internal/common/logger"
	"plan-access-bot/internal/common/transport"
	"plan-access-bot/internal/models"
)

const (
	TaskType       = "list-pending"
	Command        = "requests"
	CallbackPrefix = "view:"

	menuText = "Choose a request type:"
)

type AdminPolicy interface {
	IsAdmin(userID int64) bool
}

type Queue interface {
	ListByPlan(ctx context.Context, plan models.Tier) []models.PendingRequest
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

// Handle serves both the /requests menu and the view:<tier> button it renders.
func (h *Handler) Handle(client transport.Responder, event transport.Event) error {
	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	if !h.admins.IsAdmin(event.User.ID) {
		if event.IsCallback() {
			h.answer(ctx, client, event, "", false)
		}
		return nil
	}

	h.logger.Info("processing event", map[string]interface{}{
		"eventId": event.ID,
		"adminId": event.User.ID,
		"data":    event.Data,
	})

	if !event.IsCallback() {
		return client.Send(ctx, transport.Message{
			ChatID:   event.ChatID,
			Text:     menuText,
			Keyboard: MenuKeyboard(),
		})
	}

	plan, ok := models.ParseTier(strings.TrimPrefix(event.Data, CallbackPrefix))
	if !ok {
		err := apperrors.NewValidationError("Unknown request type", event.Data)
		h.answer(ctx, client, event, h.errors.HandleEventError(TaskType, event.ID, err), true)
		return err
	}

	output, err := h.execute(ctx, &Input{AdminID: event.User.ID, Plan: plan})
	if err != nil {
		h.answer(ctx, client, event, h.errors.HandleEventError(TaskType, event.ID, err), true)
		return err
	}

	if len(output.Requests) == 0 {
		h.answer(ctx, client, event, fmt.Sprintf("📭 No %s requests.", plan), true)
		return nil
	}

	keyboard := make(transport.Keyboard, 0, len(output.Requests))
	for _, req := range output.Requests {
		uid := strconv.FormatInt(req.UserID, 10)
		keyboard = append(keyboard, transport.Row(transport.Button{Text: "ID: " + uid, Data: "photo:" + uid}))
	}

	sendErr := client.Send(ctx, transport.Message{
		ChatID:   event.ChatID,
		Text:     fmt.Sprintf("📋 %s requests:", plan),
		Keyboard: keyboard,
	})
	h.answer(ctx, client, event, "", false)
	return sendErr
}

// MenuKeyboard offers one button per plan.
func MenuKeyboard() transport.Keyboard {
	return transport.Keyboard{
		transport.Row(
			transport.Button{Text: "NORMAL", Data: CallbackPrefix + string(models.TierNormal)},
			transport.Button{Text: "VIP", Data: CallbackPrefix + string(models.TierVIP)},
		),
	}
}

// execute returns the plan's requests, oldest submission first.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	requests := h.queue.ListByPlan(ctx, input.Plan)
	submitted := func(r models.PendingRequest) time.Time {
		t, _ := models.ParseTimestamp(r.SubmittedAt, time.Local)
		return t
	}
	sort.SliceStable(requests, func(i, j int) bool {
		ti, tj := submitted(requests[i]), submitted(requests[j])
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return requests[i].UserID < requests[j].UserID
	})
	return &Output{Plan: input.Plan, Requests: requests}, nil
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
