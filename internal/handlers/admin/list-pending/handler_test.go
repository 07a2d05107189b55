// internal/handlers/admin/list-pending/handler_test.go
package listpending

import (
	"context"
	"testing"
	"time"

	"plan-access-bot/internal/common/auth"
	"plan-access-bot/internal/common/clock"
	"plan-access-bot/internal/common/logger"
	"plan-access-bot/internal/common/transport/transporttest"
	"plan-access-bot/internal/models"
	"plan-access-bot/internal/pending"
	"plan-access-bot/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adminID int64 = 1

func setupTest(t *testing.T) (*Handler, *pending.Queue, *clock.FakeClock) {
	t.Helper()
	log := logger.NewTestLogger(t)
	clk := clock.NewFakeClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.Local))
	queue := pending.NewQueue(store.New(store.NewFileBackend(t.TempDir()), log), clk, log)
	return NewHandler(LoadConfig(), auth.NewAdminPolicy([]int64{adminID}), queue, log), queue, clk
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_FiltersAndOrders(t *testing.T) {
	h, queue, clk := setupTest(t)
	ctx := context.Background()

	_, err := queue.Submit(ctx, 30, models.TierVIP, "p30")
	require.NoError(t, err)
	clk.Advance(time.Minute)
	_, err = queue.Submit(ctx, 10, models.TierVIP, "p10")
	require.NoError(t, err)
	_, err = queue.Submit(ctx, 20, models.TierNormal, "p20")
	require.NoError(t, err)

	out, err := h.Execute(ctx, &Input{Plan: models.TierVIP})
	require.NoError(t, err)
	require.Len(t, out.Requests, 2)
	assert.Equal(t, int64(30), out.Requests[0].UserID)
	assert.Equal(t, int64(10), out.Requests[1].UserID)

	out, err = h.Execute(ctx, &Input{Plan: models.TierNormal})
	require.NoError(t, err)
	require.Len(t, out.Requests, 1)
	assert.Equal(t, "p20", out.Requests[0].ProofReference)
}

// ==========================
// Transport Tests
// ==========================

func TestHandler_Handle_Menu(t *testing.T) {
	h, _, _ := setupTest(t)
	rec := transporttest.NewRecorder()

	require.NoError(t, h.Handle(rec, transporttest.Command(adminID, Command, "")))

	msg := rec.LastMessage()
	assert.Equal(t, menuText, msg.Text)
	assert.Equal(t, MenuKeyboard(), msg.Keyboard)
}

func TestHandler_Handle_View(t *testing.T) {
	h, queue, _ := setupTest(t)
	_, err := queue.Submit(context.Background(), 42, models.TierVIP, "photo-42")
	require.NoError(t, err)

	rec := transporttest.NewRecorder()
	require.NoError(t, h.Handle(rec, transporttest.Callback(adminID, "view:VIP")))

	msg := rec.LastMessage()
	assert.Equal(t, "📋 VIP requests:", msg.Text)
	require.Len(t, msg.Keyboard, 1)
	assert.Equal(t, "ID: 42", msg.Keyboard[0][0].Text)
	assert.Equal(t, "photo:42", msg.Keyboard[0][0].Data)
}

func TestHandler_Handle_ViewEmpty(t *testing.T) {
	h, _, _ := setupTest(t)
	rec := transporttest.NewRecorder()

	require.NoError(t, h.Handle(rec, transporttest.Callback(adminID, "view:NORMAL")))

	assert.Empty(t, rec.Messages)
	require.Len(t, rec.Answers, 1)
	assert.Equal(t, "📭 No NORMAL requests.", rec.Answers[0].Text)
	assert.True(t, rec.Answers[0].Alert)
}

func TestHandler_Handle_NonAdmin(t *testing.T) {
	h, queue, _ := setupTest(t)
	_, err := queue.Submit(context.Background(), 42, models.TierVIP, "photo-42")
	require.NoError(t, err)

	rec := transporttest.NewRecorder()
	require.NoError(t, h.Handle(rec, transporttest.Command(42, Command, "")))
	require.NoError(t, h.Handle(rec, transporttest.Callback(42, "view:VIP")))

	assert.Empty(t, rec.Messages)
	require.Len(t, rec.Answers, 1)
	assert.Empty(t, rec.Answers[0].Text)
}
