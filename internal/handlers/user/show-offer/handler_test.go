// internal/handlers/user/show-offer/handler_test.go
package showoffer

import (
	"context"
	"testing"
	"time"

	"plan-access-bot/internal/common/config"
	apperrors "plan-access-bot/internal/common/errors"
	"plan-access-bot/internal/common/logger"
	"plan-access-bot/internal/common/transport"
	"plan-access-bot/internal/common/transport/transporttest"
	"plan-access-bot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestHandler(t *testing.T) *Handler {
	return NewHandler(&Config{
		Timeout:          5 * time.Second,
		PubgID:           "5123456789",
		TelegramUsername: "seller",
		Offers:           config.DefaultOffers(),
	}, logger.NewTestLogger(t))
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_PriceTable(t *testing.T) {
	tests := []struct {
		name     string
		input    *Input
		expected []PriceLine
		contains []string
	}{
		{
			name:     "normal uc",
			input:    &Input{Plan: models.TierNormal, Method: MethodUC},
			expected: []PriceLine{{"300 UC", 7}, {"660 UC", 15}},
			contains: []string{"UC top-up - NORMAL plan", "`5123456789`", " - 300 UC = 7 days"},
		},
		{
			name:     "vip uc",
			input:    &Input{Plan: models.TierVIP, Method: MethodUC},
			expected: []PriceLine{{"1500 UC", 10}, {"3850 UC", 30}},
			contains: []string{"VIP plan", " - 3850 UC = 30 days"},
		},
		{
			name:     "normal stars",
			input:    &Input{Plan: models.TierNormal, Method: MethodStars},
			expected: []PriceLine{{"50 stars", 7}, {"100 stars", 15}},
			contains: []string{"Stars/gift - NORMAL plan", "`@seller`"},
		},
		{
			name:     "vip stars",
			input:    &Input{Plan: models.TierVIP, Method: MethodStars},
			expected: []PriceLine{{"150 stars", 10}, {"300 stars", 30}},
			contains: []string{" - 150 stars = 10 days", "receipt screenshot"},
		},
	}

	h := createTestHandler(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := h.Execute(context.Background(), tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out.Lines)
			for _, s := range tt.contains {
				assert.Contains(t, out.Text, s)
			}
		})
	}
}

func TestHandler_Execute_UnknownMethod(t *testing.T) {
	_, err := createTestHandler(t).Execute(context.Background(), &Input{Plan: models.TierVIP, Method: "paypal"})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestHandler_Execute_NoConfiguredOffers(t *testing.T) {
	h := createTestHandler(t)
	h.config.Offers = []config.OfferConfig{{Plan: "NORMAL", Method: "uc", Price: "1 UC", Days: 1}}

	_, err := h.Execute(context.Background(), &Input{Plan: models.TierVIP, Method: MethodUC})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))

	out, err := h.Execute(context.Background(), &Input{Plan: models.TierNormal, Method: MethodUC})
	require.NoError(t, err)
	assert.Contains(t, out.Text, " - 1 UC = 1 day\n")
}

// ==========================
// Transport Tests
// ==========================

func TestHandler_Handle(t *testing.T) {
	rec := transporttest.NewRecorder()
	h := createTestHandler(t)

	require.NoError(t, h.Handle(rec, transporttest.Callback(3, "offer:VIP:stars")))

	msg := rec.LastMessage()
	assert.Equal(t, transport.ParseModeMarkdown, msg.ParseMode)
	assert.Contains(t, msg.Text, "VIP plan")
	require.Len(t, rec.Answers, 1)
	assert.False(t, rec.Answers[0].Alert)
}

func TestHandler_Handle_Malformed(t *testing.T) {
	rec := transporttest.NewRecorder()
	h := createTestHandler(t)

	for _, data := range []string{"offer:VIP", "offer:GOLD:uc", "offer:VIP:uc:extra"} {
		require.Error(t, h.Handle(rec, transporttest.Callback(3, data)), data)
	}
	assert.Empty(t, rec.Messages)
	assert.Len(t, rec.Answers, 3)
}
