// internal/handlers/user/send-file/handler_test.go
package sendfile

import (
	"context"
	"errors"
	"testing"
	"time"

	"plan-access-bot/internal/access"
	"plan-access-bot/internal/catalog/catalogtest"
	apperrors "plan-access-bot/internal/common/errors"
	"plan-access-bot/internal/common/logger"
	"plan-access-bot/internal/common/transport/transporttest"
	"plan-access-bot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type fakeDecider map[int64]access.Decision

func (f fakeDecider) DecideAccess(_ context.Context, userID int64) access.Decision {
	return f[userID]
}

func createTestHandler(t *testing.T, cat *catalogtest.Catalog) *Handler {
	decider := fakeDecider{
		1: {Entitled: true, Tier: models.TierNormal},
		2: {Entitled: true, Tier: models.TierVIP},
		3: {Entitled: false, Tier: models.TierVIP},
	}
	return NewHandler(&Config{Timeout: 5 * time.Second}, decider, cat, logger.NewTestLogger(t))
}

func createCatalog() *catalogtest.Catalog {
	return catalogtest.New().
		Put("NORMAL", "guide.pdf", []byte("normal-bytes")).
		Put("VIP", "pro.zip", []byte("vip-bytes"))
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name     string
		input    *Input
		wantData string
		checkErr func(t *testing.T, err error)
	}{
		{
			name:     "normal subscriber downloads normal file",
			input:    &Input{UserID: 1, Folder: "NORMAL", File: "guide.pdf"},
			wantData: "normal-bytes",
		},
		{
			name:     "vip subscriber downloads vip file",
			input:    &Input{UserID: 2, Folder: "VIP", File: "pro.zip"},
			wantData: "vip-bytes",
		},
		{
			name:  "normal subscriber cannot open vip folder",
			input: &Input{UserID: 1, Folder: "VIP", File: "pro.zip"},
			checkErr: func(t *testing.T, err error) {
				assert.Equal(t, apperrors.ErrCodeAccessDenied, apperrors.CodeOf(err))
			},
		},
		{
			name:  "expired subscriber is refused",
			input: &Input{UserID: 3, Folder: "NORMAL", File: "guide.pdf"},
			checkErr: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrSubscriptionExpired)
			},
		},
		{
			name:  "missing file",
			input: &Input{UserID: 2, Folder: "VIP", File: "gone.zip"},
			checkErr: func(t *testing.T, err error) {
				assert.Equal(t, apperrors.ErrCodeFileNotFound, apperrors.CodeOf(err))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat := createCatalog()
			h := createTestHandler(t, cat)

			out, err := h.Execute(context.Background(), tt.input)
			if tt.checkErr != nil {
				require.Error(t, err)
				tt.checkErr(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input.File, out.Name)
			assert.Equal(t, tt.wantData, string(out.Data))
		})
	}
}

func TestHandler_Execute_DoesNotFetchWithoutAccess(t *testing.T) {
	cat := createCatalog()
	h := createTestHandler(t, cat)

	_, err := h.Execute(context.Background(), &Input{UserID: 3, Folder: "NORMAL", File: "guide.pdf"})
	require.Error(t, err)
	assert.Zero(t, cat.Fetches)
}

// ==========================
// Transport Tests
// ==========================

func TestHandler_Handle_SendsDocument(t *testing.T) {
	rec := transporttest.NewRecorder()
	h := createTestHandler(t, createCatalog())

	require.NoError(t, h.Handle(rec, transporttest.Callback(1, "send:NORMAL:guide.pdf")))

	require.Len(t, rec.Documents, 1)
	assert.Equal(t, "guide.pdf", rec.Documents[0].Name)
	assert.Equal(t, []byte("normal-bytes"), rec.Documents[0].Data)
	require.Len(t, rec.Answers, 1)
	assert.False(t, rec.Answers[0].Alert)
}

func TestHandler_Handle_ExpiredAlert(t *testing.T) {
	rec := transporttest.NewRecorder()
	h := createTestHandler(t, createCatalog())

	require.NoError(t, h.Handle(rec, transporttest.Callback(3, "send:NORMAL:guide.pdf")))

	assert.Empty(t, rec.Documents)
	require.Len(t, rec.Answers, 1)
	assert.Equal(t, expiredText, rec.Answers[0].Text)
	assert.True(t, rec.Answers[0].Alert)
}

func TestHandler_Handle_FetchFailureAlerts(t *testing.T) {
	cat := createCatalog()
	cat.FetchErr = apperrors.NewRemoteUnavailableError("github", errors.New("timeout"))
	rec := transporttest.NewRecorder()
	h := createTestHandler(t, cat)

	err := h.Handle(rec, transporttest.Callback(1, "send:NORMAL:guide.pdf"))
	require.Error(t, err)

	require.Len(t, rec.Answers, 1)
	assert.True(t, rec.Answers[0].Alert)
	assert.Contains(t, rec.Answers[0].Text, "temporarily unavailable")
}

func TestHandler_Handle_MalformedData(t *testing.T) {
	rec := transporttest.NewRecorder()
	h := createTestHandler(t, createCatalog())

	err := h.Handle(rec, transporttest.Callback(1, "send:NORMAL"))
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	require.Len(t, rec.Answers, 1)
	assert.True(t, rec.Answers[0].Alert)
}

func TestHandler_Handle_FileNameWithColon(t *testing.T) {
	cat := catalogtest.New().Put("NORMAL", "a:b.txt", []byte("x"))
	rec := transporttest.NewRecorder()
	h := createTestHandler(t, cat)

	require.NoError(t, h.Handle(rec, transporttest.Callback(1, "send:NORMAL:a:b.txt")))
	require.Len(t, rec.Documents, 1)
	assert.Equal(t, "a:b.txt", rec.Documents[0].Name)
}
