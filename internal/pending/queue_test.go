package pending

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"plan-access-bot/internal/common/clock"
	apperrors "plan-access-bot/internal/common/errors"
	"plan-access-bot/internal/common/logger"
	"plan-access-bot/internal/intent"
	"plan-access-bot/internal/models"
	"plan-access-bot/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestQueue(t *testing.T) (*Queue, *clock.FakeClock, string) {
	t.Helper()
	dir := t.TempDir()
	clk := clock.NewFakeClock(time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC))
	s := store.New(store.NewFileBackend(dir), logger.NewTestLogger(t))
	return NewQueue(s, clk, logger.NewTestLogger(t)), clk, dir
}

func userIDs(reqs []models.PendingRequest) []int64 {
	ids := make([]int64, 0, len(reqs))
	for _, r := range reqs {
		ids = append(ids, r.UserID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// ==========================
// Submit / Get
// ==========================

func TestSubmit_RecordsRequest(t *testing.T) {
	q, clk, _ := createTestQueue(t)
	ctx := context.Background()

	_, err := q.Submit(ctx, 11, models.TierNormal, "file-abc")
	require.NoError(t, err)

	req, ok := q.Get(ctx, 11)
	require.True(t, ok)
	assert.Equal(t, int64(11), req.UserID)
	assert.Equal(t, models.TierNormal, req.PlanType)
	assert.Equal(t, "file-abc", req.ProofReference)
	assert.Equal(t, models.FormatTimestamp(clk.Now()), req.SubmittedAt)
}

func TestSubmit_SecondSubmissionOverwrites(t *testing.T) {
	q, clk, _ := createTestQueue(t)
	ctx := context.Background()

	_, err := q.Submit(ctx, 3003, models.TierNormal, "ref-a")
	require.NoError(t, err)
	clk.Advance(time.Minute)
	_, err = q.Submit(ctx, 3003, models.TierVIP, "ref-b")
	require.NoError(t, err)

	req, ok := q.Get(ctx, 3003)
	require.True(t, ok)
	assert.Equal(t, models.TierVIP, req.PlanType)
	assert.Equal(t, "ref-b", req.ProofReference)

	assert.Empty(t, q.ListByPlan(ctx, models.TierNormal))
	assert.Len(t, q.ListByPlan(ctx, models.TierVIP), 1)
}

func TestSubmit_Validation(t *testing.T) {
	q, _, _ := createTestQueue(t)
	ctx := context.Background()

	_, err := q.Submit(ctx, 1, models.Tier("GOLD"), "ref")
	assert.True(t, apperrors.IsValidation(err))

	_, err = q.Submit(ctx, 1, models.TierVIP, "")
	assert.True(t, apperrors.IsValidation(err))

	_, ok := q.Get(ctx, 1)
	assert.False(t, ok)
}

func TestGet_Absent(t *testing.T) {
	q, _, _ := createTestQueue(t)
	req, ok := q.Get(context.Background(), 999)
	assert.False(t, ok)
	assert.Nil(t, req)
}

// ==========================
// ListByPlan
// ==========================

func TestListByPlan_Filters(t *testing.T) {
	q, _, _ := createTestQueue(t)
	ctx := context.Background()

	for _, sub := range []struct {
		id   int64
		plan models.Tier
	}{{4, models.TierVIP}, {5, models.TierVIP}, {6, models.TierNormal}} {
		_, err := q.Submit(ctx, sub.id, sub.plan, "ref")
		require.NoError(t, err)
	}

	assert.Equal(t, []int64{4, 5}, userIDs(q.ListByPlan(ctx, models.TierVIP)))
	assert.Equal(t, []int64{6}, userIDs(q.ListByPlan(ctx, models.TierNormal)))
}

func TestListByPlan_SkipsCorruptEntries(t *testing.T) {
	q, _, dir := createTestQueue(t)
	data := map[string]interface{}{
		"1": map[string]interface{}{"user_id": 1, "plan_type": "VIP", "photo_file_id": "a", "timestamp": "t"},
		"2": map[string]interface{}{"user_id": "two", "plan_type": "VIP"},
	}
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pending_requests.json"), raw, 0o600))

	assert.Equal(t, []int64{1}, userIDs(q.ListByPlan(context.Background(), models.TierVIP)))
}

// ==========================
// Resolve
// ==========================

func TestResolve(t *testing.T) {
	q, _, _ := createTestQueue(t)
	ctx := context.Background()

	_, err := q.Submit(ctx, 8, models.TierVIP, "ref")
	require.NoError(t, err)

	require.NoError(t, q.Resolve(ctx, 8))
	_, ok := q.Get(ctx, 8)
	assert.False(t, ok)

	// absent user is a no-op
	assert.NoError(t, q.Resolve(ctx, 8))
}

func TestSubmit_UsesSelectedIntent(t *testing.T) {
	q, clk, _ := createTestQueue(t)
	ctx := context.Background()

	cache := intent.NewMemoryCache(time.Hour, 100, clk)
	require.NoError(t, cache.SetIntent(ctx, 2002, models.TierVIP))

	_, err := q.Submit(ctx, 2002, cache.GetIntent(ctx, 2002, models.TierNormal), "ref-a")
	require.NoError(t, err)

	req, ok := q.Get(ctx, 2002)
	require.True(t, ok)
	assert.Equal(t, models.TierVIP, req.PlanType)
}
