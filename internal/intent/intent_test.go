package intent

import (
	"context"
	"errors"
	"testing"
	"time"

	"plan-access-bot/internal/common/clock"
	"plan-access-bot/internal/common/logger"
	"plan-access-bot/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Memory cache
// ==========================

func newMemory(ttl time.Duration, max int) (*MemoryCache, *clock.FakeClock) {
	clk := clock.NewFakeClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	return NewMemoryCache(ttl, max, clk), clk
}

func TestMemoryCache_DefaultWhenUnset(t *testing.T) {
	c, _ := newMemory(time.Hour, 10)
	assert.Equal(t, models.TierNormal, c.GetIntent(context.Background(), 1, models.TierNormal))
	assert.Equal(t, models.TierVIP, c.GetIntent(context.Background(), 1, models.TierVIP))
}

func TestMemoryCache_OverwriteAndReadDoesNotClear(t *testing.T) {
	c, _ := newMemory(time.Hour, 10)
	ctx := context.Background()

	require.NoError(t, c.SetIntent(ctx, 1, models.TierVIP))
	require.NoError(t, c.SetIntent(ctx, 1, models.TierNormal))
	assert.Equal(t, models.TierNormal, c.GetIntent(ctx, 1, models.TierVIP))
	assert.Equal(t, models.TierNormal, c.GetIntent(ctx, 1, models.TierVIP))
	assert.Equal(t, 1, c.Len())
}

func TestMemoryCache_TTL(t *testing.T) {
	c, clk := newMemory(time.Hour, 10)
	ctx := context.Background()

	require.NoError(t, c.SetIntent(ctx, 1, models.TierVIP))
	clk.Advance(59 * time.Minute)
	assert.Equal(t, models.TierVIP, c.GetIntent(ctx, 1, models.TierNormal))

	clk.Advance(time.Minute)
	assert.Equal(t, models.TierNormal, c.GetIntent(ctx, 1, models.TierNormal))
	assert.Equal(t, 0, c.Len())
}

func TestMemoryCache_RewriteRefreshesTTL(t *testing.T) {
	c, clk := newMemory(time.Hour, 10)
	ctx := context.Background()

	require.NoError(t, c.SetIntent(ctx, 1, models.TierVIP))
	clk.Advance(50 * time.Minute)
	require.NoError(t, c.SetIntent(ctx, 1, models.TierVIP))
	clk.Advance(50 * time.Minute)
	assert.Equal(t, models.TierVIP, c.GetIntent(ctx, 1, models.TierNormal))
}

func TestMemoryCache_EvictsLeastRecentlyWritten(t *testing.T) {
	c, _ := newMemory(time.Hour, 2)
	ctx := context.Background()

	require.NoError(t, c.SetIntent(ctx, 1, models.TierVIP))
	require.NoError(t, c.SetIntent(ctx, 2, models.TierVIP))
	require.NoError(t, c.SetIntent(ctx, 1, models.TierVIP)) // 1 is now newest
	require.NoError(t, c.SetIntent(ctx, 3, models.TierVIP))

	assert.Equal(t, 2, c.Len())
	assert.Equal(t, models.TierVIP, c.GetIntent(ctx, 1, models.TierNormal))
	assert.Equal(t, models.TierNormal, c.GetIntent(ctx, 2, models.TierNormal))
	assert.Equal(t, models.TierVIP, c.GetIntent(ctx, 3, models.TierNormal))
}

// ==========================
// Session
// ==========================

func TestSession(t *testing.T) {
	c, _ := newMemory(time.Hour, 10)
	ctx := context.Background()

	s := NewSession(c, 2002)
	assert.Equal(t, models.TierNormal, s.Plan(ctx))

	require.NoError(t, s.Select(ctx, models.TierVIP))
	assert.Equal(t, models.TierVIP, s.Plan(ctx))
	assert.Equal(t, models.TierNormal, NewSession(c, 2003).Plan(ctx))
}

// ==========================
// Redis cache
// ==========================

func TestRedisCache(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	c := NewRedisCache(client, "planbot:", time.Hour, logger.NewTestLogger(t))
	ctx := context.Background()

	assert.Equal(t, models.TierNormal, c.GetIntent(ctx, 5, models.TierNormal))

	require.NoError(t, c.SetIntent(ctx, 5, models.TierVIP))
	assert.Equal(t, models.TierVIP, c.GetIntent(ctx, 5, models.TierNormal))
	assert.Equal(t, time.Hour, mr.TTL("planbot:intent:5"))

	mr.FastForward(time.Hour)
	assert.Equal(t, models.TierNormal, c.GetIntent(ctx, 5, models.TierNormal))

	require.NoError(t, mr.Set("planbot:intent:6", "PLATINUM"))
	assert.Equal(t, models.TierNormal, c.GetIntent(ctx, 6, models.TierNormal))
}

func TestRedisCache_ErrorFallsBackToDefault(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.ExpectGet("planbot:intent:9").SetErr(errors.New("i/o timeout"))

	c := NewRedisCache(db, "planbot:", time.Hour, logger.NewTestLogger(t))
	assert.Equal(t, models.TierNormal, c.GetIntent(context.Background(), 9, models.TierNormal))
	assert.NoError(t, mock.ExpectationsWereMet())
}
