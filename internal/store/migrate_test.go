package store

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniRedisBackend(t *testing.T) *RedisBackend {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisBackend(client, "migrate:")
}

func TestParseCollections(t *testing.T) {
	all, err := ParseCollections("all")
	require.NoError(t, err)
	assert.Equal(t, Collections, all)

	one, err := ParseCollections("pending_requests")
	require.NoError(t, err)
	assert.Equal(t, []Collection{PendingRequests}, one)

	_, err = ParseCollections("users")
	assert.Error(t, err)
}

func TestCopy_FileToRedis(t *testing.T) {
	ctx := context.Background()
	src := NewFileBackend(t.TempDir())
	dst := newMiniRedisBackend(t)

	require.NoError(t, src.Write(ctx, Subscriptions, sampleRecords()))
	require.NoError(t, src.Write(ctx, PendingRequests, Records{
		"1001": json.RawMessage(`{"user_id":1001,"plan_type":"VIP","photo_file_id":"f","timestamp":"2025-01-01T00:00:00Z"}`),
	}))
	require.NoError(t, dst.Write(ctx, Subscriptions, Records{"9": json.RawMessage(`{"type":"VIP","expiry":"x"}`)}))

	copied, err := Copy(ctx, src, dst, Collections)
	require.NoError(t, err)
	assert.Equal(t, 2, copied[Subscriptions])
	assert.Equal(t, 1, copied[PendingRequests])

	got, err := dst.Read(ctx, Subscriptions)
	require.NoError(t, err)
	assertSameRecords(t, sampleRecords(), got)
}

func TestCopy_StopsOnUnreadableSource(t *testing.T) {
	ctx := context.Background()
	src := NewFileBackend(t.TempDir())
	dst := newMiniRedisBackend(t)

	require.NoError(t, os.WriteFile(src.Path(Subscriptions), []byte("{broken"), 0o600))
	require.NoError(t, dst.Write(ctx, Subscriptions, sampleRecords()))

	_, err := Copy(ctx, src, dst, []Collection{Subscriptions})
	require.Error(t, err)

	got, err := dst.Read(ctx, Subscriptions)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestInspect(t *testing.T) {
	ctx := context.Background()
	b := NewFileBackend(t.TempDir())

	require.NoError(t, b.Write(ctx, PendingRequests, Records{
		"1": json.RawMessage(`{"user_id":1,"plan_type":"VIP","photo_file_id":"f"}`),
		"2": json.RawMessage(`{"user_id":2,"plan_type":"VIP","photo_file_id":""}`),
	}))

	report, err := Inspect(ctx, b, PendingRequests)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Records)
	assert.Equal(t, []string{"2"}, report.Corrupt)

	require.NoError(t, os.WriteFile(b.Path(Subscriptions), []byte(`{"1":{"type":"VIP","expiry":"2030-01-01T00:00:00Z"},"2":"garbage"}`), 0o600))
	report, err = Inspect(ctx, b, Subscriptions)
	require.NoError(t, err)
	assert.False(t, report.Unreadable)
	assert.Equal(t, 2, report.Records)
	assert.Equal(t, []string{"2"}, report.Corrupt)

	require.NoError(t, os.WriteFile(b.Path(Subscriptions), []byte("[1,2]"), 0o600))
	report, err = Inspect(ctx, b, Subscriptions)
	require.NoError(t, err)
	assert.True(t, report.Unreadable)
}
