package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	apperrors "plan-access-bot/internal/common/errors"
	"plan-access-bot/internal/common/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func TestRedisStore_RoundTrip(t *testing.T) {
	client, mr := setupRedis(t)
	s := New(NewRedisBackend(client, "planbot:"), logger.NewTestLogger(t))
	ctx := context.Background()

	want := sampleRecords()
	require.NoError(t, s.Save(ctx, Subscriptions, want))
	assertSameRecords(t, want, s.Load(ctx, Subscriptions))
	assert.True(t, mr.Exists("planbot:subscriptions"))

	// overwrite drops keys that are no longer present
	require.NoError(t, s.Save(ctx, Subscriptions, Records{"1001": want["1001"]}))
	assert.Len(t, s.Load(ctx, Subscriptions), 1)

	require.NoError(t, s.Save(ctx, Subscriptions, Records{}))
	assert.False(t, mr.Exists("planbot:subscriptions"))
	assert.Empty(t, s.Load(ctx, Subscriptions))
}

func TestRedisStore_DropsCorruptField(t *testing.T) {
	client, mr := setupRedis(t)
	mr.HSet("planbot:pending_requests", "1", `{"user_id":1,"plan_type":"VIP","photo_file_id":"a","timestamp":"t"}`)
	mr.HSet("planbot:pending_requests", "2", `{not json`)

	s := New(NewRedisBackend(client, "planbot:"), logger.NewTestLogger(t))
	records := s.Load(context.Background(), PendingRequests)

	assert.Len(t, records, 1)
	assert.Contains(t, records, "1")
}

func TestRedisStore_UnreachableLoadsEmpty(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.ExpectHGetAll("planbot:subscriptions").SetErr(errors.New("connection refused"))

	s := New(NewRedisBackend(db, "planbot:"), logger.NewTestLogger(t))
	assert.Empty(t, s.Load(context.Background(), Subscriptions))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_UpdateAbortsWhenUnreachable(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.ExpectHGetAll("planbot:subscriptions").SetErr(errors.New("connection refused"))

	s := New(NewRedisBackend(db, "planbot:"), logger.NewTestLogger(t))
	err := s.Update(context.Background(), Subscriptions, func(r Records) error {
		r["1"] = json.RawMessage(`{}`)
		return nil
	})

	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeStorageWriteFailed))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisBackend_WriteUsesTransaction(t *testing.T) {
	db, mock := redismock.NewClientMock()
	record := `{"type":"VIP","expiry":"2030-01-01T00:00:00Z"}`

	mock.ExpectTxPipeline()
	mock.ExpectDel("planbot:subscriptions").SetVal(1)
	mock.ExpectHSet("planbot:subscriptions", "1001", record).SetVal(1)
	mock.ExpectTxPipelineExec()

	backend := NewRedisBackend(db, "planbot:")
	err := backend.Write(context.Background(), Subscriptions, Records{"1001": json.RawMessage(record)})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
