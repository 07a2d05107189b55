// internal/store/redis.go
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"plan-access-bot/internal/common/metrics"

	"github.com/redis/go-redis/v9"
)

// RedisBackend stores each collection as one hash: field = user id, value = record JSON.
type RedisBackend struct {
	client redis.Cmdable
	prefix string
}

func NewRedisBackend(client redis.Cmdable, prefix string) *RedisBackend {
	return &RedisBackend{client: client, prefix: prefix}
}

func (b *RedisBackend) Name() string { return "redis" }

func (b *RedisBackend) key(collection Collection) string {
	return b.prefix + string(collection)
}

// Read drops individual fields that are not valid JSON; the rest of the hash survives.
func (b *RedisBackend) Read(ctx context.Context, collection Collection) (Records, error) {
	values, err := b.client.HGetAll(ctx, b.key(collection)).Result()
	if err != nil {
		return nil, fmt.Errorf("hgetall %s: %w", b.key(collection), err)
	}

	records := make(Records, len(values))
	for field, value := range values {
		if !json.Valid([]byte(value)) {
			metrics.StoreCorruptions.WithLabelValues(string(collection)).Inc()
			continue
		}
		records[field] = json.RawMessage(value)
	}
	return records, nil
}

func (b *RedisBackend) Write(ctx context.Context, collection Collection, records Records) error {
	key := b.key(collection)

	fields := make([]string, 0, len(records))
	for k := range records {
		fields = append(fields, k)
	}
	sort.Strings(fields)

	args := make([]interface{}, 0, len(fields)*2)
	for _, f := range fields {
		args = append(args, f, string(records[f]))
	}

	_, err := b.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(args) > 0 {
			pipe.HSet(ctx, key, args...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("replace %s: %w", key, err)
	}
	return nil
}
