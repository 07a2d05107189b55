// internal/intent/redis.go
package intent

import (
	"context"
	"errors"
	"strconv"
	"time"

	"plan-access-bot/internal/common/logger"
	"plan-access-bot/internal/models"

	"github.com/redis/go-redis/v9"
)

// RedisCache keeps each intent under its own key with a TTL so several bot replicas share it.
type RedisCache struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
	logger logger.Logger
}

func NewRedisCache(client redis.Cmdable, prefix string, ttl time.Duration, log logger.Logger) *RedisCache {
	return &RedisCache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "intent-cache"}),
	}
}

func (c *RedisCache) key(userID int64) string {
	return c.prefix + "intent:" + strconv.FormatInt(userID, 10)
}

func (c *RedisCache) SetIntent(ctx context.Context, userID int64, plan models.Tier) error {
	return c.client.Set(ctx, c.key(userID), string(plan), c.ttl).Err()
}

func (c *RedisCache) GetIntent(ctx context.Context, userID int64, def models.Tier) models.Tier {
	val, err := c.client.Get(ctx, c.key(userID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("intent lookup failed, using default", map[string]interface{}{
				"userId": userID,
				"error":  err,
			})
		}
		return def
	}

	plan, ok := models.ParseTier(val)
	if !ok {
		return def
	}
	return plan
}
