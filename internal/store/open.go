// internal/store/open.go
package store

import (
	"database/sql"
	"fmt"

	"plan-access-bot/internal/common/config"

	"github.com/redis/go-redis/v9"
)

// Deps carries the connections a backend may need; unused ones may be nil.
type Deps struct {
	Redis    redis.Cmdable
	Postgres *sql.DB
}

// NewBackend builds the backend named by kind ("file", "redis" or "postgres").
func NewBackend(kind string, cfg config.StorageConfig, deps Deps) (Backend, error) {
	switch kind {
	case config.StorageFile:
		return NewFileBackend(cfg.Dir), nil
	case config.StorageRedis:
		if deps.Redis == nil {
			return nil, fmt.Errorf("redis storage backend requires a redis client")
		}
		return NewRedisBackend(deps.Redis, cfg.KeyPrefix), nil
	case config.StoragePostgres:
		if deps.Postgres == nil {
			return nil, fmt.Errorf("postgres storage backend requires a database")
		}
		return NewPostgresBackend(deps.Postgres, cfg.Table), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", kind)
	}
}
