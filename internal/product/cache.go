package product

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	listCachePrefix = "catalog:list:v"
	cacheVersionKey = "catalog:version"
)

// Cache stores catalog listings under a version number; bumping the version invalidates all of them.
// Callers read Version before querying the database and store the result under that version.
type Cache interface {
	Version(ctx context.Context) (int64, bool)
	GetPage(ctx context.Context, version int64, key string) (*Page, bool)
	SetPage(version int64, key string, page Page)
	Invalidate(ctx context.Context)
}

type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
	log *zap.Logger
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration, log *zap.Logger) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl, log: log}
}

func (c *RedisCache) Version(ctx context.Context) (int64, bool) {
	v, err := c.rdb.Get(ctx, cacheVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, true
	}
	if err != nil {
		c.log.Warn("catalog cache version unreadable", zap.Error(err))
		return 0, false
	}
	return v, true
}

func (c *RedisCache) key(version int64, k string) string {
	return listCachePrefix + strconv.FormatInt(version, 10) + ":" + k
}

func (c *RedisCache) GetPage(ctx context.Context, version int64, key string) (*Page, bool) {
	raw, err := c.rdb.Get(ctx, c.key(version, key)).Bytes()
	if err != nil {
		return nil, false
	}
	var p Page
	if err := json.Unmarshal(raw, &p); err != nil {
		c.log.Warn("catalog cache entry unreadable", zap.Error(err))
		return nil, false
	}
	return &p, true
}

// SetPage writes asynchronously so a slow cache never delays the response.
// A page read before an Invalidate lands under the old version and is never served again.
func (c *RedisCache) SetPage(version int64, key string, page Page) {
	raw, err := json.Marshal(page)
	if err != nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.rdb.Set(ctx, c.key(version, key), raw, c.ttl).Err(); err != nil {
			c.log.Warn("catalog cache write failed", zap.Error(err))
		}
	}()
}

func (c *RedisCache) Invalidate(ctx context.Context) {
	if err := c.rdb.Incr(ctx, cacheVersionKey).Err(); err != nil {
		c.log.Warn("catalog cache invalidation failed", zap.Error(err))
	}
}
