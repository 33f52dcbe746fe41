package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Cache 为 nil 时直接回源（未配置 redis）
type Cache struct {
	RDB    redis.UniversalClient
	Prefix string
	L      *zap.Logger
	sf     singleflight.Group
}

func New(addr, pass string, db int, prefix string, l *zap.Logger) *Cache {
	if addr == "" {
		return nil
	}
	return NewWithClient(redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}), prefix, l)
}

func NewWithClient(rdb redis.UniversalClient, prefix string, l *zap.Logger) *Cache {
	if l == nil {
		l = zap.NewNop()
	}
	return &Cache{RDB: rdb, Prefix: prefix, L: l}
}

func (c *Cache) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.RDB.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.RDB.Close()
}

func (c *Cache) GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	if c == nil {
		return load(ctx)
	}
	key = c.Prefix + key
	// 先读缓存
	b, err := c.RDB.Get(ctx, key).Bytes()
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, redis.Nil) {
		c.L.Warn("cache get failed", zap.String("key", key), zap.Error(err))
	}
	// single flight 合并回源；回源不随首个请求取消
	v, err, _ := c.sf.Do(key, func() (any, error) {
		fctx := context.WithoutCancel(ctx)
		b, e := load(fctx)
		if e != nil {
			return nil, e
		}
		if e := c.RDB.Set(fctx, key, b, ttl).Err(); e != nil {
			c.L.Warn("cache set failed", zap.String("key", key), zap.Error(e))
		}
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (c *Cache) Invalidate(ctx context.Context, keys ...string) error {
	if c == nil || len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.Prefix + k
	}
	return c.RDB.Del(ctx, full...).Err()
}
