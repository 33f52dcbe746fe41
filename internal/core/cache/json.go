package cache

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

func GetOrLoadJSON[T any](
	c *Cache,
	ctx context.Context,
	key string,
	ttl time.Duration,
	load func(ctx context.Context) (*T, error),
) (*T, error) {
	if c == nil {
		return load(ctx)
	}
	b, err := c.GetOrLoad(ctx, key, ttl, func(ctx context.Context) ([]byte, error) {
		v, e := load(ctx)
		if e != nil {
			return nil, e
		}
		return json.Marshal(v)
	})
	if err != nil {
		return nil, err
	}
	if string(b) == "null" {
		return nil, nil
	}
	var out T
	if e := json.Unmarshal(b, &out); e != nil {
		// 旧格式或损坏的条目：删掉后直接回源
		c.L.Warn("cache decode failed", zap.String("key", c.Prefix+key), zap.Error(e))
		_ = c.Invalidate(ctx, key)
		return load(ctx)
	}
	return &out, nil
}
