package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Name string `json:"name"`
}

func TestNilCacheLoadsDirectly(t *testing.T) {
	var c *Cache
	assert.Nil(t, New("", "", 0, "p:", nil))

	calls := 0
	load := func(context.Context) (*item, error) {
		calls++
		return &item{Name: "x"}, nil
	}
	for i := 0; i < 2; i++ {
		v, err := GetOrLoadJSON(c, context.Background(), "k", time.Minute, load)
		require.NoError(t, err)
		assert.Equal(t, "x", v.Name)
	}
	assert.Equal(t, 2, calls)

	boom := errors.New("boom")
	_, err := GetOrLoadJSON(c, context.Background(), "k", time.Minute, func(context.Context) (*item, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	assert.NoError(t, c.Ping(context.Background()))
	assert.NoError(t, c.Invalidate(context.Background(), "k"))
	assert.NoError(t, c.Close())
}

// memRDB 只实现 Get/Set/Del，其余方法未使用
type memRDB struct {
	redis.UniversalClient
	mu   sync.Mutex
	m    map[string][]byte
	gets int
}

func newMem() *memRDB { return &memRDB{m: map[string][]byte{}} }

func (r *memRDB) Get(ctx context.Context, key string) *redis.StringCmd {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gets++
	b, ok := r.m[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(string(b), nil)
}

func (r *memRDB) Set(ctx context.Context, key string, value any, exp time.Duration) *redis.StatusCmd {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[key] = append([]byte(nil), value.([]byte)...)
	return redis.NewStatusResult("OK", nil)
}

func (r *memRDB) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, k := range keys {
		if _, ok := r.m[k]; ok {
			delete(r.m, k)
			n++
		}
	}
	return redis.NewIntResult(int64(n), nil)
}

func TestLookAsideHitsCacheAfterFirstLoad(t *testing.T) {
	rdb := newMem()
	c := NewWithClient(rdb, "app:", nil)

	calls := 0
	load := func(context.Context) (*item, error) {
		calls++
		return &item{Name: "x"}, nil
	}
	for i := 0; i < 3; i++ {
		v, err := GetOrLoadJSON(c, context.Background(), "k", time.Minute, load)
		require.NoError(t, err)
		assert.Equal(t, "x", v.Name)
	}
	assert.Equal(t, 1, calls)
	assert.JSONEq(t, `{"name":"x"}`, string(rdb.m["app:k"]))

	require.NoError(t, c.Invalidate(context.Background(), "k"))
	_, err := GetOrLoadJSON(c, context.Background(), "k", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestLoadErrorIsNotCached(t *testing.T) {
	rdb := newMem()
	c := NewWithClient(rdb, "app:", nil)
	boom := errors.New("boom")
	_, err := GetOrLoadJSON(c, context.Background(), "k", time.Minute, func(context.Context) (*item, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, rdb.m)
}

func TestCorruptEntryIsDroppedAndReloaded(t *testing.T) {
	rdb := newMem()
	rdb.m["app:k"] = []byte("{not json")
	c := NewWithClient(rdb, "app:", nil)

	v, err := GetOrLoadJSON(c, context.Background(), "k", time.Minute, func(context.Context) (*item, error) {
		return &item{Name: "fresh"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", v.Name)
	_, ok := rdb.m["app:k"]
	assert.False(t, ok)
}

func TestConcurrentMissesShareOneLoad(t *testing.T) {
	rdb := newMem()
	c := NewWithClient(rdb, "app:", nil)

	var calls atomic.Int32
	release := make(chan struct{})
	load := func(context.Context) ([]byte, error) {
		calls.Add(1)
		<-release
		return []byte(`"v"`), nil
	}

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.GetOrLoad(context.Background(), "k", time.Minute, load)
			errs <- err
		}()
	}
	// 等所有请求都未命中后再放行
	require.Eventually(t, func() bool {
		rdb.mu.Lock()
		defer rdb.mu.Unlock()
		return rdb.gets == n
	}, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
	assert.EqualValues(t, 1, calls.Load())
}

func TestFlightIgnoresFirstCallerCancel(t *testing.T) {
	c := NewWithClient(newMem(), "app:", nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b, err := c.GetOrLoad(ctx, "k", time.Minute, func(ctx context.Context) ([]byte, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return []byte(`"v"`), nil
	})
	require.NoError(t, err)
	assert.Equal(t, `"v"`, string(b))
}
