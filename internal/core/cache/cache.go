package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"
)

// ErrMiss 未命中
var ErrMiss = errors.New("cache: miss")

// Store 最小 KV 面。生产走 redis，测试/无缓存部署走内存实现。
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Incr(ctx context.Context, key string) (int64, error)
}

// Cache 按 tag 分版本的读缓存。key 形如 <tag>:v<n>:<suffix>，
// Invalidate 把 tag 版本 +1，旧 key 自然失效等 TTL 清掉。
// 保证的不变式：成功的写操作只把它影响到的 tag 推进一版。
type Cache struct {
	store Store
	sf    singleflight.Group
}

func New(store Store) *Cache { return &Cache{store: store} }

func (c *Cache) key(ctx context.Context, tag, suffix string) string {
	ver, err := c.store.Get(ctx, "ver:"+tag)
	if err != nil {
		return fmt.Sprintf("%s:v0:%s", tag, suffix)
	}
	return fmt.Sprintf("%s:v%s:%s", tag, ver, suffix)
}

func (c *Cache) Invalidate(ctx context.Context, tags ...string) {
	for _, tag := range tags {
		_, _ = c.store.Incr(ctx, "ver:"+tag)
	}
}

// GetOrLoad 读缓存，miss 时 singleflight 合并回源
func (c *Cache) GetOrLoad(ctx context.Context, tag, suffix string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	key := c.key(ctx, tag, suffix)
	if b, err := c.store.Get(ctx, key); err == nil {
		return b, nil
	}
	v, err, _ := c.sf.Do(key, func() (any, error) {
		b, e := load(ctx)
		if e != nil {
			return nil, e
		}
		_ = c.store.Set(ctx, key, b, ttl)
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}
