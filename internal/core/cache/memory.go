package cache

import (
	"context"
	"strconv"
	"sync"
	"time"
)

// memoryStore 进程内 KV，给测试和关掉 redis 的部署用。
// 容量不设限，靠 TTL 过期，够网关这点读缓存用了。
type memoryStore struct {
	mu   sync.Mutex
	data map[string]memEntry
}

type memEntry struct {
	val []byte
	exp time.Time
}

func NewMemoryStore() Store {
	return &memoryStore{data: make(map[string]memEntry)}
}

func (s *memoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.data[key]
	if !ok || (!e.exp.IsZero() && time.Now().After(e.exp)) {
		delete(s.data, key)
		return nil, ErrMiss
	}
	return e.val, nil
}

func (s *memoryStore) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var exp time.Time
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	s.data[key] = memEntry{val: append([]byte(nil), val...), exp: exp}
	return nil
}

func (s *memoryStore) Incr(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, _ := strconv.ParseInt(string(s.data[key].val), 10, 64)
	n++
	s.data[key] = memEntry{val: []byte(strconv.FormatInt(n, 10))}
	return n, nil
}
