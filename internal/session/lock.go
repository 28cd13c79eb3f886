package session

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Lock records which session keys have already had attendance marked, so a
// session can be submitted exactly once. Durability is the backend's
// concern, not the caller's.
type Lock interface {
	HasBeenMarked(ctx context.Context, key string) (bool, error)
	MarkAsMarked(ctx context.Context, key string) error
}

// MemoryLock is the in-process backend used for dev and tests.
type MemoryLock struct {
	mu     sync.Mutex
	marked map[string]struct{}
}

// NewMemoryLock creates an empty lock.
func NewMemoryLock() *MemoryLock {
	return &MemoryLock{marked: make(map[string]struct{})}
}

// HasBeenMarked reports whether the key was marked.
func (l *MemoryLock) HasBeenMarked(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.marked[key]
	return ok, nil
}

// MarkAsMarked records the key.
func (l *MemoryLock) MarkAsMarked(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.marked[key] = struct{}{}
	return nil
}

// RedisLock keeps session marks in redis. Keys carry the calendar date, so a
// TTL slightly over a day lets old marks expire instead of being purged.
type RedisLock struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisLock builds a lock over an existing client. prefix defaults to
// "classtrack:session" and ttl to 48h.
func NewRedisLock(client *redis.Client, prefix string, ttl time.Duration) *RedisLock {
	if prefix == "" {
		prefix = "classtrack:session"
	}
	if ttl <= 0 {
		ttl = 48 * time.Hour
	}
	return &RedisLock{client: client, prefix: prefix, ttl: ttl}
}

// HasBeenMarked reports whether the key exists in redis.
func (l *RedisLock) HasBeenMarked(ctx context.Context, key string) (bool, error) {
	n, err := l.client.Exists(ctx, l.prefix+":"+key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MarkAsMarked stores the key with the configured TTL.
func (l *RedisLock) MarkAsMarked(ctx context.Context, key string) error {
	return l.client.Set(ctx, l.prefix+":"+key, "1", l.ttl).Err()
}
