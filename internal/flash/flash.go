// Package flash keeps one-shot notices between a redirect and the page it
// points to.
package flash

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "flash:"

// Store saves a notice under a fresh key and hands it back exactly once.
type Store interface {
	Put(ctx context.Context, notice string) (string, error)
	Take(ctx context.Context, key string) (string, error)
}

// RedisStore shares notices across instances.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Put(ctx context.Context, notice string) (string, error) {
	key := uuid.NewString()
	if err := s.client.Set(ctx, keyPrefix+key, notice, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store flash: %w", err)
	}
	return key, nil
}

// Take returns "" for unknown or expired keys.
func (s *RedisStore) Take(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", nil
	}
	notice, err := s.client.GetDel(ctx, keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("take flash: %w", err)
	}
	return notice, nil
}

type entry struct {
	notice  string
	expires time.Time
}

// MemoryStore is used when no Redis is configured.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entry
	now     func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, entries: make(map[string]entry), now: time.Now}
}

func (s *MemoryStore) Put(ctx context.Context, notice string) (string, error) {
	key := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictExpired()
	s.entries[key] = entry{notice: notice, expires: s.now().Add(s.ttl)}
	return key, nil
}

func (s *MemoryStore) Take(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return "", nil
	}
	delete(s.entries, key)
	if s.now().After(e.expires) {
		return "", nil
	}
	return e.notice, nil
}

func (s *MemoryStore) evictExpired() {
	now := s.now()
	for k, e := range s.entries {
		if now.After(e.expires) {
			delete(s.entries, k)
		}
	}
}
