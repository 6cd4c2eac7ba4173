package csrf

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store keeps issued tokens by key. Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the token stored under key; ok is false when there is none or it expired.
	Get(ctx context.Context, key string) (token string, ok bool, err error)
	// Set stores token under key for ttl. A zero ttl never expires.
	Set(ctx context.Context, key, token string, ttl time.Duration) error
	// SetIfAbsent stores token under key unless a live token is already there,
	// in one atomic step. It returns the token held afterwards.
	SetIfAbsent(ctx context.Context, key, token string, ttl time.Duration) (string, error)
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

type entry struct {
	token   string
	expires time.Time
}

// MemoryStore is a process local Store.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]entry), now: time.Now}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, ok := s.live(key)

	return token, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, key, token string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.put(key, token, ttl)

	return nil
}

func (s *MemoryStore) SetIfAbsent(_ context.Context, key, token string, ttl time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if held, ok := s.live(key); ok {
		return held, nil
	}

	s.put(key, token, ttl)

	return token, nil
}

// live returns the unexpired token under key. s.mu must be held.
func (s *MemoryStore) live(key string) (string, bool) {
	e, ok := s.entries[key]
	if !ok {
		return "", false
	}

	if !e.expires.IsZero() && !s.now().Before(e.expires) {
		delete(s.entries, key)
		return "", false
	}

	return e.token, true
}

func (s *MemoryStore) put(key, token string, ttl time.Duration) {
	e := entry{token: token}
	if ttl > 0 {
		e.expires = s.now().Add(ttl)
	}

	s.entries[key] = e
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)

	return nil
}

// RedisClient is the subset of the go-redis client used by RedisStore.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisStore keeps tokens in Redis, shared between processes.
type RedisStore struct {
	client RedisClient
	prefix string
}

// NewRedisStore returns a store writing keys under prefix.
func NewRedisStore(client RedisClient, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	token, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}

	if err != nil {
		return "", false, err
	}

	return token, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, token string, ttl time.Duration) error {
	return s.client.Set(ctx, s.prefix+key, token, ttl).Err()
}

// maxSetNXAttempts bounds the retries when the held token expires between
// SETNX and GET.
const maxSetNXAttempts = 3

func (s *RedisStore) SetIfAbsent(ctx context.Context, key, token string, ttl time.Duration) (string, error) {
	for range maxSetNXAttempts {
		stored, err := s.client.SetNX(ctx, s.prefix+key, token, ttl).Result()
		if err != nil {
			return "", err
		}

		if stored {
			return token, nil
		}

		held, ok, err := s.Get(ctx, key)
		if err != nil {
			return "", err
		}

		if ok {
			return held, nil
		}
	}

	return "", fmt.Errorf("token under %s keeps expiring", key)
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}
