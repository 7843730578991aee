// Package session keeps per-visitor state between requests. Values are
// stored as JSON under a key derived from the visitor's session id.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

var (
	ErrNotFound = errors.New("session: not found")
	ErrCorrupt  = errors.New("session: stored value is unreadable")
)

type Store interface {
	// Load decodes the value stored under key into dest. It returns
	// ErrNotFound when nothing is stored or the entry has expired.
	Load(ctx context.Context, key string, dest any) error
	// Save stores v under key and restarts its expiry.
	Save(ctx context.Context, key string, v any) error
	Delete(ctx context.Context, key string) error
}

type RedisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisStore(client redis.UniversalClient, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Load(ctx context.Context, key string, dest any) error {
	data, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return decode(data, dest)
}

func (s *RedisStore) Save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, keyPrefix+key, data, s.ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, keyPrefix+key).Err()
}

type entry struct {
	data   []byte
	expiry time.Time
}

// MemoryStore is a process-local Store for development and tests. Entries
// are lost on restart and not shared between instances.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *MemoryStore) Load(_ context.Context, key string, dest any) error {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}
	if s.now().After(e.expiry) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return ErrNotFound
	}
	return decode(e.data, dest)
}

func (s *MemoryStore) Save(_ context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.entries[key] = entry{data: data, expiry: s.now().Add(s.ttl)}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

func decode(data []byte, dest any) error {
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return nil
}
