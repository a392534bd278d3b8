package memory

import (
	"context"
	"sync"
	"time"

	"github.com/oksasatya/smart-living/internal/domain/repository"
)

type entry struct {
	value     []byte
	expiresAt time.Time // zero means no expiry
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// KVStore is an in-memory repository.KeyValueStore. It is safe for concurrent use.
// Expired entries are hidden on read and purged on the next write.
type KVStore struct {
	mu   sync.RWMutex
	data map[string]entry
	Now  func() time.Time
}

func NewKVStore() *KVStore {
	return &KVStore{data: make(map[string]entry), Now: time.Now}
}

func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.data[key]
	if !ok || e.expired(s.Now()) {
		return nil, repository.ErrKeyNotFound
	}
	return append([]byte(nil), e.value...), nil
}

func (s *KVStore) Set(ctx context.Context, key string, value []byte) error {
	return s.SetTTL(ctx, key, value, 0)
}

func (s *KVStore) SetTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.Now()
	s.purge(now)
	e := entry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expiresAt = now.Add(ttl)
	}
	s.data[key] = e
	return nil
}

func (s *KVStore) Take(ctx context.Context, key string) ([]byte, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.data[key]
	delete(s.data, key)
	if !ok || e.expired(s.Now()) {
		return nil, repository.ErrKeyNotFound
	}
	return e.value, nil
}

func (s *KVStore) Clear(ctx context.Context, key string) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// purge drops expired entries; callers hold the write lock.
func (s *KVStore) purge(now time.Time) {
	for k, e := range s.data {
		if e.expired(now) {
			delete(s.data, k)
		}
	}
}

// Len reports how many live keys are stored.
func (s *KVStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	now := s.Now()
	n := 0
	for _, e := range s.data {
		if !e.expired(now) {
			n++
		}
	}
	return n
}

var _ repository.KeyValueStore = (*KVStore)(nil)
