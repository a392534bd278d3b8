package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/oksasatya/smart-living/internal/domain/repository"
)

// KVStore keeps snapshots as plain Redis strings under Prefix+key.
type KVStore struct {
	rdb    *goredis.Client
	Prefix string
}

func NewKVStore(rdb *goredis.Client, prefix string) *KVStore {
	return &KVStore{rdb: rdb, Prefix: prefix}
}

func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := s.rdb.Get(ctx, s.Prefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, repository.ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Set stores value without expiry; profiles are only ever overwritten.
func (s *KVStore) Set(ctx context.Context, key string, value []byte) error {
	return s.SetTTL(ctx, key, value, 0)
}

func (s *KVStore) SetTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return s.rdb.Set(ctx, s.Prefix+key, value, ttl).Err()
}

// Take uses GETDEL (Redis 6.2+).
func (s *KVStore) Take(ctx context.Context, key string) ([]byte, error) {
	b, err := s.rdb.GetDel(ctx, s.Prefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, repository.ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *KVStore) Clear(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, s.Prefix+key).Err()
}

var _ repository.KeyValueStore = (*KVStore)(nil)
