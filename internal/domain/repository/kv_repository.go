package repository

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound is returned by Get and Take when nothing is stored under the key.
var ErrKeyNotFound = errors.New("key not found")

// KeyValueStore is the durable client-state store. Values are opaque JSON
// snapshots; a Set replaces whatever was stored before (last write wins).
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// SetTTL is Set with an expiry. A ttl <= 0 stores without expiry.
	SetTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Take reads and deletes key in one step. Of concurrent callers at most
	// one receives the value; the rest get ErrKeyNotFound.
	Take(ctx context.Context, key string) ([]byte, error)
	Clear(ctx context.Context, key string) error
}
