package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/smart-living/internal/domain/repository"
)

// KVStore persists snapshots in the kv_entries table (see db/migrations).
// Expired rows are invisible to reads and removed by Sweep.
type KVStore struct {
	pool *pgxpool.Pool
}

func NewKVStore(pool *pgxpool.Pool) *KVStore {
	return &KVStore{pool: pool}
}

func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	row := s.pool.QueryRow(ctx, `
		SELECT value
		FROM kv_entries
		WHERE key = $1 AND (expires_at IS NULL OR expires_at > now())
	`, key)
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrKeyNotFound
		}
		return nil, err
	}
	return value, nil
}

// Set upserts the value; there is no version check, the last write wins.
func (s *KVStore) Set(ctx context.Context, key string, value []byte) error {
	return s.SetTTL(ctx, key, value, 0)
}

func (s *KVStore) SetTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	var expiresAt *time.Time
	if ttl > 0 {
		t := time.Now().Add(ttl).UTC()
		expiresAt = &t
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO kv_entries (key, value, updated_at, expires_at)
		VALUES ($1, $2, now(), $3)
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = now(), expires_at = EXCLUDED.expires_at
	`, key, value, expiresAt)
	return err
}

// Take deletes the row and returns its value; the row lock makes concurrent
// callers see it at most once.
func (s *KVStore) Take(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	row := s.pool.QueryRow(ctx, `
		DELETE FROM kv_entries
		WHERE key = $1 AND (expires_at IS NULL OR expires_at > now())
		RETURNING value
	`, key)
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrKeyNotFound
		}
		return nil, err
	}
	return value, nil
}

func (s *KVStore) Clear(ctx context.Context, key string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM kv_entries WHERE key = $1`, key)
	return err
}

// Sweep deletes expired rows and reports how many went.
func (s *KVStore) Sweep(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM kv_entries WHERE expires_at IS NOT NULL AND expires_at <= now()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// RunSweeper calls Sweep every interval until ctx ends. A non-positive
// interval disables it.
func (s *KVStore) RunSweeper(ctx context.Context, interval time.Duration, onErr func(error)) {
	if interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if _, err := s.Sweep(ctx); err != nil && onErr != nil {
				onErr(err)
			}
		}
	}
}

var _ repository.KeyValueStore = (*KVStore)(nil)
