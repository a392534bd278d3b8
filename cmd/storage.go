package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/smart-living/config"
	"github.com/oksasatya/smart-living/internal/container"
	"github.com/oksasatya/smart-living/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/smart-living/internal/infrastructure/postgres"
	redisinfra "github.com/oksasatya/smart-living/internal/infrastructure/redis"
	"github.com/oksasatya/smart-living/pkg/helpers"
)

// openStore builds the key-value store selected by STORAGE_BACKEND and puts
// it in the container. Redis is also connected for rate limiting whenever it
// answers; the memory backend runs fine without it.
func openStore(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (func(), error) {
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err := helpers.PingRedis(ctx, rdb); err != nil {
		_ = rdb.Close()
		if cfg.StorageBackend == "redis" {
			return closeAll, fmt.Errorf("redis: %w", err)
		}
		logger.WithError(err).Warn("redis unavailable, rate limiting disabled")
	} else {
		closers = append(closers, func() { _ = rdb.Close() })
		container.SetRedis(rdb)
	}

	switch cfg.StorageBackend {
	case "memory", "":
		container.SetKVStore(memory.NewKVStore())
	case "redis":
		container.SetKVStore(redisinfra.NewKVStore(rdb, cfg.RedisKeyPrefix))
	case "postgres":
		pool, err := pginfra.NewPool(ctx, pginfra.PoolConfig{
			DSN:         cfg.PostgresDSN(),
			MaxConns:    cfg.DBMaxConns,
			MinConns:    cfg.DBMinConns,
			MaxConnLife: cfg.DBMaxConnLife,
			AppName:     cfg.AppName,
		})
		if err != nil {
			closeAll()
			return func() {}, fmt.Errorf("postgres: %w", err)
		}
		closers = append(closers, pool.Close)
		if err := runMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
			closeAll()
			return func() {}, fmt.Errorf("migrations: %w", err)
		}
		container.SetPGPool(pool)
		store := pginfra.NewKVStore(pool)
		container.SetKVStore(store)
		// expired onboarding sessions are hidden on read; this reclaims the rows
		sweepCtx, stopSweep := context.WithCancel(context.Background())
		go store.RunSweeper(sweepCtx, cfg.KVSweepInterval, func(err error) {
			logger.WithError(err).Warn("kv sweep failed")
		})
		closers = append(closers, stopSweep)
	default:
		closeAll()
		return func() {}, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
	logger.WithField("backend", cfg.StorageBackend).Info("storage ready")
	return closeAll, nil
}
