package main

import (
	"context"
	"flag"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/smart-living/config"
	"github.com/oksasatya/smart-living/internal/application"
	"github.com/oksasatya/smart-living/internal/domain/entity"
	"github.com/oksasatya/smart-living/internal/domain/repository"
	pginfra "github.com/oksasatya/smart-living/internal/infrastructure/postgres"
	redisinfra "github.com/oksasatya/smart-living/internal/infrastructure/redis"
	"github.com/oksasatya/smart-living/pkg/helpers"
)

// seed writes a completed demo profile so the dashboard can be opened without
// walking through onboarding. Send the device id as X-Device-ID.
func main() {
	owner := flag.String("device", "demo-device", "device id that owns the demo profile")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	ctx := context.Background()

	var store repository.KeyValueStore
	switch cfg.StorageBackend {
	case "postgres":
		pool, err := pginfra.NewPool(ctx, pginfra.PoolConfig{DSN: cfg.PostgresDSN(), MaxConns: 2, AppName: cfg.AppName + "-seed"})
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
		defer pool.Close()
		store = pginfra.NewKVStore(pool)
	case "redis":
		rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer func() { _ = rdb.Close() }()
		if err := helpers.PingRedis(ctx, rdb); err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		store = redisinfra.NewKVStore(rdb, cfg.RedisKeyPrefix)
	default:
		log.Fatalf("storage backend %q is not persistent, set STORAGE_BACKEND=postgres or redis", cfg.StorageBackend)
	}

	p := entity.NewProfile()
	p.Name = "Jordan Demo"
	p.Email = "demo@smartliving.local"
	p.Password = "password123"
	p.HouseholdSize = 4
	p.Children = 2
	p.SchoolNeeds = []string{"Elementary", "Middle School"}
	p.Income = 120000
	p.Education = "bachelors"
	p.Priorities = entity.Priorities{Safety: 9, Walkability: 6, FamilyFriendly: 9, Nightlife: 2, Quiet: 7}

	if err := application.NewProfileStorage(store).Save(ctx, *owner, p); err != nil {
		log.Fatalf("failed to seed profile: %v", err)
	}
	log.Printf("seeded profile: device=%s name=%s email=%s backend=%s", *owner, p.Name, p.Email, cfg.StorageBackend)
}
