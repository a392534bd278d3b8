package container

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/smart-living/config"
	"github.com/oksasatya/smart-living/internal/domain/repository"
	"github.com/oksasatya/smart-living/pkg/helpers"
)

// app-level container to share constructed components across packages.
// Router modules are wired from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client
	kvStore     repository.KeyValueStore
	rabbitPub   *helpers.RabbitPublisher
)

func SetConfig(c *config.Config) { cfg = c }
func GetConfig() *config.Config  { return cfg }
func SetLogger(l *logrus.Logger) { logger = l }
func GetLogger() *logrus.Logger  { return logger }
func SetPGPool(p *pgxpool.Pool)  { pgPool = p }
func GetPGPool() *pgxpool.Pool   { return pgPool }

// SetRedis stores the shared client. It stays nil when the memory backend
// runs without redis, which disables rate limiting.
func SetRedis(r *redis.Client) { redisClient = r }
func GetRedis() *redis.Client  { return redisClient }

func SetKVStore(s repository.KeyValueStore) { kvStore = s }
func GetKVStore() repository.KeyValueStore  { return kvStore }

func SetRabbitPub(p *helpers.RabbitPublisher) { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitPublisher  { return rabbitPub }
