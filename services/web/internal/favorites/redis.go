package favorites

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type RedisConfig struct {
	Addr     string
	DB       int
	Password string
	// TTL expires idle clients; zero keeps values forever.
	TTL time.Duration
}

type RedisStore struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

func NewRedisStore(cfg RedisConfig, logger *logrus.Logger) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		DB:       cfg.DB,
		Password: cfg.Password,
	})
	return &RedisStore{
		rdb:    rdb,
		ttl:    cfg.TTL,
		logger: logger,
	}
}

func (s *RedisStore) Get(ctx context.Context, clientID, key string) ([]byte, error) {
	raw, err := s.rdb.Get(ctx, redisKey(clientID, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s for client %s: %w", key, clientID, err)
	}
	return raw, nil
}

func (s *RedisStore) Put(ctx context.Context, clientID, key string, value []byte) error {
	if err := s.rdb.Set(ctx, redisKey(clientID, key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to put %s for client %s: %w", key, clientID, err)
	}
	return nil
}

func (s *RedisStore) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return s.rdb.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	s.logger.Info("Closing redis connection")
	return s.rdb.Close()
}

func redisKey(clientID, key string) string {
	return "client:" + clientID + ":" + key
}
