package infrastructure

import (
	"fmt"

	"user-deletion-service/internal/config"
	redisclient "user-deletion-service/pkg/redis"

	"go.uber.org/zap"
)

// NewRedisClient connects to the Redis instance deletion events are published on
func NewRedisClient(cfg *config.Config, l *zap.Logger) (*redisclient.Client, error) {
	redisConfig := redisclient.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	}

	rdb, err := redisclient.NewClient(redisConfig, l)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return rdb, nil
}
