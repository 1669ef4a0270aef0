package config

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to REDIS_ADDR and pings it. Callers treat an error
// as "run without Redis" and disable rate limiting.
func NewRedisClient(ctx context.Context, c Config) (*redis.Client, error) {
	if c.RedisAddr == "" {
		return nil, fmt.Errorf("redis: REDIS_ADDR is not set")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     c.RedisAddr,
		Password: c.RedisPassword,
		DB:       c.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", c.RedisAddr, err)
	}
	return client, nil
}
