// internal/cache/redis.go
package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/zaukho/zaukho-backend/internal/config"
)

const blacklistPrefix = "token:blacklist:"

type Redis struct {
	client *redis.Client
}

func NewRedis(cfg config.RedisConfig) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Verify connection
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Println("Redis connected successfully")
	return &Redis{client: client}, nil
}

// BlacklistToken records a revoked refresh token id until the token would have
// expired on its own; after that the key is garbage.
func (r *Redis) BlacklistToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, blacklistPrefix+tokenID, "1", ttl).Err()
}

// IsTokenBlacklisted checks whether a refresh token id has been revoked.
func (r *Redis) IsTokenBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	result, err := r.client.Exists(ctx, blacklistPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return result > 0, nil
}

// Close closes the Redis connection
func (r *Redis) Close() error {
	return r.client.Close()
}

// Ping checks Redis connection
func (r *Redis) Ping(ctx context.Context) error {
	_, err := r.client.Ping(ctx).Result()
	return err
}
