package rediscache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dungtienne2108/marketplace-order-service/internal/config"
	"github.com/dungtienne2108/marketplace-order-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RedisCache implements domain.Cache. Every error is wrapped as an
// ExternalServiceError; callers treat cache failures as non-fatal.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(cfg *config.RedisCache) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &RedisCache{client: client}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	value, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", &domain.ExternalServiceError{Service: "redis", Err: err}
	}
	return value, nil
}

func (c *RedisCache) Set(ctx context.Context, key, value string, ttlSeconds int) error {
	if err := c.client.Set(ctx, key, value, time.Duration(ttlSeconds)*time.Second).Err(); err != nil {
		return &domain.ExternalServiceError{Service: "redis", Err: err}
	}
	return nil
}

func (c *RedisCache) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return &domain.ExternalServiceError{Service: "redis", Err: err}
	}
	return nil
}
