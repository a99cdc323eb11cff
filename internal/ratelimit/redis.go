package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisStore keeps throttle markers in redis. SETNX with expiry is a
// single round trip and atomic, which is what makes the limiter correct
// across concurrent server instances.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to redis at the given URL and verifies the
// connection.
func NewRedisStore(ctx context.Context, url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

// SetIfAbsent plants the marker if no live one exists.
func (s *RedisStore) SetIfAbsent(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, key, 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("setnx %s: %w", key, err)
	}
	return ok, nil
}

// Close releases the redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
