package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/denchenko/usercards/internal/core/domain"
	"github.com/redis/go-redis/v9"
)

const (
	DefaultRedisPrefix = "usercards:users:"

	scanCount = 100
)

// RedisCache stores result sets as JSON in Redis and relies on key expiry for eviction.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache creates a new Redis-backed cache. Keys are namespaced by prefix.
func NewRedisCache(client *redis.Client, prefix string) *RedisCache {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}

	return &RedisCache{
		client: client,
		prefix: prefix,
	}
}

// NewRedisClient creates a Redis client from a redis:// URL.
func NewRedisClient(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	return redis.NewClient(opts), nil
}

func (c *RedisCache) redisKey(key domain.RequestKey) string {
	return c.prefix + key.String()
}

// Get retrieves a result set by key from Redis.
func (c *RedisCache) Get(ctx context.Context, key domain.RequestKey) (*domain.ResultSet, bool, error) {
	data, err := c.client.Get(ctx, c.redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get cache entry: %w", err)
	}

	var rs domain.ResultSet
	if err := json.Unmarshal(data, &rs); err != nil {
		return nil, false, fmt.Errorf("failed to decode cache entry: %w", err)
	}

	return &rs, true, nil
}

// Set stores the result set with a Redis expiry of ttl.
// A non-positive ttl stores nothing and drops any existing entry.
func (c *RedisCache) Set(ctx context.Context, key domain.RequestKey, rs *domain.ResultSet, ttl time.Duration) error {
	if ttl <= 0 {
		return c.Delete(ctx, key)
	}

	data, err := json.Marshal(rs)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	if err := c.client.Set(ctx, c.redisKey(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache entry: %w", err)
	}

	return nil
}

// Delete removes the entry for the key.
func (c *RedisCache) Delete(ctx context.Context, key domain.RequestKey) error {
	if err := c.client.Del(ctx, c.redisKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}

	return nil
}

// Clear removes every entry under the prefix.
func (c *RedisCache) Clear(ctx context.Context) error {
	keys, err := c.keys(ctx)
	if err != nil {
		return err
	}

	if len(keys) == 0 {
		return nil
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	return nil
}

// Len returns the number of entries under the prefix.
func (c *RedisCache) Len(ctx context.Context) (int, error) {
	keys, err := c.keys(ctx)
	if err != nil {
		return 0, err
	}

	return len(keys), nil
}

func (c *RedisCache) keys(ctx context.Context) ([]string, error) {
	var keys []string

	iter := c.client.Scan(ctx, 0, c.prefix+"*", scanCount).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}

	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan cache keys: %w", err)
	}

	return keys, nil
}
