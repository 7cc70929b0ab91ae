package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/mdrrmo/respond/internal/shared/config"
)

// Cache keeps serialized rollup payloads warm in Redis. A nil *Cache is
// valid and disables caching.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache connects to Redis and verifies the connection
func NewCache(ctx context.Context, cfg config.RedisConfig) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &Cache{
		client: client,
		ttl:    time.Duration(cfg.TTLSeconds) * time.Second,
	}, nil
}

// NewCacheWithClient wraps an existing client, used in tests
func NewCacheWithClient(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Get loads a cached value into dst, reporting whether it was present
func (c *Cache) Get(ctx context.Context, key string, dst any) (bool, error) {
	if c == nil {
		return false, nil
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return true, nil
}

// Set stores a value under the key for the configured TTL
func (c *Cache) Set(ctx context.Context, key string, value any) error {
	if c == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// Invalidate drops the given keys
func (c *Cache) Invalidate(ctx context.Context, keys ...string) error {
	if c == nil || len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// Close releases the underlying client
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
