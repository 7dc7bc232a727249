package ticker

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack"
)

// redisKey is where the shared quote lives.
const redisKey = "jobboard:ticker:quote"

// RedisCache is a SharedCache backed by Redis. Values are msgpack-encoded
// Quotes that expire with the service TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache wraps an already connected client.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCache{client: client, ttl: ttl}
}

// Get returns the shared quote if present and decodable.
func (c *RedisCache) Get(ctx context.Context) (Quote, bool) {
	data, err := c.client.Get(ctx, redisKey).Bytes()
	if err != nil {
		return Quote{}, false
	}
	var q Quote
	if err := msgpack.Unmarshal(data, &q); err != nil {
		return Quote{}, false
	}
	return q, true
}

// Set stores q with the configured TTL.
func (c *RedisCache) Set(ctx context.Context, q Quote) error {
	data, err := msgpack.Marshal(q)
	if err != nil {
		return fmt.Errorf("ticker: marshal quote: %w", err)
	}
	return c.client.Set(ctx, redisKey, data, c.ttl).Err()
}

// NewRedisClient parses redisURL and verifies connectivity.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}
