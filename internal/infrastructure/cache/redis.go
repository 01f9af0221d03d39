package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/platewise/backend/internal/domain"
)

const redisKeyPrefix = "density:"

// redisEnvelope distinguishes cached negative results from absent keys.
type redisEnvelope struct {
	Record *domain.DensityRecord `json:"record"`
}

// RedisCache is a Redis-backed density cache, used when multiple workers
// should share one lookup cache.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to Redis and verifies the connection.
func NewRedisCache(ctx context.Context, redisURL string) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return &RedisCache{client: client}, nil
}

// Get retrieves a cached density record.
func (c *RedisCache) Get(ctx context.Context, name string) (*domain.DensityRecord, bool, error) {
	data, err := c.client.Get(ctx, redisKeyPrefix+name).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var env redisEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, false, fmt.Errorf("decoding cached density: %w", err)
	}
	return env.Record, true, nil
}

// Set stores a density record (or a nil negative result) with a TTL.
func (c *RedisCache) Set(ctx context.Context, name string, record *domain.DensityRecord, ttl time.Duration) error {
	data, err := json.Marshal(redisEnvelope{Record: record})
	if err != nil {
		return fmt.Errorf("encoding density record: %w", err)
	}
	if err := c.client.Set(ctx, redisKeyPrefix+name, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Close releases the Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
