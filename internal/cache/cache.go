package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cache is a Redis-backed TTL cache for vendor responses served by the
// catalog API. It is a cache only: nothing in here is the source of truth,
// and a cold or absent Redis just means a live vendor call.
type Cache struct {
	logger *zap.Logger
	rdb    *redis.Client
	ttl    time.Duration
}

// New connects to Redis and verifies the connection.
func New(logger *zap.Logger, addr string, db int, ttl time.Duration) (*Cache, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &Cache{logger: logger, rdb: rdb, ttl: ttl}, nil
}

// NewWithClient wraps an existing client (used by tests).
func NewWithClient(logger *zap.Logger, rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{logger: logger, rdb: rdb, ttl: ttl}
}

// GetJSON loads a cached value into dest; ok is false on a miss.
func (c *Cache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON stores value under key with the cache TTL.
func (c *Cache) SetJSON(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, data, c.ttl).Err()
}

func (c *Cache) Close() error {
	return c.rdb.Close()
}
