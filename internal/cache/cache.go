// Package cache stores query results and revoked token subjects in Redis.
// A nil *Cache is valid and behaves as an always-empty cache.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/gravitas-games/hexext/internal/config"
)

// Cache wraps a Redis client.
type Cache struct {
	client          *redis.Client
	prefix          string
	blacklistPrefix string
	ttl             time.Duration
}

// New connects to Redis and verifies the connection with a ping.
func New(ctx context.Context, cfg config.RedisConfig) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &Cache{
		client:          client,
		prefix:          cfg.KeyPrefix,
		blacklistPrefix: cfg.BlacklistPrefix,
		ttl:             time.Duration(cfg.TTLSeconds) * time.Second,
	}, nil
}

// Key builds a cache key from a map ID, a query kind and its arguments.
func Key(mapID, kind string, args ...any) string {
	parts := make([]string, 0, len(args)+2)
	parts = append(parts, mapID, kind)
	for _, a := range args {
		parts = append(parts, fmt.Sprint(a))
	}
	return strings.Join(parts, ":")
}

// Get decodes the JSON value stored under key into v and reports whether it
// was present.
func (c *Cache) Get(ctx context.Context, key string, v any) (bool, error) {
	if c == nil {
		return false, nil
	}
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

// Set stores v as JSON under key with the configured TTL.
func (c *Cache) Set(ctx context.Context, key string, v any) error {
	if c == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.prefix+key, data, c.ttl).Err()
}

// Blacklisted reports whether a token subject has been revoked.
func (c *Cache) Blacklisted(ctx context.Context, subject string) (bool, error) {
	if c == nil {
		return false, nil
	}
	n, err := c.client.Exists(ctx, c.blacklistPrefix+subject).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Close closes the Redis connection.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
