// Package cache stores rendered PNGs in Redis keyed by their canonical
// request parameters.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "ogpix:png:"

	// DefaultTTL is how long a rendered image stays cached.
	DefaultTTL = 24 * time.Hour
)

// Connect creates a Redis client and verifies the connection with a ping.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	slog.Info("redis connected", "addr", addr)
	return client, nil
}

// ImageCache caches rendered images. A nil *ImageCache is valid and
// caches nothing.
type ImageCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates an image cache backed by client.
func New(client *redis.Client, ttl time.Duration) *ImageCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ImageCache{client: client, ttl: ttl}
}

// Key derives the cache key for a canonical parameter encoding.
func Key(canonical string) string {
	sum := sha256.Sum256([]byte(canonical))
	return keyPrefix + hex.EncodeToString(sum[:])
}

// Get returns the cached image for canonical. Errors count as misses.
func (c *ImageCache) Get(ctx context.Context, canonical string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	key := Key(canonical)
	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		slog.Warn("image cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("image cache hit", "key", key)
	return val, true
}

// Set stores png for canonical with the configured TTL.
func (c *ImageCache) Set(ctx context.Context, canonical string, png []byte) {
	if c == nil {
		return
	}
	key := Key(canonical)
	if err := c.client.Set(ctx, key, png, c.ttl).Err(); err != nil {
		slog.Warn("image cache set error", "key", key, "error", err)
	}
}

// Purge removes every cached image and returns how many were deleted.
func (c *ImageCache) Purge(ctx context.Context) (int, error) {
	if c == nil {
		return 0, nil
	}
	var (
		cursor  uint64
		deleted int
	)
	for {
		keys, next, err := c.client.Scan(ctx, cursor, keyPrefix+"*", 100).Result()
		if err != nil {
			return deleted, fmt.Errorf("scan: %w", err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return deleted, fmt.Errorf("delete: %w", err)
			}
			deleted += len(keys)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("image cache purged", "deleted", deleted)
	}
	return deleted, nil
}
