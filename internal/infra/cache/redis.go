// Package cache provides the Redis-backed cache used for generation results.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"companion/config"
	"companion/internal/domain/lifecycle"
)

const defaultCacheTTL = time.Hour

// Cache is a minimal get/set surface over Redis. A nil *Cache is valid and
// behaves as a permanent miss, so callers need no special handling when the
// cache is not configured.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// New creates the Redis client from the configured URL. Returns nil when no
// Redis URL is configured.
func New(params Params) (*Cache, error) {
	if params.Config.Redis == nil || params.Config.Redis.URL == "" {
		params.Logger.Info("Redis not configured, generation cache disabled")

		return nil, nil
	}

	opts, err := redis.ParseURL(params.Config.Redis.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse redis url")
	}

	client := redis.NewClient(opts)

	ttl := params.Config.Redis.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	params.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			if err := client.Ping(ctx).Err(); err != nil {
				return errors.Wrap(err, "failed to ping redis")
			}

			return nil
		},
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})

	return &Cache{client: client, ttl: ttl}, nil
}

// Get returns the cached value for key, or ok=false on a miss or any error.
func (c *Cache) Get(ctx context.Context, key string) (string, bool) {
	if c == nil || c.client == nil {
		return "", false
	}

	value, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}

	return value, true
}

// Set stores value under key with the configured TTL. Failures are swallowed:
// the cache is advisory and must never fail a request.
func (c *Cache) Set(ctx context.Context, key, value string) {
	if c == nil || c.client == nil {
		return
	}

	_ = c.client.Set(ctx, key, value, c.ttl).Err()
}
