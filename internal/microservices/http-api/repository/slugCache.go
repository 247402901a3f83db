package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// SlugCache maps public slugs to tasting ids. The mapping never changes once
// a tasting exists, so entries only expire.
type SlugCache interface {
	Get(ctx context.Context, slug string) (string, bool)
	Set(ctx context.Context, slug, tastingID string)
}

type RedisSlugCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisSlugCache connects to Redis. An empty URL yields a nil cache whose
// methods are no-ops.
func NewRedisSlugCache(ctx context.Context, redisURL, password string, ttl time.Duration, logger *slog.Logger) (*RedisSlugCache, error) {
	if redisURL == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	if password != "" {
		opts.Password = password
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return NewRedisSlugCacheWithClient(rdb, ttl, logger), nil
}

func NewRedisSlugCacheWithClient(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisSlugCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisSlugCache{client: client, ttl: ttl, logger: logger}
}

func slugKey(slug string) string {
	return "tasting:slug:" + slug
}

func (r *RedisSlugCache) Get(ctx context.Context, slug string) (string, bool) {
	if r == nil || r.client == nil {
		return "", false
	}
	id, err := r.client.Get(ctx, slugKey(slug)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("slug cache read failed", "slug", slug, "error", err)
		}
		return "", false
	}
	return id, true
}

func (r *RedisSlugCache) Set(ctx context.Context, slug, tastingID string) {
	if r == nil || r.client == nil {
		return
	}
	if err := r.client.Set(ctx, slugKey(slug), tastingID, r.ttl).Err(); err != nil {
		r.logger.Warn("slug cache write failed", "slug", slug, "error", err)
	}
}

func (r *RedisSlugCache) Close() error {
	if r == nil || r.client == nil {
		return nil
	}
	return r.client.Close()
}
