// Package cache provides an optional read-through cache for project client
// keys. The embed endpoint resolves a DSN on every request; caching the
// resolved key in Redis keeps that lookup off the database.
//
// The cache is fail-open: any Redis error is logged and treated as a miss,
// so an unavailable Redis degrades latency but never availability.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/tbourn/go-errpage-embed/internal/domain"
)

// KeyCache stores resolved project keys by (project id, public key).
type KeyCache interface {
	Get(ctx context.Context, projectID uint, publicKey string) (*domain.ProjectKey, bool)
	Set(ctx context.Context, key *domain.ProjectKey)
}

// Noop is a KeyCache that never hits. It is used when REDIS_URL is empty.
type Noop struct{}

func (Noop) Get(context.Context, uint, string) (*domain.ProjectKey, bool) { return nil, false }
func (Noop) Set(context.Context, *domain.ProjectKey)                      {}

// Redis is a KeyCache backed by a go-redis client.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis wraps an existing client. ttl <= 0 falls back to one minute.
func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Redis{client: client, ttl: ttl}
}

// Open parses a redis:// URL and returns a cache bound to it. The server is
// pinged once; a failed ping is logged but does not fail startup.
func Open(ctx context.Context, redisURL string, ttl time.Duration) (*Redis, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	c := NewRedis(redis.NewClient(opts), ttl)
	if err := c.client.Ping(ctx).Err(); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("addr", opts.Addr).Msg("redis unreachable; key cache will miss until it recovers")
	}
	return c, nil
}

// Key returns the Redis key for a project key.
func Key(projectID uint, publicKey string) string {
	return fmt.Sprintf("projectkey:%d:%s", projectID, publicKey)
}

// Get returns the cached key, if any.
func (c *Redis) Get(ctx context.Context, projectID uint, publicKey string) (*domain.ProjectKey, bool) {
	b, err := c.client.Get(ctx, Key(projectID, publicKey)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("key cache get failed")
		}
		return nil, false
	}
	var k domain.ProjectKey
	if err := json.Unmarshal(b, &k); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("key cache entry corrupt")
		return nil, false
	}
	return &k, true
}

// Set stores key with the configured TTL. Errors are logged and dropped.
func (c *Redis) Set(ctx context.Context, key *domain.ProjectKey) {
	if key == nil {
		return
	}
	b, err := json.Marshal(key)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, Key(key.ProjectID, key.PublicKey), b, c.ttl).Err(); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("key cache set failed")
	}
}

// Ping reports whether Redis answers.
func (c *Redis) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the underlying connection pool.
func (c *Redis) Close() error {
	return c.client.Close()
}
