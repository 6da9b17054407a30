package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"vecstore/internal/adapter/store"
	"vecstore/internal/port"
)

// RedisCache is a best-effort lookaside cache for computed query
// embeddings, keyed by a fingerprint of (model, text) with a fixed
// TTL. It is never authoritative: any backend failure degrades to a
// miss or a no-op, so correctness never depends on it.
type RedisCache struct {
	client *redis.Client // nil when the backend was unreachable at startup
	prefix string
	model  string
	ttl    time.Duration
	logger *zap.Logger
}

// Options configures a RedisCache.
type Options struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
	Model     string
	TTL       time.Duration
	Logger    *zap.Logger
}

// NewRedisCache connects to the backend and verifies it with a ping.
// An unreachable backend is logged and caching is disabled; the
// returned cache is still usable, every operation just no-ops.
func NewRedisCache(opts Options) *RedisCache {
	if opts.TTL <= 0 {
		opts.TTL = 7 * 24 * time.Hour
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	c := &RedisCache{
		prefix: opts.KeyPrefix,
		model:  opts.Model,
		ttl:    opts.TTL,
		logger: opts.Logger,
	}

	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		opts.Logger.Warn("embedding cache unavailable, caching disabled",
			zap.String("addr", opts.Addr),
			zap.Error(err))
		client.Close()
		return c
	}

	c.client = client
	return c
}

// key derives the cache key from the text. The hash is truncated to 16
// hex characters: a deliberate key-compactness trade-off with a
// negligible collision probability for this cache's scale, and a miss
// or collision only costs a regeneration.
func (c *RedisCache) key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return c.prefix + c.model + ":" + hex.EncodeToString(sum[:])[:16]
}

// Lookup returns the cached vector for text, or false on miss, expiry
// or any backend error.
func (c *RedisCache) Lookup(ctx context.Context, text string) ([]float32, bool) {
	if c.client == nil {
		return nil, false
	}

	data, err := c.client.Get(ctx, c.key(text)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Debug("cache lookup failed", zap.Error(err))
		}
		return nil, false
	}

	vec, err := store.DecodeVector(data)
	if err != nil {
		c.logger.Debug("cache entry undecodable", zap.Error(err))
		return nil, false
	}
	return vec, true
}

// Store caches the vector with the configured TTL. Failures are
// swallowed; caching is an optimization, not a requirement.
func (c *RedisCache) Store(ctx context.Context, text string, vec []float32) {
	if c.client == nil {
		return
	}
	if err := c.client.Set(ctx, c.key(text), store.EncodeVector(vec), c.ttl).Err(); err != nil {
		c.logger.Debug("cache store failed", zap.Error(err))
	}
}

// Enabled reports whether the backend was reachable at startup.
func (c *RedisCache) Enabled() bool {
	return c.client != nil
}

// Close releases the client connection.
func (c *RedisCache) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

var _ port.EmbeddingCache = (*RedisCache)(nil)
