// Package cache provides an optional Redis-backed cache of correlation
// results.
//
// Alert streams are repetitive: the same rule firing on the same host
// produces byte-identical records for hours. The cache keys each record by a
// content digest and stores the serialized correlation result with a TTL, so
// repeated records skip graph traversal entirely. The engine treats the
// cache as strictly optional: a nil cache, a miss, or a Redis failure all
// fall through to a fresh correlation.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/threatlink-ai/sdk/correlate"
)

// Options configures the Redis connection and cache behavior.
type Options struct {
	// URL is the Redis connection string (e.g., "redis://localhost:6379").
	URL string

	// TTL is the lifetime of a cached correlation. Default: 15 minutes.
	TTL time.Duration

	// Prefix namespaces the cache keys. Default: "threatlink".
	Prefix string

	// ConnectTimeout is the maximum time to wait for connection
	// establishment. Default: 5 seconds.
	ConnectTimeout time.Duration
}

// Cache is a Redis-backed correlation cache. All methods are safe for
// concurrent use.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// New creates a cache client and verifies connectivity with a ping. An
// unreachable Redis is a construction error; callers that want correlation
// to work without Redis simply run without a cache.
func New(opts Options) (*Cache, error) {
	if opts.URL == "" {
		opts.URL = "redis://localhost:6379"
	}
	if opts.TTL <= 0 {
		opts.TTL = 15 * time.Minute
	}
	if opts.Prefix == "" {
		opts.Prefix = "threatlink"
	}
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = 5 * time.Second
	}

	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("cache: parse Redis URL: %w", err)
	}
	client := redis.NewClient(redisOpts)

	ctx, cancel := context.WithTimeout(context.Background(), opts.ConnectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("cache: connect to Redis: %w", err)
	}

	return &Cache{client: client, ttl: opts.TTL, prefix: opts.Prefix}, nil
}

// Key derives the content-addressed cache key for an alert record. The
// record is serialized to canonical JSON (Go sorts map keys when
// marshaling), hashed with SHA-256, and truncated to 96 bits; the same
// record always maps to the same key.
func (c *Cache) Key(record map[string]any) (string, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("cache: marshal record for digest: %w", err)
	}
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:corr:%s", c.prefix, base64.RawURLEncoding.EncodeToString(sum[:12])), nil
}

// Get looks up a cached correlation. A miss returns (nil, nil); only
// transport or decoding failures return an error.
func (c *Cache) Get(ctx context.Context, key string) (*correlate.Incident, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache: get %s: %w", key, err)
	}

	var inc correlate.Incident
	if err := json.Unmarshal(data, &inc); err != nil {
		return nil, fmt.Errorf("cache: decode cached correlation: %w", err)
	}
	return &inc, nil
}

// Set stores a correlation result under the given key with the configured
// TTL.
func (c *Cache) Set(ctx context.Context, key string, inc *correlate.Incident) error {
	data, err := json.Marshal(inc)
	if err != nil {
		return fmt.Errorf("cache: marshal correlation: %w", err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache: set %s: %w", key, err)
	}
	return nil
}

// Ping verifies the Redis connection, for readiness checks.
func (c *Cache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("cache: ping: %w", err)
	}
	return nil
}

// Close releases the Redis connection.
func (c *Cache) Close() error {
	return c.client.Close()
}
