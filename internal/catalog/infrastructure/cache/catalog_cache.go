// Package cache puts a Redis read-through cache in front of a catalog reader.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	catalog "energy-simulator/internal/catalog/domain"
	"energy-simulator/internal/observability/metrics"

	"github.com/redis/go-redis/v9"
)

const (
	defaultTTL    = 5 * time.Minute
	defaultPrefix = "simulator:catalog:"

	providersKey = "providers"
	discountsKey = "discounts"
)

// Client is the subset of *redis.Client the cache needs.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// CatalogCache serves catalog reads from Redis, falling back to the source.
// Redis failures are logged and never fail a read.
type CatalogCache struct {
	client Client
	source catalog.Reader
	ttl    time.Duration
	prefix string
	logger *log.Logger
}

// Option configures the cache.
type Option func(*CatalogCache)

// WithTTL overrides how long snapshots live.
func WithTTL(ttl time.Duration) Option {
	return func(c *CatalogCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithPrefix overrides the key prefix.
func WithPrefix(prefix string) Option {
	return func(c *CatalogCache) {
		if prefix != "" {
			c.prefix = prefix
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *CatalogCache) {
		c.logger = logger
	}
}

// NewCatalogCache constructs a cache.
func NewCatalogCache(client Client, source catalog.Reader, opts ...Option) (*CatalogCache, error) {
	if client == nil {
		return nil, errors.New("catalog cache: nil client")
	}
	if source == nil {
		return nil, errors.New("catalog cache: nil source")
	}
	c := &CatalogCache{client: client, source: source, ttl: defaultTTL, prefix: defaultPrefix}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListActiveProviders returns the cached providers or loads them.
func (c *CatalogCache) ListActiveProviders(ctx context.Context) ([]catalog.Provider, error) {
	return readThrough(ctx, c, providersKey, c.source.ListActiveProviders)
}

// ListDiscountConfigs returns the cached discount configs or loads them.
func (c *CatalogCache) ListDiscountConfigs(ctx context.Context) ([]catalog.DiscountConfig, error) {
	return readThrough(ctx, c, discountsKey, c.source.ListDiscountConfigs)
}

// Invalidate drops both snapshots, e.g. after a catalog seed.
func (c *CatalogCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, c.prefix+providersKey, c.prefix+discountsKey).Err()
}

func readThrough[T any](ctx context.Context, c *CatalogCache, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	fullKey := c.prefix + key
	raw, err := c.client.Get(ctx, fullKey).Bytes()
	switch {
	case err == nil:
		var cached []T
		jsonErr := json.Unmarshal(raw, &cached)
		if jsonErr == nil {
			metrics.IncCatalogCache(true)
			return cached, nil
		}
		c.logf("catalog cache decode %s error: %v", fullKey, jsonErr)
	case errors.Is(err, redis.Nil):
	default:
		c.logf("catalog cache get %s error: %v", fullKey, err)
	}
	metrics.IncCatalogCache(false)

	items, err := load(ctx)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(items)
	if err != nil {
		c.logf("catalog cache encode %s error: %v", fullKey, err)
		return items, nil
	}
	if err := c.client.Set(ctx, fullKey, payload, c.ttl).Err(); err != nil {
		c.logf("catalog cache set %s error: %v", fullKey, err)
	}
	return items, nil
}

func (c *CatalogCache) logf(format string, args ...any) {
	if c.logger != nil {
		c.logger.Printf(format, args...)
	}
}
