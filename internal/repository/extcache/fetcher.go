package extcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/duma2005/moviedeck/internal/db"
)

const cacheKeyPrefix = "moviedeck:ext_cache:"

// Fetcher retrieves a raw upstream response for a proxied request.
type Fetcher interface {
	Fetch(ctx context.Context, key string) ([]byte, error)
}

// store is the consumer interface for the response cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedFetcher caches upstream responses in a key-value store.
type CachedFetcher struct {
	inner      Fetcher
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner Fetcher,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedFetcher {
	return &CachedFetcher{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Fetch returns a cached response or calls the inner fetcher.
// Upstream errors are never cached.
func (c *CachedFetcher) Fetch(ctx context.Context, key string) ([]byte, error) {
	ck := c.cacheKey(key)

	if body, ok := c.getFromCache(ctx, ck); ok {
		c.incCache("hit")
		return body, nil
	}

	c.incCache("miss")

	body, err := c.inner.Fetch(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("fetch upstream: %w", err)
	}

	c.putToCache(ctx, ck, body)
	return body, nil
}

func (c *CachedFetcher) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedFetcher) cacheKey(key string) string {
	h := sha256.Sum256([]byte(key))
	return cacheKeyPrefix + hex.EncodeToString(h[:])
}

func (c *CachedFetcher) getFromCache(ctx context.Context, key string) ([]byte, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached response", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}
	return data, true
}

func (c *CachedFetcher) putToCache(ctx context.Context, key string, body []byte) {
	if err := c.store.SetWithTTL(ctx, key, body, c.ttl); err != nil {
		c.logger.Warn("Failed to cache response", zap.String("key", key), zap.Error(err))
	}
}
