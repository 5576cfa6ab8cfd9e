// Package redis implements the volatile link cache on Redis.
package redis

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vadimbarashkov/shortlinks/internal/entity"
	"github.com/vadimbarashkov/shortlinks/pkg/metrics"
)

// DefaultPrefix namespaces every key written by LinkCache.
const DefaultPrefix = "shortlinks:"

const (
	foundMarker   = "+"
	missingMarker = "-"
)

// LinkCache stores cache entries as plain strings: "+<target>" for a known link
// and "-" for a code known to be absent. Redis failures never reach the caller;
// they are logged and reported as a miss or dropped.
type LinkCache struct {
	client redis.UniversalClient
	prefix string
	logger *slog.Logger
}

func NewLinkCache(client redis.UniversalClient, prefix string, logger *slog.Logger) *LinkCache {
	return &LinkCache{
		client: client,
		prefix: prefix,
		logger: logger,
	}
}

func (c *LinkCache) key(code string) string {
	return c.prefix + code
}

func (c *LinkCache) Get(ctx context.Context, code string) (entity.CacheEntry, bool) {
	val, err := c.client.Get(ctx, c.key(code)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.fail("get", code, err)
		}
		return entity.CacheEntry{}, false
	}

	entry, ok := decode(val)
	if !ok {
		c.fail("decode", code, errors.New("malformed cache value"))
		return entity.CacheEntry{}, false
	}

	return entry, true
}

func (c *LinkCache) Set(ctx context.Context, code string, entry entity.CacheEntry, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	if err := c.client.Set(ctx, c.key(code), encode(entry), ttl).Err(); err != nil {
		c.fail("set", code, err)
	}
}

// Ping reports whether Redis is reachable.
func (c *LinkCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *LinkCache) fail(op, code string, err error) {
	metrics.CacheErrors.WithLabelValues(op).Inc()
	c.logger.Warn("cache operation failed",
		slog.String("op", op),
		slog.String("code", code),
		slog.Any("err", err),
	)
}

func encode(entry entity.CacheEntry) string {
	if target, ok := entry.Target(); ok {
		return foundMarker + target
	}
	return missingMarker
}

func decode(val string) (entity.CacheEntry, bool) {
	switch {
	case val == missingMarker:
		return entity.Missing(), true
	case strings.HasPrefix(val, foundMarker) && len(val) > len(foundMarker):
		return entity.Found(strings.TrimPrefix(val, foundMarker)), true
	default:
		return entity.CacheEntry{}, false
	}
}
