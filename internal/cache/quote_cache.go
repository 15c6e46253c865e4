package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/stockpulse/stockpulse-go/internal/database"
	"github.com/stockpulse/stockpulse-go/internal/market"
)

// QuoteCacheEntry represents a cached snapshot with metadata
type QuoteCacheEntry struct {
	Snapshot  market.Snapshot `json:"snapshot"`
	CachedAt  time.Time       `json:"cached_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// QuoteCacheStats tracks cache performance metrics
type QuoteCacheStats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Sets   int64 `json:"sets"`
}

// RedisQuoteCache implements snapshot caching using Redis
type RedisQuoteCache struct {
	redis  *database.RedisClient
	ttl    time.Duration
	prefix string

	statsMu sync.RWMutex
	stats   QuoteCacheStats
}

// NewRedisQuoteCache creates a new Redis-based quote cache
func NewRedisQuoteCache(redisClient *database.RedisClient, ttl time.Duration) *RedisQuoteCache {
	return &RedisQuoteCache{
		redis:  redisClient,
		ttl:    ttl,
		prefix: "quote_cache:",
	}
}

// Get retrieves a cached snapshot for a symbol
func (c *RedisQuoteCache) Get(ctx context.Context, symbol string) (*market.Snapshot, bool) {
	cacheKey := c.prefix + symbol

	data, err := c.redis.Get(ctx, cacheKey)
	if errors.Is(err, redis.Nil) {
		c.recordMiss()
		return nil, false
	}
	if err != nil {
		logrus.WithError(err).WithField("symbol", symbol).Warn("Redis error getting cached snapshot")
		c.recordMiss()
		return nil, false
	}

	var entry QuoteCacheEntry
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		logrus.WithError(err).WithField("symbol", symbol).Warn("Error deserializing cached snapshot")
		// Evict the unreadable entry so it cannot keep failing
		if delErr := c.redis.Delete(ctx, cacheKey); delErr != nil {
			logrus.WithError(delErr).WithField("symbol", symbol).Warn("Redis error evicting cached snapshot")
		}
		c.recordMiss()
		return nil, false
	}

	c.statsMu.Lock()
	c.stats.Hits++
	c.statsMu.Unlock()

	return &entry.Snapshot, true
}

// Set stores a snapshot for a symbol with the configured TTL
func (c *RedisQuoteCache) Set(ctx context.Context, symbol string, snapshot *market.Snapshot) {
	cacheKey := c.prefix + symbol

	now := time.Now()
	entry := QuoteCacheEntry{
		Snapshot:  *snapshot,
		CachedAt:  now,
		ExpiresAt: now.Add(c.ttl),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		logrus.WithError(err).WithField("symbol", symbol).Warn("Error serializing snapshot")
		return
	}

	if err := c.redis.Set(ctx, cacheKey, data, c.ttl); err != nil {
		logrus.WithError(err).WithField("symbol", symbol).Warn("Redis error caching snapshot")
		return
	}

	c.statsMu.Lock()
	c.stats.Sets++
	c.statsMu.Unlock()
}

// Size returns the number of snapshots currently cached
func (c *RedisQuoteCache) Size(ctx context.Context) int {
	keys, err := c.redis.Keys(ctx, c.prefix+"*")
	if err != nil {
		logrus.WithError(err).Warn("Redis error counting cached snapshots")
		return 0
	}
	return len(keys)
}

// GetStats returns current cache statistics
func (c *RedisQuoteCache) GetStats() QuoteCacheStats {
	c.statsMu.RLock()
	defer c.statsMu.RUnlock()
	return c.stats
}

// LogStats logs current cache performance statistics
func (c *RedisQuoteCache) LogStats() {
	stats := c.GetStats()
	total := stats.Hits + stats.Misses
	hitRate := float64(0)
	if total > 0 {
		hitRate = float64(stats.Hits) / float64(total) * 100
	}

	logrus.WithFields(logrus.Fields{
		"hits":     stats.Hits,
		"misses":   stats.Misses,
		"sets":     stats.Sets,
		"hit_rate": hitRate,
	}).Info("Quote cache stats")
}

func (c *RedisQuoteCache) recordMiss() {
	c.statsMu.Lock()
	c.stats.Misses++
	c.statsMu.Unlock()
}
