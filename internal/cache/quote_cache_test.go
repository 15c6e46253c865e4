package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockpulse/stockpulse-go/internal/database"
	"github.com/stockpulse/stockpulse-go/internal/market"
)

// setupTestRedis creates a test Redis instance using miniredis
func setupTestRedis(t *testing.T) (*database.RedisClient, func()) {
	s, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: s.Addr(),
	})

	cleanup := func() {
		client.Close()
		s.Close()
	}

	return &database.RedisClient{Client: client}, cleanup
}

func testSnapshot(symbol string, price float64) *market.Snapshot {
	return &market.Snapshot{
		Quote: market.Quote{
			Symbol: symbol,
			Name:   symbol + " Inc.",
			Price:  price,
			Sector: "Equity",
		},
		Closes: []float64{price - 2, price - 1, price},
		Highs:  []float64{price - 1, price, price + 1},
		Lows:   []float64{price - 3, price - 2, price - 1},
	}
}

func TestNewRedisQuoteCache(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	ttl := 5 * time.Minute
	cache := NewRedisQuoteCache(client, ttl)

	assert.NotNil(t, cache)
	assert.Equal(t, client, cache.redis)
	assert.Equal(t, ttl, cache.ttl)
	assert.Equal(t, "quote_cache:", cache.prefix)
	assert.Equal(t, QuoteCacheStats{}, cache.GetStats())
}

func TestRedisQuoteCache_SetAndGet(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	cache := NewRedisQuoteCache(client, 5*time.Minute)
	ctx := context.Background()

	cache.Set(ctx, "AAPL", testSnapshot("AAPL", 190.0))

	retrieved, found := cache.Get(ctx, "AAPL")
	require.True(t, found)
	assert.Equal(t, "AAPL", retrieved.Quote.Symbol)
	assert.InDelta(t, 190.0, retrieved.Quote.Price, 1e-9)
	assert.Equal(t, []float64{188, 189, 190}, retrieved.Closes)

	stats := cache.GetStats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(0), stats.Misses)
	assert.Equal(t, int64(1), stats.Sets)
}

func TestRedisQuoteCache_Get_Miss(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	cache := NewRedisQuoteCache(client, 5*time.Minute)

	_, found := cache.Get(context.Background(), "MSFT")
	assert.False(t, found)

	stats := cache.GetStats()
	assert.Equal(t, int64(1), stats.Misses)
}

func TestRedisQuoteCache_Get_CorruptedData(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	cache := NewRedisQuoteCache(client, 5*time.Minute)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "quote_cache:BAD", "not json", time.Minute))

	_, found := cache.Get(ctx, "BAD")
	assert.False(t, found)

	stats := cache.GetStats()
	assert.Equal(t, int64(1), stats.Misses)

	// The unreadable entry was evicted on first read
	_, err := client.Get(ctx, "quote_cache:BAD")
	assert.ErrorIs(t, err, redis.Nil)
}

func TestRedisQuoteCache_TTLExpiry(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()
	fastClient := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer fastClient.Close()

	cache := NewRedisQuoteCache(&database.RedisClient{Client: fastClient}, 100*time.Millisecond)
	ctx := context.Background()

	cache.Set(ctx, "TSLA", testSnapshot("TSLA", 250.0))
	_, found := cache.Get(ctx, "TSLA")
	assert.True(t, found)

	s.FastForward(time.Second)

	_, found = cache.Get(ctx, "TSLA")
	assert.False(t, found)
}

func TestRedisQuoteCache_Size(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	cache := NewRedisQuoteCache(client, 5*time.Minute)
	ctx := context.Background()

	assert.Equal(t, 0, cache.Size(ctx))

	cache.Set(ctx, "AAPL", testSnapshot("AAPL", 190.0))
	cache.Set(ctx, "MSFT", testSnapshot("MSFT", 420.0))
	cache.Set(ctx, "AAPL", testSnapshot("AAPL", 191.0))

	assert.Equal(t, 2, cache.Size(ctx))

	// Unrelated keys are not counted
	require.NoError(t, client.Set(ctx, "other:KEY", "x", time.Minute))
	assert.Equal(t, 2, cache.Size(ctx))
}
