package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	"github.com/xiebiao/bookcatalog/pkg/circuitbreaker"
)

type cachedBook struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

func testConfig() *config.Config {
	return &config.Config{Redis: config.RedisConfig{BookTTL: time.Minute, StatsTTL: time.Minute}}
}

func TestCatalogCache_Disabled(t *testing.T) {
	cache := NewCatalogCache(nil, testConfig(), zap.NewNop())
	ctx := context.Background()

	assert.False(t, cache.Enabled())
	cache.SetBook(ctx, 1, cachedBook{ID: 1})

	var got cachedBook
	assert.False(t, cache.GetBook(ctx, 1, &got), "未启用时总是未命中")
	cache.InvalidateBook(ctx, 1)
	cache.InvalidateGenreStatistics(ctx)
}

func TestNewClient_Disabled(t *testing.T) {
	client, cleanup, err := NewClient(testConfig(), zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, client)
	cleanup()
}

func TestCatalogCache_BreakerOpensWhenRedisDown(t *testing.T) {
	// 端口1上没有Redis，每次调用都是连接错误
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	cache := NewCatalogCache(client, testConfig(), zap.NewNop())
	ctx := context.Background()

	var got cachedBook
	for i := 0; i < 5; i++ {
		assert.False(t, cache.GetBook(ctx, 1, &got))
	}
	assert.Equal(t, circuitbreaker.StateOpen, cache.breaker.State(), "连续5次失败后熔断器应打开")

	// 打开后直接跳过Redis
	start := time.Now()
	assert.False(t, cache.GetBook(ctx, 1, &got))
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

// TestCatalogCache_RoundTrip 需要真实Redis：CATALOG_TEST_REDIS_ADDR=localhost:6379
func TestCatalogCache_RoundTrip(t *testing.T) {
	addr := os.Getenv("CATALOG_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("未设置CATALOG_TEST_REDIS_ADDR，跳过Redis测试")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	cache := NewCatalogCache(client, testConfig(), zap.NewNop())
	ctx := context.Background()
	cache.InvalidateBook(ctx, 42)

	var got cachedBook
	assert.False(t, cache.GetBook(ctx, 42, &got))

	cache.SetBook(ctx, 42, cachedBook{ID: 42, Title: "Dune"})
	require.True(t, cache.GetBook(ctx, 42, &got))
	assert.Equal(t, "Dune", got.Title)

	cache.InvalidateBook(ctx, 42)
	assert.False(t, cache.GetBook(ctx, 42, &got))
}
