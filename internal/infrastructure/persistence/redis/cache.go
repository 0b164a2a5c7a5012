package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	"github.com/xiebiao/bookcatalog/pkg/circuitbreaker"
	"github.com/xiebiao/bookcatalog/pkg/metrics"
)

// 缓存名称，同时作为指标的cache标签
const (
	cacheBookDetail     = "book_detail"
	cacheGenreStatistic = "genre_statistic"
)

const genreStatisticKey = "catalog:genre:statistic"

// CatalogCache 目录缓存（旁路缓存）
// 设计说明：
// 1. 缓存图书详情（catalog:book:{id}）和分类统计（catalog:genre:statistic），值为JSON
// 2. 缓存是尽力而为的：读写失败只记日志，调用方回落到数据库
// 3. 所有Redis调用都经过熔断器，Redis故障时直接跳过，不等待超时
// 4. client为nil（Redis未启用）时所有操作都是空操作
type CatalogCache struct {
	client   *redis.Client
	breaker  *circuitbreaker.CircuitBreaker
	bookTTL  time.Duration
	statsTTL time.Duration
	log      *zap.Logger
}

// NewCatalogCache 创建目录缓存
func NewCatalogCache(client *redis.Client, cfg *config.Config, log *zap.Logger) *CatalogCache {
	cbCfg := circuitbreaker.DefaultConfig()
	// 缓存未命中是正常结果
	cbCfg.IsSuccessful = func(err error) bool {
		return err == nil || errors.Is(err, redis.Nil)
	}
	cbCfg.OnStateChange = func(name string, from, to circuitbreaker.State) {
		log.Warn("熔断器状态变化",
			zap.String("name", name),
			zap.String("from", from.String()),
			zap.String("to", to.String()),
		)
		metrics.SetGaugeVec(metrics.CircuitBreakerState, map[string]string{"name": name}, float64(to))
	}

	return &CatalogCache{
		client:   client,
		breaker:  circuitbreaker.New("redis", cbCfg),
		bookTTL:  cfg.Redis.BookTTL,
		statsTTL: cfg.Redis.StatsTTL,
		log:      log.Named("cache"),
	}
}

// Enabled Redis是否可用
func (c *CatalogCache) Enabled() bool {
	return c.client != nil
}

// GetBook 读取图书详情缓存，命中时反序列化到dest并返回true
func (c *CatalogCache) GetBook(ctx context.Context, id uint, dest interface{}) bool {
	return c.get(ctx, cacheBookDetail, bookKey(id), dest)
}

// SetBook 写入图书详情缓存
func (c *CatalogCache) SetBook(ctx context.Context, id uint, value interface{}) {
	c.set(ctx, bookKey(id), value, c.bookTTL)
}

// InvalidateBook 删除图书详情缓存
func (c *CatalogCache) InvalidateBook(ctx context.Context, id uint) {
	c.del(ctx, bookKey(id))
}

// GetGenreStatistics 读取分类统计缓存
func (c *CatalogCache) GetGenreStatistics(ctx context.Context, dest interface{}) bool {
	return c.get(ctx, cacheGenreStatistic, genreStatisticKey, dest)
}

// SetGenreStatistics 写入分类统计缓存
func (c *CatalogCache) SetGenreStatistics(ctx context.Context, value interface{}) {
	c.set(ctx, genreStatisticKey, value, c.statsTTL)
}

// InvalidateGenreStatistics 删除分类统计缓存
// 图书创建、删除、恢复以及分类变更后调用
func (c *CatalogCache) InvalidateGenreStatistics(ctx context.Context) {
	c.del(ctx, genreStatisticKey)
}

func (c *CatalogCache) get(ctx context.Context, cache, key string, dest interface{}) bool {
	if c.client == nil {
		return false
	}

	var data []byte
	err := c.breaker.Execute(func() error {
		var err error
		data, err = c.client.Get(ctx, key).Bytes()
		return err
	})

	switch {
	case err == nil:
	case errors.Is(err, redis.Nil):
		metrics.ObserveCache(cache, "miss")
		return false
	case errors.Is(err, circuitbreaker.ErrOpenState):
		metrics.ObserveCache(cache, "error")
		return false
	default:
		metrics.ObserveCache(cache, "error")
		c.log.Warn("读取缓存失败", zap.String("key", key), zap.Error(err))
		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		metrics.ObserveCache(cache, "error")
		c.log.Warn("缓存数据损坏", zap.String("key", key), zap.Error(err))
		c.del(ctx, key)
		return false
	}

	metrics.ObserveCache(cache, "hit")
	return true
}

func (c *CatalogCache) set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if c.client == nil {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		c.log.Warn("序列化缓存数据失败", zap.String("key", key), zap.Error(err))
		return
	}

	err = c.breaker.Execute(func() error {
		return c.client.Set(ctx, key, data, ttl).Err()
	})
	if err != nil {
		c.log.Warn("写入缓存失败", zap.String("key", key), zap.Error(err))
	}
}

func (c *CatalogCache) del(ctx context.Context, key string) {
	if c.client == nil {
		return
	}

	err := c.breaker.Execute(func() error {
		return c.client.Del(ctx, key).Err()
	})
	if err != nil {
		c.log.Warn("删除缓存失败", zap.String("key", key), zap.Error(err))
	}
}

func bookKey(id uint) string {
	return fmt.Sprintf("catalog:book:%d", id)
}
