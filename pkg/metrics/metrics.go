// Package metrics 提供基于Prometheus的指标收集
//
// 指标分三组：
//   - HTTP：请求总数、耗时分布、处理中请求数（由middleware.Metrics采集）
//   - 业务：图书创建/删除计数、缓存命中率
//   - 基础设施：熔断器状态、消息发布/消费计数
//
// 命名规范：Counter以_total结尾，Histogram以单位结尾（_seconds）。
// 标签只使用有限取值的维度（method、路由模板、状态码），不要用图书ID之类的高基数字段。
//
// 使用示例：
//
//	metrics.InitMetrics()
//	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
//	metrics.IncCounter(metrics.BooksCreatedTotal)
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	initOnce sync.Once

	// HTTPRequestsTotal HTTP请求总数
	// 标签：method、path（路由模板，如/api/v1/books/:id）、status
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数
	HTTPRequestsInProgress prometheus.Gauge

	// BooksCreatedTotal 图书创建总数
	BooksCreatedTotal prometheus.Counter

	// BooksDeletedTotal 图书软删除总数
	BooksDeletedTotal prometheus.Counter

	// PriceRejectedTotal 因价格低于下限被拒绝的更新次数
	PriceRejectedTotal prometheus.Counter

	// CacheRequestsTotal 缓存访问次数
	// 标签：cache（book_detail/genre_statistic）、result（hit/miss/error）
	CacheRequestsTotal *prometheus.CounterVec

	// CircuitBreakerState 熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）
	CircuitBreakerState *prometheus.GaugeVec

	// MessagesPublishedTotal 消息发布总数
	// 标签：exchange、routing_key、result（success/failure）
	MessagesPublishedTotal *prometheus.CounterVec

	// MessagesConsumedTotal 消息消费总数
	// 标签：queue、result（success/failure）
	MessagesConsumedTotal *prometheus.CounterVec
)

// InitMetrics 注册所有指标到默认Registry
// 可重复调用，只有第一次生效
func InitMetrics() {
	initOnce.Do(register)
}

func register() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP请求耗时（秒）",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 3, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)

	BooksCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_books_created_total",
			Help: "图书创建总数",
		},
	)

	BooksDeletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_books_deleted_total",
			Help: "图书软删除总数",
		},
	)

	PriceRejectedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_price_rejected_total",
			Help: "价格低于下限被拒绝的更新次数",
		},
	)

	CacheRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_cache_requests_total",
			Help: "缓存访问次数",
		},
		[]string{"cache", "result"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
		},
		[]string{"name"},
	)

	MessagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_published_total",
			Help: "消息发布总数",
		},
		[]string{"exchange", "routing_key", "result"},
	)

	MessagesConsumedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_consumed_total",
			Help: "消息消费总数",
		},
		[]string{"queue", "result"},
	)
}

// IncCounter 递增Counter，未初始化时忽略
// 测试和命令行子命令可能不调用InitMetrics，业务代码不必关心
func IncCounter(counter prometheus.Counter) {
	if counter != nil {
		counter.Inc()
	}
}

// IncCounterVec 递增CounterVec（带标签）
func IncCounterVec(counter *prometheus.CounterVec, labels prometheus.Labels) {
	if counter != nil {
		counter.With(labels).Inc()
	}
}

// SetGaugeVec 设置GaugeVec的值
func SetGaugeVec(gauge *prometheus.GaugeVec, labels prometheus.Labels, value float64) {
	if gauge != nil {
		gauge.With(labels).Set(value)
	}
}

// ObserveCache 记录一次缓存访问结果
func ObserveCache(cache, result string) {
	IncCounterVec(CacheRequestsTotal, prometheus.Labels{"cache": cache, "result": result})
}
