// Package metrics 注册服务的 Prometheus 指标
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// 链接同步次数，按结果区分
	LinkSyncTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wiki_link_sync_total",
		Help: "Total link synchronizations by result",
	}, []string{"result"})

	// 每次写入的链接数
	LinkSyncEdges = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "wiki_link_sync_edges",
		Help:    "Number of edges written per link synchronization",
		Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100, 500},
	})

	// 因目标文章不存在而丢弃的引用数
	LinkSyncDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wiki_link_sync_dropped_total",
		Help: "References dropped because their target article does not exist",
	})

	// 阅读顺序替换次数，按结果区分
	SequenceReplaceTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wiki_sequence_replace_total",
		Help: "Total sequence replacements by result",
	}, []string{"result"})

	// 替换后的顺序长度
	SequenceLength = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "wiki_sequence_length",
		Help:    "Number of articles per replaced sequence",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12), // 1 to 2048
	})

	// 相邻缓存查询次数：hit、miss、error
	NeighborCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wiki_neighbor_cache_total",
		Help: "Neighbor cache lookups by outcome (hit, miss, error)",
	}, []string{"outcome"})

	// 按路由统计的请求耗时
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wiki_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14), // 0.5ms to ~4s
	}, []string{"method", "route", "status"})
)

// Result 错误对应的 result 标签值
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// GinMiddleware 记录请求耗时，未匹配的路由归为同一个标签值
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
