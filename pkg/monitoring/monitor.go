package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	RollupRefreshCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classroom_rollup_refreshes_total",
			Help: "Total number of guardian rollup refreshes",
		},
		[]string{"kind", "outcome"},
	)

	RollupRefreshDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "classroom_rollup_refresh_duration_seconds",
			Help:    "Duration of guardian rollup refreshes",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
		},
		[]string{"kind"},
	)

	DegradedChildCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "classroom_rollup_degraded_children_total",
			Help: "Children whose aggregation degraded to an empty result because of a probe or fetch failure",
		},
	)
)

func Init() {
	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(RollupRefreshCounter)
	prometheus.MustRegister(RollupRefreshDuration)
	prometheus.MustRegister(DegradedChildCounter)
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
