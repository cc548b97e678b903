package metrics

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTPMetrics records request counts and latencies per route.
type HTTPMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestsActive  prometheus.Gauge
}

func NewHTTPMetrics() *HTTPMetrics {
	return &HTTPMetrics{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "donorapp",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests handled, by route, method and status.",
		}, []string{"route", "method", "status"}),
		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "donorapp",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds, by route and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		requestsActive: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "donorapp",
			Subsystem: "http",
			Name:      "requests_active",
			Help:      "Number of in-flight HTTP requests.",
		}),
	}
}

// GinMiddleware instruments every request. Routes that never matched a
// handler are recorded as "unknown" so unmatched-path floods cannot blow
// up label cardinality.
func (m *HTTPMetrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		m.requestsActive.Inc()

		c.Next()

		m.requestsActive.Dec()

		route := c.FullPath()
		if strings.TrimSpace(route) == "" {
			route = "unknown"
		}
		method := c.Request.Method
		status := statusLabel(c.Writer.Status())

		m.requestsTotal.WithLabelValues(route, method, status).Inc()
		m.requestDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
	}
}

func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}

// QueueMetrics records background job throughput and outcomes.
type QueueMetrics struct {
	jobsEnqueued *prometheus.CounterVec
	jobsHandled  *prometheus.CounterVec
	jobDuration  *prometheus.HistogramVec
}

func NewQueueMetrics() *QueueMetrics {
	return &QueueMetrics{
		jobsEnqueued: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "donorapp",
			Subsystem: "queue",
			Name:      "jobs_enqueued_total",
			Help:      "Jobs enqueued, by topic.",
		}, []string{"topic"}),
		jobsHandled: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "donorapp",
			Subsystem: "queue",
			Name:      "jobs_handled_total",
			Help:      "Jobs processed, by topic and outcome.",
		}, []string{"topic", "outcome"}),
		jobDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "donorapp",
			Subsystem: "queue",
			Name:      "job_duration_seconds",
			Help:      "Job handler latency in seconds, by topic.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"topic"}),
	}
}

func (m *QueueMetrics) JobEnqueued(topic string) {
	m.jobsEnqueued.WithLabelValues(topic).Inc()
}

func (m *QueueMetrics) JobHandled(topic, outcome string, elapsed time.Duration) {
	m.jobsHandled.WithLabelValues(topic, outcome).Inc()
	m.jobDuration.WithLabelValues(topic).Observe(elapsed.Seconds())
}
