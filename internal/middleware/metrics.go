package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusMetrics holds all Prometheus metrics
type PrometheusMetrics struct {
	// HTTP request metrics
	HttpRequestsTotal   *prometheus.CounterVec
	HttpRequestDuration *prometheus.HistogramVec
	HttpRequestSize     *prometheus.HistogramVec
	HttpResponseSize    *prometheus.HistogramVec

	// Editing session metrics
	ActiveSessions   prometheus.Gauge
	SessionOpsTotal  *prometheus.CounterVec
	ProjectSaves     *prometheus.CounterVec
	SaveDuration     prometheus.Histogram
	SaveQueueRetries prometheus.Counter

	// Rendering metrics
	RendersTotal   *prometheus.CounterVec
	RenderDuration *prometheus.HistogramVec

	// Data metrics
	RowsInserted *prometheus.CounterVec
	RowsRead     *prometheus.CounterVec

	// Deployment metrics
	DeploymentsTotal *prometheus.CounterVec
	SnapshotSize     prometheus.Histogram
}

var metrics *PrometheusMetrics

// InitMetrics initializes all Prometheus metrics
func InitMetrics() {
	metrics = &PrometheusMetrics{
		// HTTP request metrics
		HttpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bricks_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		HttpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bricks_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		HttpRequestSize: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bricks_http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "endpoint"},
		),
		HttpResponseSize: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bricks_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "endpoint"},
		),

		// Editing session metrics
		ActiveSessions: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "bricks_sessions_active",
				Help: "Number of open editing sessions",
			},
		),
		SessionOpsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bricks_session_operations_total",
				Help: "Total number of session mutations by operation",
			},
			[]string{"operation"},
		),
		ProjectSaves: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bricks_project_saves_total",
				Help: "Total number of project save attempts",
			},
			[]string{"status"},
		),
		SaveDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "bricks_project_save_duration_seconds",
				Help:    "Project save duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		SaveQueueRetries: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "bricks_save_queue_retries_total",
				Help: "Total number of autosave retry attempts",
			},
		),

		// Rendering metrics
		RendersTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bricks_renders_total",
				Help: "Total number of renders by surface",
			},
			[]string{"surface", "status"},
		),
		RenderDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bricks_render_duration_seconds",
				Help:    "Render duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"surface"},
		),

		// Data metrics
		RowsInserted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bricks_rows_inserted_total",
				Help: "Total number of collection rows inserted",
			},
			[]string{"source"},
		),
		RowsRead: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bricks_rows_read_total",
				Help: "Total number of collection rows read for rendering",
			},
			[]string{"provider"},
		),

		// Deployment metrics
		DeploymentsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bricks_deployments_total",
				Help: "Total number of deployment publishes",
			},
			[]string{"status"},
		),
		SnapshotSize: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "bricks_snapshot_size_bytes",
				Help:    "Serialized snapshot size in bytes",
				Buckets: []float64{1000, 10000, 100000, 1000000, 10000000},
			},
		),
	}
}

// GetMetrics returns the initialized metrics
func GetMetrics() *PrometheusMetrics {
	return metrics
}

// PrometheusMiddleware is a Gin middleware that records HTTP metrics
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if metrics == nil {
			c.Next()
			return
		}

		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method
		endpoint := c.FullPath()

		if endpoint == "" {
			endpoint = c.Request.URL.Path
		}

		metrics.HttpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
		metrics.HttpRequestDuration.WithLabelValues(method, endpoint).Observe(duration)

		if c.Request.ContentLength > 0 {
			metrics.HttpRequestSize.WithLabelValues(method, endpoint).Observe(float64(c.Request.ContentLength))
		}

		if c.Writer.Size() > 0 {
			metrics.HttpResponseSize.WithLabelValues(method, endpoint).Observe(float64(c.Writer.Size()))
		}
	}
}

// RecordSessionOp counts one session mutation
func RecordSessionOp(operation string) {
	if metrics == nil {
		return
	}
	metrics.SessionOpsTotal.WithLabelValues(operation).Inc()
}

// SetActiveSessions updates the open session gauge
func SetActiveSessions(count int) {
	if metrics == nil {
		return
	}
	metrics.ActiveSessions.Set(float64(count))
}

// RecordProjectSave records a save attempt and its duration
func RecordProjectSave(status string, duration time.Duration) {
	if metrics == nil {
		return
	}
	metrics.ProjectSaves.WithLabelValues(status).Inc()
	metrics.SaveDuration.Observe(duration.Seconds())
}

// RecordSaveRetry counts one autosave retry
func RecordSaveRetry() {
	if metrics == nil {
		return
	}
	metrics.SaveQueueRetries.Inc()
}

// RecordRender records a render of one surface (canvas, preview, live, deployed)
func RecordRender(surface, status string, duration time.Duration) {
	if metrics == nil {
		return
	}
	metrics.RendersTotal.WithLabelValues(surface, status).Inc()
	metrics.RenderDuration.WithLabelValues(surface).Observe(duration.Seconds())
}

// RecordRowsInserted counts inserted rows by source (api, csv)
func RecordRowsInserted(source string, count int) {
	if metrics == nil || count <= 0 {
		return
	}
	metrics.RowsInserted.WithLabelValues(source).Add(float64(count))
}

// RecordRowsRead counts rows fetched for rendering by provider (store, sql)
func RecordRowsRead(provider string, count int) {
	if metrics == nil || count <= 0 {
		return
	}
	metrics.RowsRead.WithLabelValues(provider).Add(float64(count))
}

// RecordDeployment records a deployment publish
func RecordDeployment(status string, snapshotBytes int) {
	if metrics == nil {
		return
	}
	metrics.DeploymentsTotal.WithLabelValues(status).Inc()
	if snapshotBytes > 0 {
		metrics.SnapshotSize.Observe(float64(snapshotBytes))
	}
}
