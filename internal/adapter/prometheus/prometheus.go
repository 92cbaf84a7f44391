package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type PrometheusAdapter struct {
	registry            *prometheus.Registry
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	achievementsAwarded *prometheus.CounterVec
	remindersCreated    prometheus.Counter
}

// NewPrometheusAdapter registers its collectors on a private registry so that
// several adapters can coexist in one process.
func NewPrometheusAdapter() *PrometheusAdapter {
	p := &PrometheusAdapter{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"path", "method", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path", "method"},
		),
		achievementsAwarded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "achievements_awarded_total",
				Help: "Total number of achievements granted",
			},
			[]string{"achievement"},
		),
		remindersCreated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "maintenance_reminders_created_total",
				Help: "Total number of maintenance reminder notifications created",
			},
		),
	}

	p.registry.MustRegister(
		p.httpRequestsTotal,
		p.httpRequestDuration,
		p.achievementsAwarded,
		p.remindersCreated,
	)
	return p
}

// RecordMetrics uses the route template, not the raw path, to keep label
// cardinality bounded.
func (p *PrometheusAdapter) RecordMetrics(c *gin.Context, start time.Time) {
	path := c.FullPath()
	if path == "" {
		path = "unmatched"
	}
	method := c.Request.Method

	p.httpRequestsTotal.WithLabelValues(path, method, strconv.Itoa(c.Writer.Status())).Inc()
	p.httpRequestDuration.WithLabelValues(path, method).Observe(time.Since(start).Seconds())
}

func (p *PrometheusAdapter) RecordAchievementAwarded(achievementID string) {
	p.achievementsAwarded.WithLabelValues(achievementID).Inc()
}

func (p *PrometheusAdapter) RecordRemindersCreated(count int) {
	if count <= 0 {
		return
	}
	p.remindersCreated.Add(float64(count))
}

func (p *PrometheusAdapter) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}
