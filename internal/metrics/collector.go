// Package metrics provides internal Prometheus metrics collection.
// This package is internal and should not be imported by external projects.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Collector registers and updates all service metrics.
type Collector struct {
	// HTTP metrics
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Scan metrics
	scansTotal    *prometheus.CounterVec
	scanDuration  prometheus.Histogram
	findingsTotal *prometheus.CounterVec

	// Guard metrics
	injectionsDetected prometheus.Counter
	inputsSanitized    prometheus.Counter
	outputsRefused     prometheus.Counter

	logger *zap.Logger
}

// NewCollector creates a collector registered on reg. A nil reg falls back
// to the default Prometheus registerer.
func NewCollector(namespace string, reg prometheus.Registerer, logger *zap.Logger) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	factory := promauto.With(reg)

	c := &Collector{
		logger: logger.With(zap.String("component", "metrics")),
	}

	c.httpRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	c.httpRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	c.scansTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scans_total",
			Help:      "Total number of leak scans by report severity",
		},
		[]string{"severity"},
	)

	c.scanDuration = factory.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scan_duration_seconds",
			Help:      "Leak scan duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	c.findingsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "findings_total",
			Help:      "Total number of leak findings by category",
		},
		[]string{"category"},
	)

	c.injectionsDetected = factory.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "injections_detected_total",
			Help:      "Total number of detected prompt injection attempts",
		},
	)

	c.inputsSanitized = factory.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inputs_sanitized_total",
			Help:      "Total number of sanitized inputs",
		},
	)

	c.outputsRefused = factory.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outputs_refused_total",
			Help:      "Total number of outputs replaced by the refusal message",
		},
	)

	return c
}

// RecordHTTPRequest records one handled HTTP request.
func (c *Collector) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	c.httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	c.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordScan records one completed leak scan.
func (c *Collector) RecordScan(severity string, findingsByCategory map[string]int, duration time.Duration) {
	c.scansTotal.WithLabelValues(severity).Inc()
	c.scanDuration.Observe(duration.Seconds())
	for category, count := range findingsByCategory {
		c.findingsTotal.WithLabelValues(category).Add(float64(count))
	}
}

// RecordInjection counts a detected injection attempt.
func (c *Collector) RecordInjection() {
	c.injectionsDetected.Inc()
}

// RecordSanitization counts a sanitized input.
func (c *Collector) RecordSanitization() {
	c.inputsSanitized.Inc()
}

// RecordRefusal counts an output replaced by the refusal message.
func (c *Collector) RecordRefusal() {
	c.outputsRefused.Inc()
}
