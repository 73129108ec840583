// Package metrics exposes Prometheus collectors for the HTTP layer and the
// corpus cache.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "lexalign"

var defaultHTTPDurationBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5}

// Metrics holds every collector the server reports
type Metrics struct {
	gatherer prometheus.Gatherer

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	CorpusRecords      *prometheus.GaugeVec
	CorpusSkippedTotal prometheus.Counter
	CorpusLoadsTotal   *prometheus.CounterVec
	CorpusLoadDuration prometheus.Histogram

	GapsReportedTotal *prometheus.CounterVec
	ValidationIssues  prometheus.Counter
}

// New creates the collectors and registers them with reg
func New(reg *prometheus.Registry) (*Metrics, error) {
	m := &Metrics{gatherer: reg}

	m.HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total HTTP requests by method, route and status code.",
	}, []string{"method", "path", "status_code"})

	m.HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method and route.",
		Buckets:   defaultHTTPDurationBuckets,
	}, []string{"method", "path"})

	m.CorpusRecords = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "corpus_records",
		Help:      "Records in the current corpus snapshot by kind.",
	}, []string{"kind"})

	m.CorpusSkippedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "corpus_skipped_records_total",
		Help:      "Malformed corpus records skipped while loading.",
	})

	m.CorpusLoadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "corpus_loads_total",
		Help:      "Corpus load attempts by result.",
	}, []string{"status"})

	m.CorpusLoadDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "corpus_load_duration_seconds",
		Help:      "Time taken to load and index the corpus.",
		Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
	})

	m.GapsReportedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "evidence_gaps_reported_total",
		Help:      "Significant evidence gaps reported to users by element.",
	}, []string{"element"})

	m.ValidationIssues = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "validation_issues_total",
		Help:      "Concepts rejected by the ontology validator.",
	})

	collectors := []prometheus.Collector{
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.CorpusRecords,
		m.CorpusSkippedTotal,
		m.CorpusLoadsTotal,
		m.CorpusLoadDuration,
		m.GapsReportedTotal,
		m.ValidationIssues,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Middleware records request counts and latency. Unmatched routes are
// grouped under one label to keep cardinality bounded.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method
		m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
	return gin.WrapH(h)
}

// CorpusLoad describes one corpus load for RecordCorpusLoad
type CorpusLoad struct {
	Err         error
	Duration    time.Duration
	Cases       int
	Legislation int
	Sections    int
	Precedents  int
	Skipped     int
}

// RecordCorpusLoad updates the corpus collectors. It is a no-op on a nil
// receiver so callers can run without metrics.
func (m *Metrics) RecordCorpusLoad(l CorpusLoad) {
	if m == nil {
		return
	}
	m.CorpusLoadDuration.Observe(l.Duration.Seconds())
	if l.Err != nil {
		m.CorpusLoadsTotal.WithLabelValues("error").Inc()
		return
	}
	m.CorpusLoadsTotal.WithLabelValues("success").Inc()
	m.CorpusRecords.WithLabelValues("cases").Set(float64(l.Cases))
	m.CorpusRecords.WithLabelValues("legislation").Set(float64(l.Legislation))
	m.CorpusRecords.WithLabelValues("sections").Set(float64(l.Sections))
	m.CorpusRecords.WithLabelValues("precedents").Set(float64(l.Precedents))
	m.CorpusSkippedTotal.Add(float64(l.Skipped))
}

// RecordGap counts a gap reported to a user
func (m *Metrics) RecordGap(element string) {
	if m == nil {
		return
	}
	m.GapsReportedTotal.WithLabelValues(element).Inc()
}

// RecordValidationIssues counts rejected concepts
func (m *Metrics) RecordValidationIssues(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ValidationIssues.Add(float64(n))
}
