package stats

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/seo-optimizer/page-analyzer/analyzer"
)

const namespace = "page_analyzer"

// Metrics groups the prometheus collectors of the service.
type Metrics struct {
	analysesTotal       *prometheus.CounterVec
	analysisDuration    prometheus.Histogram
	pageLoadTime        prometheus.Histogram
	scores              *prometheus.HistogramVec
	cacheLookups        *prometheus.CounterVec
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		analysesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "analyses_total",
				Help:      "Total number of page analyses by outcome",
			},
			[]string{"outcome"},
		),
		analysisDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "analysis_duration_seconds",
				Help:      "Duration of a full analysis including the fetch",
				Buckets:   prometheus.DefBuckets,
			},
		),
		pageLoadTime: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "page_load_time_seconds",
				Help:      "Load time of analysed pages",
				Buckets:   []float64{0.25, 0.5, 1, 2, 3, 4, 6, 10},
			},
		),
		scores: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "score",
				Help:      "Scores assigned to analysed pages",
				Buckets:   prometheus.LinearBuckets(10, 10, 10),
			},
			[]string{"kind"},
		),
		cacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_lookups_total",
				Help:      "Result cache lookups by result",
			},
			[]string{"result"},
		),
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
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path"},
		),
	}

	reg.MustRegister(
		m.analysesTotal,
		m.analysisDuration,
		m.pageLoadTime,
		m.scores,
		m.cacheLookups,
		m.httpRequestsTotal,
		m.httpRequestDuration,
	)
	return m
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(path, method string, status int, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(path).Observe(duration.Seconds())
}

// Recorder feeds analyzer events into the metrics and the request summary.
// Either sink may be nil.
type Recorder struct {
	metrics *Metrics
	stats   *Statistics
}

var _ analyzer.Recorder = (*Recorder)(nil)

// NewRecorder returns a recorder writing to metrics and stats.
func NewRecorder(metrics *Metrics, stats *Statistics) *Recorder {
	return &Recorder{metrics: metrics, stats: stats}
}

func (r *Recorder) CacheHit() {
	if r.metrics != nil {
		r.metrics.cacheLookups.WithLabelValues("hit").Inc()
	}
	if r.stats != nil {
		r.stats.TrackCache(true)
	}
}

func (r *Recorder) CacheMiss() {
	if r.metrics != nil {
		r.metrics.cacheLookups.WithLabelValues("miss").Inc()
	}
	if r.stats != nil {
		r.stats.TrackCache(false)
	}
}

// ObserveAnalysis records a finished analysis. record is nil when err is set.
func (r *Recorder) ObserveAnalysis(record *analyzer.AnalysisRecord, err error, duration time.Duration) {
	if err != nil {
		url := ""
		var fetchErr *analyzer.FetchError
		if errors.As(err, &fetchErr) {
			url = fetchErr.URL
		}
		if r.metrics != nil {
			r.metrics.analysesTotal.WithLabelValues("fetch_error").Inc()
			r.metrics.analysisDuration.Observe(duration.Seconds())
		}
		if r.stats != nil {
			r.stats.TrackAnalysis(url, 0, true)
		}
		return
	}

	if r.metrics != nil {
		r.metrics.analysesTotal.WithLabelValues("success").Inc()
		r.metrics.analysisDuration.Observe(duration.Seconds())
		r.metrics.pageLoadTime.Observe(record.LoadTime)
		r.metrics.scores.WithLabelValues("seo").Observe(float64(record.SEOScore))
		r.metrics.scores.WithLabelValues("performance").Observe(float64(record.PerformanceScore))
		r.metrics.scores.WithLabelValues("mobile").Observe(float64(record.MobileScore))
	}
	if r.stats != nil {
		r.stats.TrackAnalysis(record.URL, record.LoadTime, false)
	}
}
