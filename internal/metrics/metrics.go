package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Report outcomes
const (
	OutcomeSuccess           = "success"
	OutcomeInvalidDate       = "invalid_date"
	OutcomeSourceUnavailable = "source_unavailable"
	OutcomeError             = "error"
)

var (
	// Report Metrics
	ReportGenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "zeko_report_generation_duration_seconds",
			Help:    "Duration of sales report generation in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"scope"},
	)

	ReportsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zeko_reports_total",
			Help: "Total number of sales report requests by outcome",
		},
		[]string{"scope", "outcome"},
	)

	ReportSourceErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zeko_report_source_errors_total",
			Help: "Total number of record source failures by collection",
		},
		[]string{"collection"},
	)

	ReportBookingsProcessed = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "zeko_report_bookings_processed",
			Help:    "Number of bookings folded into a single report",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zeko_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "zeko_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "zeko_api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Auth Metrics
	AuthCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "zeko_auth_cache_hits_total",
			Help: "Total number of credential checks answered by Valkey",
		},
	)

	AuthCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "zeko_auth_cache_misses_total",
			Help: "Total number of credential checks that fell back to Postgres",
		},
	)

	AuthFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zeko_auth_failures_total",
			Help: "Total number of rejected credential checks",
		},
		[]string{"reason"},
	)

	// Messaging Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zeko_events_published_total",
			Help: "Total number of events published to NATS Streaming",
		},
		[]string{"subject", "outcome"},
	)

	EventsConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zeko_events_consumed_total",
			Help: "Total number of events consumed from NATS Streaming",
		},
		[]string{"subject", "outcome"},
	)
)

// ScopeLabel keeps concert ids out of label values
func ScopeLabel(all bool) string {
	if all {
		return "all"
	}
	return "concert"
}

// RecordReportGeneration records a finished report request
func RecordReportGeneration(scope, outcome string, duration time.Duration, bookings int) {
	ReportGenerationDuration.WithLabelValues(scope).Observe(duration.Seconds())
	ReportsGenerated.WithLabelValues(scope, outcome).Inc()
	if outcome == OutcomeSuccess {
		ReportBookingsProcessed.Observe(float64(bookings))
	}
}

// RecordSourceError records which collection failed to load
func RecordSourceError(collection string) {
	ReportSourceErrors.WithLabelValues(collection).Inc()
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

func RecordAuthCache(hit bool) {
	if hit {
		AuthCacheHits.Inc()
	} else {
		AuthCacheMisses.Inc()
	}
}

func RecordAuthFailure(reason string) {
	AuthFailures.WithLabelValues(reason).Inc()
}

func RecordPublish(subject string, err error) {
	EventsPublished.WithLabelValues(subject, outcomeOf(err)).Inc()
}

func RecordConsume(subject string, err error) {
	EventsConsumed.WithLabelValues(subject, outcomeOf(err)).Inc()
}

func outcomeOf(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeSuccess
}
