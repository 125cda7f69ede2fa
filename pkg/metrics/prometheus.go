package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	// Backend calls
	APIRequests    *prometheus.CounterVec
	APILatency     *prometheus.HistogramVec
	TokenRefreshes *prometheus.CounterVec

	// Monitoring pipeline
	PageFetches      *prometheus.CounterVec
	GlobalFetchPages prometheus.Counter
	StaleResponses   prometheus.Counter
	Predictions      *prometheus.CounterVec
	StageSaves       *prometheus.CounterVec
	Notifications    *prometheus.CounterVec

	// Gateway
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	ErrorsCount *prometheus.CounterVec
}

// NewMetrics creates new prometheus metrics on the given registerer.
// Pass prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		APIRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Requests sent to the container movement backend",
		}, []string{"endpoint", "status"}),
		APILatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "Latency of backend requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		TokenRefreshes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_refreshes_total",
			Help:      "Silent access token refreshes",
		}, []string{"outcome"}),
		PageFetches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "page_fetches_total",
			Help:      "Monitoring page fetches",
		}, []string{"mode", "outcome"}),
		GlobalFetchPages: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "global_fetch_pages_total",
			Help:      "Pages pulled while building the global search cache",
		}),
		StaleResponses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_responses_total",
			Help:      "Page responses discarded because a newer one was already applied",
		}),
		Predictions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_total",
			Help:      "Prediction requests by stage and outcome",
		}, []string{"stage", "outcome"}),
		StageSaves: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_saves_total",
			Help:      "Stage-scoped saves by stage and outcome",
		}, []string{"stage", "outcome"}),
		Notifications: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Operator notifications by level",
		}, []string{"level"}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Gateway HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Gateway HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		ErrorsCount: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Failed operations by operation name",
		}, []string{"operation"}),
	}
}
