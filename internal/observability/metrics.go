package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// risk engine.
type Metrics struct {
	RiskRequests    *prometheus.CounterVec // labels: outcome={success,bad_request,upstream_error}
	WatchCycles     prometheus.Counter
	WatchSkipped    prometheus.Counter
	AlertsSent      prometheus.Counter
	AlertsPublished prometheus.Counter
	WatcherRunning  prometheus.Gauge

	// External predictor metrics.
	PredictorInvocations *prometheus.CounterVec // labels: outcome={success,system_error,json_error}
	PredictorDuration    prometheus.Histogram

	// Upstream provider metrics.
	ProviderRequests *prometheus.CounterVec   // labels: api={forecast,elevation,geocode}, outcome={success,error}
	ProviderDuration *prometheus.HistogramVec // labels: api={forecast,elevation,geocode}
	GeocodeCache     *prometheus.CounterVec   // labels: result={hit,miss}

	// Dataset generation metrics.
	DatasetRows      prometheus.Counter
	DatasetLocations *prometheus.CounterVec // labels: outcome={success,error}
}

// NewMetrics creates and registers all engine metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RiskRequests,
		m.WatchCycles,
		m.WatchSkipped,
		m.AlertsSent,
		m.AlertsPublished,
		m.WatcherRunning,
		m.PredictorInvocations,
		m.PredictorDuration,
		m.ProviderRequests,
		m.ProviderDuration,
		m.GeocodeCache,
		m.DatasetRows,
		m.DatasetLocations,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RiskRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "floodguard",
			Name:      "risk_requests_total",
			Help:      "Live risk computations by outcome.",
		}, []string{"outcome"}),
		WatchCycles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "floodguard",
			Name:      "watch_cycles_total",
			Help:      "Completed background watch cycles.",
		}),
		WatchSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "floodguard",
			Name:      "watch_ticks_skipped_total",
			Help:      "Watch ticks skipped because a cycle was still running.",
		}),
		AlertsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "floodguard",
			Name:      "alerts_sent_total",
			Help:      "Notifications delivered to subscribers.",
		}),
		AlertsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "floodguard",
			Name:      "alerts_published_total",
			Help:      "Alert verdicts published to the alerts topic.",
		}),
		WatcherRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "floodguard",
			Name:      "watcher_running",
			Help:      "1 when the background watch is active, 0 when shut down.",
		}),
		PredictorInvocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "floodguard",
			Name:      "predictor_invocations_total",
			Help:      "External predictor invocations by outcome.",
		}, []string{"outcome"}),
		PredictorDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "floodguard",
			Name:      "predictor_duration_seconds",
			Help:      "Wall time of one predictor subprocess invocation.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		ProviderRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "floodguard",
			Name:      "provider_requests_total",
			Help:      "Upstream API requests by endpoint and outcome.",
		}, []string{"api", "outcome"}),
		ProviderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "floodguard",
			Name:      "provider_request_duration_seconds",
			Help:      "Upstream API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"api"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "floodguard",
			Name:      "geocode_cache_total",
			Help:      "Reverse-geocode cache lookups by result.",
		}, []string{"result"}),
		DatasetRows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "floodguard",
			Name:      "dataset_rows_total",
			Help:      "Labeled rows written during dataset generation.",
		}),
		DatasetLocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "floodguard",
			Name:      "dataset_locations_total",
			Help:      "Locations processed during dataset generation by outcome.",
		}, []string{"outcome"}),
	}
}
