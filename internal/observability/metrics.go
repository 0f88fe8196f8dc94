package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// forecasting service.
type Metrics struct {
	DashboardRequests prometheus.Counter
	PipelineErrors    *prometheus.CounterVec // labels: stage={load,aggregate,diagnostic,forecast}
	PipelineDuration  prometheus.Histogram
	FitDuration       prometheus.Histogram

	// Dataset cache metrics.
	DatasetReloads   prometheus.Counter
	DatasetCacheHits prometheus.Counter
	IncidentsLoaded  prometheus.Gauge
	RecordsDropped   prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		DashboardRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "spillcast",
			Name:      "dashboard_requests_total",
			Help:      "Total dashboard API requests received.",
		}),
		PipelineErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "spillcast",
			Name:      "pipeline_errors_total",
			Help:      "Pipeline failures by stage.",
		}, []string{"stage"}),
		PipelineDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "spillcast",
			Name:      "pipeline_duration_seconds",
			Help:      "Duration of a complete aggregate-diagnose-forecast invocation.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}),
		FitDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "spillcast",
			Name:      "fit_duration_seconds",
			Help:      "Duration of the ARIMA fit and forecast step.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		DatasetReloads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "spillcast",
			Name:      "dataset_reloads_total",
			Help:      "Times the incident CSV was read from disk.",
		}),
		DatasetCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "spillcast",
			Name:      "dataset_cache_hits_total",
			Help:      "Dataset loads served from the in-memory cache.",
		}),
		IncidentsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "spillcast",
			Name:      "incidents_loaded",
			Help:      "Normalized incident records in the current dataset.",
		}),
		RecordsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "spillcast",
			Name:      "records_dropped_total",
			Help:      "CSV rows dropped during normalization.",
		}),
	}

	prometheus.MustRegister(
		m.DashboardRequests,
		m.PipelineErrors,
		m.PipelineDuration,
		m.FitDuration,
		m.DatasetReloads,
		m.DatasetCacheHits,
		m.IncidentsLoaded,
		m.RecordsDropped,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		DashboardRequests: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "spillcast", Name: "dashboard_requests_total"}),
		PipelineErrors:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "spillcast", Name: "pipeline_errors_total"}, []string{"stage"}),
		PipelineDuration:  prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "spillcast", Name: "pipeline_duration_seconds"}),
		FitDuration:       prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "spillcast", Name: "fit_duration_seconds"}),
		DatasetReloads:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "spillcast", Name: "dataset_reloads_total"}),
		DatasetCacheHits:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "spillcast", Name: "dataset_cache_hits_total"}),
		IncidentsLoaded:   prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "spillcast", Name: "incidents_loaded"}),
		RecordsDropped:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "spillcast", Name: "records_dropped_total"}),
	}
}
