package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// dataset fetch layer, the engine client, and the export pipeline.
type Metrics struct {
	// Export pipeline metrics.
	RowsProduced    prometheus.Counter
	StepsCompleted  prometheus.Counter
	ExtractErrors   prometheus.Counter
	TransformErrors prometheus.Counter
	PipelineRunning prometheus.Gauge
	StepDuration    prometheus.Histogram

	// Reconstruction engine client metrics.
	EngineRequests        *prometheus.CounterVec   // labels: endpoint, outcome={success,error}
	EngineRequestDuration *prometheus.HistogramVec // labels: endpoint
	EngineCache           *prometheus.CounterVec   // labels: method, result={hit,miss}

	// Dataset fetch metrics.
	FetchDownloads   prometheus.Counter
	FetchBytes       prometheus.Counter
	FetchCacheHits   prometheus.Counter
	ChecksumFailures prometheus.Counter
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RowsProduced,
		m.StepsCompleted,
		m.ExtractErrors,
		m.TransformErrors,
		m.PipelineRunning,
		m.StepDuration,
		m.EngineRequests,
		m.EngineRequestDuration,
		m.EngineCache,
		m.FetchDownloads,
		m.FetchBytes,
		m.FetchCacheHits,
		m.ChecksumFailures,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RowsProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "plate_etl",
			Name:      "rows_produced_total",
			Help:      "Total convergence rows written to the sink topic.",
		}),
		StepsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "plate_etl",
			Name:      "steps_completed_total",
			Help:      "Total reconstruction time steps exported.",
		}),
		ExtractErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "plate_etl",
			Name:      "extract_errors_total",
			Help:      "Total failed engine extractions.",
		}),
		TransformErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "plate_etl",
			Name:      "transform_errors_total",
			Help:      "Total time steps skipped due to transformation failures.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "plate_etl",
			Name:      "pipeline_running",
			Help:      "1 when the export pipeline is active, 0 when shut down.",
		}),
		StepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "plate_etl",
			Name:      "step_duration_seconds",
			Help:      "Duration of one extract-transform-load cycle for a time step.",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		EngineRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "plate_etl",
			Name:      "engine_requests_total",
			Help:      "Reconstruction engine requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		EngineRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "plate_etl",
			Name:      "engine_request_duration_seconds",
			Help:      "Reconstruction engine request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 15, 60},
		}, []string{"endpoint"}),
		EngineCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "plate_etl",
			Name:      "engine_cache_total",
			Help:      "Engine result cache lookups by method and result.",
		}, []string{"method", "result"}),
		FetchDownloads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "plate_etl",
			Name:      "fetch_downloads_total",
			Help:      "Total dataset files downloaded.",
		}),
		FetchBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "plate_etl",
			Name:      "fetch_bytes_total",
			Help:      "Total bytes downloaded into the dataset cache.",
		}),
		FetchCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "plate_etl",
			Name:      "fetch_cache_hits_total",
			Help:      "Dataset fetches served from the local cache.",
		}),
		ChecksumFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "plate_etl",
			Name:      "fetch_checksum_failures_total",
			Help:      "Downloads rejected because the SHA-256 digest did not match.",
		}),
	}
}
