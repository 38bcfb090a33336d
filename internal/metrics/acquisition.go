package metrics

import "github.com/prometheus/client_golang/prometheus"

// Text acquisition and ingestion Prometheus metrics.
var (
	AcquisitionRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hopdong",
			Name:      "acquisition_requests_total",
			Help:      "Total number of text recognition runs",
		},
		[]string{"engine", "format", "status"},
	)

	AcquisitionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hopdong",
			Name:      "acquisition_duration_seconds",
			Help:      "Text recognition duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"engine", "format"},
	)

	ContractsIngestedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hopdong",
			Name:      "contracts_ingested_total",
			Help:      "Total contracts ingested, labeled by detected type",
		},
		[]string{"type"},
	)

	ContractsDeletedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "hopdong",
			Name:      "contracts_deleted_total",
			Help:      "Total contracts deleted",
		},
	)

	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hopdong",
			Name:      "search_requests_total",
			Help:      "Total corpus search requests",
		},
		[]string{"kind"}, // "summary" / "sentence"
	)
)

var acqMetricsRegistered bool

// RegisterAcquisitionMetrics registers ingestion metrics. Must be called once from main.
func RegisterAcquisitionMetrics() {
	if acqMetricsRegistered {
		return
	}
	prometheus.MustRegister(AcquisitionRequestsTotal)
	prometheus.MustRegister(AcquisitionDuration)
	prometheus.MustRegister(ContractsIngestedTotal)
	prometheus.MustRegister(ContractsDeletedTotal)
	prometheus.MustRegister(SearchRequestsTotal)
	acqMetricsRegistered = true
}
