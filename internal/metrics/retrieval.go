package metrics

import "github.com/prometheus/client_golang/prometheus"

// Retrieval and generation Prometheus metrics.
var (
	RetrievalRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "askora",
			Name:      "retrieval_requests_total",
			Help:      "Total retrieval requests by modality",
		},
		[]string{"mode", "status"}, // mode: text/image, status: success/degraded/error
	)

	RetrievalCandidates = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "askora",
			Name:      "retrieval_candidates",
			Help:      "Candidate count returned per retrieval",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
		},
		[]string{"mode"},
	)

	GenerationRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "askora",
			Name:      "generation_requests_total",
			Help:      "Total answer generation requests",
		},
		[]string{"status"}, // success/fallback
	)

	GenerationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "askora",
			Name:      "generation_duration_seconds",
			Help:      "Answer generation duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)
)

var retrievalMetricsRegistered bool

// RegisterRetrievalMetrics registers retrieval metrics. Must be called once from main.
func RegisterRetrievalMetrics() {
	if retrievalMetricsRegistered {
		return
	}
	prometheus.MustRegister(RetrievalRequestsTotal)
	prometheus.MustRegister(RetrievalCandidates)
	prometheus.MustRegister(GenerationRequestsTotal)
	prometheus.MustRegister(GenerationDuration)
	retrievalMetricsRegistered = true
}
