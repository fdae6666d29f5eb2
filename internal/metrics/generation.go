package metrics

import "github.com/prometheus/client_golang/prometheus"

// Generation and document fetch Prometheus metrics.
var (
	GenerationRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "topicd",
			Name:      "generation_requests_total",
			Help:      "Total number of text-generation requests",
		},
		[]string{"provider", "model", "status"},
	)

	GenerationRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "topicd",
			Name:      "generation_request_duration_seconds",
			Help:      "Text-generation request duration in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 40, 80},
		},
		[]string{"provider", "model"},
	)

	GenerationTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "topicd",
			Name:      "generation_tokens_total",
			Help:      "Total generation tokens consumed",
		},
		[]string{"provider", "model", "type"},
	)

	GenerationErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "topicd",
			Name:      "generation_errors_total",
			Help:      "Total text-generation errors",
		},
		[]string{"provider", "model", "error_type"},
	)

	GenerationBudgetTokensRemaining = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "topicd",
			Name:      "generation_budget_tokens_remaining",
			Help:      "Remaining generation token budget",
		},
		[]string{"provider", "period"},
	)

	GenerationCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "topicd",
			Name:      "generation_cache_total",
			Help:      "Generation cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	DocumentFetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "topicd",
			Name:      "document_fetch_total",
			Help:      "Remote document fetches by outcome",
		},
		[]string{"status"}, // "ok" / "error"
	)

	AuthFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "topicd",
			Name:      "auth_failures_total",
			Help:      "Rejected bearer tokens",
		},
	)
)

var pipelineMetricsRegistered bool

// RegisterPipelineMetrics registers generation, fetch and auth metrics. Must be called once from main.
func RegisterPipelineMetrics() {
	if pipelineMetricsRegistered {
		return
	}
	prometheus.MustRegister(GenerationRequestsTotal)
	prometheus.MustRegister(GenerationRequestDuration)
	prometheus.MustRegister(GenerationTokensTotal)
	prometheus.MustRegister(GenerationErrorsTotal)
	prometheus.MustRegister(GenerationBudgetTokensRemaining)
	prometheus.MustRegister(GenerationCacheTotal)
	prometheus.MustRegister(DocumentFetchTotal)
	prometheus.MustRegister(AuthFailuresTotal)
	pipelineMetricsRegistered = true
}
