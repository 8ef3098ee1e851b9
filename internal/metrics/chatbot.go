package metrics

import "github.com/prometheus/client_golang/prometheus"

// Chatbot and generator Prometheus metrics.
var (
	ChatQuestionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "moviedeck",
			Name:      "chat_questions_total",
			Help:      "Total chat questions by classified intent",
		},
		[]string{"intent"},
	)

	ChatAnswersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "moviedeck",
			Name:      "chat_answers_total",
			Help:      "Total chat answers by source (model or fallback)",
		},
		[]string{"intent", "source"},
	)

	GeneratorRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "moviedeck",
			Name:      "generator_requests_total",
			Help:      "Total generative model requests",
		},
		[]string{"provider", "model", "status"},
	)

	GeneratorRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "moviedeck",
			Name:      "generator_request_duration_seconds",
			Help:      "Generative model request duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		},
		[]string{"provider", "model"},
	)

	ExternalCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "moviedeck",
			Name:      "external_cache_total",
			Help:      "External proxy cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var chatMetricsRegistered bool

// RegisterChatMetrics registers chatbot Prometheus metrics. Must be called once from main.
func RegisterChatMetrics() {
	if chatMetricsRegistered {
		return
	}
	prometheus.MustRegister(ChatQuestionsTotal)
	prometheus.MustRegister(ChatAnswersTotal)
	prometheus.MustRegister(GeneratorRequestsTotal)
	prometheus.MustRegister(GeneratorRequestDuration)
	prometheus.MustRegister(ExternalCacheTotal)
	chatMetricsRegistered = true
}
