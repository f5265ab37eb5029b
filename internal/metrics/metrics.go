package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "reward_poller"

var (
	// Registry holds the poller's Prometheus collectors.
	Registry = prometheus.NewRegistry()

	apiRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Reward API calls by endpoint and outcome.",
		},
		[]string{"endpoint", "outcome"},
	)

	apiDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Duration of reward API calls.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
		},
		[]string{"endpoint"},
	)

	claims = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "claims_total",
			Help:      "Successful claims per account.",
		},
		[]string{"account"},
	)

	backoffs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "backoffs_total",
			Help:      "Backoff sleeps per account and reason.",
		},
		[]string{"account", "reason"},
	)

	balance = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "account",
			Name:      "balance",
			Help:      "Last reward balance reported by the server.",
		},
		[]string{"account"},
	)

	nextClaim = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "account",
			Name:      "next_claim_timestamp_seconds",
			Help:      "Server-declared next eligible claim time.",
		},
		[]string{"account"},
	)

	sseClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "sse_clients",
			Help:      "Connected status stream clients.",
		},
	)
)

func init() {
	Registry.MustRegister(
		apiRequests,
		apiDuration,
		claims,
		backoffs,
		balance,
		nextClaim,
		sseClients,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RecordAPICall records one reward API call.
func RecordAPICall(endpoint string, duration time.Duration, success bool) {
	if duration <= 0 {
		duration = time.Millisecond
	}
	outcome := "failure"
	if success {
		outcome = "success"
	}
	apiRequests.WithLabelValues(endpoint, outcome).Inc()
	apiDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func RecordClaim(account string, newBalance float64) {
	claims.WithLabelValues(account).Inc()
	balance.WithLabelValues(account).Set(newBalance)
}

func RecordBackoff(account, reason string) {
	backoffs.WithLabelValues(account, reason).Inc()
}

func SetNextClaim(account string, epochMs int64) {
	nextClaim.WithLabelValues(account).Set(float64(epochMs) / 1000)
}

func SSEClientConnected() {
	sseClients.Inc()
}

func SSEClientDisconnected() {
	sseClients.Dec()
}
