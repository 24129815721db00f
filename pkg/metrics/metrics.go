package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Queue metrics
	QueuesTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "eversdk_monitor_queues_total",
			Help: "Total number of active monitor queues",
		},
	)

	MessagesUnresolved = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "eversdk_monitor_messages_unresolved",
			Help: "Number of unresolved messages per queue",
		},
		[]string{"queue"},
	)

	MessagesResolved = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "eversdk_monitor_messages_resolved",
			Help: "Number of resolved, not-yet-fetched messages per queue",
		},
		[]string{"queue"},
	)

	MessagesAdmittedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eversdk_monitor_messages_admitted_total",
			Help: "Total number of messages admitted to a queue",
		},
		[]string{"queue"},
	)

	MessagesByStatusTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eversdk_monitor_messages_resolved_total",
			Help: "Total number of messages resolved, by final status",
		},
		[]string{"status"},
	)

	// Subscription metrics
	ResubscriptionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "eversdk_monitor_resubscriptions_total",
			Help: "Total number of times the monitor resubscribed to the net",
		},
	)

	SubscriptionFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "eversdk_monitor_subscription_failures_total",
			Help: "Total number of subscription attempts that failed",
		},
	)

	HashingFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "eversdk_monitor_hashing_failures_total",
			Help: "Total number of messages rejected due to hashing failure",
		},
	)

	// Latency metrics
	FetchLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "eversdk_monitor_fetch_latency_seconds",
			Help:    "Time spent waiting inside FetchNextMonitorResults",
			Buckets: prometheus.DefBuckets,
		},
	)

	ResubscribeLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "eversdk_monitor_resubscribe_latency_seconds",
			Help:    "Time taken to tear down and reopen a net subscription",
			Buckets: prometheus.DefBuckets,
		},
	)

	TransactionSettlementDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "eversdk_txprocessing_settlement_duration_seconds",
			Help:    "Time from SendAndWait submission to settlement",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	// API metrics
	APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eversdk_api_requests_total",
			Help: "Total number of API requests by method and status",
		},
		[]string{"method", "status"},
	)

	APIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "eversdk_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)
)

func init() {
	prometheus.MustRegister(QueuesTotal)
	prometheus.MustRegister(MessagesUnresolved)
	prometheus.MustRegister(MessagesResolved)
	prometheus.MustRegister(MessagesAdmittedTotal)
	prometheus.MustRegister(MessagesByStatusTotal)
	prometheus.MustRegister(ResubscriptionsTotal)
	prometheus.MustRegister(SubscriptionFailuresTotal)
	prometheus.MustRegister(HashingFailuresTotal)
	prometheus.MustRegister(FetchLatency)
	prometheus.MustRegister(ResubscribeLatency)
	prometheus.MustRegister(TransactionSettlementDuration)
	prometheus.MustRegister(APIRequestsTotal)
	prometheus.MustRegister(APIRequestDuration)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for timing operations
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the duration to a histogram
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	duration := time.Since(t.start).Seconds()
	histogram.Observe(duration)
}

// ObserveDurationVec records the duration to a histogram vec with labels
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	duration := time.Since(t.start).Seconds()
	histogram.WithLabelValues(labels...).Observe(duration)
}

// Duration returns the elapsed time since timer started
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
