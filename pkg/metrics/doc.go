/*
Package metrics provides Prometheus metrics collection and exposition for the
SDK's message monitor and API surface.

Metrics are registered at package init via prometheus.MustRegister and exposed
over HTTP for scraping (see Handler).

# Metric Categories

Queue metrics:
  - QueuesTotal: active monitor queues
  - MessagesUnresolved / MessagesResolved: per-queue partition sizes
  - MessagesAdmittedTotal / MessagesByStatusTotal: admission and settlement counters

Subscription metrics:
  - ResubscriptionsTotal, SubscriptionFailuresTotal, HashingFailuresTotal

Latency metrics:
  - FetchLatency: time blocked inside FetchNextMonitorResults
  - ResubscribeLatency: time spent tearing down and reopening a net subscription
  - TransactionSettlementDuration: SendAndWait submission-to-settlement time

API metrics:
  - APIRequestsTotal, APIRequestDuration

# Usage

	timer := metrics.NewTimer()
	results, err := monitor.FetchNextMonitorResults(ctx, queue, mode)
	timer.ObserveDuration(metrics.FetchLatency)

pkg/client.Collector periodically publishes a Monitor's queue depths into
QueuesTotal/MessagesUnresolved/MessagesResolved (it lives in pkg/client
rather than here so internal/messagemonitor can depend on this package
directly for its own counters without an import cycle through the
collector):

	collector := client.NewCollector(monitor)
	collector.Start()
	defer collector.Stop()

Exposing the registry:

	http.Handle("/metrics", metrics.Handler())

# Health

Package metrics also tracks component health via RegisterComponent/
UpdateComponent and exposes it through HealthHandler, ReadyHandler, and
LivenessHandler. pkg/api's HealthServer serves its own /health and /ready
handlers and does not mount these.
*/
package metrics
