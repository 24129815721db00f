/*
Package api exposes the message monitor over HTTP+JSON.

There is no generated service definition for this domain (see DESIGN.md for
why gRPC/protobuf was dropped from the stack), so the external interface is
modeled as a net/http.ServeMux paired with encoding/json, rather than a
generated client stub.

# Endpoints

	POST /v1/monitor_messages              {queue, messages}
	POST /v1/fetch_next_monitor_results     {queue, mode}       -> []MonitoringResult
	GET  /v1/get_queue_info?queue=...       -> QueueInfo
	POST /v1/cancel_monitor?queue=...

	GET  /health    liveness
	GET  /ready     readiness (checks the monitor core is wired up)
	GET  /metrics   Prometheus exposition

# Usage

	c := client.NewWithMemoryBackend(cfg, resolver, signer)
	srv := api.NewServer(c)
	health := api.NewHealthServer(c.Monitor())

	mux := http.NewServeMux()
	mux.Handle("/v1/", srv.GetHandler())
	mux.Handle("/", health.GetHandler())
	http.ListenAndServe(":8080", mux)

ReadOnlyMiddleware restricts a handler to GET/HEAD/OPTIONS, for binding a
second, read-only listener (e.g. a local Unix socket) alongside the
full read-write TCP listener.
*/
package api
