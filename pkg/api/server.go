package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/tonlabs/ever-sdk-go/internal/messagemonitor"
	"github.com/tonlabs/ever-sdk-go/pkg/client"
	"github.com/tonlabs/ever-sdk-go/pkg/log"
	"github.com/tonlabs/ever-sdk-go/pkg/messaging"
	"github.com/tonlabs/ever-sdk-go/pkg/metrics"
)

// Server exposes the SDK's message monitor over HTTP+JSON: no generated
// service definition exists for this domain (see DESIGN.md), so this
// follows the same net/http + encoding/json shape as HealthServer rather
// than a gRPC+mTLS server.
type Server struct {
	client *client.Client
	mux    *http.ServeMux
}

// NewServer creates a new API server over c.
func NewServer(c *client.Client) *Server {
	mux := http.NewServeMux()
	s := &Server{client: c, mux: mux}

	mux.HandleFunc("/v1/monitor_messages", s.monitorMessagesHandler)
	mux.HandleFunc("/v1/fetch_next_monitor_results", s.fetchNextMonitorResultsHandler)
	mux.HandleFunc("/v1/get_queue_info", s.getQueueInfoHandler)
	mux.HandleFunc("/v1/cancel_monitor", s.cancelMonitorHandler)

	return s
}

// Start starts the HTTP API server.
func (s *Server) Start(addr string) error {
	server := &http.Server{
		Addr:         addr,
		Handler:      s.mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	log.Info(fmt.Sprintf("API listening on %s", addr))
	return server.ListenAndServe()
}

// GetHandler returns the HTTP handler for embedding in other servers.
func (s *Server) GetHandler() http.Handler {
	return s.mux
}

type monitorMessagesRequest struct {
	Queue    string                       `json:"queue"`
	Messages []messaging.MonitoredMessage `json:"messages"`
}

func (s *Server) monitorMessagesHandler(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	timer := metrics.NewTimer()
	defer timer.ObserveDuration(metrics.APIRequestDuration.WithLabelValues("monitor_messages"))

	var req monitorMessagesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError("monitor_messages", w, http.StatusBadRequest, err)
		return
	}

	if err := s.client.MonitorMessages(r.Context(), req.Queue, req.Messages); err != nil {
		s.respondError("monitor_messages", w, http.StatusInternalServerError, err)
		return
	}
	metrics.MessagesAdmittedTotal.WithLabelValues(req.Queue).Add(float64(len(req.Messages)))
	s.respond("monitor_messages", w, http.StatusOK, struct{}{})
}

type fetchNextMonitorResultsRequest struct {
	Queue string `json:"queue"`
	Mode  string `json:"mode"`
}

func (s *Server) fetchNextMonitorResultsHandler(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	timer := metrics.NewTimer()
	defer timer.ObserveDuration(metrics.FetchLatency)

	var req fetchNextMonitorResultsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError("fetch_next_monitor_results", w, http.StatusBadRequest, err)
		return
	}

	mode, ok := messagemonitor.ParseFetchWaitMode(req.Mode)
	if !ok {
		s.respondError("fetch_next_monitor_results", w, http.StatusBadRequest, fmt.Errorf("unknown wait mode %q", req.Mode))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	results, err := s.client.FetchNextMonitorResults(ctx, req.Queue, mode)
	if err != nil {
		s.respondError("fetch_next_monitor_results", w, http.StatusInternalServerError, err)
		return
	}
	for _, result := range results {
		metrics.MessagesByStatusTotal.WithLabelValues(string(result.Status)).Inc()
	}
	s.respond("fetch_next_monitor_results", w, http.StatusOK, results)
}

func (s *Server) getQueueInfoHandler(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	queue := r.URL.Query().Get("queue")
	s.respond("get_queue_info", w, http.StatusOK, s.client.GetQueueInfo(queue))
}

func (s *Server) cancelMonitorHandler(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	queue := r.URL.Query().Get("queue")
	s.client.CancelMonitor(queue)
	s.respond("cancel_monitor", w, http.StatusOK, struct{}{})
}

// respond writes body as the response and records the request against
// APIRequestsTotal, labeled by route and status.
func (s *Server) respond(route string, w http.ResponseWriter, status int, body any) {
	metrics.APIRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	writeJSON(w, status, body)
}

func (s *Server) respondError(route string, w http.ResponseWriter, status int, err error) {
	metrics.APIRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	writeError(w, status, err)
}

func requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, struct {
		Error string `json:"error"`
	}{Error: err.Error()})
}
