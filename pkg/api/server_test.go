package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonlabs/ever-sdk-go/pkg/client"
	"github.com/tonlabs/ever-sdk-go/pkg/config"
	"github.com/tonlabs/ever-sdk-go/pkg/messaging"
	"github.com/tonlabs/ever-sdk-go/pkg/sdkservices/memory"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	resolver := func(_ context.Context, pending []messaging.MonitoredMessage) ([]messaging.MonitoringResult, error) {
		out := make([]messaging.MonitoringResult, len(pending))
		for i, m := range pending {
			hash := sha256Hex(m.Boc)
			out[i] = messaging.MonitoringResult{Hash: hash, Status: messaging.StatusFinalized}
		}
		return out, nil
	}
	cfg := config.Default()
	cfg.Monitor.PollInterval = 10 * time.Millisecond
	c := client.NewWithMemoryBackend(cfg, resolver, nil)
	return NewServer(c)
}

func TestMonitorMessagesThenFetch(t *testing.T) {
	srv := newTestServer(t)

	body, err := json.Marshal(monitorMessagesRequest{
		Queue:    "q1",
		Messages: []messaging.MonitoredMessage{{Boc: []byte("hello")}},
	})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/v1/monitor_messages", bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.monitorMessagesHandler(w, req)
	assert.Equal(t, 200, w.Code)

	fetchBody, err := json.Marshal(fetchNextMonitorResultsRequest{Queue: "q1", Mode: "AtLeastOne"})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	fReq := httptest.NewRequest("POST", "/v1/fetch_next_monitor_results", bytes.NewReader(fetchBody)).WithContext(ctx)
	fw := httptest.NewRecorder()
	srv.fetchNextMonitorResultsHandler(fw, fReq)
	assert.Equal(t, 200, fw.Code)

	var results []messaging.MonitoringResult
	require.NoError(t, json.NewDecoder(fw.Body).Decode(&results))
	require.Len(t, results, 1)
	assert.Equal(t, messaging.StatusFinalized, results[0].Status)
}

func TestFetchNextMonitorResultsRejectsUnknownMode(t *testing.T) {
	srv := newTestServer(t)

	body, _ := json.Marshal(fetchNextMonitorResultsRequest{Queue: "q1", Mode: "bogus"})
	req := httptest.NewRequest("POST", "/v1/fetch_next_monitor_results", bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.fetchNextMonitorResultsHandler(w, req)
	assert.Equal(t, 400, w.Code)
}

func TestGetQueueInfoUnknownQueueIsZero(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest("GET", "/v1/get_queue_info?queue=nope", nil)
	w := httptest.NewRecorder()
	srv.getQueueInfoHandler(w, req)
	assert.Equal(t, 200, w.Code)
}

func TestCancelMonitorRejectsWrongMethod(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest("GET", "/v1/cancel_monitor?queue=q1", nil)
	w := httptest.NewRecorder()
	srv.cancelMonitorHandler(w, req)
	assert.Equal(t, 405, w.Code)
}

func sha256Hex(b []byte) string {
	s := memory.New(nil, time.Second, zerolog.Nop())
	hash, _ := s.MessageHash(context.Background(), messaging.MonitoredMessage{Boc: b})
	return hash
}
