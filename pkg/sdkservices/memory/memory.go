// Package memory is a reference, non-production implementation of
// messagemonitor.SdkServices. The real transport (an actual blockchain
// node's push subscription) is explicitly out of scope for the monitor
// core (spec.md §1); this is the fake the CLI and the tests of pkg/api and
// pkg/txprocessing exercise instead (the core's own tests use a local fake).
//
// It hashes messages with SHA-256 over their wire form and simulates
// upstream push delivery by polling an injectable Resolver on a timer, a
// ticker-driven sync loop generalized from "sync desired containers" to
// "poll for settled messages".
package memory

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tonlabs/ever-sdk-go/internal/messagemonitor"
	"github.com/tonlabs/ever-sdk-go/pkg/log"
	"github.com/tonlabs/ever-sdk-go/pkg/messaging"
)

// Resolver decides, for a snapshot of still-pending messages, which ones
// have now settled. It is the test/CLI's hook for simulating the upstream
// blockchain node.
type Resolver func(ctx context.Context, pending []messaging.MonitoredMessage) ([]messaging.MonitoringResult, error)

// Service is the reference SdkServices implementation.
type Service struct {
	resolver     Resolver
	pollInterval time.Duration
	logger       zerolog.Logger

	mu   sync.Mutex
	subs map[string]context.CancelFunc
}

// New builds a reference Service. resolver decides which pending messages
// have settled each poll tick; pollInterval controls how often it's asked.
func New(resolver Resolver, pollInterval time.Duration, logger zerolog.Logger) *Service {
	return &Service{
		resolver:     resolver,
		pollInterval: pollInterval,
		logger:       logger.With().Str("component", "sdkservices.memory").Logger(),
		subs:         make(map[string]context.CancelFunc),
	}
}

// MessageHash hashes the raw wire form with SHA-256. A production
// implementation would canonicalize the message first (see pkg/abi.Hash);
// this reference implementation treats Boc as already canonical.
func (s *Service) MessageHash(_ context.Context, msg messaging.MonitoredMessage) (string, error) {
	if len(msg.Boc) == 0 {
		s.logger.Warn().Msg("message has no wire form to hash")
		return "", fmt.Errorf("memory: message has no wire form to hash")
	}
	sum := sha256.Sum256(msg.Boc)
	return fmt.Sprintf("%x", sum), nil
}

// SubscribeForRecentExtInMessageStatuses starts a polling goroutine that
// calls resolver every pollInterval and fans whatever it returns into
// callback.
func (s *Service) SubscribeForRecentExtInMessageStatuses(
	ctx context.Context,
	messages []messaging.MonitoredMessage,
	callback messagemonitor.ResultCallback,
) (messagemonitor.NetSubscription, error) {
	// The poll loop outlives ctx (in the API server, a request context that
	// ends when the handler returns); only Unsubscribe stops it.
	subCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	id := uuid.NewString()

	s.mu.Lock()
	s.subs[id] = cancel
	s.mu.Unlock()

	log.WithSubscription(id).Debug().Int("messages", len(messages)).Msg("subscription opened")

	go s.pollLoop(subCtx, id, messages, callback)

	return messagemonitor.NetSubscription{ID: id}, nil
}

// Unsubscribe stops the polling goroutine for sub. Idempotent: unsubscribing
// an unknown or already-released handle is a no-op, matching spec §4.5.
func (s *Service) Unsubscribe(_ context.Context, sub messagemonitor.NetSubscription) error {
	s.mu.Lock()
	cancel, ok := s.subs[sub.ID]
	delete(s.subs, sub.ID)
	s.mu.Unlock()

	if ok {
		cancel()
		log.WithSubscription(sub.ID).Debug().Msg("subscription released")
	}
	return nil
}

func (s *Service) pollLoop(ctx context.Context, id string, pending []messaging.MonitoredMessage, callback messagemonitor.ResultCallback) {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			results, err := s.resolver(ctx, pending)
			if err != nil {
				log.WithSubscription(id).Warn().Err(err).Msg("resolver failed, dropping this tick")
				continue
			}
			if len(results) == 0 {
				continue
			}
			for _, result := range results {
				log.WithMessageHash(result.Hash).Debug().Str("status", string(result.Status)).Msg("message resolved")
			}
			callback(ctx, results, nil)
		}
	}
}
