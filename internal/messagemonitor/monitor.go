// Package messagemonitor is the concurrent core of the SDK: it tracks the
// settlement status of outbound blockchain messages across named queues,
// multiplexing a single upstream subscription over every message currently
// being watched, and lets callers poll or await resolved results.
//
// The shape is a registry guarded by an RWMutex, fed by a producer and
// drained by consumers, generalized from a multi-subscriber fan-out to the
// single-slot "something changed" signal this design calls for (see
// notify.go).
package messagemonitor

import (
	"context"
	"fmt"
	"sync"

	"github.com/tonlabs/ever-sdk-go/pkg/log"
	"github.com/tonlabs/ever-sdk-go/pkg/messaging"
	"github.com/tonlabs/ever-sdk-go/pkg/metrics"
)

// QueueInfo reports the size of each partition of one named queue.
type QueueInfo struct {
	Unresolved uint32
	Resolved   uint32
}

// Monitor is the process-wide registry of monitoring queues plus the
// coordinator that keeps a single upstream subscription in sync with the
// union of everything being watched (spec §4.3, §4.4).
type Monitor struct {
	sdk SdkServices

	mu     sync.RWMutex
	queues map[string]*queue

	notify *resolveNotifier

	subMu     sync.Mutex
	activeSub *NetSubscription
}

// New builds a Monitor over the given SDK services port. The returned
// Monitor has no active subscription until the first MonitorMessages call.
func New(sdk SdkServices) *Monitor {
	return &Monitor{
		sdk:    sdk,
		queues: make(map[string]*queue),
		notify: newResolveNotifier(),
	}
}

// MonitorMessages admits messages into the named queue, creating it if this
// is its first submission, then resubscribes so the upstream subscription
// covers the new union of unresolved messages (spec §4.4).
//
// Hashing failures abort the batch: messages already admitted before the
// failing one stay in the queue (spec §7 "simpler: reject on first
// failure, leave earlier items already added").
func (m *Monitor) MonitorMessages(ctx context.Context, queueName string, messages []messaging.MonitoredMessage) error {
	if err := m.admit(ctx, queueName, messages); err != nil {
		return err
	}
	// The registry lock must never be held across the subscribe/unsubscribe
	// await below (spec §5 "Lock discipline"): admit() has already
	// returned, releasing it.
	return m.resubscribe(ctx)
}

func (m *Monitor) admit(ctx context.Context, queueName string, messages []messaging.MonitoredMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	q, ok := m.queues[queueName]
	if !ok {
		q = newQueue()
		m.queues[queueName] = q
	}
	for _, msg := range messages {
		hash, err := m.sdk.MessageHash(ctx, msg)
		if err != nil {
			metrics.HashingFailuresTotal.Inc()
			return fmt.Errorf("messagemonitor: hashing message for queue %q: %w", queueName, err)
		}
		q.addUnresolved(hash, msg)
	}
	log.WithQueue(queueName).Debug().Int("admitted", len(messages)).Msg("messages admitted")
	return nil
}

// FetchNextMonitorResults blocks, per wait mode, until results are ready
// for queueName and returns them, draining the queue's resolved partition.
// If the queue empties entirely as a consequence of this call it is
// removed from the registry (spec §4.4 state machine).
func (m *Monitor) FetchNextMonitorResults(ctx context.Context, queueName string, mode FetchWaitMode) ([]messaging.MonitoringResult, error) {
	for {
		ch := m.notify.snapshot()

		if results, ready := m.tryFetchNext(queueName, mode); ready {
			return results, nil
		}

		select {
		case <-ch:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (m *Monitor) tryFetchNext(queueName string, mode FetchWaitMode) ([]messaging.MonitoringResult, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	q, ok := m.queues[queueName]
	if !ok {
		if mode == NoWait {
			return []messaging.MonitoringResult{}, true
		}
		return nil, false
	}

	results := q.fetchNext(mode)
	if results == nil {
		return nil, false
	}
	if q.isEmpty() {
		delete(m.queues, queueName)
	}
	return results, true
}

// GetQueueInfo reports the current partition sizes of a queue, or (0, 0)
// if it doesn't exist. It never suspends (spec §5).
func (m *Monitor) GetQueueInfo(queueName string) QueueInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	q, ok := m.queues[queueName]
	if !ok {
		return QueueInfo{}
	}
	unresolved, resolved := q.info()
	return QueueInfo{Unresolved: uint32(unresolved), Resolved: uint32(resolved)}
}

// QueueNames lists every currently registered queue. Intended for metrics
// collection and diagnostics; the snapshot can be stale the instant it's
// returned (spec §5, never suspends).
func (m *Monitor) QueueNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.queues))
	for name := range m.queues {
		names = append(names, name)
	}
	return names
}

// CancelMonitor removes a queue from the registry without resubscribing;
// the next admission picks up the reduced union (spec §4.4). Calling it
// twice, or on a queue that never existed, is a no-op.
func (m *Monitor) CancelMonitor(queueName string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.queues, queueName)
	log.WithQueue(queueName).Debug().Msg("monitor cancelled")
}

// Close releases any live upstream subscription. It does not touch queue
// state (spec §5 "Resource release").
func (m *Monitor) Close(ctx context.Context) error {
	m.subMu.Lock()
	sub := m.activeSub
	m.activeSub = nil
	m.subMu.Unlock()

	if sub == nil {
		return nil
	}
	return m.sdk.Unsubscribe(ctx, *sub)
}

// resubscribe is the subscription coordinator's algorithm (spec §4.3):
// snapshot the union of all unresolved messages, open a new subscription
// over it (or none, if the union is empty), swap it into the single slot,
// and release whatever was there before. The brief overlap between install
// and release is deliberate: it avoids a gap where in-flight resolutions
// on the old subscription could be lost.
func (m *Monitor) resubscribe(ctx context.Context) error {
	timer := metrics.NewTimer()
	defer timer.ObserveDuration(metrics.ResubscribeLatency)

	newSub, err := m.subscribe(ctx)
	if err != nil {
		// Subscription failure: the queue keeps its new admissions, the
		// previous subscription (if any) is left running untouched.
		metrics.SubscriptionFailuresTotal.Inc()
		return fmt.Errorf("messagemonitor: resubscribe: %w", err)
	}
	metrics.ResubscriptionsTotal.Inc()

	m.subMu.Lock()
	old := m.activeSub
	m.activeSub = newSub
	m.subMu.Unlock()

	if old != nil {
		if err := m.sdk.Unsubscribe(ctx, *old); err != nil {
			return fmt.Errorf("messagemonitor: releasing previous subscription: %w", err)
		}
	}
	return nil
}

func (m *Monitor) subscribe(ctx context.Context) (*NetSubscription, error) {
	union := m.collectUnresolved()
	if len(union) == 0 {
		return nil, nil
	}

	callback := func(cbCtx context.Context, results []messaging.MonitoringResult, err error) {
		// Callback-path errors have no channel to surface on (spec §7):
		// the monitor stays live on the existing subscription and the
		// results simply never arrive.
		if err != nil {
			return
		}
		m.mu.Lock()
		for _, q := range m.queues {
			q.resolve(results)
		}
		m.mu.Unlock()
		m.notify.broadcast()
	}

	sub, err := m.sdk.SubscribeForRecentExtInMessageStatuses(ctx, union, callback)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// collectUnresolved snapshots the union of every queue's unresolved
// messages by value; the upstream subscribe call owns its own copy of the
// message list (spec §4.3 step 1).
func (m *Monitor) collectUnresolved() []messaging.MonitoredMessage {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []messaging.MonitoredMessage
	for _, q := range m.queues {
		for _, msg := range q.unresolved {
			out = append(out, msg)
		}
	}
	return out
}
