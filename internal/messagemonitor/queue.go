package messagemonitor

import (
	"github.com/tonlabs/ever-sdk-go/pkg/messaging"
)

// queue holds one named queue's two partitions: messages waiting on a
// settlement result, and results already delivered but not yet fetched.
// It has no lock of its own — callers (the registry in monitor.go) hold the
// registry lock around every method here (spec §5 "Registry lock").
type queue struct {
	unresolved map[string]messaging.MonitoredMessage
	resolved   []messaging.MonitoringResult
}

func newQueue() *queue {
	return &queue{
		unresolved: make(map[string]messaging.MonitoredMessage),
	}
}

// addUnresolved inserts msg under hash, overwriting any existing unresolved
// entry for the same hash (spec §4.1: latest submission wins; duplicate
// admission must not corrupt state, not that it must be rejected).
func (q *queue) addUnresolved(hash string, msg messaging.MonitoredMessage) {
	q.unresolved[hash] = msg
}

// resolve moves every result whose hash is tracked as unresolved into the
// resolved partition, in the order given. Results for hashes this queue
// isn't watching are ignored — they belong to another queue, or were
// already fetched from this one.
func (q *queue) resolve(results []messaging.MonitoringResult) {
	for _, r := range results {
		if _, ok := q.unresolved[r.Hash]; !ok {
			continue
		}
		delete(q.unresolved, r.Hash)
		q.resolved = append(q.resolved, r)
	}
}

// fetchNext implements the three wait-mode readiness predicates from spec
// §4.1. A non-nil return always drains (clears) resolved.
func (q *queue) fetchNext(mode FetchWaitMode) []messaging.MonitoringResult {
	switch mode {
	case NoWait:
		return q.drain()
	case AtLeastOne:
		if len(q.resolved) == 0 {
			return nil
		}
		return q.drain()
	case All:
		if len(q.unresolved) != 0 || len(q.resolved) == 0 {
			return nil
		}
		return q.drain()
	default:
		return nil
	}
}

func (q *queue) drain() []messaging.MonitoringResult {
	out := q.resolved
	if out == nil {
		out = []messaging.MonitoringResult{}
	}
	q.resolved = nil
	return out
}

func (q *queue) isEmpty() bool {
	return len(q.unresolved) == 0 && len(q.resolved) == 0
}

func (q *queue) info() (unresolved, resolved int) {
	return len(q.unresolved), len(q.resolved)
}
