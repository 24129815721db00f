package messagemonitor

import "sync"

// resolveNotifier is a single-slot broadcast of a "something resolved"
// flag: no payload crosses it, every waiter just learns that it should
// re-check its own predicate (spec §3 "Resolve-notify channel", §9 "a
// single-slot broadcast of a change flag is sufficient because fetchers
// re-check the predicate on each wake").
//
// It is the channel-closing idiom that stands in for Rust's
// tokio::sync::watch::Sender/Receiver: snapshot() must be called before
// the caller re-checks its predicate so that any broadcast racing with
// the check is not missed (closing the snapshotted channel always wakes
// a waiter even if the broadcast happened microseconds earlier).
type resolveNotifier struct {
	mu sync.Mutex
	ch chan struct{}
}

func newResolveNotifier() *resolveNotifier {
	return &resolveNotifier{ch: make(chan struct{})}
}

// snapshot returns the channel that will be closed on the next broadcast.
// Call it before checking the readiness predicate, not after.
func (n *resolveNotifier) snapshot() <-chan struct{} {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.ch
}

// broadcast wakes every waiter currently holding a snapshot and arms a
// fresh channel for the next round. Safe to call with no waiters.
func (n *resolveNotifier) broadcast() {
	n.mu.Lock()
	old := n.ch
	n.ch = make(chan struct{})
	n.mu.Unlock()
	close(old)
}
