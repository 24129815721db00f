package messagemonitor

import (
	"context"

	"github.com/tonlabs/ever-sdk-go/pkg/messaging"
)

// NetSubscription is an opaque handle to an active upstream subscription.
// The monitor never looks inside it; it only ever holds, swaps, and hands
// it back to SdkServices.Unsubscribe.
type NetSubscription struct {
	ID string
}

// ResultCallback is invoked by the SdkServices implementation, on its own
// executor, to deliver a batch of settlement results. Spec §4.3
// "Callback contract": errors are the SDK's concern and the monitor does
// not retry; a callback invocation that observed an upstream error simply
// passes a non-nil err and delivers no results, which the coordinator drops.
type ResultCallback func(ctx context.Context, results []messaging.MonitoringResult, err error)

// SdkServices is the external collaborator spec §1 calls out of scope for
// the monitor core: everything the monitor needs from the transport layer,
// specified here only as an interface.
type SdkServices interface {
	// MessageHash computes the canonical, deterministic primary key for a
	// monitored message from its wire form.
	MessageHash(ctx context.Context, msg messaging.MonitoredMessage) (string, error)

	// SubscribeForRecentExtInMessageStatuses opens an upstream subscription
	// that will invoke callback, possibly many times, with batches of
	// settlement results for (a subset of) messages. Returns the new
	// subscription's handle.
	SubscribeForRecentExtInMessageStatuses(
		ctx context.Context,
		messages []messaging.MonitoredMessage,
		callback ResultCallback,
	) (NetSubscription, error)

	// Unsubscribe releases an upstream subscription. Idempotent.
	Unsubscribe(ctx context.Context, sub NetSubscription) error
}
