// Package sdkerrors gives the four error kinds spec.md §7 names as
// sentinel errors, so callers can classify a failure with errors.Is
// instead of string matching. The monitor core's own errors are wrapped
// with fmt.Errorf around the underlying cause and do not wrap these
// sentinels, so errors.Is matches them only where an error was wrapped with
// one explicitly.
package sdkerrors

import "errors"

var (
	// ErrHashing means the SDK services port could not derive a canonical
	// hash from a message's wire form.
	ErrHashing = errors.New("sdkerrors: hashing failure")

	// ErrSubscription means subscribing to the upstream push feed failed.
	ErrSubscription = errors.New("sdkerrors: subscription failure")

	// ErrUnsubscribe means releasing an upstream subscription failed.
	ErrUnsubscribe = errors.New("sdkerrors: unsubscribe failure")

	// ErrQueueNotFound is returned by callers that need to distinguish an
	// absent queue from an empty one (the core itself never returns this:
	// spec.md treats an absent queue as (0, 0) or an empty NoWait fetch).
	ErrQueueNotFound = errors.New("sdkerrors: queue not found")
)
