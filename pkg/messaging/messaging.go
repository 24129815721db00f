// Package messaging holds the wire-level types the message monitor core
// treats as opaque: a message to watch and the settlement outcome reported
// for it. The monitor only ever looks at the hash; everything else here is
// passthrough for callers (spec §3, §6).
package messaging

import "time"

// Status is the settlement outcome of a watched external-in message.
type Status string

const (
	StatusFinalized Status = "finalized"
	StatusRejected  Status = "rejected"
	StatusTimeout   Status = "timeout"
)

// MonitoredMessage is the input to MonitorMessages: the wire form of a
// message plus whatever correlation data the caller wants to carry through
// to the matching result.
type MonitoredMessage struct {
	// Boc is the opaque wire form (bag of cells) of the external-in message.
	Boc []byte `json:"boc"`
	// WaitUntil is the block time after which the SDK should stop waiting
	// for this particular message and report a timeout.
	WaitUntil time.Time `json:"waitUntil,omitempty"`
	// UserData is an arbitrary correlation payload round-tripped into the
	// matching MonitoringResult; the monitor never inspects it.
	UserData any `json:"userData,omitempty"`
}

// MonitoringResult is the settlement outcome of a previously submitted
// MonitoredMessage, correlated back to it by Hash.
type MonitoringResult struct {
	Hash        string           `json:"hash"`
	Status      Status           `json:"status"`
	Thread      string           `json:"thread,omitempty"`
	Transaction *TransactionInfo `json:"transaction,omitempty"`
	Error       string           `json:"error,omitempty"`
	UserData    any              `json:"userData,omitempty"`
}

// TransactionInfo is the minimal transaction shape the original pipeline
// attaches to a finalized result (ton_client/client/src/processing).
type TransactionInfo struct {
	Hash            string `json:"hash"`
	Aborted         bool   `json:"aborted"`
	ComputeExitCode int32  `json:"computeExitCode"`
}
