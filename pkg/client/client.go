package client

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tonlabs/ever-sdk-go/internal/messagemonitor"
	"github.com/tonlabs/ever-sdk-go/pkg/abi"
	"github.com/tonlabs/ever-sdk-go/pkg/config"
	"github.com/tonlabs/ever-sdk-go/pkg/crypto"
	"github.com/tonlabs/ever-sdk-go/pkg/log"
	"github.com/tonlabs/ever-sdk-go/pkg/messaging"
	"github.com/tonlabs/ever-sdk-go/pkg/sdkservices/memory"
	"github.com/tonlabs/ever-sdk-go/pkg/txprocessing"
)

// Client is the SDK's public entry point: it wires the message monitor
// core, a signer, and transaction-processing helpers behind a single
// connection object, mirroring a typical CLI client shape (one
// struct wrapping a transport, surfaced through typed methods) but without
// gRPC, since there is no generated service to dial (see DESIGN.md).
type Client struct {
	monitor *messagemonitor.Monitor
	tx      *txprocessing.Processor
	signer  crypto.Signer
	cfg     config.ClientConfig
	logger  zerolog.Logger
}

// New builds a Client wired to the given SdkServices transport. Most
// callers reach this through NewWithMemoryBackend in development or through
// a transport adapter in production; New itself stays transport-agnostic so
// alternative SdkServices implementations (e.g. a gRPC or REST backed one)
// can be substituted without touching this package.
func New(cfg config.ClientConfig, sdk messagemonitor.SdkServices, signer crypto.Signer) *Client {
	monitor := messagemonitor.New(sdk)
	return &Client{
		monitor: monitor,
		tx:      txprocessing.New(monitor, signer, log.Logger),
		signer:  signer,
		cfg:     cfg,
		logger:  log.WithComponent("client"),
	}
}

// NewWithMemoryBackend builds a Client over the in-memory reference
// SdkServices (pkg/sdkservices/memory), polling resolver on the interval
// configured by cfg.Monitor.PollInterval. Intended for the CLI and for
// integration tests that don't have a live node to talk to.
func NewWithMemoryBackend(cfg config.ClientConfig, resolver memory.Resolver, signer crypto.Signer) *Client {
	sdk := memory.New(resolver, cfg.Monitor.PollInterval, log.Logger)
	return New(cfg, sdk, signer)
}

// MonitorMessages submits messages for monitoring under queueName.
func (c *Client) MonitorMessages(ctx context.Context, queueName string, messages []messaging.MonitoredMessage) error {
	return c.monitor.MonitorMessages(ctx, queueName, messages)
}

// FetchNextMonitorResults blocks per mode until results are available for
// queueName.
func (c *Client) FetchNextMonitorResults(ctx context.Context, queueName string, mode messagemonitor.FetchWaitMode) ([]messaging.MonitoringResult, error) {
	return c.monitor.FetchNextMonitorResults(ctx, queueName, mode)
}

// GetQueueInfo reports the current partition sizes of queueName.
func (c *Client) GetQueueInfo(queueName string) messagemonitor.QueueInfo {
	return c.monitor.GetQueueInfo(queueName)
}

// CancelMonitor stops tracking queueName.
func (c *Client) CancelMonitor(queueName string) {
	c.monitor.CancelMonitor(queueName)
}

// EncodeCall serializes a contract call into its wire form and hash,
// ready to hand to MonitorMessages or SendAndWait.
func (c *Client) EncodeCall(call abi.FunctionCall) (abi.Message, error) {
	return abi.Encode(call)
}

// SendAndWait encodes, signs (if a Signer was configured), submits, and
// waits for the settlement of a single contract call.
func (c *Client) SendAndWait(ctx context.Context, call abi.FunctionCall) (*messaging.MonitoringResult, error) {
	return c.tx.SendAndWait(ctx, call)
}

// Close releases the monitor's active upstream subscription, if any.
func (c *Client) Close(ctx context.Context) error {
	c.logger.Debug().Msg("closing client")
	return c.monitor.Close(ctx)
}

// WithTimeout builds a context bound by the client's configured request
// timeout, falling back to a sane default if none was configured.
func (c *Client) WithTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	timeout := c.cfg.Network.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return context.WithTimeout(parent, timeout)
}

// Monitor exposes the underlying messagemonitor.Monitor for callers that
// need direct access (e.g. pkg/api's handlers).
func (c *Client) Monitor() *messagemonitor.Monitor {
	return c.monitor
}

// Endpoint returns the configured network endpoint for diagnostics.
func (c *Client) Endpoint() string {
	return c.cfg.Network.Endpoint
}
