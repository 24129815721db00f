/*
Package client provides a Go client library for the ever-sdk-go message
monitor and transaction-processing SDK.

Client wires together internal/messagemonitor (the concurrent monitor core),
pkg/crypto (signing), pkg/abi (call encoding), and pkg/txprocessing (the
send-and-wait helper) behind a single object, so callers don't need to build
and wire those pieces themselves.

# Usage

	cfg := config.Default()
	pair, _ := crypto.GenerateSignKeyPair()
	signer := crypto.NewKeyPairSigner(pair)

	resolver := func(ctx context.Context, pending []messaging.MonitoredMessage) ([]messaging.MonitoringResult, error) {
		// ask the node which of pending have settled
	}

	c := client.NewWithMemoryBackend(cfg, resolver, signer)
	defer c.Close(context.Background())

	if err := c.MonitorMessages(ctx, "payouts", messages); err != nil {
		// handle
	}

	results, err := c.FetchNextMonitorResults(ctx, "payouts", messagemonitor.AtLeastOne)

Sending a single call and waiting for settlement:

	result, err := c.SendAndWait(ctx, abi.FunctionCall{Function: "transfer", Params: params})

# Transports

New accepts any messagemonitor.SdkServices implementation, so a production
build can substitute a real node transport for pkg/sdkservices/memory
without changing any other package.

# Metrics collection

Collector periodically publishes a Monitor's queue depths as pkg/metrics
gauges. It lives here rather than in pkg/metrics because pkg/client already
depends on internal/messagemonitor; putting it in pkg/metrics instead would
force that package to import internal/messagemonitor, which in turn needs
to import pkg/metrics for its own counters:

	collector := client.NewCollector(c.Monitor())
	collector.Start()
	defer collector.Stop()
*/
package client
