package main

import (
	"context"
	"crypto/sha256"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tonlabs/ever-sdk-go/pkg/api"
	"github.com/tonlabs/ever-sdk-go/pkg/client"
	"github.com/tonlabs/ever-sdk-go/pkg/config"
	"github.com/tonlabs/ever-sdk-go/pkg/messaging"
	"github.com/tonlabs/ever-sdk-go/pkg/metrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a reference node backend and HTTP API",
	Long: `serve starts the SDK's in-memory reference SdkServices implementation
(pkg/sdkservices/memory) behind the monitor core and exposes it over HTTP.
There is no real blockchain node behind it: messages settle after a fixed
delay, useful for exercising the monitor's API without a live network.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		readonlyAddr, _ := cmd.Flags().GetString("readonly-addr")
		settleAfter, _ := cmd.Flags().GetDuration("settle-after")

		cfg := config.Default()
		cfg.Network.Endpoint = addr
		cfg.Monitor.PollInterval = 200 * time.Millisecond

		resolver := fixedDelayResolver(settleAfter)
		c := client.NewWithMemoryBackend(cfg, resolver, nil)
		defer c.Close(context.Background())

		metrics.SetVersion("0.1.0")
		metrics.RegisterComponent("monitor", true, "ready")
		metrics.RegisterComponent("sdkservices", true, "in-memory reference backend")
		metrics.RegisterComponent("api", true, "ready")

		apiServer := api.NewServer(c)
		health := api.NewHealthServer(c.Monitor())

		collector := client.NewCollector(c.Monitor())
		collector.Start()
		defer collector.Stop()

		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		mux.Handle("/v1/", apiServer.GetHandler())
		mux.Handle("/", health.GetHandler())

		fmt.Printf("tonmonitor serving on %s (settle-after: %s)\n", addr, settleAfter)

		errCh := make(chan error, 1)
		server := &http.Server{Addr: addr, Handler: mux}
		go func() {
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errCh <- err
			}
		}()

		// A second, read-only listener for callers that should only ever
		// observe queue state (dashboards, health probes) and never submit
		// or cancel anything through it.
		roServer := &http.Server{Addr: readonlyAddr, Handler: api.ReadOnlyMiddleware(mux)}
		if readonlyAddr != "" {
			fmt.Printf("tonmonitor serving read-only traffic on %s\n", readonlyAddr)
			go func() {
				if err := roServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- err
				}
			}()
		}

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

		select {
		case <-sigCh:
			fmt.Println("\nShutting down...")
		case err := <-errCh:
			return fmt.Errorf("server error: %w", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if readonlyAddr != "" {
			_ = roServer.Shutdown(ctx)
		}
		return server.Shutdown(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "127.0.0.1:8080", "Address to listen on")
	serveCmd.Flags().String("readonly-addr", "127.0.0.1:8081", "Address for a read-only listener (empty to disable)")
	serveCmd.Flags().Duration("settle-after", 2*time.Second, "Simulated time for a message to settle")
}

// fixedDelayResolver simulates a node that finalizes every submitted
// message on the first poll at least settleAfter after it first sees it.
func fixedDelayResolver(settleAfter time.Duration) func(ctx context.Context, pending []messaging.MonitoredMessage) ([]messaging.MonitoringResult, error) {
	var mu sync.Mutex
	firstSeen := make(map[string]time.Time)

	return func(_ context.Context, pending []messaging.MonitoredMessage) ([]messaging.MonitoringResult, error) {
		now := time.Now()
		var out []messaging.MonitoringResult

		mu.Lock()
		defer mu.Unlock()

		for _, m := range pending {
			hash := fmt.Sprintf("%x", sha256.Sum256(m.Boc))
			seenAt, ok := firstSeen[hash]
			if !ok {
				firstSeen[hash] = now
				continue
			}
			if now.Sub(seenAt) < settleAfter {
				continue
			}
			out = append(out, messaging.MonitoringResult{
				Hash:   hash,
				Status: messaging.StatusFinalized,
				Transaction: &messaging.TransactionInfo{
					Hash: hash,
				},
			})
			delete(firstSeen, hash)
		}
		return out, nil
	}
}
