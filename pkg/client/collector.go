package client

import (
	"time"

	"github.com/tonlabs/ever-sdk-go/internal/messagemonitor"
	"github.com/tonlabs/ever-sdk-go/pkg/metrics"
)

// Collector periodically publishes a Monitor's queue depths as Prometheus
// gauges, using the same ticker-driven sync loop shape used elsewhere in
// this codebase, generalized from cluster resources to monitor queues.
//
// It lives in pkg/client rather than pkg/metrics so that
// internal/messagemonitor can depend on pkg/metrics directly for its own
// counters without an import cycle through the collector.
type Collector struct {
	monitor *messagemonitor.Monitor
	stopCh  chan struct{}
}

// NewCollector creates a new metrics collector over monitor.
func NewCollector(monitor *messagemonitor.Monitor) *Collector {
	return &Collector{
		monitor: monitor,
		stopCh:  make(chan struct{}),
	}
}

// Start begins collecting metrics every 15 seconds.
func (c *Collector) Start() {
	ticker := time.NewTicker(15 * time.Second)
	go func() {
		c.collect()

		for {
			select {
			case <-ticker.C:
				c.collect()
			case <-c.stopCh:
				ticker.Stop()
				return
			}
		}
	}()
}

// Stop stops the collector.
func (c *Collector) Stop() {
	close(c.stopCh)
}

func (c *Collector) collect() {
	names := c.monitor.QueueNames()
	metrics.QueuesTotal.Set(float64(len(names)))

	for _, name := range names {
		info := c.monitor.GetQueueInfo(name)
		metrics.MessagesUnresolved.WithLabelValues(name).Set(float64(info.Unresolved))
		metrics.MessagesResolved.WithLabelValues(name).Set(float64(info.Resolved))
	}
}
