// (c) 2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package metrics exposes the ledger engine's event counters and log-size
// gauge as prometheus collectors built on
// github.com/prometheus/client_golang.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Collector groups every metric the engine reports. A nil *Collector is
// valid and every method becomes a no-op, so engines built with
// MetricsEnabled=false can call through it unconditionally.
type Collector struct {
	eventsTotal *prometheus.CounterVec
	txLogSize   prometheus.Gauge
}

// New creates a Collector and registers its metrics with reg.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		eventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_events_total",
			Help: "Number of ledger events processed, by event type and outcome.",
		}, []string{"type", "outcome"}),
		txLogSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ledger_txlog_size",
			Help: "Current number of records held in the transaction log.",
		}),
	}
	reg.MustRegister(c.eventsTotal, c.txLogSize)
	return c
}

// ObserveEvent records one processed event of the given type, accepted or
// rejected.
func (c *Collector) ObserveEvent(eventType string, accepted bool) {
	if c == nil {
		return
	}
	outcome := "rejected"
	if accepted {
		outcome = "accepted"
	}
	c.eventsTotal.WithLabelValues(eventType, outcome).Inc()
}

// SetTxLogSize publishes the current transaction log size.
func (c *Collector) SetTxLogSize(n int) {
	if c == nil {
		return
	}
	c.txLogSize.Set(float64(n))
}
