// Package metrics registers Kolibri's tick-level Prometheus collectors.
// No HTTP exporter lives here (the scrape endpoint is an external
// collaborator's concern, per spec §1); callers hand us a
// prometheus.Registerer and we hand back a typed handle to record against.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collectors bundles the counters and gauges one engine run updates.
type Collectors struct {
	TicksTotal     prometheus.Counter
	TickDuration   prometheus.Histogram
	LedgerLength   prometheus.Gauge
	VerifyFailures prometheus.Counter
}

// New registers Kolibri's collectors against reg and returns a handle to
// them. Registering against the same reg twice panics, matching
// promauto's own contract.
func New(reg prometheus.Registerer) *Collectors {
	f := promauto.With(reg)
	return &Collectors{
		TicksTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: "kolibri",
			Name:      "ticks_total",
			Help:      "Total number of engine ticks appended to the ledger.",
		}),
		TickDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "kolibri",
			Name:      "tick_duration_seconds",
			Help:      "Wall-clock duration of a single engine tick.",
			Buckets:   prometheus.DefBuckets,
		}),
		LedgerLength: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "kolibri",
			Name:      "ledger_length",
			Help:      "Number of blocks currently in the ledger file.",
		}),
		VerifyFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: "kolibri",
			Name:      "verify_failures_total",
			Help:      "Total number of chain verification failures observed.",
		}),
	}
}
