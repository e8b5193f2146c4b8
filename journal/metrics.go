package journal

import "github.com/prometheus/client_golang/prometheus"

// Metrics is the optional set of Prometheus collectors a File reports
// to (spec.md §6.2's "metrics" open param). A nil *Metrics disables
// instrumentation entirely; every call site guards on it.
type Metrics struct {
	AppendLatency   prometheus.Histogram
	HashCollisions  prometheus.Counter
	CorruptSkips    prometheus.Counter
	RotateSuggested prometheus.Gauge
}

// NewMetrics builds a fresh Metrics set and, if reg is non-nil,
// registers each collector. Registration failures (e.g. a second File
// in the same process reusing a shared registry) are ignored the same
// way prometheus.AlreadyRegisteredError is conventionally ignored: the
// already-registered collector continues to serve both callers.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		AppendLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sdjournal_append_latency_seconds",
			Help:    "AppendEntry latency.",
			Buckets: prometheus.DefBuckets,
		}),
		HashCollisions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sdjournal_hash_collisions_total",
			Help: "Bucket chain walks that visited more than one node.",
		}),
		CorruptSkips: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sdjournal_corrupt_skips_total",
			Help: "CORRUPT objects tolerated during read and skipped.",
		}),
		RotateSuggested: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sdjournal_rotate_suggested",
			Help: "1 if the file currently meets a rotate-suggested condition.",
		}),
	}

	if reg != nil {
		for _, c := range []prometheus.Collector{m.AppendLatency, m.HashCollisions, m.CorruptSkips, m.RotateSuggested} {
			_ = reg.Register(c)
		}
	}

	return m
}
