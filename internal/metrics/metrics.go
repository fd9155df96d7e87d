// Package metrics holds the Prometheus counters of a correction run. A run
// owns its own registry; the result can be dumped in the text exposition
// format for node_exporter's textfile collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"clrgen/internal/clr"
)

// Metrics is safe for concurrent use.
type Metrics struct {
	reg *prometheus.Registry

	// reads by outcome: corrected, no_seeds, failed
	reads *prometheus.CounterVec
	// output bases by source: seed, graph, raw
	bases *prometheus.CounterVec
	// seed-pair links by result: forward, revcomp, failed
	links        *prometheus.CounterVec
	skipped      prometheus.Counter
	fallbacks    prometheus.Counter
	readDuration prometheus.Histogram
}

// New registers the correction metrics on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		reg: reg,
		reads: f.NewCounterVec(prometheus.CounterOpts{
			Name: "clrgen_reads_total",
			Help: "Long reads processed by outcome",
		}, []string{"outcome"}),
		bases: f.NewCounterVec(prometheus.CounterOpts{
			Name: "clrgen_bases_total",
			Help: "Bases emitted in corrected reads by source",
		}, []string{"source"}),
		links: f.NewCounterVec(prometheus.CounterOpts{
			Name: "clrgen_links_total",
			Help: "Seed-pair link attempts by result",
		}, []string{"result"}),
		skipped: f.NewCounter(prometheus.CounterOpts{
			Name: "clrgen_seeds_skipped_total",
			Help: "Seeds skipped because they could not be linked",
		}),
		fallbacks: f.NewCounter(prometheus.CounterOpts{
			Name: "clrgen_raw_fallbacks_total",
			Help: "Gaps between seeds filled with raw bases",
		}),
		readDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "clrgen_read_duration_seconds",
			Help:    "Time spent correcting one long read",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10), // 1ms to ~4min
		}),
	}
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// ObserveRead records the outcome of one read.
func (m *Metrics) ObserveRead(cr clr.CorrectedRead, ok bool, err error, d time.Duration) {
	m.readDuration.Observe(d.Seconds())
	switch {
	case err != nil:
		m.reads.WithLabelValues("failed").Inc()
		return
	case !ok:
		m.reads.WithLabelValues("no_seeds").Inc()
		return
	}
	m.reads.WithLabelValues("corrected").Inc()
	m.bases.WithLabelValues("seed").Add(float64(cr.SeedBases))
	m.bases.WithLabelValues("graph").Add(float64(cr.GraphBases))
	m.bases.WithLabelValues("raw").Add(float64(cr.RawBases))
	m.links.WithLabelValues("forward").Add(float64(cr.Stats.ForwardLinks))
	m.links.WithLabelValues("revcomp").Add(float64(cr.Stats.RevCompLinks))
	m.links.WithLabelValues("failed").Add(float64(cr.Stats.FailedLinks))
	m.skipped.Add(float64(cr.Stats.SkippedSeeds))
	m.fallbacks.Add(float64(cr.Stats.RawFallbacks))
}

// WriteTextfile writes every metric to path in the text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.reg)
}
