// Package metrics counts saves, cascades and recomputes with Prometheus.
//
// Each Metrics owns a private registry, so a CLI run or a test never shares
// series with another. The CLI flushes the registry to a node_exporter
// textfile when --metrics-file is set.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "dayscore"

// Metrics holds the engine's counters and histograms.
type Metrics struct {
	reg *prometheus.Registry

	// saves counts SaveLog calls. Labels: result (ok, error)
	saves *prometheus.CounterVec

	// cascadeRows counts rows rewritten by cascades and recomputes.
	// Labels: source (edit, recompute)
	cascadeRows *prometheus.CounterVec

	// cascadeLength is the number of rows each edit rewrote.
	cascadeLength prometheus.Histogram

	recomputes prometheus.Counter
}

// New creates a Metrics with its own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		reg: reg,
		saves: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "saves_total",
			Help:      "Daily log saves by result",
		}, []string{"result"}),
		cascadeRows: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cascade",
			Name:      "rows_updated_total",
			Help:      "Stored rows whose scores were rewritten",
		}, []string{"source"}),
		cascadeLength: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "cascade",
			Name:      "length_rows",
			Help:      "Rows rewritten per edit, edited day included",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21, 34, 55, 89},
		}),
		recomputes: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "recomputes_total",
			Help:      "Explicit history recomputes",
		}),
	}
}

// Registry returns the registry backing m.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

// ObserveSave records a successful save that rewrote updates rows.
func (m *Metrics) ObserveSave(updates int) {
	m.saves.WithLabelValues("ok").Inc()
	m.cascadeRows.WithLabelValues("edit").Add(float64(updates))
	m.cascadeLength.Observe(float64(updates))
}

// ObserveSaveError records a failed save.
func (m *Metrics) ObserveSaveError() {
	m.saves.WithLabelValues("error").Inc()
}

// ObserveRecompute records a recompute that rewrote updates rows.
func (m *Metrics) ObserveRecompute(updates int) {
	m.recomputes.Inc()
	m.cascadeRows.WithLabelValues("recompute").Add(float64(updates))
}

// WriteToTextfile writes every series in the text exposition format,
// atomically replacing path.
func (m *Metrics) WriteToTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.reg); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}
	return nil
}
