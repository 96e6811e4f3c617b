// Package diag is the optional diagnostics channel for the aggregation
// pipeline. Inner joins and date parsing drop rows silently by design;
// these counters make the drops observable without changing any result.
//
// Counters live on a private prometheus.Registry so a consumer can expose
// or push them, and tests can read them back via Snapshot without any
// global registry pollution.
package diag

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector accumulates drop and coercion counts. All methods are safe on
// a nil receiver, so pipeline code passes the collector through without
// nil checks.
type Collector struct {
	reg *prometheus.Registry

	droppedRows *prometheus.CounterVec // market_rows_dropped_total{stage}
	coercedTS   *prometheus.CounterVec // market_timestamps_coerced_total{table}
	offAxis     *prometheus.CounterVec // market_events_off_axis_total{view}
}

// New constructs a Collector with its own registry.
func New() *Collector {
	reg := prometheus.NewRegistry()

	droppedRows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "market_rows_dropped_total",
		Help: "Rows dropped by inner joins, partitioned by join stage.",
	}, []string{"stage"})

	coercedTS := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "market_timestamps_coerced_total",
		Help: "Timestamp cells that failed to parse and were coerced to null.",
	}, []string{"table"})

	offAxis := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "market_events_off_axis_total",
		Help: "Events whose month key falls outside the fixed chronological axis.",
	}, []string{"view"})

	reg.MustRegister(droppedRows, coercedTS, offAxis)

	return &Collector{
		reg:         reg,
		droppedRows: droppedRows,
		coercedTS:   coercedTS,
		offAxis:     offAxis,
	}
}

// Registry exposes the private registry for scraping or pushing.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.reg
}

// DroppedRows records n rows dropped at a join stage.
func (c *Collector) DroppedRows(stage string, n int) {
	if c == nil || n <= 0 {
		return
	}
	c.droppedRows.WithLabelValues(stage).Add(float64(n))
}

// CoercedTimestamps records n unparseable timestamp cells in a table.
func (c *Collector) CoercedTimestamps(table string, n int) {
	if c == nil || n <= 0 {
		return
	}
	c.coercedTS.WithLabelValues(table).Add(float64(n))
}

// OffAxis records n events dropped from a chronological view.
func (c *Collector) OffAxis(view string, n int) {
	if c == nil || n <= 0 {
		return
	}
	c.offAxis.WithLabelValues(view).Add(float64(n))
}

// Snapshot gathers the current counter values keyed as
// "metric_name{label=value}". Intended for tests and text output.
func (c *Collector) Snapshot() map[string]float64 {
	out := make(map[string]float64)
	if c == nil {
		return out
	}

	families, err := c.reg.Gather()
	if err != nil {
		return out
	}
	for _, fam := range families {
		for _, m := range fam.GetMetric() {
			key := fam.GetName()
			for _, lp := range m.GetLabel() {
				key += fmt.Sprintf("{%s=%s}", lp.GetName(), lp.GetValue())
			}
			out[key] = m.GetCounter().GetValue()
		}
	}
	return out
}
