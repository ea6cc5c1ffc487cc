// Package metrics provides Prometheus metrics for conversions between
// row-oriented datasets and columnar tables.
//
// # Basic Usage
//
//	collector := metrics.Default()
//	timer := metrics.NewTimer("to_table")
//	tbl, err := conv.ToTable(ctx, set, exec)
//	collector.ObserveConversion(metrics.DirectionToTable, metrics.ModeParallel, timer.Stop(), err)
//
// Collectors registered on a private registry keep tests isolated:
//
//	reg := prometheus.NewRegistry()
//	collector := metrics.NewCollector(reg)
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ajitpratap0/tablebridge/pkg/errors"
)

// Label values.
const (
	DirectionToTable   = "to_table"
	DirectionToDataset = "to_dataset"
	DirectionHeader    = "header"

	ModeParallel   = "parallel"
	ModeSequential = "sequential"
	ModeInline     = "inline"

	StatusSuccess = "success"
	StatusInvalid = "invalid"
	StatusStopped = "stopped"
	StatusFailed  = "failed"
)

// Collector records conversion metrics.
type Collector struct {
	conversions  *prometheus.CounterVec   // direction, mode, status
	latency      *prometheus.HistogramVec // direction, mode
	columns      *prometheus.CounterVec   // direction, column_type
	cells        *prometheus.CounterVec   // direction
	hintsIgnored prometheus.Counter
}

// NewCollector registers the conversion metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		conversions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tablebridge_conversions_total",
				Help: "Total number of conversions",
			},
			[]string{"direction", "mode", "status"},
		),
		latency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "tablebridge_conversion_latency_seconds",
				Help: "Conversion latency in seconds",
				Buckets: []float64{
					1e-5, // 10μs - header conversions
					1e-4,
					1e-3, // 1ms - small tables
					1e-2,
					1e-1,
					1,  // 1s - large tables
					10, // 10s - very large tables
				},
			},
			[]string{"direction", "mode"},
		),
		columns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tablebridge_columns_converted_total",
				Help: "Total number of columns converted",
			},
			[]string{"direction", "column_type"},
		),
		cells: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tablebridge_cells_converted_total",
				Help: "Total number of cells converted",
			},
			[]string{"direction"},
		),
		hintsIgnored: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "tablebridge_legacy_hints_ignored_total",
				Help: "Legacy type hints replaced by the structural default",
			},
		),
	}
}

var (
	defaultOnce      sync.Once
	defaultCollector *Collector
)

// Default returns the collector registered on the default Prometheus registry.
func Default() *Collector {
	defaultOnce.Do(func() {
		defaultCollector = NewCollector(prometheus.DefaultRegisterer)
	})
	return defaultCollector
}

// ObserveConversion records one finished conversion.
func (c *Collector) ObserveConversion(direction, mode string, d time.Duration, err error) {
	if c == nil {
		return
	}
	c.conversions.WithLabelValues(direction, mode, Status(err)).Inc()
	c.latency.WithLabelValues(direction, mode).Observe(d.Seconds())
}

// ColumnConverted records one converted column of rows cells.
func (c *Collector) ColumnConverted(direction, columnType string, rows int) {
	if c == nil {
		return
	}
	c.columns.WithLabelValues(direction, columnType).Inc()
	c.cells.WithLabelValues(direction).Add(float64(rows))
}

// HintIgnored records a legacy type hint that was replaced.
func (c *Collector) HintIgnored() {
	if c == nil {
		return
	}
	c.hintsIgnored.Inc()
}

// Status maps a conversion error to its status label.
func Status(err error) string {
	switch {
	case err == nil:
		return StatusSuccess
	case errors.IsStopped(err):
		return StatusStopped
	case errors.IsType(err, errors.ErrorTypeInvalidArgument):
		return StatusInvalid
	default:
		return StatusFailed
	}
}

// Timer provides a simple timing mechanism for measuring operation durations.
// It captures the start time on creation and calculates elapsed time on stop.
type Timer struct {
	start time.Time
	name  string
}

// NewTimer creates a new timer and starts timing immediately.
func NewTimer(name string) *Timer {
	return &Timer{
		start: time.Now(),
		name:  name,
	}
}

// Name returns the timer name.
func (t *Timer) Name() string { return t.name }

// Stop returns the elapsed duration since creation. The timer can be stopped
// multiple times.
func (t *Timer) Stop() time.Duration {
	return time.Since(t.start)
}
