package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/tablebridge/pkg/errors"
)

func TestObserveConversion(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.ObserveConversion(DirectionToTable, ModeParallel, time.Millisecond, nil)
	c.ObserveConversion(DirectionToTable, ModeParallel, time.Millisecond, nil)
	c.ObserveConversion(DirectionToDataset, ModeSequential, time.Second,
		errors.New(errors.ErrorTypeExecutionStopped, "stopped"))

	assert.Equal(t, 2.0, testutil.ToFloat64(c.conversions.WithLabelValues(DirectionToTable, ModeParallel, StatusSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.conversions.WithLabelValues(DirectionToDataset, ModeSequential, StatusStopped)))
	assert.Equal(t, 2, testutil.CollectAndCount(c.latency))
}

func TestColumnConverted(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.ColumnConverted(DirectionToTable, "nominal", 10)
	c.ColumnConverted(DirectionToTable, "real", 10)
	c.HintIgnored()

	assert.Equal(t, 20.0, testutil.ToFloat64(c.cells.WithLabelValues(DirectionToTable)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.hintsIgnored))

	n, err := testutil.GatherAndCount(reg, "tablebridge_columns_converted_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestNilCollectorIsNoop(t *testing.T) {
	var c *Collector
	c.ObserveConversion(DirectionHeader, ModeInline, 0, nil)
	c.ColumnConverted(DirectionHeader, "real", 0)
	c.HintIgnored()
}

func TestStatus(t *testing.T) {
	assert.Equal(t, StatusSuccess, Status(nil))
	assert.Equal(t, StatusInvalid, Status(errors.New(errors.ErrorTypeInvalidArgument, "x")))
	assert.Equal(t, StatusFailed, Status(fmt.Errorf("plain")))
	wrapped := errors.Wrap(errors.New(errors.ErrorTypeExecutionStopped, "x"), errors.ErrorTypeExecutionFailed, "y")
	assert.Equal(t, StatusStopped, Status(wrapped))
}

func TestTimer(t *testing.T) {
	timer := NewTimer("t")
	assert.Equal(t, "t", timer.Name())
	assert.GreaterOrEqual(t, timer.Stop(), time.Duration(0))
}
