// Package testutil provides testing utilities for tablebridge
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/ajitpratap0/tablebridge/pkg/concurrency"
	"github.com/ajitpratap0/tablebridge/pkg/legacy"
)

// TestLogger creates a test logger that writes to the test output.
func TestLogger(t testing.TB) *zap.Logger {
	return zaptest.NewLogger(t)
}

// TestContext creates a context that is cancelled after 30 seconds or when
// the test completes.
func TestContext(t testing.TB) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// TestPool starts a worker pool that is stopped when the test completes.
func TestPool(t testing.TB, workers int) *concurrency.Pool {
	t.Helper()
	p := concurrency.NewPool(concurrency.PoolConfig{Name: t.Name(), Workers: workers}, zaptest.NewLogger(t))
	t.Cleanup(p.Stop)
	return p
}

// Attribute creates an attribute and interns values into its mapping in
// order, so the first value gets index 1.
func Attribute(t testing.TB, name string, vt legacy.ValueType, values ...string) *legacy.Attribute {
	t.Helper()
	a := legacy.NewAttribute(name, vt)
	for _, v := range values {
		_, err := a.Mapping.Intern(v)
		require.NoError(t, err)
	}
	return a
}

// Dataset builds a dataset from attributes and rows and fails the test on
// any error.
func Dataset(t testing.TB, attrs []legacy.AttributeRole, rows ...[]float64) *legacy.Dataset {
	t.Helper()
	ds, err := legacy.NewDataset(attrs...)
	require.NoError(t, err)
	for _, row := range rows {
		require.NoError(t, ds.AddRow(row...))
	}
	return ds
}
