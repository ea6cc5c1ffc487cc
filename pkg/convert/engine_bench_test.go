package convert

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ajitpratap0/tablebridge/pkg/legacy"
	"github.com/ajitpratap0/tablebridge/pkg/testutil"
)

// benchmarkDataset builds a dataset of rows rows with one real, one integer
// and one polynominal attribute.
func benchmarkDataset(b *testing.B, rows int) *legacy.Dataset {
	b.Helper()
	poly := testutil.Attribute(b, "category", legacy.Polynominal, "a", "b", "c", "d", "e")
	cells := make([][]float64, rows)
	for i := range cells {
		cells[i] = []float64{float64(i) * 0.5, float64(i % 1000), float64(i%5 + 1)}
	}
	return testutil.Dataset(b, []legacy.AttributeRole{
		legacy.Regular(legacy.NewAttribute("value", legacy.Real)),
		legacy.Regular(legacy.NewAttribute("count", legacy.Integer)),
		legacy.Special(poly, legacy.RoleLabel),
	}, cells...)
}

func BenchmarkToTable(b *testing.B) {
	for _, rows := range []int{1_000, 100_000} {
		ds := benchmarkDataset(b, rows)
		conv := New(Options{Logger: zap.NewNop(), SmallTableCells: -1})

		b.Run(fmt.Sprintf("parallel/%d", rows), func(b *testing.B) {
			ctx := testutil.TestContext(b)
			p := testutil.TestPool(b, 4)
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				tbl, err := conv.ToTable(ctx, ds, p)
				require.NoError(b, err)
				tbl.Release()
			}
		})
		b.Run(fmt.Sprintf("sequential/%d", rows), func(b *testing.B) {
			ctx := testutil.TestContext(b)
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				tbl, err := conv.ToTableSequentially(ctx, ds)
				require.NoError(b, err)
				tbl.Release()
			}
		})
	}
}

func BenchmarkToDataset(b *testing.B) {
	ctx := testutil.TestContext(b)
	conv := New(Options{Logger: zap.NewNop(), SmallTableCells: -1})
	tbl, err := conv.ToTableSequentially(ctx, benchmarkDataset(b, 100_000))
	require.NoError(b, err)
	defer tbl.Release()

	p := testutil.TestPool(b, 4)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := conv.ToDataset(ctx, tbl, p)
		require.NoError(b, err)
	}
}
