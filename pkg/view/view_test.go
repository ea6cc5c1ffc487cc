package view

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/tablebridge/pkg/columnar"
	"github.com/ajitpratap0/tablebridge/pkg/compression"
	"github.com/ajitpratap0/tablebridge/pkg/convert"
	"github.com/ajitpratap0/tablebridge/pkg/errors"
	"github.com/ajitpratap0/tablebridge/pkg/legacy"
	"github.com/ajitpratap0/tablebridge/pkg/testutil"
)

var nan = math.NaN()

// fixture returns a converted table and the dataset it converts back to.
func fixture(t *testing.T) (*convert.Converter, *columnar.Table, *legacy.Dataset) {
	t.Helper()
	ds, err := legacy.NewDataset(
		legacy.Regular(legacy.NewAttribute("size", legacy.Real)),
		legacy.Regular(legacy.NewAttribute("count", legacy.Integer)),
		legacy.Regular(legacy.NewAttribute("at", legacy.Time)),
		legacy.Special(testutil.Attribute(t, "class", legacy.Binominal, "bad", "good"), legacy.RoleLabel),
		legacy.Regular(testutil.Attribute(t, "color", legacy.Polynominal, "red", "green", "blue")),
		legacy.Special(legacy.NewAttribute("w", legacy.Real), legacy.RoleWeight),
	)
	require.NoError(t, err)
	rows := [][]float64{
		{1.5, 3, 60_000, 1, 1, 1},
		{nan, 4, nan, 2, 2, 2},
		{-2, nan, 0, 2, 3, 0.5},
		{7.25, 9, 86_399_000, nan, 1, nan},
		{0, 1, 1_000, 1, nan, 3},
	}
	for _, row := range rows {
		require.NoError(t, ds.AddRow(row...))
	}
	ds.Annotate("origin", "fixture")

	conv := convert.New(convert.Options{Logger: testutil.TestLogger(t)})
	tbl, err := conv.ToTableSequentially(context.Background(), ds)
	require.NoError(t, err)
	t.Cleanup(tbl.Release)
	back, err := conv.ToDatasetSequentially(context.Background(), tbl)
	require.NoError(t, err)
	return conv, tbl, back
}

func floatEqual(a, b float64) bool {
	return a == b || (math.IsNaN(a) && math.IsNaN(b))
}

func assertStatistics(t *testing.T, want, got []legacy.Statistics) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		w, g := want[i], got[i]
		assert.Equal(t, w.Attribute, g.Attribute)
		assert.True(t, floatEqual(w.Average, g.Average), "%s average %v != %v", w.Attribute, w.Average, g.Average)
		assert.True(t, floatEqual(w.Min, g.Min), "%s min", w.Attribute)
		assert.True(t, floatEqual(w.Max, g.Max), "%s max", w.Attribute)
		assert.Equal(t, w.Missing, g.Missing, w.Attribute)
		assert.Equal(t, w.Weight, g.Weight, w.Attribute)
		assert.Equal(t, w.Counts, g.Counts, w.Attribute)
		assert.Equal(t, w.Mode, g.Mode, w.Attribute)
	}
}

func TestViewMatchesMaterializedDataset(t *testing.T) {
	conv, tbl, back := fixture(t)
	v, err := New(tbl, conv)
	require.NoError(t, err)

	assert.Equal(t, 5, v.Size())
	assert.True(t, v.ThreadSafe())
	assert.True(t, legacy.Equal(back, v))
	assert.Equal(t, "fixture", v.Annotations()["origin"])

	assert.Equal(t, 60_000.0, v.Value(0, 2))
	assert.True(t, math.IsNaN(v.Value(3, 3)))
	assert.Equal(t, 3.0, v.Value(2, 4))

	color, ok := legacy.ExampleAt(v, 2).NominalValue(4)
	require.True(t, ok)
	assert.Equal(t, "blue", color)
}

func TestViewStatisticsHonorWeights(t *testing.T) {
	conv, tbl, back := fixture(t)
	v, err := New(tbl, conv)
	require.NoError(t, err)

	stats := v.Statistics()
	assertStatistics(t, legacy.ComputeStatistics(back), stats)

	// size: weights 1, 0.5 and 3 on values 1.5, -2 and 0; NaN weight row skipped
	size := stats[0]
	assert.Equal(t, 1, size.Missing)
	assert.InDelta(t, (1.5-1)/4.5, size.Average, 1e-12)
	assert.Equal(t, -2.0, size.Min)
	assert.Equal(t, 1.5, size.Max)
}

func TestViewStatisticsWithoutWeights(t *testing.T) {
	ds, err := legacy.NewDataset(
		legacy.Regular(legacy.NewAttribute("x", legacy.Real)),
		legacy.Regular(testutil.Attribute(t, "c", legacy.Polynominal, "a", "b")),
	)
	require.NoError(t, err)
	ds.AddRows(10_000, func(row, attr int) float64 {
		if attr == 0 {
			return float64(row % 7)
		}
		return float64(row%2 + 1)
	})

	conv := convert.New(convert.Options{Logger: testutil.TestLogger(t)})
	tbl, err := conv.ToTableSequentially(context.Background(), ds)
	require.NoError(t, err)
	defer tbl.Release()

	v, err := New(tbl, conv)
	require.NoError(t, err)
	assertStatistics(t, legacy.ComputeStatistics(ds), v.Statistics())
}

func TestViewIsReadOnly(t *testing.T) {
	conv, tbl, _ := fixture(t)
	v, err := New(tbl, conv)
	require.NoError(t, err)

	err = v.SetValue(0, 0, 1)
	assert.True(t, errors.IsType(err, errors.ErrorTypeUnsupportedOperation))
	err = legacy.ExampleAt(v, 0).SetValue(0, 1)
	assert.True(t, errors.IsType(err, errors.ErrorTypeUnsupportedOperation))

	mapping := v.Attributes()[4].Attribute.Mapping
	_, err = mapping.Intern("purple")
	assert.True(t, errors.IsType(err, errors.ErrorTypeUnsupportedOperation))
	assert.True(t, errors.IsType(mapping.Clear(), errors.ErrorTypeUnsupportedOperation))

	v.Annotations()["origin"] = "changed"
	assert.Equal(t, "fixture", v.Annotations()["origin"])
}

func TestViewClone(t *testing.T) {
	conv, tbl, _ := fixture(t)
	v, err := New(tbl, conv)
	require.NoError(t, err)

	c, err := v.Clone()
	require.NoError(t, err)
	assert.NotSame(t, v, c)
	assert.Same(t, v.Table(), c.Table())
	assert.True(t, legacy.Equal(v, c))
}

func TestViewComposesWithSubset(t *testing.T) {
	conv, tbl, _ := fixture(t)
	v, err := New(tbl, conv)
	require.NoError(t, err)

	sub, err := legacy.NewSubset(v, []int{4, 0})
	require.NoError(t, err)
	assert.Equal(t, 2, sub.Size())
	assert.True(t, sub.ThreadSafe())
	assert.Equal(t, v.Value(4, 0), sub.Value(0, 0))
	assert.Equal(t, v.Value(0, 1), sub.Value(1, 1))

	var rows []int
	legacy.Each(sub, func(e legacy.Example) bool {
		rows = append(rows, e.Row())
		return true
	})
	assert.Equal(t, []int{0, 1}, rows)
}

func TestNewRejectsNilTable(t *testing.T) {
	_, err := New(nil, nil)
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidArgument))
}

func TestMarshalRoundTrip(t *testing.T) {
	conv, tbl, back := fixture(t)
	v, err := New(tbl, conv)
	require.NoError(t, err)

	for _, alg := range compression.Algorithms {
		t.Run(string(alg), func(t *testing.T) {
			data, err := v.Marshal(&compression.Config{Algorithm: alg, Level: compression.Default})
			require.NoError(t, err)
			assert.Equal(t, "TBV1", string(data[:4]))

			restored, err := Unmarshal(data, conv)
			require.NoError(t, err)
			assert.True(t, legacy.Equal(back, restored))
		})
	}

	data, err := v.MarshalBinary()
	require.NoError(t, err)
	restored, err := Unmarshal(data, nil)
	require.NoError(t, err)
	assert.True(t, legacy.Equal(back, restored))
}

func TestUnmarshalRejectsGarbage(t *testing.T) {
	for name, data := range map[string][]byte{
		"empty":     nil,
		"magic":     []byte("XXXX\x00payload"),
		"codec":     []byte("TBV1\xffpayload"),
		"truncated": []byte("TBV1\x00not arrow"),
		"checksum":  corrupt(t),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Unmarshal(data, nil)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeData))
		})
	}
}

// corrupt returns valid view bytes with one payload byte flipped.
func corrupt(t *testing.T) []byte {
	t.Helper()
	_, tbl, _ := fixture(t)
	v, err := New(tbl, nil)
	require.NoError(t, err)
	data, err := v.MarshalBinary()
	require.NoError(t, err)
	data[len(magic)+1] ^= 0xff
	return data
}
