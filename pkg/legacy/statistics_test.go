package legacy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeStatisticsUnweighted(t *testing.T) {
	ds := colorDataset(t)
	stats := ComputeStatistics(ds)
	require.Len(t, stats, 2)

	color := stats[0]
	assert.Equal(t, "color", color.Attribute)
	assert.Equal(t, 1, color.Mode)
	assert.Equal(t, 2.0, color.Counts[1])
	assert.True(t, math.IsNaN(color.Average))

	size := stats[1]
	assert.Equal(t, 1, size.Missing)
	assert.InDelta(t, 7.5/3, size.Average, 1e-12)
	assert.Equal(t, 1.5, size.Min)
	assert.Equal(t, 4.0, size.Max)
	assert.Equal(t, 3.0, size.Weight)
}

func TestComputeStatisticsWeighted(t *testing.T) {
	x := NewAttribute("x", Real)
	w := NewAttribute("w", Real)
	ds, err := NewDataset(Regular(x), Special(w, RoleWeight))
	require.NoError(t, err)
	require.NoError(t, ds.AddRow(1, 1))
	require.NoError(t, ds.AddRow(3, 3))
	require.NoError(t, ds.AddRow(100, math.NaN()))
	require.NoError(t, ds.AddRow(math.NaN(), 2))

	stats := ComputeStatistics(ds)
	assert.InDelta(t, 10.0/4, stats[0].Average, 1e-12)
	assert.Equal(t, 1.0, stats[0].Min)
	assert.Equal(t, 3.0, stats[0].Max)
	assert.Equal(t, 1, stats[0].Missing)
	assert.Equal(t, 4.0, stats[0].Weight)
}

func TestStatisticsAllMissing(t *testing.T) {
	acc := NewAccumulator("empty", false)
	acc.Add(math.NaN(), 1)
	s := acc.Result()
	assert.Equal(t, 1, s.Missing)
	assert.True(t, math.IsNaN(s.Min))
	assert.True(t, math.IsNaN(s.Average))

	nominal := NewAccumulator("n", true)
	nominal.Add(2, 1)
	nominal.Add(1, 1)
	assert.Equal(t, 1, nominal.Result().Mode)
}
