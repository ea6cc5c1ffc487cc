package convert

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/tablebridge/pkg/columnar"
	"github.com/ajitpratap0/tablebridge/pkg/legacy"
)

func TestColumnSpecFor(t *testing.T) {
	tests := []struct {
		legacy  legacy.ValueType
		column  columnar.ColumnType
		boolean bool
		hint    string
	}{
		{legacy.Integer, columnar.ColumnTypeInteger, false, "integer"},
		{legacy.Real, columnar.ColumnTypeReal, false, ""},
		{legacy.Numerical, columnar.ColumnTypeReal, false, "numeric"},
		{legacy.Date, columnar.ColumnTypeDateTime, false, "date"},
		{legacy.Time, columnar.ColumnTypeTime, false, "time"},
		{legacy.DateTime, columnar.ColumnTypeDateTime, false, ""},
		{legacy.Binominal, columnar.ColumnTypeNominal, true, ""},
		{legacy.Polynominal, columnar.ColumnTypeNominal, false, ""},
		{legacy.Nominal, columnar.ColumnTypeNominal, false, "nominal"},
		{legacy.Text, columnar.ColumnTypeNominal, false, "text"},
		{legacy.FilePath, columnar.ColumnTypeNominal, false, "file_path"},
	}
	for _, tt := range tests {
		t.Run(tt.legacy.String(), func(t *testing.T) {
			shape, err := ColumnShapeFor(tt.legacy)
			require.NoError(t, err)
			assert.Equal(t, tt.column, shape.Type)
			assert.Equal(t, tt.boolean, shape.Boolean)
			assert.Equal(t, tt.hint, shape.Hint)

			back, ignored := LegacyTypeFor(shape.Type, shape.Boolean, 2, shape.Hint)
			assert.False(t, ignored)
			assert.Equal(t, tt.legacy, back)
		})
	}

	_, err := ColumnShapeFor(legacy.ValueType(99))
	assert.Error(t, err)
}

func TestLegacyTypeForHints(t *testing.T) {
	tests := []struct {
		name       string
		column     columnar.ColumnType
		boolean    bool
		categories int
		hint       string
		want       legacy.ValueType
		ignored    bool
	}{
		{"real default", columnar.ColumnTypeReal, false, 0, "", legacy.Real, false},
		{"real as date_time", columnar.ColumnTypeReal, false, 0, "date_time", legacy.Real, true},
		{"integer as real", columnar.ColumnTypeInteger, false, 0, "real", legacy.Integer, true},
		{"date_time as date", columnar.ColumnTypeDateTime, false, 0, "date", legacy.Date, false},
		{"time as date", columnar.ColumnTypeTime, false, 0, "date", legacy.Time, true},
		{"boolean default", columnar.ColumnTypeNominal, true, 0, "", legacy.Binominal, false},
		{"boolean as text", columnar.ColumnTypeNominal, true, 0, "text", legacy.Binominal, true},
		{"boolean as binominal", columnar.ColumnTypeNominal, true, 2, "binominal", legacy.Binominal, false},
		{"nominal as binominal", columnar.ColumnTypeNominal, false, 2, "binominal", legacy.Binominal, false},
		{"single category nominal as binominal", columnar.ColumnTypeNominal, false, 1, "binominal", legacy.Binominal, false},
		{"wide nominal as binominal", columnar.ColumnTypeNominal, false, 3, "binominal", legacy.Polynominal, false},
		{"nominal as text", columnar.ColumnTypeNominal, false, 0, "text", legacy.Text, false},
		{"unknown hint", columnar.ColumnTypeNominal, false, 0, "blob", legacy.Polynominal, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ignored := LegacyTypeFor(tt.column, tt.boolean, tt.categories, tt.hint)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ignored, ignored)
		})
	}
}

func TestRoundInteger(t *testing.T) {
	tests := []struct {
		in     float64
		normal int64
		legacy int64
	}{
		{2.5, 3, 3},
		{-2.5, -3, -2},
		{0.5, 1, 1},
		{-0.5, -1, 0},
		{1.4, 1, 1},
		{-7, -7, -7},
	}
	for _, tt := range tests {
		got, ok := roundInteger(tt.in, false)
		assert.True(t, ok)
		assert.Equal(t, tt.normal, got, "normal rounding of %v", tt.in)

		got, ok = roundInteger(tt.in, true)
		assert.True(t, ok)
		assert.Equal(t, tt.legacy, got, "legacy rounding of %v", tt.in)
	}

	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), 1e300} {
		_, ok := roundInteger(v, false)
		assert.False(t, ok, "%v", v)
	}
}

func TestTimeOfDay(t *testing.T) {
	ns, ok := timeOfDayNanos(3_600_000)
	require.True(t, ok)
	assert.Equal(t, int64(3_600_000_000_000), ns)
	assert.Equal(t, 3_600_000.0, legacyTime(float64(ns)))

	ns, ok = timeOfDayNanos(-1)
	require.True(t, ok)
	assert.Equal(t, int64(86_399_999)*1_000_000, ns)

	ns, ok = timeOfDayNanos(msPerDay + 5)
	require.True(t, ok)
	assert.Equal(t, int64(5_000_000), ns)

	_, ok = timeOfDayNanos(math.NaN())
	assert.False(t, ok)
	assert.True(t, math.IsNaN(legacyTime(math.NaN())))
}

func TestRoles(t *testing.T) {
	tests := []struct {
		role string
		tag  string
		hint string
	}{
		{legacy.RoleRegular, "", ""},
		{legacy.RoleID, columnar.RoleID, ""},
		{legacy.RoleLabel, columnar.RoleLabel, ""},
		{legacy.RolePrediction, columnar.RolePrediction, ""},
		{legacy.RoleCluster, columnar.RoleCluster, ""},
		{legacy.RoleWeight, columnar.RoleWeight, ""},
		{legacy.RoleBatch, columnar.RoleBatch, ""},
		{legacy.RoleOutlier, columnar.RoleOutlier, ""},
		{"confidence_yes", columnar.RoleScore, "confidence_yes"},
		{legacy.RoleCost, columnar.RoleScore, legacy.RoleCost},
		{"source", columnar.RoleMetadata, "source"},
	}
	for _, tt := range tests {
		tag, hint := ColumnRole(tt.role)
		assert.Equal(t, tt.tag, tag, tt.role)
		assert.Equal(t, tt.hint, hint, tt.role)
		assert.Equal(t, tt.role, LegacyRole(tag, hint))
	}

	assert.True(t, UniqueTag(columnar.RoleLabel))
	assert.False(t, UniqueTag(columnar.RoleScore))
	assert.False(t, UniqueTag(columnar.RoleMetadata))
}
