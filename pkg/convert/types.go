package convert

import (
	"math"

	"github.com/ajitpratap0/tablebridge/pkg/columnar"
	"github.com/ajitpratap0/tablebridge/pkg/errors"
	"github.com/ajitpratap0/tablebridge/pkg/legacy"
)

// ColumnShape is the columnar shape of a legacy attribute.
type ColumnShape struct {
	Type columnar.ColumnType
	// Boolean marks nominal columns with an explicit positive category.
	Boolean bool
	// Hint is the legacy type name stored in column metadata, empty when the
	// structural default already recovers the legacy type.
	Hint string
}

// ColumnShapeFor maps a legacy value type to its column type and hint.
func ColumnShapeFor(t legacy.ValueType) (ColumnShape, error) {
	switch t {
	case legacy.Integer:
		return ColumnShape{Type: columnar.ColumnTypeInteger, Hint: t.String()}, nil
	case legacy.Real:
		return ColumnShape{Type: columnar.ColumnTypeReal}, nil
	case legacy.Numerical:
		return ColumnShape{Type: columnar.ColumnTypeReal, Hint: t.String()}, nil
	case legacy.Date:
		return ColumnShape{Type: columnar.ColumnTypeDateTime, Hint: t.String()}, nil
	case legacy.DateTime:
		return ColumnShape{Type: columnar.ColumnTypeDateTime}, nil
	case legacy.Time:
		return ColumnShape{Type: columnar.ColumnTypeTime, Hint: t.String()}, nil
	case legacy.Binominal:
		return ColumnShape{Type: columnar.ColumnTypeNominal, Boolean: true}, nil
	case legacy.Polynominal:
		return ColumnShape{Type: columnar.ColumnTypeNominal}, nil
	case legacy.Nominal, legacy.Text, legacy.FilePath:
		return ColumnShape{Type: columnar.ColumnTypeNominal, Hint: t.String()}, nil
	}
	return ColumnShape{}, errors.Newf(errors.ErrorTypeInvalidArgument, "unsupported legacy value type %s", t)
}

// compatibleHints lists the legacy types a hint may select per column shape.
var compatibleHints = map[columnar.ColumnType][]legacy.ValueType{
	columnar.ColumnTypeReal:     {legacy.Real, legacy.Numerical},
	columnar.ColumnTypeInteger:  {legacy.Integer},
	columnar.ColumnTypeDateTime: {legacy.Date, legacy.DateTime},
	columnar.ColumnTypeTime:     {legacy.Time},
	columnar.ColumnTypeNominal:  {legacy.Polynominal, legacy.Nominal, legacy.Text, legacy.FilePath},
}

var booleanHints = []legacy.ValueType{legacy.Binominal}

// DefaultLegacyType is the legacy type a column maps to without a hint.
func DefaultLegacyType(t columnar.ColumnType, boolean bool) legacy.ValueType {
	switch t {
	case columnar.ColumnTypeReal:
		return legacy.Real
	case columnar.ColumnTypeInteger:
		return legacy.Integer
	case columnar.ColumnTypeDateTime:
		return legacy.DateTime
	case columnar.ColumnTypeTime:
		return legacy.Time
	}
	if boolean {
		return legacy.Binominal
	}
	return legacy.Polynominal
}

// LegacyTypeFor resolves the legacy type of a column. A hint wins when it is
// compatible with the column shape; otherwise the structural default is used
// and ignored is true. categories is the dictionary size of nominal columns.
//
// A binominal hint on a plain nominal column selects binominal when the
// dictionary fits two categories. Wider columns hold binominal attributes
// whose cells used more categories and map to polynominal without a warning.
func LegacyTypeFor(t columnar.ColumnType, boolean bool, categories int, hint string) (vt legacy.ValueType, ignored bool) {
	def := DefaultLegacyType(t, boolean)
	if hint == "" {
		return def, false
	}
	parsed, err := legacy.ParseValueType(hint)
	if err != nil {
		return def, true
	}
	allowed := compatibleHints[t]
	if t == columnar.ColumnTypeNominal {
		switch {
		case boolean:
			allowed = booleanHints
		case parsed == legacy.Binominal && categories <= 2:
			return legacy.Binominal, false
		case parsed == legacy.Binominal:
			return def, false
		}
	}
	for _, a := range allowed {
		if a == parsed {
			return parsed, false
		}
	}
	return def, true
}

const (
	msPerDay = 24 * 60 * 60 * 1000
	nsPerMs  = 1_000_000
	// int64 bounds as float64; values outside become missing.
	maxInt64Float = float64(math.MaxInt64)
	minInt64Float = float64(math.MinInt64)
)

// roundInteger converts a legacy cell to an integer cell. Legacy mode rounds
// halves towards positive infinity, otherwise halves round away from zero.
func roundInteger(v float64, legacyMode bool) (int64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	var r float64
	if legacyMode {
		r = math.Floor(v + 0.5)
	} else {
		r = math.Round(v)
	}
	if r >= maxInt64Float || r < minInt64Float {
		return 0, false
	}
	return int64(r), true
}

// epochMillis converts a legacy date or date_time cell.
func epochMillis(v float64) (int64, bool) {
	return roundInteger(v, false)
}

// timeOfDayNanos converts legacy time milliseconds to nanoseconds of the UTC
// day. Values before the epoch day wrap around.
func timeOfDayNanos(v float64) (int64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	ms := math.Floor(v)
	if ms >= maxInt64Float || ms < minInt64Float {
		return 0, false
	}
	day := int64(ms) % msPerDay
	if day < 0 {
		day += msPerDay
	}
	return day * nsPerMs, true
}

// legacyTime converts nanoseconds of the day back to legacy milliseconds.
func legacyTime(ns float64) float64 {
	if math.IsNaN(ns) {
		return ns
	}
	return ns / nsPerMs
}
