// Package columnar is the typed, column-oriented table runtime on top of
// Apache Arrow.
//
// A Table is an ordered set of named columns of equal height. Every column
// has one of five types:
//
//   - nominal: an Arrow dictionary array over string categories
//   - real: float64
//   - integer: int64
//   - date_time: timestamp[ms, UTC]
//   - time: time64[ns], nanoseconds of the day
//
// Missing cells are Arrow nulls. Nominal columns expose an immutable
// Dictionary whose position 0 is reserved for "no value"; position i of the
// Dictionary is Arrow dictionary entry i-1. Boolean columns are nominal
// columns over at most two categories with an explicit positive entry.
//
// Columns are immutable once built. Per-column metadata (role,
// legacy_type, legacy_role) is attached with WithMeta, which returns a new
// column sharing the same data:
//
//	col := columnar.NewRealColumn(nil, len(v), func(i int) float64 { return v[i] }).
//		WithMeta(columnar.MetaRole, columnar.RoleLabel)
//	tbl, err := columnar.NewBuilder(len(v)).Add("price", col).Build(ctx)
//
// Tables convert to and from arrow.Record and round-trip through the Arrow
// IPC stream format with WriteIPC and ReadIPC. Column types, metadata,
// index widths and annotations travel as field and schema metadata.
package columnar
