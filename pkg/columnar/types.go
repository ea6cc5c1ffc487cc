package columnar

import (
	"fmt"
	"strconv"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/ajitpratap0/tablebridge/pkg/errors"
)

// ColumnType represents the data type of a column
type ColumnType int

const (
	ColumnTypeNominal ColumnType = iota + 1
	ColumnTypeReal
	ColumnTypeInteger
	ColumnTypeDateTime
	ColumnTypeTime
)

var columnTypeNames = map[ColumnType]string{
	ColumnTypeNominal:  "nominal",
	ColumnTypeReal:     "real",
	ColumnTypeInteger:  "integer",
	ColumnTypeDateTime: "date_time",
	ColumnTypeTime:     "time",
}

func (t ColumnType) String() string {
	if s, ok := columnTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("ColumnType(%d)", int(t))
}

// ParseColumnType resolves a column type name.
func ParseColumnType(s string) (ColumnType, error) {
	for t, name := range columnTypeNames {
		if name == s {
			return t, nil
		}
	}
	return 0, errors.Newf(errors.ErrorTypeInvalidArgument, "unknown column type %q", s)
}

// IsNumeric reports whether the column stores numbers rather than categories.
func (t ColumnType) IsNumeric() bool {
	return t != ColumnTypeNominal
}

// IndexWidth is the storage width of nominal indices.
type IndexWidth int

const (
	IndexWidth2  IndexWidth = 2
	IndexWidth8  IndexWidth = 8
	IndexWidth16 IndexWidth = 16
	IndexWidth32 IndexWidth = 32
)

// WidthFor returns the narrowest width able to address categories entries
// plus the "no value" position.
func WidthFor(categories int) IndexWidth {
	switch {
	case categories <= 3:
		return IndexWidth2
	case categories <= 1<<8:
		return IndexWidth8
	case categories <= 1<<16:
		return IndexWidth16
	default:
		return IndexWidth32
	}
}

func (w IndexWidth) valid() bool {
	switch w {
	case IndexWidth2, IndexWidth8, IndexWidth16, IndexWidth32:
		return true
	}
	return false
}

func (w IndexWidth) String() string {
	return strconv.Itoa(int(w)) + "-bit"
}

// arrowType is the physical Arrow index type. 2-bit indices are stored in bytes.
func (w IndexWidth) arrowType() arrow.DataType {
	switch w {
	case IndexWidth2, IndexWidth8:
		return arrow.PrimitiveTypes.Uint8
	case IndexWidth16:
		return arrow.PrimitiveTypes.Uint16
	default:
		return arrow.PrimitiveTypes.Int32
	}
}

// MetaKind names a per-column metadata entry.
type MetaKind string

const (
	// MetaRole holds the column's role tag.
	MetaRole MetaKind = "role"
	// MetaLegacyType holds the row-oriented value type the column came from.
	MetaLegacyType MetaKind = "legacy_type"
	// MetaLegacyRole holds the exact row-oriented role name.
	MetaLegacyRole MetaKind = "legacy_role"
)

// MetaKinds lists every metadata kind in a stable order.
var MetaKinds = []MetaKind{MetaRole, MetaLegacyType, MetaLegacyRole}

// Role tags carried under MetaRole.
const (
	RoleID         = "id"
	RoleLabel      = "label"
	RolePrediction = "prediction"
	RoleCluster    = "cluster"
	RoleWeight     = "weight"
	RoleBatch      = "batch"
	RoleOutlier    = "outlier"
	RoleScore      = "score"
	RoleMetadata   = "metadata"
)

// Keys used in Arrow field and schema metadata.
const (
	metaPrefix       = "tablebridge."
	keyColumnType    = metaPrefix + "column_type"
	keyIndexWidth    = metaPrefix + "index_width"
	keyPositive      = metaPrefix + "positive"
	annotationPrefix = metaPrefix + "annotation."
)

func metaKey(kind MetaKind) string {
	return metaPrefix + string(kind)
}
