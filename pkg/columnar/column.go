package columnar

import (
	"math"
	"strconv"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/ajitpratap0/tablebridge/pkg/errors"
)

var (
	timestampType = &arrow.TimestampType{Unit: arrow.Millisecond, TimeZone: "UTC"}
	timeType      = &arrow.Time64Type{Unit: arrow.Nanosecond}
)

// Column is an immutable typed column backed by an Arrow array.
type Column struct {
	typ   ColumnType
	arr   arrow.Array
	dict  *Dictionary
	width IndexWidth
	meta  map[MetaKind]string
}

func allocator(mem memory.Allocator) memory.Allocator {
	if mem == nil {
		return memory.DefaultAllocator
	}
	return mem
}

// NewRealColumn builds a real column of n rows; NaN values become missing.
func NewRealColumn(mem memory.Allocator, n int, gen func(row int) float64) *Column {
	b := array.NewFloat64Builder(allocator(mem))
	defer b.Release()
	b.Reserve(n)
	for i := 0; i < n; i++ {
		if v := gen(i); math.IsNaN(v) {
			b.AppendNull()
		} else {
			b.Append(v)
		}
	}
	return &Column{typ: ColumnTypeReal, arr: b.NewArray()}
}

// NewIntegerColumn builds an integer column of n rows. gen reports false for
// missing cells.
func NewIntegerColumn(mem memory.Allocator, n int, gen func(row int) (int64, bool)) *Column {
	b := array.NewInt64Builder(allocator(mem))
	defer b.Release()
	b.Reserve(n)
	for i := 0; i < n; i++ {
		if v, ok := gen(i); ok {
			b.Append(v)
		} else {
			b.AppendNull()
		}
	}
	return &Column{typ: ColumnTypeInteger, arr: b.NewArray()}
}

// NewDateTimeColumn builds a date_time column of epoch milliseconds.
func NewDateTimeColumn(mem memory.Allocator, n int, gen func(row int) (int64, bool)) *Column {
	b := array.NewTimestampBuilder(allocator(mem), timestampType)
	defer b.Release()
	b.Reserve(n)
	for i := 0; i < n; i++ {
		if v, ok := gen(i); ok {
			b.Append(arrow.Timestamp(v))
		} else {
			b.AppendNull()
		}
	}
	return &Column{typ: ColumnTypeDateTime, arr: b.NewArray()}
}

// NewTimeColumn builds a time column of nanoseconds of the day.
func NewTimeColumn(mem memory.Allocator, n int, gen func(row int) (int64, bool)) *Column {
	b := array.NewTime64Builder(allocator(mem), timeType)
	defer b.Release()
	b.Reserve(n)
	for i := 0; i < n; i++ {
		if v, ok := gen(i); ok {
			b.Append(arrow.Time64(v))
		} else {
			b.AppendNull()
		}
	}
	return &Column{typ: ColumnTypeTime, arr: b.NewArray()}
}

// NewNominalColumn builds a nominal column of n rows over dict. gen returns
// dictionary positions; 0 is missing. The index width is the narrowest that
// fits dict.
func NewNominalColumn(mem memory.Allocator, n int, dict *Dictionary, gen func(row int) int) (*Column, error) {
	if dict == nil {
		return nil, errors.New(errors.ErrorTypeInvalidArgument, "dictionary is nil")
	}
	return newDictionaryColumn(allocator(mem), n, dict, WidthFor(dict.Categories()), gen)
}

// NewBooleanColumn builds a nominal column over a boolean dictionary.
func NewBooleanColumn(mem memory.Allocator, n int, dict *Dictionary, gen func(row int) int) (*Column, error) {
	if dict == nil || !dict.IsBoolean() {
		return nil, errors.New(errors.ErrorTypeInvalidArgument, "boolean column needs a boolean dictionary")
	}
	return newDictionaryColumn(allocator(mem), n, dict, IndexWidth2, gen)
}

func newDictionaryColumn(mem memory.Allocator, n int, dict *Dictionary, width IndexWidth, gen func(row int) int) (*Column, error) {
	positions := make([]int, n)
	for i := range positions {
		p := gen(i)
		if p < 0 || p >= dict.Size() {
			return nil, errors.Newf(errors.ErrorTypeOutOfRange,
				"row %d: position %d outside dictionary of size %d", i, p, dict.Size())
		}
		positions[i] = p
	}

	var indices arrow.Array
	switch width {
	case IndexWidth2, IndexWidth8:
		b := array.NewUint8Builder(mem)
		defer b.Release()
		indices = fillIndices[uint8](b, positions)
	case IndexWidth16:
		b := array.NewUint16Builder(mem)
		defer b.Release()
		indices = fillIndices[uint16](b, positions)
	default:
		b := array.NewInt32Builder(mem)
		defer b.Release()
		indices = fillIndices[int32](b, positions)
	}
	defer indices.Release()

	sb := array.NewStringBuilder(mem)
	defer sb.Release()
	sb.AppendValues(dict.categories(), nil)
	values := sb.NewArray()
	defer values.Release()

	typ := &arrow.DictionaryType{IndexType: width.arrowType(), ValueType: arrow.BinaryTypes.String}
	return &Column{
		typ:   ColumnTypeNominal,
		arr:   array.NewDictionaryArray(typ, indices, values),
		dict:  dict,
		width: width,
	}, nil
}

type indexBuilder[T uint8 | uint16 | int32] interface {
	Reserve(n int)
	Append(v T)
	AppendNull()
	NewArray() arrow.Array
}

// fillIndices appends positions shifted to Arrow's zero-based dictionary
// entries; position 0 becomes null.
func fillIndices[T uint8 | uint16 | int32](b indexBuilder[T], positions []int) arrow.Array {
	b.Reserve(len(positions))
	for _, p := range positions {
		if p == 0 {
			b.AppendNull()
		} else {
			b.Append(T(p - 1))
		}
	}
	return b.NewArray()
}

// Type returns the column type.
func (c *Column) Type() ColumnType { return c.typ }

// Len returns the number of rows.
func (c *Column) Len() int { return c.arr.Len() }

// Array returns the backing Arrow array. It must not be released by the caller.
func (c *Column) Array() arrow.Array { return c.arr }

// Dictionary returns the category table of a nominal column, nil otherwise.
func (c *Column) Dictionary() *Dictionary { return c.dict }

// Width returns the index width of a nominal column, 0 otherwise.
func (c *Column) Width() IndexWidth { return c.width }

// IsBoolean reports whether the column is nominal over a boolean dictionary.
func (c *Column) IsBoolean() bool { return c.dict != nil && c.dict.IsBoolean() }

// IsMissing reports whether the cell at row is missing.
func (c *Column) IsMissing(row int) bool { return c.arr.IsNull(row) }

// Meta returns the metadata value of kind.
func (c *Column) Meta(kind MetaKind) (string, bool) {
	v, ok := c.meta[kind]
	return v, ok
}

// WithMeta returns a column sharing c's data with kind set to value. An empty
// value removes the entry.
func (c *Column) WithMeta(kind MetaKind, value string) *Column {
	meta := make(map[MetaKind]string, len(c.meta)+1)
	for k, v := range c.meta {
		meta[k] = v
	}
	if value == "" {
		delete(meta, kind)
	} else {
		meta[kind] = value
	}
	c.arr.Retain()
	return &Column{typ: c.typ, arr: c.arr, dict: c.dict, width: c.width, meta: meta}
}

// Release drops the column's reference to its Arrow data.
func (c *Column) Release() { c.arr.Release() }

// Numeric returns the numeric cell at row, NaN when missing. Time cells are
// nanoseconds of the day, date_time cells epoch milliseconds. Nominal
// columns return their position.
func (c *Column) Numeric(row int) float64 {
	if c.arr.IsNull(row) {
		return math.NaN()
	}
	switch a := c.arr.(type) {
	case *array.Float64:
		return a.Value(row)
	case *array.Int64:
		return float64(a.Value(row))
	case *array.Timestamp:
		return float64(a.Value(row))
	case *array.Time64:
		return float64(a.Value(row))
	case *array.Dictionary:
		return float64(a.GetValueIndex(row) + 1)
	}
	return math.NaN()
}

// Index returns the dictionary position at row of a nominal column, 0 when
// missing.
func (c *Column) Index(row int) int {
	a, ok := c.arr.(*array.Dictionary)
	if !ok || a.IsNull(row) {
		return 0
	}
	return a.GetValueIndex(row) + 1
}

func (c *Column) field(name string) arrow.Field {
	keys := []string{keyColumnType}
	values := []string{c.typ.String()}
	if c.typ == ColumnTypeNominal {
		keys = append(keys, keyIndexWidth)
		values = append(values, strconv.Itoa(int(c.width)))
		if c.dict.IsBoolean() {
			keys = append(keys, keyPositive)
			values = append(values, strconv.Itoa(c.dict.Positive()))
		}
	}
	for _, kind := range MetaKinds {
		if v, ok := c.meta[kind]; ok {
			keys = append(keys, metaKey(kind))
			values = append(values, v)
		}
	}
	return arrow.Field{
		Name:     name,
		Type:     c.arr.DataType(),
		Nullable: true,
		Metadata: arrow.NewMetadata(keys, values),
	}
}

// columnFromArrow wraps arr, retaining it, using the field metadata written
// by field.
func columnFromArrow(f arrow.Field, arr arrow.Array) (*Column, error) {
	md := f.Metadata
	lookup := func(key string) (string, bool) {
		if i := md.FindKey(key); i >= 0 {
			return md.Values()[i], true
		}
		return "", false
	}

	c := &Column{arr: arr}
	switch a := arr.(type) {
	case *array.Float64:
		c.typ = ColumnTypeReal
	case *array.Int64:
		c.typ = ColumnTypeInteger
	case *array.Timestamp:
		if a.DataType().(*arrow.TimestampType).Unit != arrow.Millisecond {
			return nil, errors.Newf(errors.ErrorTypeData, "field %q: timestamps must be in milliseconds", f.Name)
		}
		c.typ = ColumnTypeDateTime
	case *array.Time64:
		if a.DataType().(*arrow.Time64Type).Unit != arrow.Nanosecond {
			return nil, errors.Newf(errors.ErrorTypeData, "field %q: times must be in nanoseconds", f.Name)
		}
		c.typ = ColumnTypeTime
	case *array.Dictionary:
		dict, err := dictionaryFromArrow(f.Name, a, lookup)
		if err != nil {
			return nil, err
		}
		c.typ = ColumnTypeNominal
		c.dict = dict
		c.width = WidthFor(dict.Categories())
		if raw, ok := lookup(keyIndexWidth); ok {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return nil, errors.Wrap(err, errors.ErrorTypeData, "invalid index width").WithDetail("field", f.Name)
			}
			w := IndexWidth(n)
			if !w.valid() || w < c.width {
				return nil, errors.Newf(errors.ErrorTypeData,
					"field %q: index width %d cannot address %d categories", f.Name, n, dict.Categories())
			}
			if idx := a.DataType().(*arrow.DictionaryType).IndexType; !arrow.TypeEqual(idx, w.arrowType()) {
				return nil, errors.Newf(errors.ErrorTypeData,
					"field %q: index width %d does not match index type %s", f.Name, n, idx)
			}
			c.width = w
		}
	default:
		return nil, errors.Newf(errors.ErrorTypeData, "field %q has unsupported type %s", f.Name, arr.DataType())
	}

	if want, ok := lookup(keyColumnType); ok && want != c.typ.String() {
		return nil, errors.Newf(errors.ErrorTypeData, "field %q declares %s but stores %s", f.Name, want, c.typ)
	}
	for _, kind := range MetaKinds {
		if v, ok := lookup(metaKey(kind)); ok {
			if c.meta == nil {
				c.meta = make(map[MetaKind]string)
			}
			c.meta[kind] = v
		}
	}
	arr.Retain()
	return c, nil
}

func dictionaryFromArrow(name string, a *array.Dictionary, lookup func(string) (string, bool)) (*Dictionary, error) {
	values, ok := a.Dictionary().(*array.String)
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeData, "field %q: dictionary values must be strings", name)
	}
	categories := make([]string, values.Len())
	for i := range categories {
		categories[i] = values.Value(i)
	}
	if p, ok := lookup(keyPositive); ok {
		positive, err := strconv.Atoi(p)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData, "invalid positive position").WithDetail("field", name)
		}
		d, err := NewBooleanDictionary(categories, positive)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData, "invalid boolean dictionary").WithDetail("field", name)
		}
		return d, nil
	}
	d, err := NewDictionary(categories)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "invalid dictionary").WithDetail("field", name)
	}
	return d, nil
}
