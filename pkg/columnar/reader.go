package columnar

import (
	"math"

	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/ajitpratap0/tablebridge/pkg/errors"
)

// NumericReader reads a non-nominal column as float64 values.
type NumericReader struct {
	col   *Column
	value func(row int) float64
}

// NumericReader returns a reader over a real, integer, date_time or time
// column. Nominal columns yield a type_mismatch error.
func (c *Column) NumericReader() (*NumericReader, error) {
	r := &NumericReader{col: c}
	switch a := c.arr.(type) {
	case *array.Float64:
		r.value = a.Value
	case *array.Int64:
		r.value = func(row int) float64 { return float64(a.Value(row)) }
	case *array.Timestamp:
		r.value = func(row int) float64 { return float64(a.Value(row)) }
	case *array.Time64:
		r.value = func(row int) float64 { return float64(a.Value(row)) }
	default:
		return nil, errors.Newf(errors.ErrorTypeTypeMismatch, "%s column has no numeric reader", c.typ)
	}
	return r, nil
}

// Len returns the number of rows.
func (r *NumericReader) Len() int { return r.col.Len() }

// Value returns the cell at row, NaN when missing.
func (r *NumericReader) Value(row int) float64 {
	if r.col.arr.IsNull(row) {
		return math.NaN()
	}
	return r.value(row)
}

// Read copies cells starting at offset into dst and returns how many were
// copied.
func (r *NumericReader) Read(dst []float64, offset int) int {
	n := min(len(dst), r.Len()-offset)
	for i := 0; i < n; i++ {
		dst[i] = r.Value(offset + i)
	}
	return max(n, 0)
}

// CategoricalReader reads a nominal column as dictionary positions.
type CategoricalReader struct {
	arr  *array.Dictionary
	dict *Dictionary
}

// CategoricalReader returns a reader over a nominal column. Other columns
// yield a type_mismatch error.
func (c *Column) CategoricalReader() (*CategoricalReader, error) {
	a, ok := c.arr.(*array.Dictionary)
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeTypeMismatch, "%s column has no categorical reader", c.typ)
	}
	return &CategoricalReader{arr: a, dict: c.dict}, nil
}

// Len returns the number of rows.
func (r *CategoricalReader) Len() int { return r.arr.Len() }

// Index returns the dictionary position at row, 0 when missing.
func (r *CategoricalReader) Index(row int) int {
	if r.arr.IsNull(row) {
		return 0
	}
	return r.arr.GetValueIndex(row) + 1
}

// Category returns the category at row and whether the cell holds one.
func (r *CategoricalReader) Category(row int) (string, bool) {
	i := r.Index(row)
	if i == 0 {
		return "", false
	}
	return r.dict.values[i], true
}

// Dictionary returns the column's category table.
func (r *CategoricalReader) Dictionary() *Dictionary { return r.dict }

// Read copies positions starting at offset into dst and returns how many were
// copied.
func (r *CategoricalReader) Read(dst []int, offset int) int {
	n := min(len(dst), r.Len()-offset)
	for i := 0; i < n; i++ {
		dst[i] = r.Index(offset + i)
	}
	return max(n, 0)
}
