// Package view exposes a columnar table as a read-only legacy example set.
//
// A View reads cells straight from the table's columns; nothing is copied and
// the table stays owned by the caller, who must keep it alive while the view
// is in use. Nominal cells are dictionary positions, exactly as seen through
// the dictionary adapters of the view's attributes.
package view

import (
	"math"

	"github.com/ajitpratap0/tablebridge/pkg/columnar"
	"github.com/ajitpratap0/tablebridge/pkg/convert"
	"github.com/ajitpratap0/tablebridge/pkg/errors"
	"github.com/ajitpratap0/tablebridge/pkg/legacy"
)

const nsPerMs = 1_000_000

// View is a legacy.ExampleSet over a columnar table. It is safe for
// concurrent reads.
type View struct {
	table       *columnar.Table
	conv        *convert.Converter
	attrs       []legacy.AttributeRole
	annotations legacy.Annotations
	numeric     []*columnar.NumericReader
	categorical []*columnar.CategoricalReader
}

var _ legacy.ExampleSet = (*View)(nil)

// New creates a view over table. Attribute types and roles are derived by
// conv; a nil conv uses default options.
func New(table *columnar.Table, conv *convert.Converter) (*View, error) {
	if table == nil {
		return nil, errors.New(errors.ErrorTypeInvalidArgument, "table is nil")
	}
	if conv == nil {
		conv = convert.New(convert.Options{})
	}
	header, err := conv.Header(table)
	if err != nil {
		return nil, err
	}
	v := &View{
		table:       table,
		conv:        conv,
		attrs:       header.Attributes(),
		annotations: header.Annotations(),
		numeric:     make([]*columnar.NumericReader, table.Width()),
		categorical: make([]*columnar.CategoricalReader, table.Width()),
	}
	for i := 0; i < table.Width(); i++ {
		col := table.Column(i)
		if col.Type() == columnar.ColumnTypeNominal {
			r, err := col.CategoricalReader()
			if err != nil {
				return nil, err
			}
			v.categorical[i] = r
			continue
		}
		r, err := col.NumericReader()
		if err != nil {
			return nil, err
		}
		v.numeric[i] = r
	}
	return v, nil
}

// Table returns the underlying table.
func (v *View) Table() *columnar.Table { return v.table }

func (v *View) Size() int { return v.table.Height() }

func (v *View) Attributes() []legacy.AttributeRole { return v.attrs }

// Value returns the cell at row and attr. Time cells are legacy
// milliseconds; nominal cells are dictionary positions with missing as NaN.
func (v *View) Value(row, attr int) float64 {
	if r := v.categorical[attr]; r != nil {
		idx := r.Index(row)
		if idx == legacy.MissingIndex {
			return math.NaN()
		}
		return float64(idx)
	}
	x := v.numeric[attr].Value(row)
	if v.table.Column(attr).Type() == columnar.ColumnTypeTime {
		return x / nsPerMs
	}
	return x
}

// SetValue always fails: views are read-only.
func (v *View) SetValue(row, attr int, value float64) error {
	return errors.New(errors.ErrorTypeUnsupportedOperation, "columnar view is read-only")
}

// Annotations returns a copy of the table annotations.
func (v *View) Annotations() legacy.Annotations { return v.annotations.Clone() }

func (v *View) ThreadSafe() bool { return true }

// Clone returns an independent view over the same table.
func (v *View) Clone() (*View, error) {
	return New(v.table, v.conv)
}

// read copies the cells of attr starting at offset into dst and returns how
// many were copied.
func (v *View) read(attr int, dst []float64, offset int, scratch []int) int {
	if r := v.categorical[attr]; r != nil {
		n := r.Read(scratch[:len(dst)], offset)
		for i := 0; i < n; i++ {
			if scratch[i] == legacy.MissingIndex {
				dst[i] = math.NaN()
			} else {
				dst[i] = float64(scratch[i])
			}
		}
		return n
	}
	n := v.numeric[attr].Read(dst, offset)
	if v.table.Column(attr).Type() == columnar.ColumnTypeTime {
		for i := 0; i < n; i++ {
			dst[i] /= nsPerMs
		}
	}
	return n
}
