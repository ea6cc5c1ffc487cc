// Package legacy implements the row-oriented dataset model: examples as rows of
// float64 cells, attributes with value types, mutable shared dictionaries,
// roles and dataset annotations.
//
// Row consumers program against ExampleSet, implemented by Dataset, Subset,
// Header and the read-only columnar view.
package legacy

import (
	"math"
	"sort"

	"github.com/ajitpratap0/tablebridge/pkg/errors"
)

// Annotations are free-form notes on a whole dataset.
type Annotations map[string]string

// Keys returns the annotation keys in lexical order.
func (a Annotations) Keys() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a copy of the annotations.
func (a Annotations) Clone() Annotations {
	out := make(Annotations, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// ExampleSet is the read contract of every row-oriented dataset.
type ExampleSet interface {
	// Size returns the number of rows.
	Size() int
	// Attributes returns regular and special attributes in column order.
	Attributes() []AttributeRole
	// Value returns the cell at row and attribute position; NaN is missing.
	Value(row, attr int) float64
	// SetValue writes a cell.
	SetValue(row, attr int, v float64) error
	// Annotations returns the dataset annotations.
	Annotations() Annotations
	// ThreadSafe reports whether rows may be read from several goroutines.
	ThreadSafe() bool
}

// Dataset is the in-memory legacy dataset.
type Dataset struct {
	attributes  []AttributeRole
	rows        [][]float64
	annotations Annotations
	unsafeReads bool
}

// NewDataset creates an empty dataset over attrs. Attribute names must be
// unique and at most one attribute may hold each non-regular role.
func NewDataset(attrs ...AttributeRole) (*Dataset, error) {
	names := make(map[string]struct{}, len(attrs))
	roles := make(map[string]struct{})
	for i, ar := range attrs {
		if ar.Attribute == nil {
			return nil, errors.Newf(errors.ErrorTypeInvalidArgument, "attribute %d is nil", i)
		}
		if _, dup := names[ar.Attribute.Name]; dup {
			return nil, errors.Newf(errors.ErrorTypeInvalidArgument, "duplicate attribute name %q", ar.Attribute.Name)
		}
		names[ar.Attribute.Name] = struct{}{}
		if ar.IsSpecial() {
			if _, dup := roles[ar.Role]; dup {
				return nil, errors.Newf(errors.ErrorTypeInvalidArgument, "duplicate role %q", ar.Role)
			}
			roles[ar.Role] = struct{}{}
		}
		if ar.Attribute.IsNominal() && ar.Attribute.Mapping == nil {
			return nil, errors.Newf(errors.ErrorTypeInvalidArgument, "nominal attribute %q has no mapping", ar.Attribute.Name)
		}
	}
	return &Dataset{
		attributes:  append([]AttributeRole(nil), attrs...),
		annotations: make(Annotations),
	}, nil
}

// AddRow appends a row. The number of values must match the attribute count.
func (d *Dataset) AddRow(values ...float64) error {
	if len(values) != len(d.attributes) {
		return errors.Newf(errors.ErrorTypeInvalidArgument,
			"row has %d values, dataset has %d attributes", len(values), len(d.attributes))
	}
	d.rows = append(d.rows, append([]float64(nil), values...))
	return nil
}

// AddRows appends n rows produced by gen.
func (d *Dataset) AddRows(n int, gen func(row, attr int) float64) {
	for r := 0; r < n; r++ {
		row := make([]float64, len(d.attributes))
		for a := range row {
			row[a] = gen(len(d.rows), a)
		}
		d.rows = append(d.rows, row)
	}
}

func (d *Dataset) Size() int { return len(d.rows) }

func (d *Dataset) Attributes() []AttributeRole { return d.attributes }

// Value returns the cell with the attribute transformation applied.
func (d *Dataset) Value(row, attr int) float64 {
	v := d.rows[row][attr]
	if t := d.attributes[attr].Attribute.Transformation; t != nil {
		return t(v)
	}
	return v
}

// RawValue returns the stored cell without transformation.
func (d *Dataset) RawValue(row, attr int) float64 {
	return d.rows[row][attr]
}

func (d *Dataset) SetValue(row, attr int, v float64) error {
	if row < 0 || row >= len(d.rows) || attr < 0 || attr >= len(d.attributes) {
		return errors.Newf(errors.ErrorTypeOutOfRange, "cell (%d, %d) outside dataset", row, attr)
	}
	d.rows[row][attr] = v
	return nil
}

func (d *Dataset) Annotations() Annotations { return d.annotations }

// Annotate sets a dataset annotation.
func (d *Dataset) Annotate(key, value string) {
	d.annotations[key] = value
}

func (d *Dataset) ThreadSafe() bool { return !d.unsafeReads }

// MarkUnsafe declares that rows must be read from a single goroutine.
func (d *Dataset) MarkUnsafe() {
	d.unsafeReads = true
}

// AttributeIndex returns the position of the named attribute, or -1.
func AttributeIndex(set ExampleSet, name string) int {
	for i, ar := range set.Attributes() {
		if ar.Attribute.Name == name {
			return i
		}
	}
	return -1
}

// RoleIndex returns the position of the attribute with role, or -1.
func RoleIndex(set ExampleSet, role string) int {
	if role == RoleRegular {
		return -1
	}
	for i, ar := range set.Attributes() {
		if ar.Role == role {
			return i
		}
	}
	return -1
}

// Equal reports whether two example sets hold the same attributes (name,
// type, role and dictionary contents), annotations and cells.
func Equal(a, b ExampleSet) bool {
	if a.Size() != b.Size() || len(a.Attributes()) != len(b.Attributes()) {
		return false
	}
	for i, ar := range a.Attributes() {
		br := b.Attributes()[i]
		if ar.Role != br.Role || ar.Attribute.Name != br.Attribute.Name || ar.Attribute.Type != br.Attribute.Type {
			return false
		}
		if ar.Attribute.IsNominal() && !MappingsEqual(ar.Attribute.Mapping, br.Attribute.Mapping) {
			return false
		}
	}
	aa, ba := a.Annotations(), b.Annotations()
	if len(aa) != len(ba) {
		return false
	}
	for k, v := range aa {
		if bv, ok := ba[k]; !ok || bv != v {
			return false
		}
	}
	for r := 0; r < a.Size(); r++ {
		for c := range a.Attributes() {
			av, bv := a.Value(r, c), b.Value(r, c)
			if av != bv && !(math.IsNaN(av) && math.IsNaN(bv)) {
				return false
			}
		}
	}
	return true
}
