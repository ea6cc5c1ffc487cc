package legacy

import "math"

// Example is one row of an example set.
type Example struct {
	set ExampleSet
	row int
}

// ExampleAt returns the example at row.
func ExampleAt(set ExampleSet, row int) Example {
	return Example{set: set, row: row}
}

// Each calls fn for every example in order until fn returns false.
func Each(set ExampleSet, fn func(Example) bool) {
	for r := 0; r < set.Size(); r++ {
		if !fn(Example{set: set, row: r}) {
			return
		}
	}
}

// Row returns the row position of the example.
func (e Example) Row() int { return e.row }

// Value returns the cell of the attribute at position attr.
func (e Example) Value(attr int) float64 {
	return e.set.Value(e.row, attr)
}

// ValueByName returns the cell of the named attribute, NaN when absent.
func (e Example) ValueByName(name string) float64 {
	i := AttributeIndex(e.set, name)
	if i < 0 {
		return math.NaN()
	}
	return e.set.Value(e.row, i)
}

// NominalValue returns the category of the nominal attribute at position attr.
func (e Example) NominalValue(attr int) (string, bool) {
	return e.set.Attributes()[attr].Attribute.NominalValue(e.Value(attr))
}

// SetValue writes the cell of the attribute at position attr.
func (e Example) SetValue(attr int, v float64) error {
	return e.set.SetValue(e.row, attr, v)
}
