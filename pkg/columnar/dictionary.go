package columnar

import (
	"github.com/ajitpratap0/tablebridge/pkg/errors"
)

// Dictionary is the immutable category table of a nominal column.
// Position 0 is the "no value" sentinel; categories occupy 1..Size()-1.
type Dictionary struct {
	values   []string
	index    map[string]int
	boolean  bool
	positive int
}

// NewDictionary creates a dictionary over categories, which must be distinct
// and non-empty. The empty string is reserved for the sentinel.
func NewDictionary(categories []string) (*Dictionary, error) {
	d := &Dictionary{
		values: make([]string, 1, len(categories)+1),
		index:  make(map[string]int, len(categories)),
	}
	for _, c := range categories {
		if c == "" {
			return nil, errors.New(errors.ErrorTypeInvalidArgument, "empty category is reserved for the missing value")
		}
		if _, dup := d.index[c]; dup {
			return nil, errors.Newf(errors.ErrorTypeInvalidArgument, "duplicate category %q", c)
		}
		d.index[c] = len(d.values)
		d.values = append(d.values, c)
	}
	return d, nil
}

// NewBooleanDictionary creates a dictionary of at most two categories where
// positive is the position of the positive category. positive must be 0 only
// for an empty dictionary.
func NewBooleanDictionary(categories []string, positive int) (*Dictionary, error) {
	if len(categories) > 2 {
		return nil, errors.Newf(errors.ErrorTypeInvalidArgument,
			"boolean dictionary holds at most 2 categories, got %d", len(categories))
	}
	if (len(categories) == 0) != (positive == 0) || positive < 0 || positive > len(categories) {
		return nil, errors.Newf(errors.ErrorTypeInvalidArgument,
			"positive position %d invalid for %d categories", positive, len(categories))
	}
	d, err := NewDictionary(categories)
	if err != nil {
		return nil, err
	}
	d.boolean = true
	d.positive = positive
	return d, nil
}

// Size returns the number of positions including the sentinel.
func (d *Dictionary) Size() int { return len(d.values) }

// Categories returns the number of categories.
func (d *Dictionary) Categories() int { return len(d.values) - 1 }

// Value returns the string at position i; the sentinel is "".
func (d *Dictionary) Value(i int) (string, error) {
	if i < 0 || i >= len(d.values) {
		return "", errors.Newf(errors.ErrorTypeOutOfRange, "position %d outside dictionary of size %d", i, len(d.values))
	}
	return d.values[i], nil
}

// IndexOf returns the position of category, or 0 when absent.
func (d *Dictionary) IndexOf(category string) int {
	return d.index[category]
}

// IsBoolean reports whether the dictionary carries an explicit positive entry.
func (d *Dictionary) IsBoolean() bool { return d.boolean }

// Positive returns the position of the positive category of a boolean
// dictionary, 0 when there is none.
func (d *Dictionary) Positive() int { return d.positive }

// Values returns a copy of every position, sentinel included.
func (d *Dictionary) Values() []string {
	return append([]string(nil), d.values...)
}

// categories returns the category strings without the sentinel. The slice
// must not be modified.
func (d *Dictionary) categories() []string { return d.values[1:] }

// Equal reports whether both dictionaries hold the same categories at the same
// positions and agree on the positive entry.
func (d *Dictionary) Equal(o *Dictionary) bool {
	if d == nil || o == nil {
		return d == o
	}
	if len(d.values) != len(o.values) || d.boolean != o.boolean || d.positive != o.positive {
		return false
	}
	for i := range d.values {
		if d.values[i] != o.values[i] {
			return false
		}
	}
	return true
}
