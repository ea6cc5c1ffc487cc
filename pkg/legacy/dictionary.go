package legacy

import (
	"sort"
	"sync"

	"github.com/ajitpratap0/tablebridge/pkg/errors"
)

const (
	// MissingIndex is the dictionary index reserved for "no value".
	MissingIndex = 0
	// MissingValue is the string stored at MissingIndex. It is never a
	// category: dictionaries reject it on Intern and Set.
	MissingValue = ""
)

func missingCategory() error {
	return errors.New(errors.ErrorTypeInvalidArgument, "empty category is reserved for the missing value")
}

// Mapping is the bidirectional string↔index contract nominal attributes use.
// Index 0 is reserved for "no value" and never maps to a category.
type Mapping interface {
	// Size returns the dictionary length including the sentinel.
	Size() int
	// ValueAt returns the string at index, or MissingValue for the sentinel
	// and unassigned positions.
	ValueAt(index int) (string, error)
	// Lookup returns the category at index and whether it denotes one.
	Lookup(index int) (string, bool)
	// IndexOf returns the index of value, or MissingIndex when absent.
	IndexOf(value string) int
	// Intern returns the index of value, adding it when the mapping allows.
	Intern(value string) (int, error)
	// Set assigns value to index.
	Set(index int, value string) error
	// Sort reorders the categories lexically.
	Sort() error
	// Clear removes every category.
	Clear() error
	PositiveIndex() (int, error)
	NegativeIndex() (int, error)
	PositiveString() (string, error)
	NegativeString() (string, error)
	// Values returns a copy of all positions, sentinel included.
	Values() []string
}

// MappingsEqual reports whether a and b have the same size and the same value
// at every index, independent of their concrete representation.
func MappingsEqual(a, b Mapping) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Size() != b.Size() {
		return false
	}
	for i := 1; i < a.Size(); i++ {
		av, aok := a.Lookup(i)
		bv, bok := b.Lookup(i)
		if aok != bok || av != bv {
			return false
		}
	}
	return true
}

// Dictionary is the mutable legacy dictionary. Several attributes may share
// one instance; reads and writes are synchronized.
type Dictionary struct {
	mu        sync.RWMutex
	values    []string
	present   []bool
	index     map[string]int
	binominal bool
}

// NewDictionary creates a dictionary holding values in order.
// Duplicates are interned once and MissingValue is skipped.
func NewDictionary(values ...string) *Dictionary {
	d := &Dictionary{
		values:  []string{MissingValue},
		present: []bool{false},
		index:   make(map[string]int, len(values)),
	}
	for _, v := range values {
		if v != MissingValue {
			d.intern(v)
		}
	}
	return d
}

// NewBinominalDictionary creates a dictionary limited to two categories.
// With two values the first is negative and the second positive.
func NewBinominalDictionary(values ...string) (*Dictionary, error) {
	d := NewDictionary()
	d.binominal = true
	for _, v := range values {
		if _, err := d.Intern(v); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// IsBinominal reports whether the dictionary is limited to two categories.
func (d *Dictionary) IsBinominal() bool {
	return d.binominal
}

func (d *Dictionary) Size() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.values)
}

func (d *Dictionary) ValueAt(index int) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if index < 0 || index >= len(d.values) {
		return "", errors.Newf(errors.ErrorTypeOutOfRange, "index %d outside dictionary of size %d", index, len(d.values))
	}
	return d.values[index], nil
}

func (d *Dictionary) Lookup(index int) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if index <= MissingIndex || index >= len(d.values) || !d.present[index] {
		return "", false
	}
	return d.values[index], true
}

func (d *Dictionary) IndexOf(value string) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if i, ok := d.index[value]; ok {
		return i
	}
	return MissingIndex
}

func (d *Dictionary) Intern(value string) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if i, ok := d.index[value]; ok {
		return i, nil
	}
	if value == MissingValue {
		return MissingIndex, missingCategory()
	}
	if d.binominal && len(d.index) >= 2 {
		return MissingIndex, errors.Newf(errors.ErrorTypeTypeMismatch,
			"binominal dictionary cannot hold a third value %q", value)
	}
	return d.intern(value), nil
}

func (d *Dictionary) intern(value string) int {
	if i, ok := d.index[value]; ok {
		return i
	}
	i := len(d.values)
	d.values = append(d.values, value)
	d.present = append(d.present, true)
	d.index[value] = i
	return i
}

func (d *Dictionary) Set(index int, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if index <= MissingIndex {
		return errors.Newf(errors.ErrorTypeOutOfRange, "cannot assign index %d", index)
	}
	if value == MissingValue {
		return missingCategory()
	}
	if other, ok := d.index[value]; ok && other != index {
		return errors.Newf(errors.ErrorTypeInvalidArgument, "value %q already mapped to index %d", value, other)
	}
	replacing := index < len(d.values) && d.present[index]
	if d.binominal && !replacing && len(d.index) >= 2 {
		return errors.Newf(errors.ErrorTypeTypeMismatch, "binominal dictionary cannot hold a third value %q", value)
	}
	for len(d.values) <= index {
		d.values = append(d.values, MissingValue)
		d.present = append(d.present, false)
	}
	if replacing {
		delete(d.index, d.values[index])
	}
	d.values[index] = value
	d.present[index] = true
	d.index[value] = index
	return nil
}

func (d *Dictionary) Sort() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	categories := make([]string, 0, len(d.index))
	for i := 1; i < len(d.values); i++ {
		if d.present[i] {
			categories = append(categories, d.values[i])
		}
	}
	sort.Strings(categories)
	d.values = d.values[:1]
	d.present = d.present[:1]
	d.index = make(map[string]int, len(categories))
	for _, c := range categories {
		d.intern(c)
	}
	return nil
}

func (d *Dictionary) Clear() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.values = d.values[:1]
	d.present = d.present[:1]
	d.index = make(map[string]int)
	return nil
}

// categories returns the indices that denote a category, in index order.
func (d *Dictionary) categories() []int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]int, 0, len(d.index))
	for i := 1; i < len(d.values); i++ {
		if d.present[i] {
			out = append(out, i)
		}
	}
	return out
}

func (d *Dictionary) PositiveIndex() (int, error) {
	cats := d.categories()
	switch len(cats) {
	case 1:
		return cats[0], nil
	case 2:
		return cats[1], nil
	}
	return MissingIndex, errors.Newf(errors.ErrorTypeTypeMismatch,
		"positive value needs 1 or 2 categories, dictionary has %d", len(cats))
}

func (d *Dictionary) NegativeIndex() (int, error) {
	cats := d.categories()
	if len(cats) != 2 {
		return MissingIndex, errors.Newf(errors.ErrorTypeTypeMismatch,
			"negative value needs 2 categories, dictionary has %d", len(cats))
	}
	return cats[0], nil
}

func (d *Dictionary) PositiveString() (string, error) {
	i, err := d.PositiveIndex()
	if err != nil {
		return "", err
	}
	return d.ValueAt(i)
}

func (d *Dictionary) NegativeString() (string, error) {
	i, err := d.NegativeIndex()
	if err != nil {
		return "", err
	}
	return d.ValueAt(i)
}

func (d *Dictionary) Values() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]string, len(d.values))
	copy(out, d.values)
	return out
}

// Clone returns an independent copy of the dictionary.
func (d *Dictionary) Clone() *Dictionary {
	d.mu.RLock()
	defer d.mu.RUnlock()
	c := &Dictionary{
		values:    append([]string(nil), d.values...),
		present:   append([]bool(nil), d.present...),
		index:     make(map[string]int, len(d.index)),
		binominal: d.binominal,
	}
	for k, v := range d.index {
		c.index[k] = v
	}
	return c
}

// CopyOf copies any mapping into a fresh Dictionary, keeping every index.
func CopyOf(m Mapping, binominal bool) *Dictionary {
	d := NewDictionary()
	d.binominal = binominal
	for i := 1; i < m.Size(); i++ {
		v, ok := m.Lookup(i)
		if !ok {
			d.values = append(d.values, MissingValue)
			d.present = append(d.present, false)
			continue
		}
		d.values = append(d.values, v)
		d.present = append(d.present, true)
		d.index[v] = i
	}
	return d
}
