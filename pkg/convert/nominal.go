package convert

import (
	"math"
	"sort"

	"github.com/ajitpratap0/tablebridge/pkg/columnar"
	"github.com/ajitpratap0/tablebridge/pkg/legacy"
)

// remap translates legacy dictionary indices into column positions.
type remap struct {
	dict      *columnar.Dictionary
	positions map[int]int
}

// position returns the column position of a legacy cell, 0 for missing cells
// and cells whose category was dropped.
func (r *remap) position(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return r.positions[int(v)]
}

// rebuildNominal derives the column dictionary of a nominal attribute from the
// categories its cells actually use, keeping legacy index order.
func rebuildNominal(m legacy.Mapping, values []float64) (*remap, error) {
	used := usedIndices(m, values)
	categories := make([]string, 0, len(used))
	positions := make(map[int]int, len(used))
	for i := 1; i < m.Size(); i++ {
		if !used[i] {
			continue
		}
		v, _ := m.Lookup(i)
		categories = append(categories, v)
		positions[i] = len(categories)
	}
	dict, err := columnar.NewDictionary(categories)
	if err != nil {
		return nil, err
	}
	return &remap{dict: dict, positions: positions}, nil
}

// rebuildBoolean is rebuildNominal for binominal attributes. Unused categories
// are dropped unless that would change which value is positive: a used
// negative keeps its positive alongside. ok is false when the cells use more
// than two categories; such attributes are stored as plain nominal columns.
func rebuildBoolean(m legacy.Mapping, values []float64) (rm *remap, ok bool, err error) {
	used := usedIndices(m, values)
	if len(used) > 2 {
		return nil, false, nil
	}
	var pos, neg int
	switch n := categoryCount(m); n {
	case 0:
	case 1:
		if pos, err = m.PositiveIndex(); err != nil {
			return nil, false, err
		}
	case 2:
		if pos, err = m.PositiveIndex(); err != nil {
			return nil, false, err
		}
		if neg, err = m.NegativeIndex(); err != nil {
			return nil, false, err
		}
	default:
		// The mapping has no legacy positive; the later used category is.
		idx := make([]int, 0, len(used))
		for i := range used {
			idx = append(idx, i)
		}
		sort.Ints(idx)
		switch len(idx) {
		case 1:
			pos = idx[0]
		case 2:
			neg, pos = idx[0], idx[1]
		}
	}

	r := &remap{positions: make(map[int]int, 2)}
	var categories []string
	positive := 0
	keepPositive := used[pos] || (neg != 0 && used[neg])
	if neg != 0 && used[neg] {
		v, _ := m.Lookup(neg)
		categories = append(categories, v)
		r.positions[neg] = len(categories)
	}
	if pos != 0 && keepPositive {
		v, _ := m.Lookup(pos)
		categories = append(categories, v)
		r.positions[pos] = len(categories)
		positive = len(categories)
	}
	dict, err := columnar.NewBooleanDictionary(categories, positive)
	if err != nil {
		return nil, false, err
	}
	r.dict = dict
	return r, true, nil
}

func usedIndices(m legacy.Mapping, values []float64) map[int]bool {
	used := make(map[int]bool)
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		i := int(v)
		if used[i] {
			continue
		}
		if _, ok := m.Lookup(i); ok {
			used[i] = true
		}
	}
	return used
}

func categoryCount(m legacy.Mapping) int {
	n := 0
	for i := 1; i < m.Size(); i++ {
		if _, ok := m.Lookup(i); ok {
			n++
		}
	}
	return n
}
