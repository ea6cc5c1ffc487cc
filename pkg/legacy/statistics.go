package legacy

import "math"

// Statistics summarizes one attribute of an example set.
//
// Rows whose weight is missing are ignored except for the Missing count.
// Numeric summaries are NaN for nominal attributes and for attributes
// without a single non-missing value.
type Statistics struct {
	Attribute string
	Average   float64
	Min       float64
	Max       float64
	// Missing counts rows whose cell is NaN.
	Missing int
	// Weight is the summed weight of non-missing cells.
	Weight float64
	// Counts holds the weighted count per dictionary index for nominal attributes.
	Counts map[int]float64
	// Mode is the most frequent dictionary index, MissingIndex when none.
	Mode int
}

// Accumulator builds Statistics incrementally. Feeding the same cells in the
// same order always yields the same result, whatever storage they come from.
type Accumulator struct {
	name    string
	nominal bool
	sum     float64
	weight  float64
	min     float64
	max     float64
	seen    bool
	missing int
	counts  map[int]float64
}

// NewAccumulator starts statistics for one attribute.
func NewAccumulator(name string, nominal bool) *Accumulator {
	a := &Accumulator{name: name, nominal: nominal, min: math.Inf(1), max: math.Inf(-1)}
	if nominal {
		a.counts = make(map[int]float64)
	}
	return a
}

// Add feeds one cell with its row weight.
func (a *Accumulator) Add(v, w float64) {
	if math.IsNaN(v) {
		a.missing++
		return
	}
	if math.IsNaN(w) {
		return
	}
	a.seen = true
	a.weight += w
	if a.nominal {
		a.counts[int(v)] += w
		return
	}
	a.sum += v * w
	if v < a.min {
		a.min = v
	}
	if v > a.max {
		a.max = v
	}
}

// Result returns the accumulated statistics.
func (a *Accumulator) Result() Statistics {
	s := Statistics{
		Attribute: a.name,
		Average:   math.NaN(),
		Min:       math.NaN(),
		Max:       math.NaN(),
		Missing:   a.missing,
		Weight:    a.weight,
		Counts:    a.counts,
		Mode:      MissingIndex,
	}
	if a.nominal {
		best := 0.0
		for idx, c := range a.counts {
			if c > best || (c == best && s.Mode != MissingIndex && idx < s.Mode) {
				best, s.Mode = c, idx
			}
		}
		return s
	}
	if a.seen {
		s.Min, s.Max = a.min, a.max
		if a.weight != 0 {
			s.Average = a.sum / a.weight
		}
	}
	return s
}

// ComputeStatistics summarizes every attribute of set, weighting rows by the
// attribute with the weight role when there is one.
func ComputeStatistics(set ExampleSet) []Statistics {
	attrs := set.Attributes()
	acc := make([]*Accumulator, len(attrs))
	for i, ar := range attrs {
		acc[i] = NewAccumulator(ar.Attribute.Name, ar.Attribute.IsNominal())
	}
	weightIdx := RoleIndex(set, RoleWeight)
	for r := 0; r < set.Size(); r++ {
		w := 1.0
		if weightIdx >= 0 {
			w = set.Value(r, weightIdx)
		}
		for c := range attrs {
			acc[c].Add(set.Value(r, c), w)
		}
	}
	out := make([]Statistics, len(attrs))
	for i, a := range acc {
		out[i] = a.Result()
	}
	return out
}
