package view

import (
	"github.com/ajitpratap0/tablebridge/pkg/legacy"
	"github.com/ajitpratap0/tablebridge/pkg/pool"
)

const chunkRows = 4096

// Statistics summarizes every attribute straight from the column readers,
// weighting rows by the weight-role column when there is one. The result
// equals legacy.ComputeStatistics over the materialized dataset.
func (v *View) Statistics() []legacy.Statistics {
	rows := v.Size()
	var weights []float64
	if w := legacy.RoleIndex(v, legacy.RoleWeight); w >= 0 {
		weights = pool.Float64s.Get(rows)
		defer pool.Float64s.Put(weights)
		scratch := make([]int, min(rows, chunkRows))
		for off := 0; off < rows; off += chunkRows {
			end := min(off+chunkRows, rows)
			v.read(w, weights[off:end], off, scratch)
		}
	}

	buf := pool.Float64s.Get(min(rows, chunkRows))
	defer pool.Float64s.Put(buf)
	scratch := make([]int, len(buf))

	out := make([]legacy.Statistics, len(v.attrs))
	for i, ar := range v.attrs {
		acc := legacy.NewAccumulator(ar.Attribute.Name, ar.Attribute.IsNominal())
		for off := 0; off < rows; off += len(buf) {
			n := v.read(i, buf, off, scratch)
			for j := 0; j < n; j++ {
				w := 1.0
				if weights != nil {
					w = weights[off+j]
				}
				acc.Add(buf[j], w)
			}
		}
		out[i] = acc.Result()
	}
	return out
}
