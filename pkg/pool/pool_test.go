package pool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoolReuse(t *testing.T) {
	resets := 0
	p := New(func() *[]int { s := make([]int, 0, 4); return &s }, func(s *[]int) {
		*s = (*s)[:0]
		resets++
	})
	obj := p.Get()
	*obj = append(*obj, 1, 2)
	p.Put(obj)
	assert.Equal(t, 1, resets)
	assert.Empty(t, *obj)

	allocated, inUse, _, misses := p.Stats()
	assert.Equal(t, int64(1), allocated)
	assert.Equal(t, int64(0), inUse)
	assert.Equal(t, int64(1), misses)
}

func TestFloat64PoolSizes(t *testing.T) {
	p := NewFloat64Pool()
	small := p.Get(10)
	assert.Len(t, small, 10)
	assert.Equal(t, 1<<10, cap(small))
	p.Put(small)

	mid := p.Get(5000)
	assert.Equal(t, 1<<14, cap(mid))
	p.Put(mid)

	huge := p.Get(1<<20 + 1)
	assert.Len(t, huge, 1<<20+1)
	p.Put(huge)
}

func TestFloat64PoolConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				buf := Float64s.Get(100 + g)
				for j := range buf {
					buf[j] = float64(g)
				}
				for _, v := range buf {
					assert.Equal(t, float64(g), v)
				}
				Float64s.Put(buf)
			}
		}(g)
	}
	wg.Wait()
}

func TestBuffersReset(t *testing.T) {
	b := Buffers.Get()
	b.WriteString("data")
	Buffers.Put(b)
	next := Buffers.Get()
	assert.Equal(t, 0, next.Len())
	Buffers.Put(next)
}
