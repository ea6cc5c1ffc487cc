// Package pool provides typed object pooling for the conversion hot paths:
// float64 scratch slices for column reads and byte buffers for serialization.
//
// Example usage:
//
//	buf := pool.Float64s.Get(rows)
//	defer pool.Float64s.Put(buf)
//
//	b := pool.Buffers.Get()
//	defer pool.Buffers.Put(b)
package pool

import (
	"bytes"
	"sync"
	"sync/atomic"
)

// Pool represents a generic object pool with type safety.
// It wraps sync.Pool with statistics tracking and an optional reset
// function. The pool is safe for concurrent use.
type Pool[T any] struct {
	pool  sync.Pool
	reset func(T)
	stats struct {
		allocated int64
		inUse     int64
		hits      int64
		misses    int64
	}
}

// New creates a new typed pool with custom allocation and reset functions.
// The reset function is called before an object goes back to the pool.
//
// Example:
//
//	pool := New(
//	    func() *Buffer { return &Buffer{data: make([]byte, 0, 1024)} },
//	    func(b *Buffer) { b.data = b.data[:0] },
//	)
func New[T any](new func() T, reset func(T)) *Pool[T] {
	p := &Pool[T]{reset: reset}
	p.pool.New = func() interface{} {
		atomic.AddInt64(&p.stats.allocated, 1)
		atomic.AddInt64(&p.stats.misses, 1)
		return new()
	}
	return p
}

// Get retrieves an object from the pool, creating one when it is empty.
func (p *Pool[T]) Get() T {
	atomic.AddInt64(&p.stats.inUse, 1)
	before := atomic.LoadInt64(&p.stats.misses)
	obj := p.pool.Get().(T)
	if atomic.LoadInt64(&p.stats.misses) == before {
		atomic.AddInt64(&p.stats.hits, 1)
	}
	return obj
}

// Put returns an object to the pool for reuse.
func (p *Pool[T]) Put(obj T) {
	if p.reset != nil {
		p.reset(obj)
	}
	atomic.AddInt64(&p.stats.inUse, -1)
	p.pool.Put(obj)
}

// Stats returns current pool statistics. Hits and misses are approximate
// under concurrent use.
func (p *Pool[T]) Stats() (allocated, inUse, hits, misses int64) {
	return atomic.LoadInt64(&p.stats.allocated),
		atomic.LoadInt64(&p.stats.inUse),
		atomic.LoadInt64(&p.stats.hits),
		atomic.LoadInt64(&p.stats.misses)
}

// Float64Pool manages float64 slice pooling with size-based buckets.
type Float64Pool struct {
	pools []*Pool[*[]float64]
	sizes []int
}

// NewFloat64Pool creates a pool with power-of-4 buckets from 1K to 1M
// elements. Larger requests are allocated directly.
func NewFloat64Pool() *Float64Pool {
	var sizes []int
	for s := 1 << 10; s <= 1<<20; s <<= 2 {
		sizes = append(sizes, s)
	}
	pools := make([]*Pool[*[]float64], len(sizes))
	for i, size := range sizes {
		pools[i] = New(func() *[]float64 {
			s := make([]float64, size)
			return &s
		}, nil)
	}
	return &Float64Pool{pools: pools, sizes: sizes}
}

// Get returns a slice of length n. Its contents are undefined.
func (p *Float64Pool) Get(n int) []float64 {
	for i, s := range p.sizes {
		if s >= n {
			return (*p.pools[i].Get())[:n]
		}
	}
	return make([]float64, n)
}

// Put returns a slice obtained from Get.
func (p *Float64Pool) Put(buf []float64) {
	for i, s := range p.sizes {
		if s == cap(buf) {
			buf = buf[:s]
			p.pools[i].Put(&buf)
			return
		}
	}
}

var (
	// Float64s is the shared float64 scratch pool.
	Float64s = NewFloat64Pool()

	// Buffers is the shared byte buffer pool.
	Buffers = New(
		func() *bytes.Buffer { return new(bytes.Buffer) },
		func(b *bytes.Buffer) { b.Reset() },
	)
)
