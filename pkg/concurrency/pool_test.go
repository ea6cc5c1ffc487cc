package concurrency

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ajitpratap0/tablebridge/pkg/errors"
)

func TestPoolRunsAllTasks(t *testing.T) {
	p := NewPool(PoolConfig{Name: "test", Workers: 3}, zaptest.NewLogger(t))
	assert.Equal(t, 3, p.Parallelism())

	var running, peak, total atomic.Int64
	tasks := make([]Task, 20)
	for i := range tasks {
		tasks[i] = func(ctx context.Context) error {
			n := running.Add(1)
			for {
				old := peak.Load()
				if n <= old || peak.CompareAndSwap(old, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			running.Add(-1)
			total.Add(1)
			return nil
		}
	}
	require.NoError(t, p.Call(context.Background(), tasks))
	assert.Equal(t, int64(20), total.Load())
	assert.LessOrEqual(t, peak.Load(), int64(3))
}

func TestPoolDefaultsWorkers(t *testing.T) {
	p := NewPool(PoolConfig{}, nil)
	assert.Positive(t, p.Parallelism())
}

func TestPoolFailure(t *testing.T) {
	p := NewPool(PoolConfig{Workers: 2}, zaptest.NewLogger(t))
	boom := fmt.Errorf("boom")
	err := p.Call(context.Background(), []Task{
		func(context.Context) error { return nil },
		func(context.Context) error { return boom },
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, p.CheckStatus())
}

func TestPoolRecoversPanics(t *testing.T) {
	p := NewPool(PoolConfig{Workers: 1}, zaptest.NewLogger(t))
	err := p.Call(context.Background(), []Task{func(context.Context) error { panic("bad column") }})
	assert.True(t, errors.IsType(err, errors.ErrorTypeExecutionFailed))
	assert.Contains(t, err.Error(), "bad column")
}

func TestPoolStop(t *testing.T) {
	p := NewPool(PoolConfig{Workers: 2}, zaptest.NewLogger(t))
	started := make(chan struct{})
	batch := p.Submit(context.Background(), []Task{func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return errors.Wrap(ctx.Err(), errors.ErrorTypeExecutionStopped, "stopped")
	}})
	<-started
	p.Stop()
	err := batch.Wait()
	assert.True(t, errors.IsStopped(err))
	assert.True(t, errors.IsType(p.CheckStatus(), errors.ErrorTypeExecutionStopped))

	err = p.Call(context.Background(), []Task{func(context.Context) error { return nil }})
	assert.True(t, errors.IsType(err, errors.ErrorTypeExecutionStopped))
	p.Stop()
}

func TestPoolContextCancelled(t *testing.T) {
	p := NewPool(PoolConfig{Workers: 2}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var ran atomic.Bool
	err := p.Call(ctx, []Task{func(context.Context) error { ran.Store(true); return nil }})
	assert.True(t, errors.IsType(err, errors.ErrorTypeExecutionStopped))
	assert.False(t, ran.Load())
}

func TestMapKeepsOrder(t *testing.T) {
	p := NewPool(PoolConfig{Workers: 4}, nil)
	out, err := Map(context.Background(), p, 50, func(_ context.Context, i int) (int, error) {
		time.Sleep(time.Duration(50-i) * time.Microsecond)
		return i * i, nil
	})
	require.NoError(t, err)
	for i, v := range out {
		assert.Equal(t, i*i, v)
	}

	_, err = Map(context.Background(), p, 3, func(_ context.Context, i int) (int, error) {
		if i == 1 {
			return 0, errors.New(errors.ErrorTypeData, "bad")
		}
		return i, nil
	})
	assert.True(t, errors.IsType(err, errors.ErrorTypeData))
}

func TestSequential(t *testing.T) {
	s := &Sequential{}
	assert.Equal(t, 1, s.Parallelism())
	var order []int
	tasks := []Task{
		func(context.Context) error { order = append(order, 1); return nil },
		func(context.Context) error { order = append(order, 2); return nil },
	}
	require.NoError(t, s.Submit(context.Background(), tasks).Wait())
	assert.Equal(t, []int{1, 2}, order)

	s.Stop()
	err := s.Call(context.Background(), tasks)
	assert.True(t, errors.IsType(err, errors.ErrorTypeExecutionStopped))
	assert.Equal(t, []int{1, 2}, order)
}
