// Package concurrency provides the execution context conversions run their
// per-column tasks on: a bounded worker pool with cooperative cancellation.
package concurrency

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ajitpratap0/tablebridge/pkg/errors"
)

// Task is one unit of work. It should return promptly once ctx is done.
type Task func(ctx context.Context) error

// Context is the execution facility conversions run on.
type Context interface {
	// Call runs tasks and blocks until all completed or one failed.
	Call(ctx context.Context, tasks []Task) error
	// Submit starts tasks and returns without waiting.
	Submit(ctx context.Context, tasks []Task) *Batch
	// CheckStatus returns an execution_stopped error once the context is stopped.
	CheckStatus() error
	// Parallelism returns the number of tasks that may run at once.
	Parallelism() int
}

// Batch is a set of submitted tasks.
type Batch struct {
	done chan struct{}
	err  error
}

// Wait blocks until every task of the batch has returned and reports the
// first failure.
func (b *Batch) Wait() error {
	<-b.done
	return b.err
}

// PoolConfig configures a Pool.
type PoolConfig struct {
	Name    string
	Workers int // 0 = runtime.NumCPU()
}

// Pool runs tasks on at most Workers goroutines.
type Pool struct {
	name    string
	workers int
	logger  *zap.Logger

	stopped atomic.Bool
	stopCtx context.Context
	stop    context.CancelFunc

	tasksRun    atomic.Int64
	tasksFailed atomic.Int64
}

// NewPool creates a pool. A nil logger disables logging.
func NewPool(config PoolConfig, logger *zap.Logger) *Pool {
	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		name:    config.Name,
		workers: config.Workers,
		logger:  logger,
		stopCtx: ctx,
		stop:    cancel,
	}
}

// Stop signals every running and future task to stop.
func (p *Pool) Stop() {
	if p.stopped.CompareAndSwap(false, true) {
		p.stop()
		p.logger.Info("execution pool stopped",
			zap.String("name", p.name),
			zap.Int64("tasks_run", p.tasksRun.Load()),
			zap.Int64("tasks_failed", p.tasksFailed.Load()))
	}
}

// CheckStatus implements Context.
func (p *Pool) CheckStatus() error {
	if p.stopped.Load() {
		return errors.New(errors.ErrorTypeExecutionStopped, "execution pool stopped")
	}
	return nil
}

// Parallelism implements Context.
func (p *Pool) Parallelism() int { return p.workers }

// Call implements Context.
func (p *Pool) Call(ctx context.Context, tasks []Task) error {
	return p.Submit(ctx, tasks).Wait()
}

// Submit implements Context. Status is checked before the tasks start and
// again after they joined.
func (p *Pool) Submit(ctx context.Context, tasks []Task) *Batch {
	b := &Batch{done: make(chan struct{})}
	if err := p.status(ctx); err != nil {
		b.err = err
		close(b.done)
		return b
	}

	runCtx, cancel := mergeCancel(ctx, p.stopCtx)
	g, gctx := errgroup.WithContext(runCtx)
	g.SetLimit(p.workers)
	go func() {
		defer close(b.done)
		defer cancel()
		for i, task := range tasks {
			if gctx.Err() != nil {
				break
			}
			g.Go(func() error { return p.run(gctx, i, task) })
		}
		b.err = g.Wait()
		if err := p.status(ctx); err != nil {
			b.err = err
		}
	}()
	return b
}

func (p *Pool) run(ctx context.Context, i int, task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf(errors.ErrorTypeExecutionFailed, "task %d panicked: %v", i, r)
		}
		p.tasksRun.Add(1)
		if err != nil && !errors.IsStopped(err) {
			p.tasksFailed.Add(1)
			p.logger.Debug("task failed", zap.String("name", p.name), zap.Int("task", i), zap.Error(err))
		}
	}()
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeExecutionStopped, "execution cancelled")
	}
	return task(ctx)
}

func (p *Pool) status(ctx context.Context) error {
	if err := p.CheckStatus(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeExecutionStopped, "execution cancelled")
	}
	return nil
}

// mergeCancel returns a context cancelled when either parent is.
func mergeCancel(ctx, other context.Context) (context.Context, context.CancelFunc) {
	merged, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(other, cancel)
	return merged, func() {
		stop()
		cancel()
	}
}

// Inline runs tasks one after another on the calling goroutine, checking
// status before each.
func Inline(ctx context.Context, exec Context, tasks []Task) error {
	for _, task := range tasks {
		if err := exec.CheckStatus(); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, errors.ErrorTypeExecutionStopped, "execution cancelled")
		}
		if err := task(ctx); err != nil {
			return err
		}
	}
	return exec.CheckStatus()
}

// Map runs fn for every index in [0, n) on exec and returns results in index
// order.
func Map[T any](ctx context.Context, exec Context, n int, fn func(ctx context.Context, i int) (T, error)) ([]T, error) {
	out := make([]T, n)
	tasks := make([]Task, n)
	for i := range tasks {
		tasks[i] = func(ctx context.Context) error {
			v, err := fn(ctx, i)
			if err != nil {
				return err
			}
			out[i] = v
			return nil
		}
	}
	if err := exec.Call(ctx, tasks); err != nil {
		return nil, err
	}
	return out, nil
}

// Sequential is a Context with parallelism 1 that runs every batch on the
// calling goroutine.
type Sequential struct {
	mu      sync.Mutex
	stopped bool
}

// Stop makes CheckStatus fail from now on.
func (s *Sequential) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
}

func (s *Sequential) CheckStatus() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return errors.New(errors.ErrorTypeExecutionStopped, "execution stopped")
	}
	return nil
}

func (s *Sequential) Parallelism() int { return 1 }

func (s *Sequential) Call(ctx context.Context, tasks []Task) error {
	return Inline(ctx, s, tasks)
}

func (s *Sequential) Submit(ctx context.Context, tasks []Task) *Batch {
	b := &Batch{done: make(chan struct{}), err: s.Call(ctx, tasks)}
	close(b.done)
	return b
}
