package executor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/panjf2000/ants/v2"
)

// Task is a unit of work executed on a pool worker. The context passed to the
// task carries the submitted TaskContext and is cancelled when the task's
// handle is cancelled. Cancellation is advisory: a long-running task should
// check ctx to stop early.
type Task func(ctx context.Context) error

// Pool executes tasks on a bounded set of workers, propagating an explicit
// TaskContext into each task. Submission queues when all workers are busy;
// it does not spin up unbounded goroutines.
type Pool struct {
	pool   *ants.Pool
	logger *slog.Logger
}

// Option configures a Pool.
type Option func(*poolOptions)

type poolOptions struct {
	logger *slog.Logger
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *poolOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewPool creates a pool with the given number of workers.
// A size below 1 falls back to runtime.NumCPU() / 2, with a minimum of 1.
func NewPool(size int, opts ...Option) (*Pool, error) {
	if size < 1 {
		size = runtime.NumCPU() / 2
		if size < 1 {
			size = 1
		}
	}

	options := &poolOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(options)
	}

	inner, err := ants.NewPool(size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSubmitFailed, err)
	}

	return &Pool{
		pool:   inner,
		logger: options.logger.With("component", "executor"),
	}, nil
}

// Submit schedules task on a pool worker with a copy of tc installed as the
// active task context. It returns a handle to the eventual result.
//
// The task runs with a context derived from context.Background, not from any
// caller context: the offloaded work outlives the submitting request, and the
// only cancellation signal it honors is the handle's.
func (p *Pool) Submit(tc TaskContext, task Task) (*Handle, error) {
	tc = tc.Clone()

	runCtx, cancel := context.WithCancel(context.Background())
	runCtx = NewContext(runCtx, tc)

	h := &Handle{
		ctx:    runCtx,
		done:   make(chan struct{}),
		cancel: cancel,
	}

	err := p.pool.Submit(func() { h.run(task) })
	if err != nil {
		cancel()
		if errors.Is(err, ants.ErrPoolClosed) {
			return nil, ErrPoolReleased
		}
		return nil, fmt.Errorf("%w: %w", ErrSubmitFailed, err)
	}

	p.logger.Debug("task submitted", "correlationId", tc.CorrelationID)
	return h, nil
}

// Running returns the number of tasks currently executing.
func (p *Pool) Running() int {
	return p.pool.Running()
}

// Cap returns the worker pool capacity.
func (p *Pool) Cap() int {
	return p.pool.Cap()
}

// Release shuts the pool down. Tasks already running are left to finish;
// further Submit calls fail with ErrPoolReleased.
func (p *Pool) Release() {
	p.pool.Release()
}

// Handle tracks one submitted task.
type Handle struct {
	ctx    context.Context
	done   chan struct{}
	cancel context.CancelFunc
	err    error // written once, before done is closed
}

// run executes the task body on a worker. A handle cancelled before the
// worker picks the task up never runs the body at all.
func (h *Handle) run(task Task) {
	defer close(h.done)

	if h.ctx.Err() != nil {
		h.err = fmt.Errorf("%w: %w", ErrTaskCancelled, h.ctx.Err())
		return
	}

	h.err = task(h.ctx)
}

// Done returns a channel closed when the task has finished (success, error,
// or cancellation before start).
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Err returns the task's result. Valid only after Done is closed; callers
// should use Wait or select on Done first.
func (h *Handle) Err() error {
	return h.err
}

// Cancel requests cancellation. Before the task starts it prevents the body
// from running; mid-execution it is advisory, cancelling the task's context.
func (h *Handle) Cancel() {
	h.cancel()
}

// Wait blocks until the task finishes or ctx is done, returning the task's
// error or ctx.Err() respectively.
func (h *Handle) Wait(ctx context.Context) error {
	select {
	case <-h.done:
		return h.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
