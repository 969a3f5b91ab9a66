package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"promptline/executor"
)

// Dispatcher resolves named capabilities against request payloads. It
// supports single-target invocation and parallel fan-out over a set of keyed
// payloads, joined into an order-independent result map.
//
// Dispatcher implements ai.ToolRunner, so a chat model can route the tool
// calls an LLM requests straight through it.
type Dispatcher struct {
	registry *Registry
	pool     *executor.Pool
	logger   *slog.Logger
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger.With("component", "dispatch")
		}
	}
}

// NewDispatcher creates a dispatcher over the given registry and worker pool.
func NewDispatcher(registry *Registry, pool *executor.Pool, opts ...DispatcherOption) (*Dispatcher, error) {
	if registry == nil {
		return nil, ErrRegistryRequired
	}
	if pool == nil {
		return nil, ErrPoolRequired
	}

	d := &Dispatcher{
		registry: registry,
		pool:     pool,
		logger:   slog.Default().With("component", "dispatch"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Invoke resolves the named capability and applies it to payload.
// An unregistered name fails fast with ErrCapabilityNotFound before any
// network call; a handler failure is wrapped in *ExecutionError.
func (d *Dispatcher) Invoke(ctx context.Context, name string, payload json.RawMessage) (any, error) {
	capability, ok := d.registry.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCapabilityNotFound, name)
	}

	d.logger.Debug("invoking capability", "capability", name)
	out, err := capability.Handler(ctx, payload)
	if err != nil {
		return nil, &ExecutionError{Capability: name, Err: err}
	}
	return out, nil
}

// InvokeAll fans the named capability out over the keyed payloads, one worker
// task per key, and joins the results into a map keyed by the caller-supplied
// identifiers. Keying by identifier rather than submission order makes the
// mapping order-independent by construction.
//
// The join waits for every task. If any invocation fails, the whole fan-out
// fails with a *FanOutError naming the failing keys; partial results are
// logged but never returned. Cancelling ctx cancels the still-pending
// sub-tasks (advisory) and returns ctx's error.
func (d *Dispatcher) InvokeAll(ctx context.Context, name string, payloads map[string]json.RawMessage) (map[string]any, error) {
	if _, ok := d.registry.Lookup(name); !ok {
		return nil, fmt.Errorf("%w: %s", ErrCapabilityNotFound, name)
	}

	tc := executor.ContextOrNew(ctx)

	var mu sync.Mutex
	results := make(map[string]any, len(payloads))
	failures := make(map[string]error)

	handles := make(map[string]*executor.Handle, len(payloads))
	for key, payload := range payloads {
		h, err := d.pool.Submit(tc, func(taskCtx context.Context) error {
			out, err := d.Invoke(taskCtx, name, payload)
			if err != nil {
				return err
			}
			mu.Lock()
			results[key] = out
			mu.Unlock()
			return nil
		})
		if err != nil {
			failures[key] = err
			continue
		}
		handles[key] = h
	}

	for key, h := range handles {
		if err := h.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				d.cancelAll(handles)
				return nil, fmt.Errorf("fan-out of %s interrupted: %w", name, ctx.Err())
			}
			failures[key] = err
		}
	}

	if len(failures) > 0 {
		mu.Lock()
		partial := len(results)
		mu.Unlock()
		d.logger.Debug("fan-out failed, dropping partial results",
			"capability", name, "completed", partial, "failed", len(failures))
		return nil, &FanOutError{Capability: name, Failures: failures}
	}

	return results, nil
}

func (d *Dispatcher) cancelAll(handles map[string]*executor.Handle) {
	for _, h := range handles {
		h.Cancel()
	}
}
