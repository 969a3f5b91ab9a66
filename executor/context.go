package executor

import (
	"context"
	"maps"

	"github.com/google/uuid"
)

// TaskContext carries request-scoped identity into offloaded work: a
// correlation id, trace/span identifiers, and arbitrary key-value baggage.
//
// A TaskContext is captured at submission time and attached to the task as an
// explicit value, not ambient state. The pool never mutates a submitted
// TaskContext; each task receives its own copy.
type TaskContext struct {
	CorrelationID string
	TraceID       string
	SpanID        string
	Baggage       map[string]string
}

// NewTaskContext returns a TaskContext with a fresh correlation id.
func NewTaskContext() TaskContext {
	return TaskContext{CorrelationID: uuid.NewString()}
}

// Clone returns a deep copy, so concurrent tasks cannot interfere with each
// other's baggage.
func (tc TaskContext) Clone() TaskContext {
	clone := tc
	if tc.Baggage != nil {
		clone.Baggage = maps.Clone(tc.Baggage)
	}
	return clone
}

type taskContextKey struct{}

// NewContext returns a context carrying tc.
func NewContext(ctx context.Context, tc TaskContext) context.Context {
	return context.WithValue(ctx, taskContextKey{}, tc)
}

// FromContext extracts the TaskContext installed in ctx, if any.
func FromContext(ctx context.Context) (TaskContext, bool) {
	tc, ok := ctx.Value(taskContextKey{}).(TaskContext)
	return tc, ok
}

// ContextOrNew extracts the TaskContext from ctx, or creates a fresh one when
// ctx carries none. Use at submission boundaries so offloaded work is always
// correlated.
func ContextOrNew(ctx context.Context) TaskContext {
	if tc, ok := FromContext(ctx); ok {
		return tc
	}
	return NewTaskContext()
}
