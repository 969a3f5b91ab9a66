package executor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPool(t *testing.T, size int) *Pool {
	t.Helper()
	pool, err := NewPool(size)
	require.NoError(t, err)
	t.Cleanup(pool.Release)
	return pool
}

func TestTaskContextClone(t *testing.T) {
	tc := NewTaskContext()
	tc.Baggage = map[string]string{"tenant": "demo"}

	clone := tc.Clone()
	clone.Baggage["tenant"] = "other"

	assert.Equal(t, "demo", tc.Baggage["tenant"])
	assert.Equal(t, tc.CorrelationID, clone.CorrelationID)
}

func TestContextOrNew(t *testing.T) {
	t.Run("extracts installed context", func(t *testing.T) {
		tc := NewTaskContext()
		ctx := NewContext(context.Background(), tc)
		got := ContextOrNew(ctx)
		assert.Equal(t, tc.CorrelationID, got.CorrelationID)
	})

	t.Run("creates fresh context when absent", func(t *testing.T) {
		got := ContextOrNew(context.Background())
		assert.NotEmpty(t, got.CorrelationID)
	})
}

func TestSubmitPropagatesContext(t *testing.T) {
	pool := newTestPool(t, 2)

	tc := NewTaskContext()
	tc.TraceID = "trace-1"
	tc.Baggage = map[string]string{"tenant": "demo"}

	var observed TaskContext
	handle, err := pool.Submit(tc, func(ctx context.Context) error {
		got, ok := FromContext(ctx)
		require.True(t, ok)
		observed = got
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, handle.Wait(context.Background()))

	assert.Equal(t, tc.CorrelationID, observed.CorrelationID)
	assert.Equal(t, "trace-1", observed.TraceID)
	assert.Equal(t, "demo", observed.Baggage["tenant"])
}

func TestSubmitIsolatesConcurrentContexts(t *testing.T) {
	pool := newTestPool(t, 4)

	const n = 16
	var mu sync.Mutex
	seen := make(map[string]string, n)

	handles := make([]*Handle, 0, n)
	want := make(map[string]string, n)
	for i := 0; i < n; i++ {
		tc := NewTaskContext()
		tc.Baggage = map[string]string{"id": tc.CorrelationID}
		want[tc.CorrelationID] = tc.CorrelationID

		h, err := pool.Submit(tc, func(ctx context.Context) error {
			got, _ := FromContext(ctx)
			mu.Lock()
			seen[got.CorrelationID] = got.Baggage["id"]
			mu.Unlock()
			return nil
		})
		require.NoError(t, err)
		handles = append(handles, h)
	}

	for _, h := range handles {
		require.NoError(t, h.Wait(context.Background()))
	}
	assert.Equal(t, want, seen)
}

func TestHandleReportsTaskError(t *testing.T) {
	pool := newTestPool(t, 1)

	boom := errors.New("boom")
	h, err := pool.Submit(NewTaskContext(), func(ctx context.Context) error {
		return boom
	})
	require.NoError(t, err)

	assert.ErrorIs(t, h.Wait(context.Background()), boom)
	assert.ErrorIs(t, h.Err(), boom)
}

func TestCancelBeforeStartPreventsExecution(t *testing.T) {
	runCtx, cancel := context.WithCancel(context.Background())
	h := &Handle{
		ctx:    NewContext(runCtx, NewTaskContext()),
		done:   make(chan struct{}),
		cancel: cancel,
	}

	// Cancel before any worker picks the task up.
	h.Cancel()

	ran := false
	h.run(func(ctx context.Context) error {
		ran = true
		return nil
	})

	assert.ErrorIs(t, h.Wait(context.Background()), ErrTaskCancelled)
	assert.False(t, ran)
}

func TestCancelMidExecutionIsAdvisory(t *testing.T) {
	pool := newTestPool(t, 1)

	started := make(chan struct{})
	h, err := pool.Submit(NewTaskContext(), func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	})
	require.NoError(t, err)

	<-started
	h.Cancel()

	assert.ErrorIs(t, h.Wait(context.Background()), context.Canceled)
}

func TestSubmitAfterRelease(t *testing.T) {
	pool, err := NewPool(1)
	require.NoError(t, err)
	pool.Release()

	_, err = pool.Submit(NewTaskContext(), func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrPoolReleased)
}

func TestWaitHonorsCallerContext(t *testing.T) {
	pool := newTestPool(t, 1)

	release := make(chan struct{})
	h, err := pool.Submit(NewTaskContext(), func(ctx context.Context) error {
		<-release
		return nil
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, h.Wait(ctx), context.DeadlineExceeded)

	close(release)
	require.NoError(t, h.Wait(context.Background()))
}
