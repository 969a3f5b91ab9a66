package gateway

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateBudgetValidate(t *testing.T) {
	tests := []struct {
		name   string
		budget RateBudget
		ok     bool
	}{
		{"valid", RateBudget{Capacity: 5, RefillRate: 5, Interval: 1500 * time.Millisecond}, true},
		{"zero capacity", RateBudget{Capacity: 0, RefillRate: 5, Interval: time.Second}, false},
		{"zero refill rate", RateBudget{Capacity: 5, RefillRate: 0, Interval: time.Second}, false},
		{"zero interval", RateBudget{Capacity: 5, RefillRate: 5}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.budget.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidBudget)
			}
		})
	}
}

func TestAcquireAllowsBurstUpToCapacity(t *testing.T) {
	limiter, err := NewLimiter(RateBudget{Capacity: 5, RefillRate: 5, Interval: 1500 * time.Millisecond})
	require.NoError(t, err)

	start := time.Now()
	for i := 0; i < 5; i++ {
		require.NoError(t, limiter.Acquire(context.Background()))
	}
	burst := time.Since(start)

	// The full burst must be admitted immediately.
	assert.Less(t, burst, 100*time.Millisecond)
}

func TestAcquireBlocksPastCapacity(t *testing.T) {
	// 5 tokens per 1500ms refills one token every 300ms.
	limiter, err := NewLimiter(RateBudget{Capacity: 5, RefillRate: 5, Interval: 1500 * time.Millisecond})
	require.NoError(t, err)

	start := time.Now()
	for i := 0; i < 5; i++ {
		require.NoError(t, limiter.Acquire(context.Background()))
	}

	// The 6th acquisition cannot complete before one refill period elapses.
	require.NoError(t, limiter.Acquire(context.Background()))
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, 280*time.Millisecond, "6th permit granted too early")
}

func TestAcquireInterruptedByCancellation(t *testing.T) {
	limiter, err := NewLimiter(RateBudget{Capacity: 1, RefillRate: 1, Interval: time.Minute})
	require.NoError(t, err)

	// Drain the single token.
	require.NoError(t, limiter.Acquire(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err = limiter.Acquire(ctx)
	assert.ErrorIs(t, err, ErrAcquireInterrupted)
}

func TestBudgetAccessor(t *testing.T) {
	budget := RateBudget{Capacity: 3, RefillRate: 3, Interval: time.Second}
	limiter, err := NewLimiter(budget)
	require.NoError(t, err)
	assert.Equal(t, budget, limiter.Budget())
}
