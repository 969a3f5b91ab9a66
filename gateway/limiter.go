package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

// RateBudget configures the outbound token bucket: up to Capacity calls may
// burst at once, and the bucket refills greedily at RefillRate tokens per
// Interval.
type RateBudget struct {
	Capacity   int
	RefillRate int
	Interval   time.Duration
}

// Validate checks the budget invariants.
func (b RateBudget) Validate() error {
	if b.Capacity < 1 {
		return fmt.Errorf("%w: capacity must be positive", ErrInvalidBudget)
	}
	if b.RefillRate < 1 {
		return fmt.Errorf("%w: refill rate must be positive", ErrInvalidBudget)
	}
	if b.Interval <= 0 {
		return fmt.Errorf("%w: interval must be positive", ErrInvalidBudget)
	}
	return nil
}

// perSecond converts the budget to a continuous refill rate.
func (b RateBudget) perSecond() rate.Limit {
	return rate.Limit(float64(b.RefillRate) / b.Interval.Seconds())
}

// Limiter throttles outbound provider calls with a shared token bucket.
// It holds no per-caller state: one instance gates the whole gateway, so
// backpressure is global, not per tenant.
//
// The bucket's mutable counter lives inside rate.Limiter and is only
// reachable through Acquire.
type Limiter struct {
	limiter *rate.Limiter
	budget  RateBudget
	logger  *slog.Logger
}

// NewLimiter creates a limiter from the given budget.
func NewLimiter(budget RateBudget) (*Limiter, error) {
	if err := budget.Validate(); err != nil {
		return nil, err
	}

	return &Limiter{
		limiter: rate.NewLimiter(budget.perSecond(), budget.Capacity),
		budget:  budget,
		logger:  slog.Default().With("component", "gateway-limiter"),
	}, nil
}

// Acquire blocks until one token is available, then consumes it and returns.
// A caller can wait indefinitely under sustained overload; that is the
// intended backpressure behavior. If ctx is cancelled while waiting, Acquire
// fails with ErrAcquireInterrupted and the caller must not proceed with the
// call it was gating.
func (l *Limiter) Acquire(ctx context.Context) error {
	l.logger.Debug("acquiring rate limit permit")
	if err := l.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrAcquireInterrupted, err)
	}
	return nil
}

// Budget returns the budget the limiter was created with.
func (l *Limiter) Budget() RateBudget {
	return l.budget
}
