package executor

import "errors"

var (
	// ErrPoolReleased is returned when submitting to a released pool.
	ErrPoolReleased = errors.New("worker pool released")

	// ErrSubmitFailed is returned when the pool rejects a task.
	ErrSubmitFailed = errors.New("task submission failed")

	// ErrTaskCancelled is reported by a handle whose task was cancelled
	// before it started running.
	ErrTaskCancelled = errors.New("task cancelled before execution")
)
