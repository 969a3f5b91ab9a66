package gateway

import "errors"

var (
	// ErrInvalidBudget is returned when a rate budget violates its invariants.
	ErrInvalidBudget = errors.New("invalid rate budget")

	// ErrAcquireInterrupted is returned when waiting for a permit was
	// cancelled. The gated call must not proceed.
	ErrAcquireInterrupted = errors.New("rate limit wait interrupted")

	// ErrChatModelRequired is returned when a client is built without a model.
	ErrChatModelRequired = errors.New("chat model required")

	// ErrEmptyReply is returned when the provider returns no usable content.
	ErrEmptyReply = errors.New("empty reply from model")
)
