package dispatch

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrInvalidCapability is returned when registering a malformed capability.
	ErrInvalidCapability = errors.New("invalid capability")

	// ErrDuplicateCapability is returned when a name is registered twice.
	ErrDuplicateCapability = errors.New("capability already registered")

	// ErrCapabilityNotFound is returned when dispatching to an unregistered
	// name. The failure happens before any network call.
	ErrCapabilityNotFound = errors.New("capability not found")

	// ErrRegistryRequired is returned when a dispatcher is built without a registry.
	ErrRegistryRequired = errors.New("registry required")

	// ErrPoolRequired is returned when a dispatcher is built without a worker pool.
	ErrPoolRequired = errors.New("worker pool required")
)

// ExecutionError reports that a capability was resolved and invoked but its
// handler failed. It wraps the underlying cause so operators can distinguish
// "our dispatch logic failed" from "the provider failed".
type ExecutionError struct {
	Capability string
	Err        error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("capability %s failed: %v", e.Capability, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// FanOutError aggregates failures from a keyed fan-out. The join is
// all-or-nothing: when any sub-invocation fails, no result mapping is
// returned and the error names every failing key.
type FanOutError struct {
	Capability string
	Failures   map[string]error
}

// FailedKeys returns the failing keys in sorted order.
func (e *FanOutError) FailedKeys() []string {
	keys := make([]string, 0, len(e.Failures))
	for k := range e.Failures {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (e *FanOutError) Error() string {
	return fmt.Sprintf("fan-out of %s failed for keys [%s]",
		e.Capability, strings.Join(e.FailedKeys(), ", "))
}

// Unwrap exposes the underlying causes, so errors.Is matches any of them.
func (e *FanOutError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, k := range e.FailedKeys() {
		errs = append(errs, e.Failures[k])
	}
	return errs
}
