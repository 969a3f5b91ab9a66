package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// Handler executes one capability invocation. The payload is the raw JSON
// argument object; the returned value is serialized back to the caller (or
// to the LLM, when the invocation came from a tool call).
type Handler func(ctx context.Context, payload json.RawMessage) (any, error)

// Capability is a named function the dispatcher can invoke on behalf of a
// request. Description and Parameters are surfaced to the LLM so it can
// decide when to call the capability; they are irrelevant to dispatch
// correctness.
type Capability struct {
	Name        string
	Description string
	Parameters  map[string]any // JSON schema for the argument object
	Handler     Handler
}

// Registry maps capability names to callable capabilities.
// Safe for concurrent use.
type Registry struct {
	mu   sync.RWMutex
	caps map[string]Capability
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{caps: make(map[string]Capability)}
}

// Register adds a capability. Names are unique; registering a duplicate name
// fails rather than silently replacing the earlier handler.
func (r *Registry) Register(c Capability) error {
	if c.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidCapability)
	}
	if c.Handler == nil {
		return fmt.Errorf("%w: %s has no handler", ErrInvalidCapability, c.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.caps[c.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateCapability, c.Name)
	}
	r.caps[c.Name] = c
	return nil
}

// Lookup resolves a capability by name.
func (r *Registry) Lookup(name string) (Capability, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.caps[name]
	return c, ok
}

// List returns all registered capabilities sorted by name.
func (r *Registry) List() []Capability {
	r.mu.RLock()
	defer r.mu.RUnlock()

	caps := make([]Capability, 0, len(r.caps))
	for _, c := range r.caps {
		caps = append(caps, c)
	}
	sort.Slice(caps, func(i, j int) bool { return caps[i].Name < caps[j].Name })
	return caps
}

// Len returns the number of registered capabilities.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.caps)
}
