package mock

import (
	"context"
	"sync"

	"promptline/ai"
)

// ChatModel is a test double for ai.ChatModel.
type ChatModel struct {
	// GenerateFunc is called by Generate if set.
	// If nil, Generate returns Reply.
	GenerateFunc func(ctx context.Context, prompt string, opts ai.GenerateOptions) (string, error)

	// Reply is the canned response returned when GenerateFunc is nil.
	Reply string

	mu        sync.Mutex
	callCount int
	prompts   []string
}

// NewChatModel creates a mock chat model returning reply for every prompt.
// Returns the concrete type so tests can inject behavior and assert on calls.
func NewChatModel(reply string) *ChatModel {
	return &ChatModel{Reply: reply}
}

// Generate records the prompt and returns the scripted reply.
func (m *ChatModel) Generate(ctx context.Context, prompt string, opts ...ai.GenerateOption) (string, error) {
	m.mu.Lock()
	m.callCount++
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt, ai.ApplyGenerateOptions(opts...))
	}
	return m.Reply, nil
}

// CallCount returns the number of Generate calls.
func (m *ChatModel) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Prompts returns a copy of every prompt Generate received, in order.
func (m *ChatModel) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.prompts))
	copy(out, m.prompts)
	return out
}
