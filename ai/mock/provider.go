package mock

import "promptline/ai"

// Provider is a test double for ai.Provider aggregating mock services.
type Provider struct {
	embedder *Embedder
	chat     *ChatModel
}

// NewProvider creates a provider with default mock services.
//
// Returns ai.Provider since it is the primary entry point; use MockEmbedder
// and MockChatModel to reach the concrete types for assertions.
func NewProvider() ai.Provider {
	return &Provider{
		embedder: NewEmbedder(),
		chat:     NewChatModel("mock reply"),
	}
}

// Embedder returns the text embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// ChatModel returns the chat completion service.
func (p *Provider) ChatModel() ai.ChatModel {
	return p.chat
}

// Close releases nothing; mocks hold no resources.
func (p *Provider) Close() error {
	return nil
}

// MockEmbedder returns the concrete embedder for test assertions.
func (p *Provider) MockEmbedder() *Embedder {
	return p.embedder
}

// MockChatModel returns the concrete chat model for test assertions.
func (p *Provider) MockChatModel() *ChatModel {
	return p.chat
}
