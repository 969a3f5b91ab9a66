package ai

import (
	"context"
	"encoding/json"
)

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a
	// batch. The returned slice contains embeddings in the same order as the
	// input texts. Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// ChatModel sends one prompt to an LLM provider and returns the reply text.
// Implementations must be thread-safe for concurrent use.
//
// When tools are supplied via GenerateOption, the implementation is expected
// to run the full tool-call loop: execute each tool call the model requests
// through the configured ToolRunner, feed results back, and return only the
// final text reply.
type ChatModel interface {
	Generate(ctx context.Context, prompt string, opts ...GenerateOption) (string, error)
}

// ToolRunner executes a tool call requested by the model. The payload is the
// raw JSON argument object produced by the model.
type ToolRunner interface {
	Invoke(ctx context.Context, name string, payload json.RawMessage) (any, error)
}

// ToolDefinition describes a callable capability to the model. The
// description is what the LLM uses to decide when to invoke the tool; it has
// no bearing on dispatch correctness.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  map[string]any // JSON schema for the argument object
}

// Gate admits one outbound provider call at a time. Implementations block
// until a permit is available and fail only when the wait is cancelled.
// Every round trip to the provider, including intermediate tool-call rounds,
// must pass through the gate first.
type Gate interface {
	Acquire(ctx context.Context) error
}

// Provider aggregates AI services for convenient initialization and lifecycle
// management. A provider creates and manages Embedder and ChatModel instances,
// ensuring they share configuration and resources appropriately.
type Provider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// ChatModel returns the chat completion service.
	// The returned ChatModel is safe for concurrent use.
	ChatModel() ChatModel

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
