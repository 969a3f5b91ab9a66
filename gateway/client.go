package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"promptline/ai"
)

// Client is the caller-facing front of the gateway: it forwards prompts to a
// chat model and maps replies back. Rate limiting happens below the client,
// inside the model implementation, which acquires a permit for every provider
// round trip (see ai.Gate).
type Client struct {
	model  ai.ChatModel
	logger *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithClientLogger sets a custom logger.
// Default is slog.Default().
func WithClientLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a gateway client over the given chat model.
func NewClient(model ai.ChatModel, opts ...ClientOption) (*Client, error) {
	if model == nil {
		return nil, ErrChatModelRequired
	}

	c := &Client{
		model:  model,
		logger: slog.Default().With("component", "gateway-client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Ask sends a prompt and returns the model's text reply.
func (c *Client) Ask(ctx context.Context, prompt string, opts ...ai.GenerateOption) (string, error) {
	reply, err := c.model.Generate(ctx, prompt, opts...)
	if err != nil {
		return "", err
	}
	if reply == "" {
		return "", ErrEmptyReply
	}
	return reply, nil
}

// AskJSON sends a prompt in JSON mode and unmarshals the reply into out.
// Markdown code fences around the JSON are tolerated; some models wrap their
// output even in JSON mode.
func (c *Client) AskJSON(ctx context.Context, prompt string, out any, opts ...ai.GenerateOption) error {
	opts = append(opts, ai.WithJSONOutput())

	reply, err := c.model.Generate(ctx, prompt, opts...)
	if err != nil {
		return err
	}

	cleaned := stripCodeFences(reply)
	if cleaned == "" {
		return ErrEmptyReply
	}

	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		c.logger.Warn("error parsing model reply as JSON", "reply", cleaned, "err", err)
		return fmt.Errorf("parsing model reply: %w", err)
	}
	return nil
}

// stripCodeFences removes a surrounding markdown code fence, if present.
func stripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
