// Copyright 2025 Promptline Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"promptline/ai"
)

var (
	// ErrNoChoices is returned when the provider reply carries no choices.
	ErrNoChoices = errors.New("model returned no choices")

	// ErrToolRoundsExceeded is returned when the tool-call loop does not
	// converge within the configured number of rounds.
	ErrToolRoundsExceeded = errors.New("tool call rounds exceeded")

	// ErrRunnerRequired is returned when tools are supplied without a runner
	// to execute them.
	ErrRunnerRequired = errors.New("tool runner required when tools are set")
)

// ChatModel implements ai.ChatModel using OpenAI-compatible chat APIs.
// Every provider round trip, including intermediate tool-call rounds,
// acquires a permit from the gate first.
type ChatModel struct {
	client        llms.Model
	gate          ai.Gate
	maxToolRounds int
	logger        *slog.Logger
}

// ChatOption configures a ChatModel.
type ChatOption func(*ChatModel)

// WithGate installs a rate gate in front of provider calls.
// Default is no gating.
func WithGate(gate ai.Gate) ChatOption {
	return func(m *ChatModel) {
		m.gate = gate
	}
}

// newChatModel is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newChatModel(config *ai.Config, opts ...ChatOption) (*ChatModel, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.Host),
		openai.WithToken(config.APIKey),
		openai.WithModel(config.ChatModel),
	)
	if err != nil {
		return nil, err
	}

	m := &ChatModel{
		client:        client,
		maxToolRounds: config.MaxToolRounds,
		logger:        slog.Default().With("component", "openai-chat"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// NewChatModel creates a chat model using the provided configuration.
//
// Returns ai.ChatModel interface to enforce abstraction.
func NewChatModel(config *ai.Config, opts ...ChatOption) (ai.ChatModel, error) {
	return newChatModel(config, opts...)
}

// Generate sends the prompt and returns the final text reply. When tools are
// configured it runs the tool-call loop: every tool call the model requests
// is executed through the runner and its result fed back, until the model
// answers with text or the round budget runs out.
func (m *ChatModel) Generate(ctx context.Context, prompt string, opts ...ai.GenerateOption) (string, error) {
	options := ai.ApplyGenerateOptions(opts...)
	if len(options.Tools) > 0 && options.Runner == nil {
		return "", ErrRunnerRequired
	}

	history := buildInitialMessages(prompt, options)
	callOpts := buildCallOptions(options)

	rounds := m.maxToolRounds
	if len(options.Tools) == 0 {
		rounds = 1
	}

	for round := 0; round < rounds; round++ {
		choice, err := m.generateRound(ctx, history, callOpts)
		if err != nil {
			return "", err
		}

		if len(choice.ToolCalls) == 0 {
			return choice.Content, nil
		}

		// A model can emit tool calls even when none were offered. With no
		// runner there is nothing to execute, so the text reply stands.
		if options.Runner == nil {
			m.logger.Warn("ignoring unsolicited tool calls", "calls", len(choice.ToolCalls))
			return choice.Content, nil
		}

		m.logger.Debug("model requested tool calls",
			"round", round+1, "calls", len(choice.ToolCalls))

		toolMessages, err := m.runToolCalls(ctx, options.Runner, choice.ToolCalls)
		if err != nil {
			return "", err
		}
		history = append(history, assistantToolCallMessage(choice.ToolCalls))
		history = append(history, toolMessages...)
	}

	return "", fmt.Errorf("%w: %d", ErrToolRoundsExceeded, m.maxToolRounds)
}

// generateRound makes one gated round trip to the provider.
func (m *ChatModel) generateRound(ctx context.Context, history []llms.MessageContent, callOpts []llms.CallOption) (*llms.ContentChoice, error) {
	if m.gate != nil {
		if err := m.gate.Acquire(ctx); err != nil {
			return nil, err
		}
	}

	response, err := m.client.GenerateContent(ctx, history, callOpts...)
	if err != nil {
		m.logger.Error("failed to generate content", "err", err)
		return nil, err
	}
	if len(response.Choices) < 1 {
		return nil, ErrNoChoices
	}
	return response.Choices[0], nil
}

// runToolCalls executes every requested tool call through the runner and
// renders the results as tool messages for the next round.
func (m *ChatModel) runToolCalls(ctx context.Context, runner ai.ToolRunner, calls []llms.ToolCall) ([]llms.MessageContent, error) {
	messages := make([]llms.MessageContent, 0, len(calls))
	for _, call := range calls {
		if call.FunctionCall == nil {
			continue
		}

		out, err := runner.Invoke(ctx, call.FunctionCall.Name, json.RawMessage(call.FunctionCall.Arguments))
		if err != nil {
			return nil, fmt.Errorf("running tool %s: %w", call.FunctionCall.Name, err)
		}

		encoded, err := json.Marshal(out)
		if err != nil {
			return nil, fmt.Errorf("encoding result of tool %s: %w", call.FunctionCall.Name, err)
		}

		messages = append(messages, llms.MessageContent{
			Role: llms.ChatMessageTypeTool,
			Parts: []llms.ContentPart{
				llms.ToolCallResponse{
					ToolCallID: call.ID,
					Name:       call.FunctionCall.Name,
					Content:    string(encoded),
				},
			},
		})
	}
	return messages, nil
}

// buildInitialMessages assembles the system and user messages for the first
// round, attaching an image part for multimodal prompts.
func buildInitialMessages(prompt string, options ai.GenerateOptions) []llms.MessageContent {
	var history []llms.MessageContent

	if options.SystemPrompt != "" {
		history = append(history, llms.MessageContent{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(options.SystemPrompt)},
		})
	}

	userParts := []llms.ContentPart{llms.TextPart(prompt)}
	if options.ImageURL != "" {
		userParts = append(userParts, llms.ImageURLPart(options.ImageURL))
	}
	history = append(history, llms.MessageContent{
		Role:  llms.ChatMessageTypeHuman,
		Parts: userParts,
	})
	return history
}

// buildCallOptions maps generate options to provider call options.
func buildCallOptions(options ai.GenerateOptions) []llms.CallOption {
	var callOpts []llms.CallOption

	if options.JSONOutput {
		callOpts = append(callOpts, llms.WithJSONMode())
	}

	if len(options.Tools) > 0 {
		tools := make([]llms.Tool, 0, len(options.Tools))
		for _, t := range options.Tools {
			tools = append(tools, llms.Tool{
				Type: "function",
				Function: &llms.FunctionDefinition{
					Name:        t.Name,
					Description: t.Description,
					Parameters:  t.Parameters,
				},
			})
		}
		callOpts = append(callOpts, llms.WithTools(tools))
	}
	return callOpts
}

// assistantToolCallMessage echoes the model's tool calls back into the
// history, as the chat protocol requires before tool results.
func assistantToolCallMessage(calls []llms.ToolCall) llms.MessageContent {
	parts := make([]llms.ContentPart, 0, len(calls))
	for _, call := range calls {
		parts = append(parts, call)
	}
	return llms.MessageContent{
		Role:  llms.ChatMessageTypeAI,
		Parts: parts,
	}
}
