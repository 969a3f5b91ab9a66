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


// Package ai provides abstractions for the AI services used by promptline.
//
// It defines interfaces for chat completions and text embeddings, following
// the dependency inversion principle: the gateway, vector store, and movie
// pipeline depend on these abstractions rather than on a concrete provider.
//
// # Design
//
// The package is designed around three interfaces:
//
//   - Embedder: generates vector embeddings from text
//   - ChatModel: sends a prompt to an LLM and runs the tool-call loop
//   - Provider: aggregates AI services for convenient initialization
//
// Outbound rate limiting is modeled by the Gate interface. A ChatModel
// implementation acquires a permit from its Gate before every provider round
// trip, so sustained throughput stays within the configured budget no matter
// how many tool-call rounds a single request takes.
//
// # Implementation packages
//
//   - ai/openai: production implementation using OpenAI-compatible APIs
//   - ai/mock: test doubles for unit testing without external services
//
// Public constructors in ai/openai return interface types to enforce
// abstraction; mock constructors return concrete types so tests can inject
// behavior and assert on call counts.
package ai
