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


// Package gateway is the rate-limited front door to the LLM provider.
//
// Limiter implements a greedy token bucket: bursts up to the configured
// capacity are allowed, sustained throughput is capped at the refill rate,
// and Acquire blocks the caller until a token is available. Exactly one
// limiter instance gates all outbound provider calls; tool invocations that
// never reach the provider bypass it.
//
// Client wraps a chat model with the conveniences the demo endpoints need:
// plain text replies (Ask) and structured replies unmarshalled from JSON
// mode (AskJSON). The model implementation acquires a limiter permit before
// every provider round trip, so a request that triggers several tool-call
// rounds consumes several tokens.
package gateway
