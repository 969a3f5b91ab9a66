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


// Package dispatch resolves named capabilities (tools) against request
// payloads.
//
// Capabilities are registered once, at startup, in a Registry: a name, a
// description the LLM uses to decide when to call the tool, a JSON schema
// for the argument object, and the handler itself.
//
// Invoke performs a single-target invocation. InvokeAll fans one capability
// out across a set of keyed payloads on the shared worker pool and joins the
// completions into a map keyed by caller-supplied identifiers, which
// sidesteps any race in completion order. The join is all-or-nothing: a
// failed key fails the whole fan-out with a FanOutError naming every failing
// key, and partial results are not returned.
package dispatch
