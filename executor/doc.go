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


// Package executor provides a bounded worker pool that propagates
// request-scoped context into offloaded tasks.
//
// Work submitted to the pool carries an explicit TaskContext value
// (correlation id, trace/span identifiers, baggage) captured at submission
// time. Each task receives its own copy installed in the task's
// context.Context, so concurrent tasks cannot interfere with each other and
// the propagation is directly testable: a worker can assert the correlation
// id it observed.
//
// The pool is built on github.com/panjf2000/ants. Cancellation through a
// task's Handle is advisory: before the task starts it prevents execution,
// afterwards the task must check its context to stop early. There is no
// forced preemption.
package executor
