// Copyright (c) 2024 - The flowmesh authors.
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

// Package dispatch is the in-process runtime embedded by aggregate, saga,
// process-manager and projector services in an event-sourced, CQRS-style
// coordination system.
//
// It does not talk to storage or a wire transport. It reconstructs state
// from a replayed event history, routes a command (or a downstream
// rejection) to the handler that owns it, runs that handler under a
// guard/validate/compute discipline, and translates the result into new
// events, a forwarded notification, or a revocation. The coordinator that
// durably stores events and ferries commands between services is an
// external collaborator.
package dispatch
