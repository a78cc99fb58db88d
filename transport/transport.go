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

// Package transport describes the RPC surface every dispatch component
// sits behind: message shapes exchanged with the coordinator fabric,
// endpoint resolution, and the environment-variable configuration that
// lets the same binary run unchanged across environments. The status-code
// mapping at the client/server boundary is the root package's ToStatus. It carries no transport implementation
// of its own; the coordinator, storage and wire protocol are external
// collaborators.
package transport

import (
	"strings"

	fd "github.com/flowmesh/dispatch"
)

// CommandResponse is the aggregate coordinator service's reply to Handle
// and HandleSync.
type CommandResponse struct {
	Response *fd.BusinessResponse
	Err      error
}

// SyncCommandBook is HandleSync's request: a command book dispatched
// synchronously, with the caller blocking for the resulting events.
type SyncCommandBook struct {
	Command *fd.CommandBook
}

// SpeculateAggregateRequest is HandleSyncSpeculative's request: a command
// dispatched against current state without persisting the result.
type SpeculateAggregateRequest struct {
	Command *fd.CommandBook
}

// ReplayRequest is a business-logic service's Replay request: an event
// history to rebuild state from, without going through storage.
type ReplayRequest struct {
	Events *fd.EventBook
}

// ReplayResponse is Replay's response: a typed snapshot of state rebuilt
// from a ReplayRequest, encoded the same way a rebuilder's snapshot seed
// is.
type ReplayResponse struct {
	State []byte
}

// ComponentDescriptor is the response every component's descriptor
// service returns.
type ComponentDescriptor struct {
	Descriptor fd.Descriptor
}

// ResolveEndpoint returns raw with any "scheme://" prefix stripped, or
// fallback (itself stripped) when raw is empty.
func ResolveEndpoint(raw, fallback string) string {
	value := raw
	if value == "" {
		value = fallback
	}
	if i := strings.Index(value, "://"); i >= 0 {
		value = value[i+3:]
	}
	return value
}
