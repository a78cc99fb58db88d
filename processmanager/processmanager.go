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

// Package processmanager is the stateful-coordinator facade over the
// event router: a process manager is keyed by correlation ID, carries its
// own replayable state rebuilt from its own event history, and requires a
// correlation ID to advance.
package processmanager

import (
	"context"

	fd "github.com/flowmesh/dispatch"
	"github.com/flowmesh/dispatch/eventrouter"
	"github.com/flowmesh/dispatch/rebuild"
)

// ProcessManager wraps a stateful event router plus the rebuilder for its
// own state type S.
type ProcessManager[S any] struct {
	router *eventrouter.Router[S]
}

// New creates a process manager with the given logical name, rebuilding
// its own state from history with rebuilder.
func New[S any](name string, rebuilder *rebuild.Rebuilder[S]) *ProcessManager[S] {
	return &ProcessManager[S]{router: eventrouter.NewProcessManager[S](name, rebuilder)}
}

// Domain sets the source-domain cursor for subsequent Prepare/On/Apply
// calls.
func (p *ProcessManager[S]) Domain(d fd.Domain) *ProcessManager[S] {
	p.router.Domain(d)
	return p
}

// Prepare registers the phase-1 handler for eventTypeName.
func (p *ProcessManager[S]) Prepare(eventTypeName string, fn eventrouter.PrepareFunc) *ProcessManager[S] {
	p.router.Prepare(eventTypeName, fn)
	return p
}

// On registers the phase-2 react handler for eventTypeName.
func (p *ProcessManager[S]) On(eventTypeName string, fn eventrouter.ReactFunc[S]) *ProcessManager[S] {
	p.router.On(eventTypeName, fn)
	return p
}

// Apply registers the state applier run against this PM's own state before
// eventTypeName's react handler fires.
func (p *ProcessManager[S]) Apply(eventTypeName string, applier rebuild.Applier[S]) *ProcessManager[S] {
	p.router.Apply(eventTypeName, applier)
	return p
}

// PrepareDestinations runs phase 1 over source.
func (p *ProcessManager[S]) PrepareDestinations(ctx context.Context, source *fd.EventBook) []fd.Cover {
	return p.router.PrepareDestinations(ctx, source)
}

// Dispatch runs phase 2 over source given its fetched destination books
// and this PM's own prior event history. A source cover with an empty
// correlation ID yields no commands.
func (p *ProcessManager[S]) Dispatch(ctx context.Context, source *fd.EventBook, destinations []*fd.EventBook, ownHistory *fd.EventBook) ([]*fd.CommandBook, error) {
	return p.router.Dispatch(ctx, source, destinations, ownHistory)
}

// Descriptor returns this process manager's static self-description.
func (p *ProcessManager[S]) Descriptor() fd.Descriptor {
	return p.router.Descriptor(fd.RoleProcessManager)
}
