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

// Package saga is the stateless-coordinator facade over the event router:
// a saga reacts to events from one or more domains and emits commands
// without carrying any workflow state of its own.
package saga

import (
	"context"

	fd "github.com/flowmesh/dispatch"
	"github.com/flowmesh/dispatch/eventrouter"
)

// Saga wraps a stateless event router.
type Saga struct {
	router *eventrouter.Router[struct{}]
}

// New creates a saga with the given logical name.
func New(name string) *Saga {
	return &Saga{router: eventrouter.New[struct{}](name)}
}

// Domain sets the source-domain cursor for subsequent Prepare/On calls.
func (s *Saga) Domain(d fd.Domain) *Saga {
	s.router.Domain(d)
	return s
}

// Prepare registers the phase-1 handler for eventTypeName.
func (s *Saga) Prepare(eventTypeName string, fn eventrouter.PrepareFunc) *Saga {
	s.router.Prepare(eventTypeName, fn)
	return s
}

// On registers the phase-2 react handler for eventTypeName.
func (s *Saga) On(eventTypeName string, fn eventrouter.ReactFunc[struct{}]) *Saga {
	s.router.On(eventTypeName, fn)
	return s
}

// PrepareDestinations runs phase 1 over source.
func (s *Saga) PrepareDestinations(ctx context.Context, source *fd.EventBook) []fd.Cover {
	return s.router.PrepareDestinations(ctx, source)
}

// Dispatch runs phase 2 over source given its fetched destination books. A
// saga is stateless, so a missing correlation ID does not block dispatch.
func (s *Saga) Dispatch(ctx context.Context, source *fd.EventBook, destinations []*fd.EventBook) ([]*fd.CommandBook, error) {
	return s.router.Dispatch(ctx, source, destinations, nil)
}

// Descriptor returns this saga's static self-description.
func (s *Saga) Descriptor() fd.Descriptor {
	return s.router.Descriptor(fd.RoleSaga)
}
