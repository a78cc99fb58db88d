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

// Package projector implements the projection router: a flat
// (event type name -> fn) table that turns an event page into a
// read-model delta, run in either ordinary or speculative mode.
package projector

import (
	"context"
	"sort"

	fd "github.com/flowmesh/dispatch"
	"google.golang.org/protobuf/types/known/anypb"
)

// Func computes the Projection one event page produces.
type Func func(ctx context.Context, event *anypb.Any) fd.Projection

// Router is the projection router for one projector. It is built once at
// startup with On and is safe for concurrent Dispatch calls thereafter.
type Router struct {
	name     string
	handlers map[string]Func
}

// New creates a projection router with the given logical name.
func New(name string) *Router {
	return &Router{name: name, handlers: make(map[string]Func)}
}

// On registers the handler for an event type name. Registering the same
// type name twice is a programming error and panics.
func (r *Router) On(eventTypeName string, fn Func) *Router {
	if _, ok := r.handlers[eventTypeName]; ok {
		panic("projector: duplicate handler registered for " + eventTypeName)
	}
	r.handlers[eventTypeName] = fn
	return r
}

// Dispatch iterates book's pages, running the handler registered for each
// page's event type and collecting its Projection. Pages with no
// registered handler are skipped. When speculative is true, every emitted
// Projection is tagged Speculative so downstream writers don't persist it.
func (r *Router) Dispatch(ctx context.Context, book *fd.EventBook, speculative bool) []fd.Projection {
	if book == nil {
		return nil
	}

	var out []fd.Projection
	for _, page := range book.Pages {
		if page.Event == nil {
			continue
		}
		fn, ok := r.handlers[fd.TypeNameOf(page.Event.TypeUrl)]
		if !ok {
			continue
		}
		projection := fn(ctx, page.Event)
		projection.Speculative = speculative
		out = append(out, projection)
	}
	return out
}

// Descriptor returns this projector's static self-description: a single
// input entry under domain naming the registered event types, since a
// projector's source domain is determined by whichever book it's handed
// rather than by a registration cursor.
func (r *Router) Descriptor(domain fd.Domain) fd.Descriptor {
	types := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		types = append(types, name)
	}
	sort.Strings(types)
	return fd.Descriptor{
		Name:   r.name,
		Role:   fd.RoleProjector,
		Inputs: []fd.TargetDesc{{Domain: domain, Types: types}},
	}
}
