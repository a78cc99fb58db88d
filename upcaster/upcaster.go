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

// Package upcaster implements the forward-only event transformer that
// sits between storage and the state rebuilder, rewriting old event
// payload shapes into the shape the current appliers expect.
package upcaster

import (
	fd "github.com/flowmesh/dispatch"
	"google.golang.org/protobuf/types/known/anypb"
)

// Func rewrites an old event payload into its current shape.
type Func func(old *anypb.Any) *anypb.Any

// Router is a registry of (old event type name -> Func), applied to each
// page of an EventBook before it reaches a rebuilder. Each page is rewritten
// by at most the one Func registered for its type name; a rewritten payload
// is not passed on to further Funcs.
type Router struct {
	name         string
	order        []string
	transformers map[string]Func
}

// New creates an upcaster router with the given logical name.
func New(name string) *Router {
	return &Router{name: name, transformers: make(map[string]Func)}
}

// On registers the transformer for oldEventTypeName. Registering the same
// type name twice is a programming error and panics.
func (r *Router) On(oldEventTypeName string, fn Func) *Router {
	if _, ok := r.transformers[oldEventTypeName]; ok {
		panic("upcaster: duplicate transformer registered for " + oldEventTypeName)
	}
	r.transformers[oldEventTypeName] = fn
	r.order = append(r.order, oldEventTypeName)
	return r
}

// Apply rewrites every page of book whose event type has a registered
// transformer, preserving each page's sequence number and timestamp.
// Pages with no matching transformer pass through unchanged. Apply
// returns a new EventBook; it never mutates book.
func (r *Router) Apply(book *fd.EventBook) *fd.EventBook {
	if book == nil {
		return nil
	}

	pages := make([]fd.EventPage, len(book.Pages))
	for i, page := range book.Pages {
		pages[i] = page
		if page.Event == nil {
			continue
		}
		fn, ok := r.transformers[fd.TypeNameOf(page.Event.TypeUrl)]
		if !ok {
			continue
		}
		pages[i].Event = fn(page.Event)
	}

	return &fd.EventBook{Cover: book.Cover, Snapshot: book.Snapshot, Pages: pages}
}

// Descriptor returns this upcaster's static self-description.
func (r *Router) Descriptor(domain fd.Domain) fd.Descriptor {
	types := make([]string, len(r.order))
	copy(types, r.order)
	return fd.Descriptor{
		Name:   r.name,
		Role:   fd.RoleUpcaster,
		Inputs: []fd.TargetDesc{{Domain: domain, Types: types}},
	}
}
