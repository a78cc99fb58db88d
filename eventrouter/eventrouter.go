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

// Package eventrouter implements the two-phase event router shared by the
// saga and process-manager facades: a fluent map from source domain to
// (event type name -> prepare/react handler pair), plus the
// prepare_destinations/dispatch protocol that lets a react handler peek at
// destination state before deciding what to emit.
package eventrouter

import (
	"context"
	"sort"

	fd "github.com/flowmesh/dispatch"
	"github.com/flowmesh/dispatch/rebuild"
	"google.golang.org/protobuf/types/known/anypb"
)

// PrepareFunc enumerates the destination covers a single event page needs
// fetched before its react handler can run.
type PrepareFunc func(ctx context.Context, event *anypb.Any, sourceRoot fd.Root, hasSourceRoot bool) []fd.Cover

// ReactFunc computes the command books a single event page produces, given
// the destination event books its PrepareFunc asked for and, for a
// process manager, the PM's own state as of this event.
type ReactFunc[S any] func(ctx context.Context, event *anypb.Any, sourceRoot fd.Root, hasSourceRoot bool, correlationID fd.CorrelationID, destinations []*fd.EventBook, state S) []*fd.CommandBook

type slot[S any] struct {
	prepare PrepareFunc
	react   ReactFunc[S]
	applier rebuild.Applier[S]
}

// Router is the shared two-phase event router. Build one with New or
// NewProcessManager, register handlers with Domain/Prepare/On/Apply, then
// drive it with PrepareDestinations and Dispatch. S is the process
// manager's state type; sagas, which are stateless, instantiate Router
// with S = struct{}.
type Router[S any] struct {
	name          string
	isPM          bool
	rebuilder     *rebuild.Rebuilder[S]
	currentDomain fd.Domain
	byDomain      map[fd.Domain]map[string]*slot[S]
}

// New creates a stateless event router, suitable for a saga.
func New[S any](name string) *Router[S] {
	return &Router[S]{name: name, byDomain: make(map[fd.Domain]map[string]*slot[S])}
}

// NewProcessManager creates an event router carrying process-manager state
// rebuilt by rebuilder from the PM's own event history. Its dispatch
// requires a non-empty correlation ID and runs an event's registered
// applier before that event's react handler.
func NewProcessManager[S any](name string, rebuilder *rebuild.Rebuilder[S]) *Router[S] {
	return &Router[S]{name: name, isPM: true, rebuilder: rebuilder, byDomain: make(map[fd.Domain]map[string]*slot[S])}
}

// Domain sets the source-domain cursor that subsequent Prepare/On/Apply
// calls register under.
func (r *Router[S]) Domain(d fd.Domain) *Router[S] {
	r.currentDomain = d
	if _, ok := r.byDomain[d]; !ok {
		r.byDomain[d] = make(map[string]*slot[S])
	}
	return r
}

func (r *Router[S]) slotFor(eventTypeName string) *slot[S] {
	domainSlots := r.byDomain[r.currentDomain]
	if domainSlots == nil {
		domainSlots = make(map[string]*slot[S])
		r.byDomain[r.currentDomain] = domainSlots
	}
	s, ok := domainSlots[eventTypeName]
	if !ok {
		s = &slot[S]{}
		domainSlots[eventTypeName] = s
	}
	return s
}

// Prepare registers the phase-1 handler for eventTypeName under the
// current domain cursor.
func (r *Router[S]) Prepare(eventTypeName string, fn PrepareFunc) *Router[S] {
	r.slotFor(eventTypeName).prepare = fn
	return r
}

// On registers the phase-2 react handler for eventTypeName under the
// current domain cursor.
func (r *Router[S]) On(eventTypeName string, fn ReactFunc[S]) *Router[S] {
	r.slotFor(eventTypeName).react = fn
	return r
}

// Apply registers the state applier run before eventTypeName's react
// handler fires. It has no effect on a stateless (non-process-manager)
// router.
func (r *Router[S]) Apply(eventTypeName string, applier rebuild.Applier[S]) *Router[S] {
	r.slotFor(eventTypeName).applier = applier
	return r
}

// PrepareDestinations runs phase 1: for each page in source, the matching
// prepare handler's covers are collected in page order. An unregistered
// source domain or event type contributes no covers.
func (r *Router[S]) PrepareDestinations(ctx context.Context, source *fd.EventBook) []fd.Cover {
	if source == nil {
		return nil
	}
	slots := r.byDomain[source.Cover.Domain]
	if slots == nil {
		return nil
	}

	var covers []fd.Cover
	for _, page := range source.Pages {
		if page.Event == nil {
			continue
		}
		s, ok := slots[fd.TypeNameOf(page.Event.TypeUrl)]
		if !ok || s.prepare == nil {
			continue
		}
		covers = append(covers, s.prepare(ctx, page.Event, source.Cover.Root, source.Cover.HasRoot)...)
	}
	return covers
}

// Dispatch runs phase 2. destinations must carry, in order, the event
// books PrepareDestinations asked for; Dispatch re-derives how many of
// them belong to each page by re-running that page's prepare handler.
//
// pmHistory is the process manager's own prior event history; it is
// ignored by a stateless router. A process-manager dispatch with an empty
// source correlation ID returns no commands, since a PM without a
// workflow identity has nothing to advance.
func (r *Router[S]) Dispatch(ctx context.Context, source *fd.EventBook, destinations []*fd.EventBook, pmHistory *fd.EventBook) ([]*fd.CommandBook, error) {
	if source == nil {
		return nil, nil
	}

	correlationID := source.Cover.CorrelationID
	if r.isPM && correlationID == "" {
		return nil, nil
	}

	slots := r.byDomain[source.Cover.Domain]
	if slots == nil {
		return nil, nil
	}

	var state S
	if r.isPM && r.rebuilder != nil {
		state, _ = r.rebuilder.Rebuild(pmHistory)
	}

	var commands []*fd.CommandBook
	cursor := 0
	for _, page := range source.Pages {
		if page.Event == nil {
			continue
		}
		s, ok := slots[fd.TypeNameOf(page.Event.TypeUrl)]
		if !ok {
			continue
		}

		var pageDestinations []*fd.EventBook
		if s.prepare != nil {
			covers := s.prepare(ctx, page.Event, source.Cover.Root, source.Cover.HasRoot)
			n := len(covers)
			if cursor+n <= len(destinations) {
				pageDestinations = destinations[cursor : cursor+n]
			}
			cursor += n
		}

		if r.isPM && s.applier != nil {
			state = s.applier(state, page.Event.Value)
		}

		if s.react == nil {
			continue
		}
		commands = append(commands, s.react(ctx, page.Event, source.Cover.Root, source.Cover.HasRoot, correlationID, pageDestinations, state)...)
	}

	return commands, nil
}

// Subscriptions reports, for each source domain, the event type names
// registered under it (whether by Prepare, On or Apply), sorted for
// deterministic descriptor output.
func (r *Router[S]) Subscriptions() map[fd.Domain][]string {
	out := make(map[fd.Domain][]string, len(r.byDomain))
	for domain, slots := range r.byDomain {
		types := make([]string, 0, len(slots))
		for name := range slots {
			types = append(types, name)
		}
		sort.Strings(types)
		out[domain] = types
	}
	return out
}

// Descriptor builds a Descriptor for role from this router's
// subscriptions.
func (r *Router[S]) Descriptor(role fd.Role) fd.Descriptor {
	subs := r.Subscriptions()
	domains := make([]fd.Domain, 0, len(subs))
	for d := range subs {
		domains = append(domains, d)
	}
	sort.Slice(domains, func(i, j int) bool { return domains[i] < domains[j] })

	inputs := make([]fd.TargetDesc, 0, len(domains))
	for _, d := range domains {
		inputs = append(inputs, fd.TargetDesc{Domain: d, Types: subs[d]})
	}
	return fd.Descriptor{Name: r.name, Role: role, Inputs: inputs}
}
