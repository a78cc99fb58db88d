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

// Package rebuild reconstructs aggregate and process-manager state from a
// replayed event history, shared by the command router and the event
// router's process-manager mode.
package rebuild

import (
	"encoding/json"
	"fmt"

	fd "github.com/flowmesh/dispatch"
	"github.com/jinzhu/copier"
)

// Applier is a pure function that folds one decoded event into state. It
// must not mutate its input; the rebuilder treats its return value as the
// new state.
type Applier[S any] func(state S, event json.RawMessage) S

// Rebuilder owns an (event type name -> Applier) table for one aggregate
// or process-manager kind, plus the empty state it seeds a fresh rebuild
// with.
//
// A Rebuilder is built once at startup with On and is read-only
// thereafter, so it is safe to share across concurrent Rebuild calls for
// different roots.
type Rebuilder[S any] struct {
	empty            func() S
	appliers         map[string]Applier[S]
	snapshotTypeName string
}

// New creates a Rebuilder seeded by empty whenever it starts a rebuild.
func New[S any](empty func() S) *Rebuilder[S] {
	return &Rebuilder[S]{
		empty:    empty,
		appliers: make(map[string]Applier[S]),
	}
}

// On registers the applier for an event type name. Registering the same
// type name twice is a programming error and panics, the same as
// duplicate command-handler registration in the command router.
func (r *Rebuilder[S]) On(eventTypeName string, applier Applier[S]) *Rebuilder[S] {
	if _, ok := r.appliers[eventTypeName]; ok {
		panic(fmt.Sprintf("rebuild: duplicate applier registered for %q", eventTypeName))
	}
	r.appliers[eventTypeName] = applier
	return r
}

// WithSnapshot registers the type name expected on an EventBook's snapshot
// prefix. Without this call, any snapshot prefix present on a book is
// ignored.
func (r *Rebuilder[S]) WithSnapshot(typeName string) *Rebuilder[S] {
	r.snapshotTypeName = typeName
	return r
}

// Rebuild reconstructs state from book's snapshot prefix (if any) and
// event pages, in order. Unknown snapshot or event types are skipped
// silently, forward-compatible with payload kinds this rebuilder predates.
//
// Rebuild is deterministic: rebuilding the same book twice, from the same
// Rebuilder, yields structurally equal state. It returns false for exists
// when book carries no event pages, regardless of any snapshot prefix.
func (r *Rebuilder[S]) Rebuild(book *fd.EventBook) (state S, exists bool) {
	if !fd.Exists(book) {
		return r.empty(), false
	}

	state = r.seed(book)

	for _, page := range book.Pages {
		if page.Event == nil {
			continue
		}
		name := fd.TypeNameOf(page.Event.TypeUrl)
		applier, ok := r.appliers[name]
		if !ok {
			fd.Log.Debug().Str("event_type", name).Msg("rebuild: skipping unknown event type")
			continue
		}
		state = applier(state, page.Event.Value)
	}

	return state, true
}

// seed returns the rebuild's starting state: either the registered
// snapshot applied on top of empty, or empty itself.
func (r *Rebuilder[S]) seed(book *fd.EventBook) S {
	base := r.empty()

	if book.Snapshot == nil || r.snapshotTypeName == "" {
		return base
	}
	if !fd.Matches(book.Snapshot.TypeUrl, r.snapshotTypeName) {
		fd.Log.Debug().Str("snapshot_type", fd.TypeNameOf(book.Snapshot.TypeUrl)).
			Msg("rebuild: skipping unknown snapshot type")
		return base
	}

	decoded := r.empty()
	if err := json.Unmarshal(book.Snapshot.Value, &decoded); err != nil {
		fd.Log.Warn().Err(err).Msg("rebuild: failed to decode snapshot, seeding empty state")
		return base
	}

	// Clone so that repeated rebuilds never share the decoded snapshot's
	// backing storage with one another.
	var cloned S
	if err := copier.Copy(&cloned, &decoded); err != nil {
		return decoded
	}
	return cloned
}
