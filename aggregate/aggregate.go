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

// Package aggregate implements the command router: it rebuilds an
// aggregate's state from its prior event history, dispatches a command to
// the handler registered for its type, and turns the handler's guard,
// validate and compute discipline into a BusinessResponse. It also owns
// the rejection dispatch pathway a downstream Notification travels back
// through.
package aggregate

import (
	"context"
	"fmt"
	"sort"

	fd "github.com/flowmesh/dispatch"
	"github.com/flowmesh/dispatch/rebuild"
	"google.golang.org/protobuf/types/known/anypb"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// Handler runs one command's guard, validate and compute steps against the
// aggregate's current state and returns the events it computed, in the
// order they should be appended. Returning a CommandRejectedError from the
// guard step fails the whole dispatch; the router does not partially apply
// events for a rejected command.
type Handler[S any] func(ctx context.Context, state S, command *anypb.Any) ([]fd.Payload, error)

// RejectionHandler runs an aggregate's compensation logic for a Notification
// naming one of its own commands as the rejected target. It returns the
// full BusinessResponse the compensation produces: further events, a
// forwarded Notification, or nothing (nil, nil), which the router answers
// with a Revocation whose EmitSystemRevocation is false. Only a rejection
// with no registered handler yields EmitSystemRevocation true.
type RejectionHandler[S any] func(ctx context.Context, state S, rejection fd.RejectionNotification) (*fd.BusinessResponse, error)

// Router is the command router for one aggregate kind. It is built once at
// startup with On and OnRejected and is safe for concurrent Dispatch calls
// thereafter.
type Router[S any] struct {
	name              string
	domain            fd.Domain
	rebuilder         *rebuild.Rebuilder[S]
	handlers          map[string]Handler[S]
	rejectionHandlers map[string]RejectionHandler[S]
}

// New creates a command router for domain, rebuilding state with rebuilder.
func New[S any](name string, domain fd.Domain, rebuilder *rebuild.Rebuilder[S]) *Router[S] {
	return &Router[S]{
		name:              name,
		domain:            domain,
		rebuilder:         rebuilder,
		handlers:          make(map[string]Handler[S]),
		rejectionHandlers: make(map[string]RejectionHandler[S]),
	}
}

// On registers the handler for a command type name. Registering the same
// type name twice is a programming error and panics.
func (r *Router[S]) On(commandTypeName string, handler Handler[S]) *Router[S] {
	if _, ok := r.handlers[commandTypeName]; ok {
		panic(fmt.Sprintf("aggregate: duplicate handler registered for %q", commandTypeName))
	}
	r.handlers[commandTypeName] = handler
	return r
}

// OnRejected registers this aggregate's compensation logic for a
// Notification naming issuerDomain/commandTypeName as its rejected target.
// Unlike On, re-registering the same pair replaces the prior handler:
// compensation wiring is expected to be adjusted more freely than the
// primary command table.
func (r *Router[S]) OnRejected(issuerDomain fd.Domain, commandTypeName string, handler RejectionHandler[S]) *Router[S] {
	r.rejectionHandlers[rejectionKey(issuerDomain, commandTypeName)] = handler
	return r
}

func rejectionKey(domain fd.Domain, commandTypeName string) string {
	return string(domain) + "/" + commandTypeName
}

// Dispatch rebuilds state from cc.Events, routes cc.Command's first page to
// the handler registered for its type, and turns the result into a
// BusinessResponse. A command page carrying the reserved Notification
// payload is routed through the rejection pathway instead of ordinary
// command handling.
func (r *Router[S]) Dispatch(ctx context.Context, cc *fd.ContextualCommand) (*fd.BusinessResponse, error) {
	if cc == nil || cc.Command == nil || len(cc.Command.Pages) == 0 {
		return nil, fd.InvalidArgumentError{Reason: "empty command book"}
	}

	payload := cc.Command.FirstPayload()
	if payload == nil || payload.TypeUrl == "" {
		return nil, fd.InvalidArgumentError{Reason: "missing type URL"}
	}

	state, _ := r.rebuilder.Rebuild(cc.Events)
	nextSeq := fd.NextSequence(cc.Events)

	if fd.IsNotification(payload) {
		notification, err := fd.UnpackAs[fd.Notification](payload, fd.NotificationTypeName)
		if err != nil {
			return nil, err
		}
		return r.dispatchRejection(ctx, state, notification)
	}

	name := fd.TypeNameOf(payload.TypeUrl)
	handler, ok := r.handlers[name]
	if !ok {
		return nil, fd.InvalidArgumentError{Reason: "Unknown command type: " + name}
	}

	emitted, err := handler(ctx, state, payload)
	if err != nil {
		return nil, err
	}

	return fd.EventResponse(r.buildEventBook(cc.Command.Cover, nextSeq, emitted)), nil
}

func (r *Router[S]) buildEventBook(cover fd.Cover, startSeq uint32, payloads []fd.Payload) *fd.EventBook {
	pages := make([]fd.EventPage, 0, len(payloads))
	for i, payload := range payloads {
		env, err := fd.Pack(payload)
		if err != nil {
			fd.Log.Warn().Err(err).Str("type", payload.TypeName()).Msg("aggregate: dropping unpackable event")
			continue
		}
		pages = append(pages, fd.EventPage{
			Sequence:  startSeq + uint32(i),
			Timestamp: timestamppb.Now(),
			Event:     env,
		})
	}
	return &fd.EventBook{Cover: cover, Pages: pages}
}

// dispatchRejection routes a Notification through this aggregate's
// registered compensation handler, if any, and otherwise defaults to a
// system revocation.
func (r *Router[S]) dispatchRejection(ctx context.Context, state S, notification fd.Notification) (*fd.BusinessResponse, error) {
	domain, commandType := notification.RejectedTarget()
	key := rejectionKey(domain, commandType)

	if handler, ok := r.rejectionHandlers[key]; ok {
		resp, err := handler(ctx, state, notification.Rejection)
		if err != nil {
			return nil, err
		}
		fd.Log.Debug().Str("domain", string(domain)).Str("command_type", commandType).
			Msg(fmt.Sprintf("%s handled rejection for %s", domain, commandType))
		if resp != nil {
			return resp, nil
		}
		return fd.RevocationResponse(fd.Revocation{
			EmitSystemRevocation: false,
			Reason:               fmt.Sprintf("%s handled rejection for %s", domain, commandType),
		}), nil
	}

	return fd.RevocationResponse(fd.Revocation{
		EmitSystemRevocation: true,
		Reason:               fmt.Sprintf("%s has no custom compensation for %s", domain, commandType),
	}), nil
}

// Descriptor returns this router's static self-description: the command
// types it accepts, plus the reserved Notification type when it has any
// compensation handlers registered.
func (r *Router[S]) Descriptor() fd.Descriptor {
	types := make([]string, 0, len(r.handlers)+1)
	for name := range r.handlers {
		types = append(types, name)
	}
	sort.Strings(types)
	if len(r.rejectionHandlers) > 0 {
		types = append(types, fd.NotificationTypeName)
	}
	return fd.Descriptor{
		Name:   r.name,
		Role:   fd.RoleAggregate,
		Inputs: []fd.TargetDesc{{Domain: r.domain, Types: types}},
	}
}
