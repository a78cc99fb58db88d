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

// Package builder implements the fluent command and query builders: thin,
// chainable convenience constructors over the envelope types, used by
// client code that would otherwise hand-assemble Covers and Any payloads.
package builder

import (
	"context"

	fd "github.com/flowmesh/dispatch"
	"google.golang.org/protobuf/types/known/anypb"
)

// AggregateClient sends a built CommandBook to its owning aggregate and
// returns the business response. Command.Execute is build plus a call
// through a client of this shape.
type AggregateClient interface {
	Dispatch(ctx context.Context, book *fd.CommandBook) (*fd.BusinessResponse, error)
}

// Command builds a single-page CommandBook for one aggregate domain.
type Command struct {
	domain        fd.Domain
	root          fd.Root
	hasRoot       bool
	correlationID fd.CorrelationID
	sequence      uint32
	typeURL       string
	payload       []byte
}

// NewCommand starts a Command builder for domain.
func NewCommand(domain fd.Domain) *Command {
	return &Command{domain: domain}
}

// WithRoot binds the command to an existing aggregate instance.
func (c *Command) WithRoot(root fd.Root) *Command {
	c.root = root
	c.hasRoot = true
	return c
}

// WithCorrelationID sets the workflow correlation ID the command carries.
// Omitting it entirely causes Build to generate one.
func (c *Command) WithCorrelationID(id fd.CorrelationID) *Command {
	c.correlationID = id
	return c
}

// WithSequence sets the page sequence number the command is appended at.
func (c *Command) WithSequence(seq uint32) *Command {
	c.sequence = seq
	return c
}

// WithCommand sets the command's type URL and raw payload bytes.
func (c *Command) WithCommand(typeURL string, payload []byte) *Command {
	c.typeURL = typeURL
	c.payload = payload
	return c
}

// Build assembles the CommandBook. It fails with InvalidArgument if no
// type URL or payload was set, and generates a correlation ID if none was
// given.
func (c *Command) Build() (*fd.CommandBook, error) {
	if c.typeURL == "" || c.payload == nil {
		return nil, fd.InvalidArgumentError{Reason: "command has no type URL or payload set"}
	}

	correlationID := c.correlationID
	if correlationID == "" {
		correlationID = fd.NewCorrelationID()
	}

	cover := fd.Cover{Domain: c.domain, CorrelationID: correlationID}
	if c.hasRoot {
		cover = cover.WithRoot(c.root)
	}

	return &fd.CommandBook{
		Cover: cover,
		Pages: []fd.CommandPage{{
			Sequence: c.sequence,
			Command:  &anypb.Any{TypeUrl: c.typeURL, Value: c.payload},
		}},
	}, nil
}

// Execute builds the command and dispatches it through client.
func (c *Command) Execute(ctx context.Context, client AggregateClient) (*fd.BusinessResponse, error) {
	book, err := c.Build()
	if err != nil {
		return nil, err
	}
	return client.Dispatch(ctx, book)
}
