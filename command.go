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

package dispatch

import "google.golang.org/protobuf/types/known/anypb"

// CommandPage is one entry in a CommandBook: a sequence number plus a
// typed command payload.
type CommandPage struct {
	Sequence uint32
	Command  *anypb.Any
}

// CommandBook is an ordered sequence of command pages bound to one
// aggregate instance.
type CommandBook struct {
	Cover Cover
	Pages []CommandPage
}

// ContextualCommand is a CommandBook paired with the prior EventBook for
// the same aggregate instance, the unit of work a command router dispatches.
type ContextualCommand struct {
	Command *CommandBook
	Events  *EventBook
}

// FirstPayload returns the payload Any of the book's first page, or nil if
// the book has no pages.
func (b *CommandBook) FirstPayload() *anypb.Any {
	if b == nil || len(b.Pages) == 0 {
		return nil
	}
	return b.Pages[0].Command
}
