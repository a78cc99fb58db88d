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

import (
	"google.golang.org/protobuf/types/known/anypb"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// EventPage is one entry in an EventBook: a sequence number, a commit
// timestamp, and a typed event payload.
type EventPage struct {
	Sequence  uint32
	Timestamp *timestamppb.Timestamp
	Event     *anypb.Any
}

// EventBook is an ordered sequence of event pages for one aggregate
// instance, optionally preceded by a snapshot seed.
//
// Within an EventBook, page sequence numbers are strictly monotonic from 0.
type EventBook struct {
	Cover    Cover
	Snapshot *anypb.Any
	Pages    []EventPage
}

// NextSequence returns the sequence number the next page appended to book
// should carry: the number of pages it already holds, or 0 for a nil or
// empty book.
func NextSequence(book *EventBook) uint32 {
	if book == nil {
		return 0
	}
	return uint32(len(book.Pages))
}

// Exists reports whether the aggregate this book describes has any prior
// history: an aggregate exists iff its event history is non-empty.
func Exists(book *EventBook) bool {
	return book != nil && len(book.Pages) > 0
}
