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

import "google.golang.org/protobuf/types/known/timestamppb"

// SequenceRange is an inclusive-lower, optionally-inclusive-upper range of
// event sequence numbers.
type SequenceRange struct {
	Lower uint32
	Upper *uint32
}

// Temporal selects events as of a sequence number or as of a point in time.
// Exactly one of the two is set.
type Temporal struct {
	AsOfSequence *uint32
	AsOfTime     *timestamppb.Timestamp
}

// Query filters an aggregate's event history by either a sequence range or
// a temporal cut, never both.
type Query struct {
	Cover    Cover
	Range    *SequenceRange
	Temporal *Temporal
}

// HasRange reports whether the query carries a sequence-range filter.
func (q Query) HasRange() bool {
	return q.Range != nil
}

// HasTemporal reports whether the query carries a temporal filter.
func (q Query) HasTemporal() bool {
	return q.Temporal != nil
}
