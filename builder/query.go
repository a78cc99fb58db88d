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

package builder

import (
	"time"

	fd "github.com/flowmesh/dispatch"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// simplifiedRFC3339UTC is the only timestamp layout as_of_time accepts:
// a bare UTC RFC3339 instant with no fractional seconds or offset, e.g.
// "2024-01-15T10:30:00Z".
const simplifiedRFC3339UTC = "2006-01-02T15:04:05Z"

// Query builds a Query for one aggregate's event history.
type Query struct {
	domain           fd.Domain
	root             fd.Root
	hasRoot          bool
	correlationID    fd.CorrelationID
	hasCorrelationID bool
	edition          string
	rangeFilter      *fd.SequenceRange
	temporal         *fd.Temporal
	err              error
}

// NewQuery starts a Query builder for domain.
func NewQuery(domain fd.Domain) *Query {
	return &Query{domain: domain}
}

// WithRoot targets the query at an aggregate instance by root. It clears
// any prior ByCorrelationID, the two being mutually exclusive.
func (q *Query) WithRoot(root fd.Root) *Query {
	q.root = root
	q.hasRoot = true
	q.hasCorrelationID = false
	q.correlationID = ""
	return q
}

// ByCorrelationID targets the query at every aggregate instance sharing a
// workflow correlation ID. It clears any prior WithRoot.
func (q *Query) ByCorrelationID(id fd.CorrelationID) *Query {
	q.correlationID = id
	q.hasCorrelationID = true
	q.hasRoot = false
	q.root = fd.NilRoot
	return q
}

// WithEdition sets the query's edition tag.
func (q *Query) WithEdition(edition string) *Query {
	q.edition = edition
	return q
}

// Range selects pages with sequence number >= lower, with no upper bound.
// It clears any prior temporal filter.
func (q *Query) Range(lower uint32) *Query {
	q.rangeFilter = &fd.SequenceRange{Lower: lower}
	q.temporal = nil
	return q
}

// RangeTo selects pages with lower <= sequence number <= upper. It clears
// any prior temporal filter.
func (q *Query) RangeTo(lower, upper uint32) *Query {
	q.rangeFilter = &fd.SequenceRange{Lower: lower, Upper: &upper}
	q.temporal = nil
	return q
}

// AsOfSequence selects the aggregate's state as of a sequence number. It
// clears any prior range filter.
func (q *Query) AsOfSequence(seq uint32) *Query {
	s := seq
	q.temporal = &fd.Temporal{AsOfSequence: &s}
	q.rangeFilter = nil
	return q
}

// AsOfTime selects the aggregate's state as of a point in time, given as a
// simplified RFC3339 UTC string ("2024-01-15T10:30:00Z"). A malformed
// value is recorded and surfaces from Build as InvalidTimestampError. It
// clears any prior range filter.
func (q *Query) AsOfTime(value string) *Query {
	t, err := time.Parse(simplifiedRFC3339UTC, value)
	// time.Parse tolerates a fractional second the layout lacks; the
	// round-trip check rejects it.
	if err != nil || t.Format(simplifiedRFC3339UTC) != value {
		q.err = fd.InvalidTimestampError{Value: value}
		return q
	}
	q.temporal = &fd.Temporal{AsOfTime: timestamppb.New(t)}
	q.rangeFilter = nil
	return q
}

// Build assembles the Query, surfacing any error recorded by a prior
// AsOfTime call.
func (q *Query) Build() (fd.Query, error) {
	if q.err != nil {
		return fd.Query{}, q.err
	}

	cover := fd.Cover{Domain: q.domain, Edition: q.edition}
	if q.hasRoot {
		cover = cover.WithRoot(q.root)
	}
	if q.hasCorrelationID {
		cover = cover.WithCorrelationID(q.correlationID)
	}

	return fd.Query{Cover: cover, Range: q.rangeFilter, Temporal: q.temporal}, nil
}
