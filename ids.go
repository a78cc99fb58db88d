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

import "github.com/google/uuid"

// Root is the opaque 16-byte identifier naming one aggregate instance.
type Root = uuid.UUID

// NilRoot is the zero-value Root, used when a cover carries no root.
var NilRoot = uuid.Nil

// NewRoot creates a fresh random Root.
func NewRoot() Root {
	return uuid.New()
}

// ParseRoot parses a Root from its canonical string form.
func ParseRoot(s string) (Root, error) {
	return uuid.Parse(s)
}

// Domain is a short string naming an aggregate kind, e.g. "player", "hand".
type Domain string

// TypeName is the trailing segment of a fully qualified type identifier.
type TypeName string

// CorrelationID links all envelopes in one logical workflow.
type CorrelationID string

// NewCorrelationID generates a fresh version-4 UUID correlation ID.
func NewCorrelationID() CorrelationID {
	return CorrelationID(uuid.New().String())
}
