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

// Projection is a key-value delta a projector emits for one event: either
// an upsert of Value under Key, or a tombstone (delete) of Key.
type Projection struct {
	Key       string
	Value     []byte
	Tombstone bool

	// Speculative marks a projection computed in speculative mode: the
	// same computation as ordinary dispatch, but downstream writers must
	// not persist it.
	Speculative bool
}

// Upsert builds a non-tombstone Projection.
func Upsert(key string, value []byte) Projection {
	return Projection{Key: key, Value: value}
}

// Tombstone builds a tombstone Projection.
func Tombstone(key string) Projection {
	return Projection{Key: key, Tombstone: true}
}
