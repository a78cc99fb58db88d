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

// Cover is the header shared by command, event and query envelopes.
//
// Root and CorrelationID are optional: HasRoot false means the envelope
// isn't yet bound to an aggregate instance, an empty CorrelationID means the
// workflow hasn't been assigned one.
type Cover struct {
	Domain        Domain
	Root          Root
	HasRoot       bool
	CorrelationID CorrelationID
	Edition       string
}

// WithRoot returns a copy of the cover bound to the given root.
func (c Cover) WithRoot(root Root) Cover {
	c.Root = root
	c.HasRoot = true
	return c
}

// WithCorrelationID returns a copy of the cover carrying the given correlation ID.
func (c Cover) WithCorrelationID(id CorrelationID) Cover {
	c.CorrelationID = id
	return c
}
