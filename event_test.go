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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextSequence(t *testing.T) {
	assert.Equal(t, uint32(0), NextSequence(nil))
	assert.Equal(t, uint32(0), NextSequence(&EventBook{}))
	assert.Equal(t, uint32(2), NextSequence(&EventBook{Pages: []EventPage{{Sequence: 0}, {Sequence: 1}}}))
}

func TestExists(t *testing.T) {
	assert.False(t, Exists(nil))
	assert.False(t, Exists(&EventBook{}))
	assert.True(t, Exists(&EventBook{Pages: []EventPage{{Sequence: 0}}}))
}
