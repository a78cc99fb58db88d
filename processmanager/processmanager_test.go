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

package processmanager

import (
	"context"
	"encoding/json"
	"testing"

	fd "github.com/flowmesh/dispatch"
	"github.com/flowmesh/dispatch/rebuild"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/anypb"
)

type handState struct {
	ActiveCount int
}

type playerFolded struct{}

func (playerFolded) TypeName() string { return "PlayerFolded" }

func newHandPM() *ProcessManager[handState] {
	rb := rebuild.New(func() handState { return handState{ActiveCount: 4} })
	pm := New("hand", rb)
	pm.Domain("hand").
		Apply("PlayerFolded", func(state handState, event json.RawMessage) handState {
			state.ActiveCount--
			return state
		}).
		On("PlayerFolded", func(ctx context.Context, event *anypb.Any, sourceRoot fd.Root, hasSourceRoot bool, correlationID fd.CorrelationID, destinations []*fd.EventBook, state handState) []*fd.CommandBook {
			if state.ActiveCount > 1 {
				return nil
			}
			return []*fd.CommandBook{{Cover: fd.Cover{Domain: "hand", CorrelationID: correlationID}}}
		})
	return pm
}

func TestProcessManagerRequiresCorrelationID(t *testing.T) {
	pm := newHandPM()
	env, err := fd.Pack(playerFolded{})
	require.NoError(t, err)
	source := &fd.EventBook{
		Cover: fd.Cover{Domain: "hand"},
		Pages: []fd.EventPage{{Sequence: 0, Event: env}},
	}

	commands, err := pm.Dispatch(context.Background(), source, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, commands)
}

func TestProcessManagerAdvancesWithCorrelationID(t *testing.T) {
	pm := newHandPM()
	env, err := fd.Pack(playerFolded{})
	require.NoError(t, err)
	source := &fd.EventBook{
		Cover: fd.Cover{Domain: "hand", CorrelationID: "hand-42"},
		Pages: []fd.EventPage{
			{Sequence: 0, Event: env},
			{Sequence: 1, Event: env},
			{Sequence: 2, Event: env},
		},
	}

	commands, err := pm.Dispatch(context.Background(), source, nil, nil)
	require.NoError(t, err)
	require.Len(t, commands, 1)
	assert.Equal(t, fd.CorrelationID("hand-42"), commands[0].Cover.CorrelationID)
}

func TestProcessManagerDescriptorRole(t *testing.T) {
	pm := newHandPM()
	d := pm.Descriptor()
	assert.Equal(t, fd.RoleProcessManager, d.Role)
	assert.Equal(t, "hand", d.Name)
}
