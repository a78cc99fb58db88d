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

package eventrouter

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

type winner struct {
	Root   fd.Root `json:"root"`
	Amount int64   `json:"amount"`
}

type potAwarded struct {
	Winners []winner `json:"winners"`
}

func (potAwarded) TypeName() string { return "PotAwarded" }

type depositFunds struct {
	Amount int64 `json:"amount"`
}

func (depositFunds) TypeName() string { return "DepositFunds" }

func potAwardedBook(t *testing.T, p1, p2 fd.Root) *fd.EventBook {
	t.Helper()
	env, err := fd.Pack(potAwarded{Winners: []winner{{Root: p1, Amount: 60}, {Root: p2, Amount: 40}}})
	require.NoError(t, err)
	return &fd.EventBook{
		Cover: fd.Cover{Domain: "hand"},
		Pages: []fd.EventPage{{Sequence: 0, Event: env}},
	}
}

func newPayoutSaga() *Router[struct{}] {
	r := New[struct{}]("payout")
	r.Domain("hand").
		Prepare("PotAwarded", func(ctx context.Context, event *anypb.Any, sourceRoot fd.Root, hasSourceRoot bool) []fd.Cover {
			p, err := fd.UnpackAs[potAwarded](event, "PotAwarded")
			if err != nil {
				return nil
			}
			covers := make([]fd.Cover, 0, len(p.Winners))
			for _, w := range p.Winners {
				covers = append(covers, fd.Cover{Domain: "player"}.WithRoot(w.Root))
			}
			return covers
		}).
		On("PotAwarded", func(ctx context.Context, event *anypb.Any, sourceRoot fd.Root, hasSourceRoot bool, correlationID fd.CorrelationID, destinations []*fd.EventBook, state struct{}) []*fd.CommandBook {
			p, err := fd.UnpackAs[potAwarded](event, "PotAwarded")
			if err != nil {
				return nil
			}
			books := make([]*fd.CommandBook, 0, len(p.Winners))
			for i, w := range p.Winners {
				env, _ := fd.Pack(depositFunds{Amount: w.Amount})
				var seq uint32
				if i < len(destinations) {
					seq = fd.NextSequence(destinations[i])
				}
				books = append(books, &fd.CommandBook{
					Cover: fd.Cover{Domain: "player"}.WithRoot(w.Root),
					Pages: []fd.CommandPage{{Sequence: seq, Command: env}},
				})
			}
			return books
		})
	return r
}

func TestPrepareDestinationsFanOut(t *testing.T) {
	r := newPayoutSaga()
	p1, p2 := fd.NewRoot(), fd.NewRoot()
	source := potAwardedBook(t, p1, p2)

	covers := r.PrepareDestinations(context.Background(), source)
	require.Len(t, covers, 2)
	assert.Equal(t, fd.Domain("player"), covers[0].Domain)
	assert.Equal(t, p1, covers[0].Root)
	assert.Equal(t, p2, covers[1].Root)
}

func TestDispatchFanOutUsesDestinationNextSeq(t *testing.T) {
	r := newPayoutSaga()
	p1, p2 := fd.NewRoot(), fd.NewRoot()
	source := potAwardedBook(t, p1, p2)

	destinations := []*fd.EventBook{
		{Pages: make([]fd.EventPage, 7)}, // next_seq = 7
		{Pages: make([]fd.EventPage, 3)}, // next_seq = 3
	}

	commands, err := r.Dispatch(context.Background(), source, destinations, nil)
	require.NoError(t, err)
	require.Len(t, commands, 2)
	assert.Equal(t, uint32(7), commands[0].Pages[0].Sequence)
	assert.Equal(t, uint32(3), commands[1].Pages[0].Sequence)

	amount0, err := fd.UnpackAs[depositFunds](commands[0].Pages[0].Command, "DepositFunds")
	require.NoError(t, err)
	assert.Equal(t, int64(60), amount0.Amount)

	amount1, err := fd.UnpackAs[depositFunds](commands[1].Pages[0].Command, "DepositFunds")
	require.NoError(t, err)
	assert.Equal(t, int64(40), amount1.Amount)
}

func TestDispatchUnregisteredSourceDomainYieldsEmpty(t *testing.T) {
	r := newPayoutSaga()
	source := &fd.EventBook{Cover: fd.Cover{Domain: "unrelated"}, Pages: []fd.EventPage{{Sequence: 0}}}

	commands, err := r.Dispatch(context.Background(), source, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, commands)
}

type potTally struct {
	Applied int
}

func newHandProcessManager() *Router[potTally] {
	rb := rebuild.New(func() potTally { return potTally{} })
	r := NewProcessManager[potTally]("hand-pm", rb)
	r.Domain("hand").
		Apply("PotAwarded", func(state potTally, event json.RawMessage) potTally {
			state.Applied++
			return state
		}).
		On("PotAwarded", func(ctx context.Context, event *anypb.Any, sourceRoot fd.Root, hasSourceRoot bool, correlationID fd.CorrelationID, destinations []*fd.EventBook, state potTally) []*fd.CommandBook {
			env, _ := fd.Pack(depositFunds{Amount: int64(state.Applied)})
			return []*fd.CommandBook{{Pages: []fd.CommandPage{{Command: env}}}}
		})
	return r
}

func TestProcessManagerMissingCorrelationReturnsEmpty(t *testing.T) {
	r := newHandProcessManager()
	source := &fd.EventBook{
		Cover: fd.Cover{Domain: "hand"},
		Pages: []fd.EventPage{{Sequence: 0, Event: mustPack(t, potAwarded{})}},
	}

	commands, err := r.Dispatch(context.Background(), source, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, commands)
}

func TestProcessManagerApplierRunsBeforeReact(t *testing.T) {
	r := newHandProcessManager()
	source := &fd.EventBook{
		Cover: fd.Cover{Domain: "hand", CorrelationID: "hand-1"},
		Pages: []fd.EventPage{
			{Sequence: 0, Event: mustPack(t, potAwarded{})},
			{Sequence: 1, Event: mustPack(t, potAwarded{})},
		},
	}

	commands, err := r.Dispatch(context.Background(), source, nil, nil)
	require.NoError(t, err)
	require.Len(t, commands, 2)

	first, err := fd.UnpackAs[depositFunds](commands[0].Pages[0].Command, "DepositFunds")
	require.NoError(t, err)
	second, err := fd.UnpackAs[depositFunds](commands[1].Pages[0].Command, "DepositFunds")
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.Amount)
	assert.Equal(t, int64(2), second.Amount)
}

func mustPack(t *testing.T, p fd.Payload) *anypb.Any {
	t.Helper()
	env, err := fd.Pack(p)
	require.NoError(t, err)
	return env
}

func TestSubscriptionsAndDescriptor(t *testing.T) {
	r := newPayoutSaga()
	subs := r.Subscriptions()
	assert.Equal(t, []string{"PotAwarded"}, subs["hand"])

	d := r.Descriptor(fd.RoleSaga)
	assert.Equal(t, fd.RoleSaga, d.Role)
	require.Len(t, d.Inputs, 1)
	assert.Equal(t, fd.Domain("hand"), d.Inputs[0].Domain)
}
