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
	"context"
	"testing"

	fd "github.com/flowmesh/dispatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandBuildFailsWithoutTypeURLOrPayload(t *testing.T) {
	_, err := NewCommand("billing").Build()
	require.Error(t, err)
	assert.True(t, fd.IsInvalidArgument(err))
}

func TestCommandBuildGeneratesCorrelationIDWhenOmitted(t *testing.T) {
	book, err := NewCommand("billing").WithCommand(fd.TypeURLPrefix+"Deposit", []byte(`{}`)).Build()
	require.NoError(t, err)
	assert.Len(t, string(book.Cover.CorrelationID), 36)
}

func TestCommandBuildUsesGivenRootAndSequence(t *testing.T) {
	root := fd.NewRoot()
	book, err := NewCommand("billing").
		WithRoot(root).
		WithSequence(4).
		WithCorrelationID("wf-1").
		WithCommand(fd.TypeURLPrefix+"Deposit", []byte(`{"cents":500}`)).
		Build()

	require.NoError(t, err)
	assert.Equal(t, root, book.Cover.Root)
	assert.True(t, book.Cover.HasRoot)
	assert.Equal(t, fd.CorrelationID("wf-1"), book.Cover.CorrelationID)
	assert.Equal(t, uint32(4), book.Pages[0].Sequence)
}

type stubClient struct {
	received *fd.CommandBook
	response *fd.BusinessResponse
}

func (s *stubClient) Dispatch(ctx context.Context, book *fd.CommandBook) (*fd.BusinessResponse, error) {
	s.received = book
	return s.response, nil
}

func TestCommandExecuteSendsBuiltBook(t *testing.T) {
	client := &stubClient{response: fd.EventResponse(&fd.EventBook{})}
	resp, err := NewCommand("billing").
		WithCommand(fd.TypeURLPrefix+"Deposit", []byte(`{}`)).
		Execute(context.Background(), client)

	require.NoError(t, err)
	assert.Same(t, client.response, resp)
	require.NotNil(t, client.received)
	assert.Equal(t, fd.Domain("billing"), client.received.Cover.Domain)
}
