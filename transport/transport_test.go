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

package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveEndpointStripsScheme(t *testing.T) {
	assert.Equal(t, "coordinator:9090", ResolveEndpoint("grpc://coordinator:9090", "localhost:9090"))
	assert.Equal(t, "coordinator:9090", ResolveEndpoint("coordinator:9090", "localhost:9090"))
}

func TestResolveEndpointFallsBackToDefault(t *testing.T) {
	assert.Equal(t, "localhost:9090", ResolveEndpoint("", "localhost:9090"))
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("PORT", "8080")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "localhost:9090", cfg.AggregateEndpoint)
}

func TestLoadConfigReadsOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("DISPATCH_AGGREGATE_ENDPOINT", "grpc://prod-aggregate:443")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, "grpc://prod-aggregate:443", cfg.AggregateEndpoint)
	assert.Equal(t, "prod-aggregate:443", ResolveEndpoint(cfg.AggregateEndpoint, ""))
}
