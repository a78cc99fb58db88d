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
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is the surrounding service's port and coordinator-endpoint
// configuration. Every key declares its own default so the same binary
// runs unchanged across environments.
type Config struct {
	Port               string `env:"PORT" envDefault:"8080"`
	AggregateEndpoint  string `env:"DISPATCH_AGGREGATE_ENDPOINT" envDefault:"localhost:9090"`
	EventQueryEndpoint string `env:"DISPATCH_EVENT_QUERY_ENDPOINT" envDefault:"localhost:9091"`
	DescriptorEndpoint string `env:"DISPATCH_DESCRIPTOR_ENDPOINT" envDefault:"localhost:9092"`
}

// LoadConfig parses Config from the process environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
