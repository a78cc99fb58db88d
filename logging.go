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
	"os"

	"github.com/rs/zerolog"
)

// Log is the package-wide structured logger used by the routers to report
// forward-compatible skips and rejection-path decisions. It is never on
// the success path of ordinary dispatch. Embedding services may replace it
// with one configured for their own output/level.
var Log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

// SetLogger replaces the package-wide logger.
func SetLogger(l zerolog.Logger) {
	Log = l
}
