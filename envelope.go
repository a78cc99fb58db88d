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
	"encoding/json"
	"strings"

	"google.golang.org/protobuf/types/known/anypb"
)

// TypeURLPrefix is the fixed prefix every type URL in this system carries.
// Alternative prefixes are a configuration error; every site that needs to
// build or test a type URL goes through this constant and the matcher
// below instead of hard-coding the string.
const TypeURLPrefix = "type.googleapis.com/"

// NotificationTypeName is the reserved carrier type for a downstream
// rejection. A command router recognizes a command page whose payload
// carries this type name and routes it through the rejection pathway
// instead of ordinary command dispatch.
const NotificationTypeName = "Notification"

// Payload is implemented by domain command/event/query payload types so
// they can be packed into an envelope and matched back out of one.
type Payload interface {
	// TypeName returns the trailing segment of this payload's fully
	// qualified type identifier, e.g. "ReserveStock".
	TypeName() string
}

// TypeNameOf returns the substring of url after its last '/', or the whole
// string if url carries none.
func TypeNameOf(url string) string {
	if i := strings.LastIndex(url, "/"); i >= 0 {
		return url[i+1:]
	}
	return url
}

// Matches reports whether url carries the fixed type-URL prefix followed
// exactly by name.
func Matches(url string, name string) bool {
	return url == TypeURLPrefix+name
}

// Pack packs a payload into an envelope carrying the fixed type-URL prefix
// plus the payload's type name.
//
// The wire encoding of the body is JSON: this module has no protoc
// toolchain available to generate real protobuf messages for domain
// payloads, so the Any envelope's TypeUrl/Value shape is used verbatim
// while its body is plain JSON rather than protobuf wire bytes.
func Pack(payload Payload) (*anypb.Any, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, DecodeError{Err: err}
	}
	return &anypb.Any{
		TypeUrl: TypeURLPrefix + payload.TypeName(),
		Value:   body,
	}, nil
}

// UnpackAs decodes the envelope's body into a value of type T, failing with
// Decode when the type name doesn't match or the body is malformed.
func UnpackAs[T any](envelope *anypb.Any, typeName string) (T, error) {
	var out T
	if envelope == nil || !Matches(envelope.TypeUrl, typeName) {
		return out, DecodeError{Err: ErrTypeMismatch}
	}
	if err := json.Unmarshal(envelope.Value, &out); err != nil {
		return out, DecodeError{Err: err}
	}
	return out, nil
}

// IsNotification reports whether the envelope's type name is the reserved
// Notification carrier.
func IsNotification(envelope *anypb.Any) bool {
	return envelope != nil && TypeNameOf(envelope.TypeUrl) == NotificationTypeName
}
