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

// RejectionNotification describes a command that a downstream aggregate
// rejected: who raised the rejection, why, at which source-event sequence,
// and the rejected command itself so the compensation handler can inspect
// it.
type RejectionNotification struct {
	IssuerName          string
	IssuerType          string
	Reason              string
	SourceEventSequence uint32
	RejectedCommand     *CommandBook
	SourceCover         Cover
}

// TypeName implements Payload.
func (RejectionNotification) TypeName() string { return "RejectionNotification" }

// Notification is the reserved carrier for a downstream-rejected command.
// A command router recognizes a command page whose payload type name is
// NotificationTypeName and routes it through the rejection dispatch path
// (§4.3) instead of ordinary command handling.
type Notification struct {
	Cover     Cover
	Rejection RejectionNotification
}

// TypeName implements Payload.
func (Notification) TypeName() string { return NotificationTypeName }

// RejectedTarget returns the (domain, command type name) the wrapped
// rejection targets, as derived from its rejected command's cover and
// first payload.
func (n *Notification) RejectedTarget() (domain Domain, commandType string) {
	if n == nil {
		return "", ""
	}
	rc := n.Rejection.RejectedCommand
	if rc == nil {
		return "", ""
	}
	domain = rc.Cover.Domain
	if payload := rc.FirstPayload(); payload != nil {
		commandType = TypeNameOf(payload.TypeUrl)
	}
	return domain, commandType
}
