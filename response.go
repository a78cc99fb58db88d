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

// Revocation is the runtime's response when no compensation handler claims
// a rejection. EmitSystemRevocation tells the coordinator whether it
// should emit a default system revocation event on the rejecting
// aggregate's behalf.
type Revocation struct {
	EmitSystemRevocation bool
	Reason               string
}

// BusinessResponse is the result of dispatching a ContextualCommand: it
// carries exactly one of an emitted EventBook, a forwarded Notification, or
// a Revocation.
type BusinessResponse struct {
	Events     *EventBook
	Forwarded  *Notification
	Revocation *Revocation
}

// EventResponse wraps an emitted EventBook in a BusinessResponse.
func EventResponse(events *EventBook) *BusinessResponse {
	return &BusinessResponse{Events: events}
}

// ForwardResponse wraps a forwarded Notification in a BusinessResponse.
func ForwardResponse(n *Notification) *BusinessResponse {
	return &BusinessResponse{Forwarded: n}
}

// RevocationResponse wraps a Revocation in a BusinessResponse.
func RevocationResponse(r Revocation) *BusinessResponse {
	return &BusinessResponse{Revocation: &r}
}
