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
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrTypeMismatch is wrapped by DecodeError when an envelope's type name
// doesn't match the type being unpacked.
var ErrTypeMismatch = errors.New("type name mismatch")

// CommandRejectedError is raised by a handler's guard phase when a
// business-rule precondition fails. It surfaces as FAILED_PRECONDITION and,
// when it originated at a downstream aggregate, is what the rejection
// dispatch pathway carries upstream.
type CommandRejectedError struct {
	Reason string
}

func (e CommandRejectedError) Error() string {
	return "command rejected: " + e.Reason
}

// InvalidArgumentError is raised for malformed or incomplete input: a
// missing type URL, a failed unpack, a negative value where one must be
// positive, or an unknown command/event type.
type InvalidArgumentError struct {
	Reason string
}

func (e InvalidArgumentError) Error() string {
	return "invalid argument: " + e.Reason
}

// NotFoundError is raised when a targeted aggregate instance or referenced
// sub-entity does not exist.
type NotFoundError struct {
	Reason string
}

func (e NotFoundError) Error() string {
	return "not found: " + e.Reason
}

// DecodeError wraps a failure to parse payload bytes into the declared
// type. It is mapped to INVALID_ARGUMENT at the RPC boundary, the same as
// InvalidArgumentError.
type DecodeError struct {
	Err error
}

func (e DecodeError) Error() string {
	return "decode: " + e.Err.Error()
}

func (e DecodeError) Unwrap() error {
	return e.Err
}

// InvalidTimestampError is raised by the query builder's time parser when
// a timestamp string isn't a simplified RFC3339 UTC form.
type InvalidTimestampError struct {
	Value string
}

func (e InvalidTimestampError) Error() string {
	return fmt.Sprintf("invalid timestamp: %q", e.Value)
}

// ConnectionError represents a surrounding-transport failure. The runtime
// itself never raises it; it exists so callers can branch on it uniformly
// with the rest of the taxonomy.
type ConnectionError struct {
	Err error
}

func (e ConnectionError) Error() string {
	return "connection: " + e.Err.Error()
}

func (e ConnectionError) Unwrap() error {
	return e.Err
}

// ToStatus maps a runtime error to the gRPC status the RPC boundary
// returns to the caller, per the closed taxonomy:
//
//	CommandRejected / PreconditionFailed -> FAILED_PRECONDITION
//	InvalidArgument / Decode             -> INVALID_ARGUMENT
//	NotFound                             -> NOT_FOUND
//	Connection / Transport               -> UNAVAILABLE
//	uncategorised                        -> INTERNAL
func ToStatus(err error) *status.Status {
	if err == nil {
		return status.New(codes.OK, "")
	}

	var rejected CommandRejectedError
	if errors.As(err, &rejected) {
		return status.New(codes.FailedPrecondition, rejected.Error())
	}

	var invalid InvalidArgumentError
	if errors.As(err, &invalid) {
		return status.New(codes.InvalidArgument, invalid.Error())
	}

	var decode DecodeError
	if errors.As(err, &decode) {
		return status.New(codes.InvalidArgument, decode.Error())
	}

	var notFound NotFoundError
	if errors.As(err, &notFound) {
		return status.New(codes.NotFound, notFound.Error())
	}

	var conn ConnectionError
	if errors.As(err, &conn) {
		return status.New(codes.Unavailable, conn.Error())
	}

	return status.New(codes.Internal, err.Error())
}

// IsPreconditionFailed reports whether err is (or wraps) a CommandRejectedError.
func IsPreconditionFailed(err error) bool {
	var e CommandRejectedError
	return errors.As(err, &e)
}

// IsInvalidArgument reports whether err is (or wraps) an InvalidArgumentError
// or a DecodeError.
func IsInvalidArgument(err error) bool {
	var inv InvalidArgumentError
	if errors.As(err, &inv) {
		return true
	}
	var dec DecodeError
	return errors.As(err, &dec)
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var e NotFoundError
	return errors.As(err, &e)
}

// IsConnectionError reports whether err is (or wraps) a ConnectionError.
func IsConnectionError(err error) bool {
	var e ConnectionError
	return errors.As(err, &e)
}
