// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package queryengine

import "fmt"

// ParseError is raised by Compile when a query fails to parse: invalid
// syntax, unconsumed trailing input, index overflow, or an over-deep
// program. Evaluation itself never produces one — see Evaluate's doc
// comment in evaluator.go.
type ParseError struct {
	Query string
	err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in query %q: %s", e.Query, e.err)
}

// Unwrap exposes the wrapped cause for errors.Is/errors.As.
func (e *ParseError) Unwrap() error { return e.err }

// DecodeError is raised by the JSON-text and host-native value boundary
// (FromJSONText, FromHostNative) before evaluation ever runs, and by
// ToJSONText for a value it cannot encode. It never originates from Run or
// First.
type DecodeError struct {
	err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error: %s", e.err)
}

// Unwrap exposes the wrapped cause for errors.Is/errors.As.
func (e *DecodeError) Unwrap() error { return e.err }
