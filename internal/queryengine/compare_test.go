// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package queryengine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func TestCompareValueLiteral_Numeric(t *testing.T) {
	assert.True(t, compareValueLiteral(Int(5), OpGt, &Literal{Int: ptr(int64(3))}))
	assert.False(t, compareValueLiteral(Int(5), OpLt, &Literal{Int: ptr(int64(3))}))
	assert.True(t, compareValueLiteral(Int(5), OpEq, &Literal{Int: ptr(int64(5))}))
}

func TestCompareValueLiteral_UnsignedReinterpretedAsSigned(t *testing.T) {
	// An unsigned value above math.MaxInt64 bit-reinterprets to a negative
	// int64, matching the original engine's lossy cast rather than
	// promoting to a wider numeric type.
	huge := uint64(math.MaxInt64) + 100
	v := Uint(huge)
	assert.True(t, compareValueLiteral(v, OpLt, &Literal{Int: ptr(int64(0))}))
}

func TestCompareValueLiteral_FloatNaN(t *testing.T) {
	nan := Float(math.NaN())
	lit := &Literal{Float: ptr(1.0)}

	assert.False(t, compareValueLiteral(nan, OpEq, lit))
	assert.True(t, compareValueLiteral(nan, OpNeq, lit))
	assert.False(t, compareValueLiteral(nan, OpGt, lit))
	assert.False(t, compareValueLiteral(nan, OpLt, lit))
	assert.False(t, compareValueLiteral(nan, OpGte, lit))
	assert.False(t, compareValueLiteral(nan, OpLte, lit))
}

func TestCompareValueLiteral_FloatOnlyMatchesFloatValues(t *testing.T) {
	// An Int value does not implicitly widen to match a Float literal.
	assert.False(t, compareValueLiteral(Int(1), OpEq, &Literal{Float: ptr(1.0)}))
}

func TestCompareValueLiteral_Null(t *testing.T) {
	assert.True(t, compareValueLiteral(Null, OpEq, &Literal{Null: ptr("null")}))
	assert.False(t, compareValueLiteral(Null, OpNeq, &Literal{Null: ptr("null")}))
	assert.False(t, compareValueLiteral(Null, OpLt, &Literal{Null: ptr("null")}))
	assert.False(t, compareValueLiteral(Int(0), OpEq, &Literal{Null: ptr("null")}))
}

func TestCompareValueLiteral_Bool(t *testing.T) {
	assert.True(t, compareValueLiteral(Bool(true), OpGt, &Literal{Bool: ptr(false)}))
	assert.True(t, compareValueLiteral(Bool(false), OpLt, &Literal{Bool: ptr(true)}))
	assert.True(t, compareValueLiteral(Bool(true), OpGte, &Literal{Bool: ptr(true)}))
}

func TestCompareValueLiteral_ShapeMismatchIsFalse(t *testing.T) {
	assert.False(t, compareValueLiteral(Str("5"), OpEq, &Literal{Int: ptr(int64(5))}))
	assert.False(t, compareValueLiteral(Array(nil), OpEq, &Literal{Int: ptr(int64(5))}))
}
