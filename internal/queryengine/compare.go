// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package queryengine

// compareValueLiteral implements the select() predicate comparison table
// from §4.3 of the specification. It returns false (never an error) for
// any shape the table doesn't name — the silent-empty convention applies
// to comparisons exactly as it does to Field/Index/Iterator.
//
// The unsigned-vs-signed comparison reinterprets the unsigned input as
// signed by bit pattern (int64(u)), matching the original Rust engine's
// `*v as i64` cast rather than saturating or widening — see SPEC_FULL.md
// §1.1 for why this lossy-above-MaxInt64 behavior was chosen deliberately.
func compareValueLiteral(v Value, op CompareOp, lit *Literal) bool {
	switch {
	case lit.Null != nil:
		if !v.IsNull() {
			return false
		}
		return op == OpEq
	case lit.Bool != nil:
		b, ok := v.AsBool()
		if !ok {
			return false
		}
		return compareBool(b, *lit.Bool, op)
	case lit.Str != nil:
		s, ok := v.AsStr()
		if !ok {
			return false
		}
		return compareOrdered(s, *lit.Str, op)
	case lit.Float != nil:
		f, ok := valueAsFloatForFloatLiteral(v)
		if !ok {
			return false
		}
		// Go's native float64 comparison operators already implement
		// IEEE-754 ordered comparison: NaN compares unequal to everything
		// under ==, <, >, <=, >=, and compares unequal under != too.
		// compareOrdered below uses exactly those operators, so no
		// NaN special-casing is needed here.
		return compareOrdered(f, *lit.Float, op)
	case lit.Int != nil:
		i, ok := valueAsInt64ForIntLiteral(v)
		if !ok {
			return false
		}
		return compareOrdered(i, *lit.Int, op)
	default:
		return false
	}
}

// valueAsInt64ForIntLiteral resolves a Value against an Int literal: signed
// ints compare directly, unsigned ints are bit-reinterpreted as signed.
func valueAsInt64ForIntLiteral(v Value) (int64, bool) {
	if i, ok := v.AsInt(); ok {
		return i, true
	}
	if u, ok := v.AsUint(); ok {
		return int64(u), true
	}
	return 0, false
}

// valueAsFloatForFloatLiteral resolves a Value against a Float literal.
// Only Float values match — Int/Uint are not implicitly widened, matching
// the original engine's exact-type match arms (no (v, Literal::Float(l))
// arm exists for integer BorrowedValue variants).
func valueAsFloatForFloatLiteral(v Value) (float64, bool) {
	return v.AsFloat()
}

func compareBool(a, b bool, op CompareOp) bool {
	switch op {
	case OpEq:
		return a == b
	case OpNeq:
		return a != b
	case OpGt:
		return a && !b
	case OpLt:
		return !a && b
	case OpGte:
		return a == b || a
	case OpLte:
		return a == b || b
	default:
		return false
	}
}

// orderedValue is any type whose Go comparison operators already implement
// the total order a select() comparator needs.
type orderedValue interface {
	~int64 | ~float64 | ~string
}

func compareOrdered[T orderedValue](a, b T, op CompareOp) bool {
	switch op {
	case OpEq:
		return a == b
	case OpNeq:
		return a != b
	case OpGt:
		return a > b
	case OpLt:
		return a < b
	case OpGte:
		return a >= b
	case OpLte:
		return a <= b
	default:
		return false
	}
}
