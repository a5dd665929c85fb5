// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package queryengine implements a small compiled query engine for
// JSON-shaped data, modeled on the jq family of filter languages: a
// recursive-descent parser turns a query string into a filter program, and
// a stream-rewriting evaluator runs that program against a decoded JSON
// value.
package queryengine

import (
	"fmt"
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind identifies which alternative of the Value sum type is populated.
type Kind int

// Kind constants enumerate the JSON value shapes the engine understands.
const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindUint
	KindFloat
	KindStr
	KindArray
	KindObject
)

// Object is an ordered string-keyed map. Insertion order is preserved for
// both input documents and values the evaluator constructs, per the data
// model's "objects preserve insertion order" requirement.
type Object = orderedmap.OrderedMap[string, Value]

// NewObject returns an empty, ready-to-use Object.
func NewObject() *Object {
	return orderedmap.New[string, Value]()
}

// Value is the recursive JSON sum type the engine parses, evaluates, and
// emits: Null | Bool | Int | Uint | Float | Str | Array[Value] |
// Object{Str -> Value, ordered}.
//
// The numeric domain splits signed, unsigned, and floating point per the
// data model; equality/comparison between different numeric kinds is only
// defined where §4.3 of the specification names it (select() predicates),
// never as a general Value equality.
type Value struct {
	kind Kind
	b    bool
	i    int64
	u    uint64
	f    float64
	s    string
	arr  []Value
	obj  *Object
}

// Null is the JSON null value.
var Null = Value{kind: KindNull}

// Bool wraps a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int wraps a signed 64-bit integer value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Uint wraps an unsigned 64-bit integer value.
func Uint(u uint64) Value { return Value{kind: KindUint, u: u} }

// Float wraps an IEEE-754 binary64 value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Str wraps a string value.
func Str(s string) Value { return Value{kind: KindStr, s: s} }

// Array wraps an ordered slice of values.
func Array(vs []Value) Value { return Value{kind: KindArray, arr: vs} }

// Obj wraps an ordered object.
func Obj(o *Object) Value { return Value{kind: KindObject, obj: o} }

// Kind reports which alternative is populated.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is JSON null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean value and whether v held one.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsInt returns the signed integer value and whether v held one.
func (v Value) AsInt() (int64, bool) { return v.i, v.kind == KindInt }

// AsUint returns the unsigned integer value and whether v held one.
func (v Value) AsUint() (uint64, bool) { return v.u, v.kind == KindUint }

// AsFloat returns the float value and whether v held one.
func (v Value) AsFloat() (float64, bool) { return v.f, v.kind == KindFloat }

// AsStr returns the string value and whether v held one.
func (v Value) AsStr() (string, bool) { return v.s, v.kind == KindStr }

// AsArray returns the element slice and whether v held an array. The slice
// is the value's own backing storage, not a copy — callers must not mutate
// it; this is what lets Field/Index/Iterator stay allocation-free.
func (v Value) AsArray() ([]Value, bool) { return v.arr, v.kind == KindArray }

// AsObject returns the ordered map and whether v held an object.
func (v Value) AsObject() (*Object, bool) { return v.obj, v.kind == KindObject }

// Equal reports whether two values are the same JSON value: same kind and
// same content. This is a general structural equality between whole values,
// not the cross-kind numeric comparison §9 of the
// specification discusses — that lives in compare.go.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.i == o.i
	case KindUint:
		return v.u == o.u
	case KindFloat:
		return v.f == o.f
	case KindStr:
		return v.s == o.s
	case KindArray:
		if len(v.arr) != len(o.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(o.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if v.obj.Len() != o.obj.Len() {
			return false
		}
		for pair := v.obj.Oldest(); pair != nil; pair = pair.Next() {
			other, ok := o.obj.Get(pair.Key)
			if !ok || !pair.Value.Equal(other) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// String renders v as a compact, jq-ish textual form. Used only for
// diagnostics (error messages, test failure output) — it is not the JSON
// encoder, see ToJSONText for that.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindUint:
		return strconv.FormatUint(v.u, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindStr:
		return strconv.Quote(v.s)
	case KindArray:
		s := "["
		for i, e := range v.arr {
			if i > 0 {
				s += ","
			}
			s += e.String()
		}
		return s + "]"
	case KindObject:
		s := "{"
		first := true
		for pair := v.obj.Oldest(); pair != nil; pair = pair.Next() {
			if !first {
				s += ","
			}
			first = false
			s += fmt.Sprintf("%q:%s", pair.Key, pair.Value.String())
		}
		return s + "}"
	default:
		return "<invalid>"
	}
}
