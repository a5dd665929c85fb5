// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package queryengine

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/samber/oops"
)

// FromJSONText decodes a JSON document into a Value, preserving object
// insertion order and distinguishing signed, unsigned, and floating point
// numbers the way the data model requires. A plain json.Unmarshal into
// map[string]any cannot do either — it collapses numbers to float64 and
// loses key order — so this walks the token stream by hand.
func FromJSONText(text string) (Value, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	v, err := decodeJSONValue(dec)
	if err != nil {
		return Value{}, &DecodeError{err: oops.With("text", text).Wrapf(err, "decoding JSON text")}
	}
	return v, nil
}

func decodeJSONValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	return valueFromToken(dec, tok)
}

func valueFromToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case nil:
		return Null, nil
	case bool:
		return Bool(t), nil
	case json.Number:
		return numberValue(t)
	case string:
		return Str(t), nil
	case json.Delim:
		switch t {
		case '[':
			return decodeArray(dec)
		case '{':
			return decodeObject(dec)
		}
	}
	return Value{}, fmt.Errorf("unexpected JSON token %v", tok)
}

func decodeArray(dec *json.Decoder) (Value, error) {
	var arr []Value
	for dec.More() {
		v, err := decodeJSONValue(dec)
		if err != nil {
			return Value{}, err
		}
		arr = append(arr, v)
	}
	if _, err := dec.Token(); err != nil { // consume ']'
		return Value{}, err
	}
	return Array(arr), nil
}

func decodeObject(dec *json.Decoder) (Value, error) {
	obj := NewObject()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return Value{}, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return Value{}, fmt.Errorf("expected object key, got %v", keyTok)
		}
		v, err := decodeJSONValue(dec)
		if err != nil {
			return Value{}, err
		}
		obj.Set(key, v)
	}
	if _, err := dec.Token(); err != nil { // consume '}'
		return Value{}, err
	}
	return Obj(obj), nil
}

// numberValue resolves a json.Number to the narrowest matching kind in the
// data model: signed int first, then unsigned (for values above
// math.MaxInt64), then float for anything with a fractional or exponent
// part.
func numberValue(n json.Number) (Value, error) {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return Int(i), nil
		}
		if u, err := strconv.ParseUint(s, 10, 64); err == nil {
			return Uint(u), nil
		}
	}
	f, err := n.Float64()
	if err != nil {
		return Value{}, err
	}
	return Float(f), nil
}

// ToJSONText encodes v as JSON text. NaN and Infinity, which JSON cannot
// represent, are left to the boundary per the value-conversion contract —
// this implementation renders them as null, the same substitution
// encoding/json's own Marshal would refuse to make silently.
func ToJSONText(v Value) (string, error) {
	var sb strings.Builder
	if err := writeJSONValue(&sb, v); err != nil {
		return "", &DecodeError{err: err}
	}
	return sb.String(), nil
}

func writeJSONValue(sb *strings.Builder, v Value) error {
	switch v.Kind() {
	case KindNull:
		sb.WriteString("null")
	case KindBool:
		b, _ := v.AsBool()
		sb.WriteString(strconv.FormatBool(b))
	case KindInt:
		i, _ := v.AsInt()
		sb.WriteString(strconv.FormatInt(i, 10))
	case KindUint:
		u, _ := v.AsUint()
		sb.WriteString(strconv.FormatUint(u, 10))
	case KindFloat:
		f, _ := v.AsFloat()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			sb.WriteString("null")
			return nil
		}
		sb.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
	case KindStr:
		s, _ := v.AsStr()
		enc, err := json.Marshal(s)
		if err != nil {
			return err
		}
		sb.Write(enc)
	case KindArray:
		arr, _ := v.AsArray()
		sb.WriteByte('[')
		for i, e := range arr {
			if i > 0 {
				sb.WriteByte(',')
			}
			if err := writeJSONValue(sb, e); err != nil {
				return err
			}
		}
		sb.WriteByte(']')
	case KindObject:
		obj, _ := v.AsObject()
		sb.WriteByte('{')
		first := true
		for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
			if !first {
				sb.WriteByte(',')
			}
			first = false
			keyEnc, err := json.Marshal(pair.Key)
			if err != nil {
				return err
			}
			sb.Write(keyEnc)
			sb.WriteByte(':')
			if err := writeJSONValue(sb, pair.Value); err != nil {
				return err
			}
		}
		sb.WriteByte('}')
	default:
		return fmt.Errorf("cannot encode value of kind %d as JSON", v.Kind())
	}
	return nil
}

// FromHostNative converts a host-language native value into a Value. It
// accepts the shapes a Go caller is most likely to already have on hand:
// nil, bool, the signed/unsigned/float numeric kinds, string, []any, an
// already-ordered *Object, and — as a fallback for callers without access
// to an ordered map — plain map[string]any, whose key order is then
// whatever Go's map iteration happens to produce.
func FromHostNative(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null, nil
	case Value:
		return t, nil
	case bool:
		return Bool(t), nil
	case int:
		return Int(int64(t)), nil
	case int32:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case uint:
		return Uint(uint64(t)), nil
	case uint32:
		return Uint(uint64(t)), nil
	case uint64:
		return Uint(t), nil
	case float32:
		return Float(float64(t)), nil
	case float64:
		return Float(t), nil
	case string:
		return Str(t), nil
	case []any:
		vs := make([]Value, len(t))
		for i, e := range t {
			v, err := FromHostNative(e)
			if err != nil {
				return Value{}, err
			}
			vs[i] = v
		}
		return Array(vs), nil
	case *Object:
		return Obj(t), nil
	case map[string]any:
		obj := NewObject()
		for k, e := range t {
			v, err := FromHostNative(e)
			if err != nil {
				return Value{}, err
			}
			obj.Set(k, v)
		}
		return Obj(obj), nil
	default:
		return Value{}, &DecodeError{err: fmt.Errorf("unsupported host-native type %T", x)}
	}
}

// ToHostNative converts v into a Go native representation: the scalar Go
// types for scalars, []any for arrays, and the same ordered *Object for
// objects that FromHostNative accepts back — returning a plain
// map[string]any here would silently discard the order the data model
// requires preserving.
func ToHostNative(v Value) any {
	switch v.Kind() {
	case KindNull:
		return nil
	case KindBool:
		b, _ := v.AsBool()
		return b
	case KindInt:
		i, _ := v.AsInt()
		return i
	case KindUint:
		u, _ := v.AsUint()
		return u
	case KindFloat:
		f, _ := v.AsFloat()
		return f
	case KindStr:
		s, _ := v.AsStr()
		return s
	case KindArray:
		arr, _ := v.AsArray()
		out := make([]any, len(arr))
		for i, e := range arr {
			out[i] = ToHostNative(e)
		}
		return out
	case KindObject:
		obj, _ := v.AsObject()
		return obj
	default:
		return nil
	}
}
