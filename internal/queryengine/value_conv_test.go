// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package queryengine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rjq-project/rjq/internal/queryengine"
)

func TestFromJSONText_NumberKinds(t *testing.T) {
	v, err := queryengine.FromJSONText(`42`)
	require.NoError(t, err)
	i, ok := v.AsInt()
	require.True(t, ok)
	assert.Equal(t, int64(42), i)

	v, err = queryengine.FromJSONText(`18446744073709551615`)
	require.NoError(t, err)
	u, ok := v.AsUint()
	require.True(t, ok)
	assert.Equal(t, uint64(18446744073709551615), u)

	v, err = queryengine.FromJSONText(`3.14`)
	require.NoError(t, err)
	f, ok := v.AsFloat()
	require.True(t, ok)
	assert.InDelta(t, 3.14, f, 1e-9)

	v, err = queryengine.FromJSONText(`1e3`)
	require.NoError(t, err)
	f, ok = v.AsFloat()
	require.True(t, ok)
	assert.Equal(t, 1000.0, f)
}

func TestFromJSONText_PreservesObjectOrder(t *testing.T) {
	v, err := queryengine.FromJSONText(`{"z":1,"a":2,"m":3}`)
	require.NoError(t, err)
	obj, ok := v.AsObject()
	require.True(t, ok)

	var keys []string
	for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	assert.Equal(t, []string{"z", "a", "m"}, keys)
}

func TestFromJSONText_InvalidTextIsDecodeError(t *testing.T) {
	_, err := queryengine.FromJSONText(`{not valid json`)
	require.Error(t, err)
	var decodeErr *queryengine.DecodeError
	assert.ErrorAs(t, err, &decodeErr)
}

func TestToJSONText_RoundTrip(t *testing.T) {
	texts := []string{
		`null`,
		`true`,
		`false`,
		`42`,
		`-7`,
		`3.5`,
		`"hello"`,
		`[1,2,3]`,
		`{"a":1,"b":[2,3]}`,
	}

	for _, text := range texts {
		t.Run(text, func(t *testing.T) {
			v, err := queryengine.FromJSONText(text)
			require.NoError(t, err)

			out, err := queryengine.ToJSONText(v)
			require.NoError(t, err)

			reparsed, err := queryengine.FromJSONText(out)
			require.NoError(t, err)
			assert.True(t, v.Equal(reparsed))
		})
	}
}

func TestHostNative_RoundTrip(t *testing.T) {
	v, err := queryengine.FromHostNative(map[string]any{"a": int64(1), "b": "s"})
	require.NoError(t, err)

	native := queryengine.ToHostNative(v)
	obj, ok := native.(*queryengine.Object)
	require.True(t, ok)
	assert.Equal(t, 2, obj.Len())
}

func TestHostNative_UnsupportedType(t *testing.T) {
	_, err := queryengine.FromHostNative(make(chan int))
	require.Error(t, err)
	var decodeErr *queryengine.DecodeError
	assert.ErrorAs(t, err, &decodeErr)
}
