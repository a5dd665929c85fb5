// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchema_PrintsValidJSON(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetArgs([]string{"schema"})

	out := new(bytes.Buffer)
	cmd.SetOut(out)

	require.NoError(t, cmd.Execute())

	var doc map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	assert.Contains(t, doc, "$id")
}
