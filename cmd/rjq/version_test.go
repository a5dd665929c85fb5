// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersion_PrintsGrammarVersion(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetArgs([]string{"version"})

	out := new(bytes.Buffer)
	cmd.SetOut(out)

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "grammar v1")
}

func TestVersion_NonSemverFallsBackGracefully(t *testing.T) {
	original := version
	version = "not-a-semver"
	defer func() { version = original }()

	cmd := NewRootCmd()
	cmd.SetArgs([]string{"version"})

	out := new(bytes.Buffer)
	cmd.SetOut(out)

	require.NoError(t, cmd.Execute())
	assert.True(t, strings.Contains(out.String(), "not-a-semver"))
}
