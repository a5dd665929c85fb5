// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"github.com/Masterminds/semver/v3"
	"github.com/spf13/cobra"

	"github.com/rjq-project/rjq/internal/queryengine"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the rjq version and grammar version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runVersion(cmd)
		},
	}
}

func runVersion(cmd *cobra.Command) error {
	v, err := semver.NewVersion(version)
	if err != nil {
		// "dev" builds and similar non-semver strings still print, just
		// without a validated/re-rendered version string.
		cmd.Printf("rjq %s (grammar v%d)\n", version, queryengine.GrammarVersion)
		return nil
	}

	cmd.Printf("rjq %s (grammar v%d)\n", v.String(), queryengine.GrammarVersion)
	return nil
}
