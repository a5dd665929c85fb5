// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

const defaultLogFormat = "json"

// NewRootCmd creates the root command for the rjq CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rjq",
		Short: "rjq - a compiled jq-style query engine",
		Long: `rjq compiles and runs small filter queries over JSON documents:
field access, array indexing, iteration, object construction, and
select() predicates.`,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newSchemaCmd())

	return cmd
}
