// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rjq-project/rjq/internal/queryengine"
)

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema for a compiled filter program's serialized AST",
		RunE: func(cmd *cobra.Command, _ []string) error {
			schema, err := queryengine.GenerateSchema()
			if err != nil {
				return fmt.Errorf("generating schema: %w", err)
			}
			cmd.Print(string(schema))
			return nil
		},
	}
}
