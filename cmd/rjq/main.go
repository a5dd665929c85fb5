// Package main is the entry point for the rjq command-line query tool.
package main

import (
	"log/slog"
	"os"

	"github.com/rjq-project/rjq/pkg/errutil"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		errutil.LogError(slog.Default(), "rjq error", err)
		os.Exit(1)
	}
}
