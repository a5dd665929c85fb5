// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rjq-project/rjq/internal/logging"
	"github.com/rjq-project/rjq/internal/server"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP query service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd)
		},
	}

	cmd.Flags().String("addr", "", "listen address (overrides config file)")
	cmd.Flags().String("log-format", "", "log format: json or text (overrides config file)")

	return cmd
}

func runServe(cmd *cobra.Command) error {
	cfg, err := server.LoadConfig(configFile, cmd.Flags())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logging.SetDefault("rjq", version, cfg.LogFormat)

	srv := server.NewServer(cfg.Addr, func() bool { return true })
	if err := srv.Start(); err != nil {
		return fmt.Errorf("starting query server: %w", err)
	}

	slog.Info("rjq serve ready", "addr", srv.Addr())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Stop(ctx)
}
