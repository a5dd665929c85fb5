// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gobwas/glob"
	"github.com/sethvargo/go-retry"
	"github.com/spf13/cobra"

	"github.com/rjq-project/rjq/internal/queryengine"
)

type runConfig struct {
	query     string
	inputFile string
	inputURL  string
	globPat   string
}

func newRunCmd() *cobra.Command {
	cfg := &runConfig{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Compile and run a filter query against one or more JSON documents",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRun(cmd, cfg)
		},
	}

	cmd.Flags().StringVarP(&cfg.query, "query", "q", "", "filter query to run (required)")
	cmd.Flags().StringVarP(&cfg.inputFile, "file", "f", "", "read input from this file instead of stdin")
	cmd.Flags().StringVar(&cfg.inputURL, "input-url", "", "fetch input from this URL instead of a file")
	cmd.Flags().StringVar(&cfg.globPat, "glob", "", "run the query against every file matching this glob pattern, emitting a JSON array of per-file results")
	_ = cmd.MarkFlagRequired("query")

	return cmd
}

func runRun(cmd *cobra.Command, cfg *runConfig) error {
	program, err := queryengine.Compile(cfg.query)
	if err != nil {
		return fmt.Errorf("compiling query: %w", err)
	}

	if cfg.globPat != "" {
		return runGlob(cmd, program, cfg.globPat)
	}

	text, err := readInput(cmd, cfg)
	if err != nil {
		return err
	}

	return runOne(cmd, program, text)
}

// runOne evaluates program against a single JSON document's text and prints
// the presented result per spec §6.4.
func runOne(cmd *cobra.Command, program *queryengine.Program, text string) error {
	input, err := queryengine.FromJSONText(text)
	if err != nil {
		return fmt.Errorf("decoding input: %w", err)
	}

	out, err := queryengine.ToJSONText(queryengine.Present(program.Run(input)))
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}

	cmd.Println(out)
	return nil
}

// runGlob expands pat against the current directory's files and runs
// program against each match, collecting one array of per-file results.
func runGlob(cmd *cobra.Command, program *queryengine.Program, pat string) error {
	g, err := glob.Compile(pat, '/')
	if err != nil {
		return fmt.Errorf("compiling glob pattern %q: %w", pat, err)
	}

	var matches []string
	err = filepath.WalkDir(".", func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		if g.Match(path) {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walking filesystem for glob %q: %w", pat, err)
	}

	results := make([]queryengine.Value, 0, len(matches))
	for _, path := range matches {
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return fmt.Errorf("reading %s: %w", path, readErr)
		}
		input, decodeErr := queryengine.FromJSONText(string(data))
		if decodeErr != nil {
			return fmt.Errorf("decoding %s: %w", path, decodeErr)
		}
		results = append(results, queryengine.Present(program.Run(input)))
	}

	out, err := queryengine.ToJSONText(queryengine.Array(results))
	if err != nil {
		return fmt.Errorf("encoding results: %w", err)
	}

	cmd.Println(out)
	return nil
}

// readInput resolves cfg's input source: --input-url (with retrying
// fetch), --file, or stdin, in that priority order.
func readInput(cmd *cobra.Command, cfg *runConfig) (string, error) {
	switch {
	case cfg.inputURL != "":
		return fetchInputURL(cmd.Context(), cfg.inputURL)
	case cfg.inputFile != "":
		data, err := os.ReadFile(cfg.inputFile)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", cfg.inputFile, err)
		}
		return string(data), nil
	default:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
}

// fetchInputURL fetches url with a bounded exponential backoff, the one
// place this CLI talks to the outside world and can transiently fail — the
// query engine itself never retries anything.
func fetchInputURL(ctx context.Context, url string) (string, error) {
	b, err := retry.NewExponential(100 * time.Millisecond)
	if err != nil {
		return "", fmt.Errorf("constructing backoff: %w", err)
	}
	b = retry.WithMaxRetries(5, b)

	var body string
	err = retry.Do(ctx, b, func(ctx context.Context) error {
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if reqErr != nil {
			return reqErr
		}

		resp, doErr := http.DefaultClient.Do(req)
		if doErr != nil {
			return retry.RetryableError(doErr)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return retry.RetryableError(fmt.Errorf("server error: %s", resp.Status))
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("unexpected status: %s", resp.Status)
		}

		data, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return retry.RetryableError(readErr)
		}
		body = string(data)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", url, err)
	}
	return body, nil
}
