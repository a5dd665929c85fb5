// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package server

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config holds the query service's runtime configuration. A config file
// supplies values that the flags `rjq serve` exposes (--addr, --log-format)
// can then override; the remaining fields are set by the file or defaults.
type Config struct {
	Addr              string `koanf:"addr"`
	LogFormat         string `koanf:"log_format"`
	MaxProgramDepth   int    `koanf:"max_program_depth"`
	MaxGlobPatternLen int    `koanf:"max_glob_pattern_len"`
}

// DefaultConfig returns the configuration used when no file and no flags
// override it.
func DefaultConfig() Config {
	return Config{
		Addr:              ":8080",
		LogFormat:         "json",
		MaxProgramDepth:   1024,
		MaxGlobPatternLen: 256,
	}
}

// LoadConfig layers configFile (if non-empty) over DefaultConfig, then
// layers flags over the result — flags always win. configFile is optional:
// an empty path skips the file layer, since every field already has a
// default; a non-empty path that cannot be read is an error.
func LoadConfig(configFile string, flags *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if err := k.Load(structProvider(cfg), nil); err != nil {
		return Config{}, fmt.Errorf("loading default config: %w", err)
	}

	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("loading config file %q: %w", configFile, err)
		}
	}

	if flags != nil {
		// Flag names use dashes (--log-format); config keys use underscores.
		p := posflag.ProviderWithValue(flags, ".", k, func(key, value string) (string, any) {
			return strings.ReplaceAll(key, "-", "_"), value
		})
		if err := k.Load(p, nil); err != nil {
			return Config{}, fmt.Errorf("loading config flags: %w", err)
		}
	}

	var out Config
	if err := k.Unmarshal("", &out); err != nil {
		return Config{}, fmt.Errorf("unmarshaling config: %w", err)
	}
	return out, nil
}

// structProvider adapts a Config value to koanf's Provider interface so
// DefaultConfig can seed the layering chain the same way a file or flags do.
type structFields map[string]any

func structProvider(cfg Config) koanf.Provider {
	return confmapProvider{structFields{
		"addr":                 cfg.Addr,
		"log_format":           cfg.LogFormat,
		"max_program_depth":    cfg.MaxProgramDepth,
		"max_glob_pattern_len": cfg.MaxGlobPatternLen,
	}}
}

type confmapProvider struct {
	m structFields
}

func (p confmapProvider) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("confmapProvider does not support ReadBytes")
}

func (p confmapProvider) Read() (map[string]any, error) {
	return p.m, nil
}
