// Copyright (C) 2025 Palarena Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package config loads the palarena service configuration.
//
// Configuration comes from an optional YAML file; every field has a
// default, so a missing file means "run with defaults" rather than an
// error. Environment variables at the binary boundary (port overrides and
// the like) are handled by the callers, not here.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for the service.
type Config struct {
	// Server configures the HTTP boundary.
	Server ServerConfig `yaml:"server"`

	// Harness tunes the measurement procedure.
	Harness HarnessConfig `yaml:"harness"`
}

// ServerConfig configures the HTTP server and its middleware.
type ServerConfig struct {
	// Port is the HTTP listen port.
	Port int `yaml:"port"`

	// UIDir is the directory served under /ui. Empty disables the UI.
	UIDir string `yaml:"ui_dir"`

	// MaxBodyBytes caps the request body size (JSON and uploads alike).
	MaxBodyBytes int64 `yaml:"max_body_bytes"`

	// MaxConcurrentComparisons bounds how many comparisons run at once.
	// Comparisons are measurement runs; letting them contend for cores
	// would pollute each other's timing numbers.
	MaxConcurrentComparisons int64 `yaml:"max_concurrent_comparisons"`

	// AllowedOrigins lists CORS origins. "*" allows any.
	AllowedOrigins []string `yaml:"allowed_origins"`

	// OTelEndpoint is the OTLP gRPC collector address. Empty disables
	// trace export.
	OTelEndpoint string `yaml:"otel_endpoint"`
}

// HarnessConfig tunes the measurement harness. Zero values fall back to
// the engine defaults.
type HarnessConfig struct {
	// WarmupRuns is the number of untimed invocations before sampling.
	WarmupRuns int `yaml:"warmup_runs"`

	// BudgetSeconds bounds one algorithm's total measured run.
	BudgetSeconds int `yaml:"budget_seconds"`

	// TrimFraction is the share of samples trimmed from each end.
	TrimFraction float64 `yaml:"trim_fraction"`

	// SettleDelayMs is the inter-sample pause in milliseconds.
	SettleDelayMs int `yaml:"settle_delay_ms"`

	// DisableGC skips the forced collection between samples.
	DisableGC bool `yaml:"disable_gc"`

	// Tiers maps canonical input size ceilings to iteration counts,
	// sorted ascending. Empty uses the engine defaults.
	Tiers []TierConfig `yaml:"tiers"`

	// CenterVariant selects the strategy for the "DP"-labeled algorithm:
	// "expansion" (historical) or "tabulation" (textbook DP).
	CenterVariant string `yaml:"center_variant"`

	// ManacherVariant selects the strategy for the Manacher-style
	// algorithm: "two_pass" (historical) or "linear" (textbook).
	ManacherVariant string `yaml:"manacher_variant"`
}

// TierConfig is one size tier of the iteration schedule.
type TierConfig struct {
	MaxCanonicalLen int `yaml:"max_canonical_len"`
	Iterations      int `yaml:"iterations"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:                     12400,
			MaxBodyBytes:             5 << 20,
			MaxConcurrentComparisons: 1,
			AllowedOrigins:           []string{"*"},
		},
		Harness: HarnessConfig{},
	}
}

// Load reads the configuration from path. A missing file yields the
// defaults; a malformed file is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate applies defaults for invalid values.
func (c *Config) Validate() {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		c.Server.Port = Default().Server.Port
	}
	if c.Server.MaxBodyBytes <= 0 {
		c.Server.MaxBodyBytes = Default().Server.MaxBodyBytes
	}
	if c.Server.MaxConcurrentComparisons <= 0 {
		c.Server.MaxConcurrentComparisons = 1
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"*"}
	}
}
