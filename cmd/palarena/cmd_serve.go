// Copyright (C) 2025 Palarena Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"log"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/palarena/palarena/pkg/logging"
	"github.com/palarena/palarena/services/lps"
	"github.com/palarena/palarena/services/lps/config"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	serveConfigPath string // Path to the YAML configuration file
	serveLogLevel   string // Minimum log level (debug, info, warn, error)
	serveLogDir     string // Directory for JSON log files (empty disables)
	serveLogJSON    bool   // JSON logs on stderr
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// serveCmd starts the HTTP comparison service.
//
// # Description
//
// Loads configuration from the YAML file (missing file means defaults),
// applies environment overrides, and serves the comparison API until the
// process is stopped.
//
// # Environment Overrides
//
//   - PALARENA_PORT: HTTP listen port
//   - PALARENA_UI_DIR: directory served under /ui
//   - PALARENA_OTEL_ENDPOINT: OTLP gRPC collector address
//
// # Examples
//
//	palarena serve                          # defaults, port 12400
//	palarena serve --config palarena.yaml   # explicit config file
//	PALARENA_PORT=8080 palarena serve       # env override
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP comparison service",
	Long: `Starts the palarena HTTP server.

The server exposes:
  POST /v1/compare         compare algorithms on a JSON text payload
  POST /v1/compare/upload  compare algorithms on an uploaded text file
  GET  /health             liveness probe
  GET  /metrics            Prometheus metrics

Examples:
  palarena serve
  palarena serve --config palarena.yaml --log-level debug
  PALARENA_PORT=8080 palarena serve`,
	Run: runServeCommand,
}

// =============================================================================
// COMMAND INITIALIZATION
// =============================================================================

func init() {
	serveCmd.Flags().StringVarP(&serveConfigPath, "config", "c", "palarena.yaml",
		"Path to the YAML configuration file")
	serveCmd.Flags().StringVar(&serveLogLevel, "log-level", "info",
		"Minimum log level (debug, info, warn, error)")
	serveCmd.Flags().StringVar(&serveLogDir, "log-dir", "",
		"Directory for JSON log files (empty disables file logging)")
	serveCmd.Flags().BoolVar(&serveLogJSON, "log-json", false,
		"Emit JSON logs on stderr")
	rootCmd.AddCommand(serveCmd)
}

// =============================================================================
// COMMAND IMPLEMENTATION
// =============================================================================

func runServeCommand(cmd *cobra.Command, args []string) {
	logger := logging.New(logging.Config{
		Level:   logging.ParseLevel(serveLogLevel),
		LogDir:  serveLogDir,
		Service: "palarena",
		JSON:    serveLogJSON,
	})
	defer logger.Close()

	cfg, err := config.Load(serveConfigPath)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	applyEnvOverrides(&cfg)

	svc, err := lps.New(cfg, logger.Slog())
	if err != nil {
		log.Fatalf("Error building service: %v", err)
	}
	if err := svc.Run(); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

// applyEnvOverrides layers environment variables over the file config.
func applyEnvOverrides(cfg *config.Config) {
	cfg.Server.Port = getEnvInt("PALARENA_PORT", cfg.Server.Port)
	cfg.Server.UIDir = getEnvString("PALARENA_UI_DIR", cfg.Server.UIDir)
	cfg.Server.OTelEndpoint = getEnvString("PALARENA_OTEL_ENDPOINT", cfg.Server.OTelEndpoint)
}

// getEnvString reads an environment variable with a fallback default.
func getEnvString(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// getEnvInt reads an integer environment variable with a fallback
// default. Unparseable values keep the fallback.
func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}
