// Copyright (C) 2025 Palarena Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/palarena/palarena/pkg/logging"
	"github.com/palarena/palarena/services/lps/engine"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	compareFile            string // Read the input text from this file
	compareJSONOutput      bool   // Output as JSON
	compareBudgetSeconds   int    // Per-algorithm measurement budget
	compareWarmupRuns      int    // Untimed runs before sampling
	compareCenterVariant   string // Strategy for the DP-labeled algorithm
	compareManacherVariant string // Strategy for the Manacher-style algorithm
	compareSeed            int64  // Shuffle seed for the execution order
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// compareCmd runs one comparison from the terminal, without the server.
//
// # Description
//
// Takes the input text from positional arguments (joined with spaces) or
// from --file, runs the full measurement procedure, and prints the
// per-algorithm report.
//
// # Examples
//
//	palarena compare "A man, a plan, a canal: Panama"
//	palarena compare --file war_and_peace.txt --json
//	palarena compare --manacher-variant linear "babad"
var compareCmd = &cobra.Command{
	Use:   "compare [text]",
	Short: "Run one algorithm comparison from the terminal",
	Long: `Runs the three longest-palindromic-substring algorithms against the
given text and prints each algorithm's substring, timing, and memory use.

Examples:
  palarena compare "A man, a plan, a canal: Panama"
  palarena compare --file input.txt --json
  palarena compare --seed 42 --budget 30 "babad"`,
	Run: runCompareCommand,
}

// =============================================================================
// COMMAND INITIALIZATION
// =============================================================================

func init() {
	compareCmd.Flags().StringVarP(&compareFile, "file", "f", "",
		"Read the input text from this file instead of the arguments")
	compareCmd.Flags().BoolVar(&compareJSONOutput, "json", false,
		"Output as JSON for scripting")
	compareCmd.Flags().IntVar(&compareBudgetSeconds, "budget", 0,
		"Per-algorithm measurement budget in seconds (0 uses the default)")
	compareCmd.Flags().IntVar(&compareWarmupRuns, "warmup", -1,
		"Untimed runs before sampling (-1 uses the default)")
	compareCmd.Flags().StringVar(&compareCenterVariant, "center-variant", "",
		"Center-expansion strategy: expansion or tabulation")
	compareCmd.Flags().StringVar(&compareManacherVariant, "manacher-variant", "",
		"Manacher strategy: two_pass or linear")
	compareCmd.Flags().Int64Var(&compareSeed, "seed", 0,
		"Seed for the execution-order shuffle (0 uses the clock)")
	rootCmd.AddCommand(compareCmd)
}

// =============================================================================
// COMMAND IMPLEMENTATION
// =============================================================================

func runCompareCommand(cmd *cobra.Command, args []string) {
	text, err := compareInput(args)
	if err != nil {
		log.Fatalf("Error reading input: %v", err)
	}

	logger := logging.New(logging.Config{
		Level:   logging.LevelWarn,
		Service: "palarena",
	})
	defer logger.Close()

	harness := engine.DefaultHarnessOptions()
	harness.Logger = logger.Slog()
	if compareBudgetSeconds > 0 {
		harness.Budget = time.Duration(compareBudgetSeconds) * time.Second
	}
	if compareWarmupRuns >= 0 {
		harness.WarmupRuns = compareWarmupRuns
	}
	if compareSeed != 0 {
		harness.Rand = rand.New(rand.NewSource(compareSeed))
	}

	centerVariant, err := engine.ParseCenterVariant(compareCenterVariant)
	if err != nil {
		log.Fatalf("Error in flags: %v", err)
	}
	manacherVariant, err := engine.ParseManacherVariant(compareManacherVariant)
	if err != nil {
		log.Fatalf("Error in flags: %v", err)
	}

	comparer := engine.NewComparer(&engine.ComparerOptions{
		Harness:         harness,
		CenterVariant:   centerVariant,
		ManacherVariant: manacherVariant,
		Logger:          logger.Slog(),
	})

	comparison := comparer.RunComparison(context.Background(), text)

	if compareJSONOutput {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(comparison); err != nil {
			log.Fatalf("Error encoding output: %v", err)
		}
		return
	}
	printComparison(comparison)
}

// compareInput resolves the text to analyze from --file or the args.
func compareInput(args []string) (string, error) {
	if compareFile != "" {
		data, err := os.ReadFile(compareFile)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	if len(args) == 0 {
		return "", fmt.Errorf("provide text as an argument or use --file: %w", engine.ErrInvalidInput)
	}
	return strings.Join(args, " "), nil
}

// printComparison renders the human-readable report.
func printComparison(comparison engine.Comparison) {
	fmt.Printf("Comparison %s\n", comparison.ID)
	fmt.Printf("Input: %d runes (%d after normalization)\n",
		comparison.RawLength, comparison.CanonicalLength)
	fmt.Printf("Execution order: %s\n\n", joinNames(comparison.ExecutionOrder))

	for _, name := range comparison.ExecutionOrder {
		result := comparison.Results[name]
		fmt.Printf("%s\n", name)
		if result.Error != "" {
			fmt.Printf("  error:      %s\n", result.Error)
			continue
		}
		fmt.Printf("  substring:  %q (%d runes canonical)\n",
			result.Substring, result.CanonicalLength)
		fmt.Printf("  time:       %.4f ms over %d iterations\n",
			result.ExecutionTimeMs, result.Iterations)
		if result.MeasurementUnreliable {
			fmt.Printf("  memory:     unreliable\n")
		} else {
			fmt.Printf("  memory:     %.2f KB\n", result.MemoryDeltaKB)
		}
		if result.TimedOut {
			fmt.Printf("  note:       budget exhausted before all iterations ran\n")
		}
	}
}

func joinNames(names []engine.AlgorithmName) string {
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = string(name)
	}
	return strings.Join(parts, ", ")
}
