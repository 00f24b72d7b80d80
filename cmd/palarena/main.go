// Copyright (C) 2025 Palarena Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"log"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "palarena",
	Short: "Compare longest-palindromic-substring algorithms",
	Long: `Palarena measures three longest-palindromic-substring algorithms
against the same input and reports per-algorithm timing, memory, and the
substring each one found.

Run "palarena serve" to expose the comparison over HTTP, or
"palarena compare" to run one comparison from the terminal.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error executing command: %v", err)
	}
}
