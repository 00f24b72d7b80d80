// Copyright (C) 2025 Palarena Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palarena/palarena/services/lps/engine"
)

func TestCompareInput_FromArgs(t *testing.T) {
	compareFile = ""
	text, err := compareInput([]string{"a", "man", "a", "plan"})
	require.NoError(t, err)
	assert.Equal(t, "a man a plan", text)
}

func TestCompareInput_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.txt")
	require.NoError(t, os.WriteFile(path, []byte("babad"), 0600))

	compareFile = path
	defer func() { compareFile = "" }()

	text, err := compareInput(nil)
	require.NoError(t, err)
	assert.Equal(t, "babad", text)
}

func TestCompareInput_MissingFile(t *testing.T) {
	compareFile = filepath.Join(t.TempDir(), "does-not-exist.txt")
	defer func() { compareFile = "" }()

	_, err := compareInput(nil)
	assert.Error(t, err)
}

func TestCompareInput_NoArgs(t *testing.T) {
	compareFile = ""
	_, err := compareInput(nil)
	assert.ErrorIs(t, err, engine.ErrInvalidInput)
}

func TestJoinNames(t *testing.T) {
	names := []engine.AlgorithmName{
		engine.AlgorithmManacher,
		engine.AlgorithmNaive,
	}
	assert.Equal(t, "optimized_manacher, naive", joinNames(names))
	assert.Equal(t, "", joinNames(nil))
}
