// Copyright (C) 2025 Palarena Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engine

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Test Setup
// =============================================================================

// allAlgorithms returns every algorithm in every variant combination worth
// exercising. The variants may disagree on which occurrence wins a tie but
// must agree on the optimal length.
func allAlgorithms() []Algorithm {
	return []Algorithm{
		NewNaiveLPS(),
		NewCenterExpansionLPS(nil),
		NewCenterExpansionLPS(&CenterExpansionOptions{Variant: CenterVariantTabulation}),
		NewOptimizedManacherLPS(nil),
		NewOptimizedManacherLPS(&ManacherOptions{Variant: ManacherVariantLinear}),
	}
}

func findOn(t *testing.T, alg Algorithm, raw string) string {
	t.Helper()
	canonical, indexMap := Normalize(raw)
	result, err := alg.Find(canonical, indexMap, raw)
	require.NoError(t, err, "algorithm %s on %q", alg.Name(), raw)
	return result
}

func canonicalLen(s string) int {
	canonical, _ := Normalize(s)
	return utf8.RuneCountInString(canonical)
}

// =============================================================================
// Shared Scenarios
// =============================================================================

func TestAlgorithms_ConcreteScenarios(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantLength int
		accepted   []string
	}{
		{
			name:       "babad",
			raw:        "babad",
			wantLength: 3,
			accepted:   []string{"bab", "aba"},
		},
		{
			name:       "cbbd",
			raw:        "cbbd",
			wantLength: 2,
			accepted:   []string{"bb"},
		},
		{
			name:       "panama phrase spans the whole canonical run",
			raw:        "A man a plan a canal Panama",
			wantLength: 21,
			accepted:   []string{"A man a plan a canal Panama"},
		},
		{
			name:       "single character",
			raw:        "z",
			wantLength: 1,
			accepted:   []string{"z"},
		},
		{
			name:       "no repeated or mirrored characters",
			raw:        "abcdefg",
			wantLength: 1,
			accepted:   []string{"a", "b", "c", "d", "e", "f", "g"},
		},
		{
			name:       "all identical characters",
			raw:        "aaaa",
			wantLength: 4,
			accepted:   []string{"aaaa"},
		},
		{
			name:       "palindrome with interior punctuation",
			raw:        "xx ab?ba zz",
			wantLength: 4,
			accepted:   []string{"ab?ba"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, alg := range allAlgorithms() {
				result := findOn(t, alg, tt.raw)
				assert.Equal(t, tt.wantLength, canonicalLen(result),
					"%s returned %q", alg.Name(), result)
				assert.Contains(t, tt.accepted, result,
					"%s returned unexpected occurrence", alg.Name())
			}
		})
	}
}

func TestAlgorithms_EmptyInputs(t *testing.T) {
	for _, raw := range []string{"", "?!, --"} {
		for _, alg := range allAlgorithms() {
			result := findOn(t, alg, raw)
			assert.Equal(t, "", result, "%s on %q", alg.Name(), raw)
		}
	}
}

func TestAlgorithms_FirstFoundTieBreak(t *testing.T) {
	// Left-to-right center scans find "bab" before "aba".
	for _, alg := range []Algorithm{
		NewNaiveLPS(),
		NewCenterExpansionLPS(nil),
		NewOptimizedManacherLPS(nil),
	} {
		assert.Equal(t, "bab", findOn(t, alg, "babad"), "algorithm %s", alg.Name())
	}
}

// =============================================================================
// Properties
// =============================================================================

func TestAlgorithms_ResultIsAlwaysPalindrome(t *testing.T) {
	inputs := []string{
		"babad", "cbbd", "forgeeksskeegfor", "abacdfgdcaba",
		"A man a plan a canal Panama", "No lemon, no melon!",
		"xyz", "aa", "ab", "aaaaabaaaa", "12321abc",
		"ÄnnA saß", strings.Repeat("ab", 50) + strings.Repeat("ba", 50),
	}

	for _, raw := range inputs {
		for _, alg := range allAlgorithms() {
			result := findOn(t, alg, raw)
			assert.True(t, IsPalindrome(result),
				"%s on %q returned non-palindrome %q", alg.Name(), raw, result)
		}
	}
}

func TestAlgorithms_AgreeOnOptimalLength(t *testing.T) {
	inputs := []string{
		"", "a", "ab", "babad", "cbbd", "forgeeksskeegfor",
		"A man a plan a canal Panama", "banana", "mississippi",
		strings.Repeat("a", 200), strings.Repeat("xy", 80),
		"abcba_xxabaxx", "Madam, in Eden, I'm Adam",
	}

	for _, raw := range inputs {
		reference := canonicalLen(findOn(t, NewNaiveLPS(), raw))
		for _, alg := range allAlgorithms() {
			got := canonicalLen(findOn(t, alg, raw))
			assert.Equal(t, reference, got,
				"%s disagrees with naive on %q", alg.Name(), raw)
		}
	}
}

func TestAlgorithms_SubstringComesFromRawText(t *testing.T) {
	raw := "Step on no pets, Bob!"
	for _, alg := range allAlgorithms() {
		result := findOn(t, alg, raw)
		assert.Contains(t, raw, result,
			"%s returned text not present in the input", alg.Name())
	}
}

func TestAlgorithms_AllIdenticalLargeInput(t *testing.T) {
	if testing.Short() {
		t.Skip("quadratic worst case, skipped in -short")
	}
	raw := strings.Repeat("a", 20_000)
	for _, alg := range allAlgorithms() {
		result := findOn(t, alg, raw)
		assert.Equal(t, 20_000, canonicalLen(result), "algorithm %s", alg.Name())
	}
}

// =============================================================================
// Options Validation
// =============================================================================

func TestCenterExpansionOptions_Validate(t *testing.T) {
	opts := &CenterExpansionOptions{Variant: "nonsense"}
	opts.Validate()
	assert.Equal(t, CenterVariantExpansion, opts.Variant)

	opts = &CenterExpansionOptions{Variant: CenterVariantTabulation}
	opts.Validate()
	assert.Equal(t, CenterVariantTabulation, opts.Variant)
}

func TestManacherOptions_Validate(t *testing.T) {
	opts := &ManacherOptions{Variant: "nonsense"}
	opts.Validate()
	assert.Equal(t, ManacherVariantTwoPass, opts.Variant)

	opts = &ManacherOptions{Variant: ManacherVariantLinear}
	opts.Validate()
	assert.Equal(t, ManacherVariantLinear, opts.Variant)
}

func TestParseCenterVariant(t *testing.T) {
	v, err := ParseCenterVariant("")
	require.NoError(t, err)
	assert.Equal(t, CenterVariantExpansion, v)

	v, err = ParseCenterVariant("tabulation")
	require.NoError(t, err)
	assert.Equal(t, CenterVariantTabulation, v)

	_, err = ParseCenterVariant("tabulatoin")
	assert.ErrorIs(t, err, ErrUnknownVariant)
}

func TestParseManacherVariant(t *testing.T) {
	v, err := ParseManacherVariant("")
	require.NoError(t, err)
	assert.Equal(t, ManacherVariantTwoPass, v)

	v, err = ParseManacherVariant("linear")
	require.NoError(t, err)
	assert.Equal(t, ManacherVariantLinear, v)

	_, err = ParseManacherVariant("fast")
	assert.ErrorIs(t, err, ErrUnknownVariant)
}

// =============================================================================
// Benchmarks
// =============================================================================

func benchmarkFind(b *testing.B, alg Algorithm, n int) {
	raw := strings.Repeat("abcb", n/4)
	canonical, indexMap := Normalize(raw)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := alg.Find(canonical, indexMap, raw); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkNaiveLPS_1k(b *testing.B) { benchmarkFind(b, NewNaiveLPS(), 1_000) }

func BenchmarkCenterExpansionLPS_1k(b *testing.B) {
	benchmarkFind(b, NewCenterExpansionLPS(nil), 1_000)
}

func BenchmarkManacherTwoPass_1k(b *testing.B) {
	benchmarkFind(b, NewOptimizedManacherLPS(nil), 1_000)
}

func BenchmarkManacherLinear_1k(b *testing.B) {
	benchmarkFind(b, NewOptimizedManacherLPS(&ManacherOptions{Variant: ManacherVariantLinear}), 1_000)
}
