// Copyright (C) 2025 Palarena Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engine

import "fmt"

// =============================================================================
// Optimized Manacher-style LPS
// =============================================================================

// ManacherVariant selects the strategy behind OptimizedManacherLPS.
type ManacherVariant string

const (
	// ManacherVariantTwoPass preserves the historical behavior: two
	// independent expand-around-center passes over the canonical string
	// (one for odd-length centers, one for even-length pairs). This avoids
	// the classical separator-transformed buffer, so peak memory stays
	// low, but it is NOT linear: worst case is O(n²), same as NaiveLPS,
	// despite the algorithm's name. Default, for benchmarking parity.
	ManacherVariantTwoPass ManacherVariant = "two_pass"

	// ManacherVariantLinear is the textbook mirror/boundary recurrence:
	// a per-position radius array over virtual separator-interleaved
	// positions, reusing mirrored radii inside the rightmost known
	// boundary. O(n) time, O(n) space, and no transformed string is ever
	// materialized, only index arithmetic over the virtual positions.
	ManacherVariantLinear ManacherVariant = "linear"
)

// ManacherOptions configures OptimizedManacherLPS.
type ManacherOptions struct {
	// Variant picks the strategy. Invalid values fall back to the
	// historical two-pass variant. Default: ManacherVariantTwoPass.
	Variant ManacherVariant
}

// Validate applies defaults for invalid values.
func (o *ManacherOptions) Validate() {
	if o.Variant != ManacherVariantTwoPass && o.Variant != ManacherVariantLinear {
		o.Variant = ManacherVariantTwoPass
	}
}

// ParseManacherVariant maps a configuration string to a ManacherVariant.
// The empty string selects the default; anything else unknown is rejected.
func ParseManacherVariant(s string) (ManacherVariant, error) {
	switch ManacherVariant(s) {
	case "", ManacherVariantTwoPass:
		return ManacherVariantTwoPass, nil
	case ManacherVariantLinear:
		return ManacherVariantLinear, nil
	}
	return "", fmt.Errorf("manacher variant %q: %w", s, ErrUnknownVariant)
}

// OptimizedManacherLPS is the memory-reduced Manacher-style competitor.
//
// # Description
//
//	The historical implementation was named and documented as Manacher's
//	O(n) algorithm while actually running two independent
//	expand-around-center passes: a memory optimization over the classical
//	transformed-string approach (which doubles the string and allocates a
//	buffer), but algorithmically identical in complexity to the naive
//	approach. Both behaviors are implemented here and the choice is exposed
//	through ManacherOptions.Variant; each documents its complexity
//	honestly. The property tests hold for both: the variants may disagree
//	on which occurrence wins a tie, never on the optimal length.
type OptimizedManacherLPS struct {
	opts ManacherOptions
}

// NewOptimizedManacherLPS constructs the algorithm. A nil opts uses the
// historical two-pass variant.
func NewOptimizedManacherLPS(opts *ManacherOptions) *OptimizedManacherLPS {
	o := ManacherOptions{}
	if opts != nil {
		o = *opts
	}
	o.Validate()
	return &OptimizedManacherLPS{opts: o}
}

// Name implements Algorithm.
func (a *OptimizedManacherLPS) Name() AlgorithmName {
	return AlgorithmManacher
}

// Find implements Algorithm.
func (a *OptimizedManacherLPS) Find(canonical string, indexMap []int, raw string) (string, error) {
	runes := []rune(canonical)
	if len(runes) == 0 {
		return "", nil
	}

	var best span
	switch a.opts.Variant {
	case ManacherVariantLinear:
		best = a.findLinear(runes)
	default:
		best = a.findTwoPass(runes)
	}
	return finishSpan(a.Name(), best, indexMap, raw)
}

// findTwoPass runs the odd-center pass, then the even-center pass, sharing
// the same best-span bookkeeping as NaiveLPS.
func (a *OptimizedManacherLPS) findTwoPass(runes []rune) span {
	best := span{start: 0, end: 0}
	for center := 0; center < len(runes); center++ {
		if sp, ok := expand(runes, center, center); ok && sp.length() > best.length() {
			best = sp
		}
	}
	for center := 0; center+1 < len(runes); center++ {
		if sp, ok := expand(runes, center, center+1); ok && sp.length() > best.length() {
			best = sp
		}
	}
	return best
}

// findLinear is classical Manacher over 2n+1 virtual positions. Even
// virtual positions stand for the separators of the usual transformation;
// odd position i stands for runes[(i-1)/2]. No transformed buffer is
// allocated, only the radius array.
func (a *OptimizedManacherLPS) findLinear(runes []rune) span {
	n := len(runes)
	m := 2*n + 1
	radius := make([]int, m)

	// at returns the virtual transformed rune; -1 is the separator.
	at := func(i int) rune {
		if i%2 == 0 {
			return -1
		}
		return runes[(i-1)/2]
	}

	center, right := 0, 0
	best := span{start: 0, end: 0}
	bestLen := 1
	for i := 0; i < m; i++ {
		if i < right {
			mirror := 2*center - i
			if r := right - i; radius[mirror] < r {
				radius[i] = radius[mirror]
			} else {
				radius[i] = r
			}
		}
		for i-radius[i]-1 >= 0 && i+radius[i]+1 < m && at(i-radius[i]-1) == at(i+radius[i]+1) {
			radius[i]++
		}
		if i+radius[i] > right {
			center, right = i, i+radius[i]
		}
		// radius[i] equals the palindrome's length in canonical runes.
		if radius[i] > bestLen {
			start := (i - radius[i]) / 2
			best = span{start: start, end: start + radius[i] - 1}
			bestLen = radius[i]
		}
	}
	return best
}
