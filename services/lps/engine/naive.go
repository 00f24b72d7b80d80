// Copyright (C) 2025 Palarena Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engine

// =============================================================================
// Naive LPS (expand-around-center)
// =============================================================================

// NaiveLPS is the reference expand-around-center implementation.
//
// # Description
//
//	Scans all 2n-1 candidate centers of the canonical string left to right
//	(n single-rune centers interleaved with n-1 adjacent-pair centers) and
//	grows each outward while the endpoints match. The best span is replaced
//	only by a strictly longer one, so on ties the earliest-found occurrence
//	wins: "babad" yields "bab", not "aba".
//
//	This is the ground-truth implementation the other two are checked
//	against. O(n²) time worst case, O(1) extra space beyond the span
//	bookkeeping and the one-time rune conversion of the input.
//
// # Limitations
//
//   - No special-casing for large inputs; the harness bounds total cost by
//     degrading iteration counts instead.
type NaiveLPS struct{}

// NewNaiveLPS returns the reference implementation.
func NewNaiveLPS() *NaiveLPS {
	return &NaiveLPS{}
}

// Name implements Algorithm.
func (a *NaiveLPS) Name() AlgorithmName {
	return AlgorithmNaive
}

// Find implements Algorithm. See the type documentation for semantics.
func (a *NaiveLPS) Find(canonical string, indexMap []int, raw string) (string, error) {
	runes := []rune(canonical)
	if len(runes) == 0 {
		return "", nil
	}

	best := span{start: 0, end: 0}
	for center := 0; center < len(runes); center++ {
		if sp, ok := expand(runes, center, center); ok && sp.length() > best.length() {
			best = sp
		}
		if sp, ok := expand(runes, center, center+1); ok && sp.length() > best.length() {
			best = sp
		}
	}
	return finishSpan(a.Name(), best, indexMap, raw)
}
