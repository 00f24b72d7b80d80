// Copyright (C) 2025 Palarena Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engine

import "fmt"

// =============================================================================
// Algorithm Contract
// =============================================================================

// Algorithm is the contract shared by all LPS implementations.
//
// Find consumes the Normalize output for a text and returns the longest
// palindromic substring expressed in raw-text coordinates. Implementations
// compute a span over canonical and map it back through the index map; the
// returned substring therefore keeps the original casing and punctuation of
// the matched region.
//
// Find must return ErrInternalConsistency (wrapped) if its computed span
// fails palindrome validation. It must never fabricate a fallback answer.
type Algorithm interface {
	// Name identifies the algorithm in results and metrics.
	Name() AlgorithmName

	// Find returns the LPS of raw, computed over canonical.
	// An empty canonical string yields ("", nil).
	Find(canonical string, indexMap []int, raw string) (string, error)
}

// span is an inclusive [start, end] rune-index pair into the canonical
// string describing the best palindrome found so far. Algorithms mutate it
// monotonically: only a strictly longer palindrome replaces the current
// best, so ties keep the earliest-found occurrence.
type span struct {
	start int
	end   int
}

// length returns the number of canonical runes covered by the span.
func (s span) length() int {
	return s.end - s.start + 1
}

// expand grows left/right outward from the given center while the endpoint
// runes match, and returns the final matched span. The returned ok is false
// when not even the initial pair matched (relevant for even centers).
func expand(runes []rune, left, right int) (span, bool) {
	if left < 0 || right >= len(runes) || runes[left] != runes[right] {
		return span{}, false
	}
	for left-1 >= 0 && right+1 < len(runes) && runes[left-1] == runes[right+1] {
		left--
		right++
	}
	return span{start: left, end: right}, true
}

// finishSpan maps the best span back to raw text and applies the validation
// guard. A span that fails validation is a defect in the algorithm that
// produced it, so it is surfaced loudly instead of patched over.
func finishSpan(name AlgorithmName, best span, indexMap []int, raw string) (string, error) {
	result := sliceRaw(raw, indexMap, best)
	if !IsPalindrome(result) {
		return "", fmt.Errorf("%s: span [%d,%d] -> %q: %w",
			name, best.start, best.end, result, ErrInternalConsistency)
	}
	return result, nil
}
