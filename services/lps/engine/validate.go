// Copyright (C) 2025 Palarena Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engine

// =============================================================================
// Palindrome Validation
// =============================================================================

// IsPalindrome reports whether text is a palindrome under the
// canonicalization rule: non-alphanumeric runes are dropped and the rest
// compared case-insensitively.
//
// The empty string and any text with no alphanumeric runes are palindromes
// by convention. Every algorithm runs its final span through this predicate
// before returning, as a correctness guard.
func IsPalindrome(text string) bool {
	canonical, _ := Normalize(text)
	runes := []rune(canonical)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		if runes[i] != runes[j] {
			return false
		}
	}
	return true
}
