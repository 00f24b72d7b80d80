// Copyright (C) 2025 Palarena Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engine

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// =============================================================================
// Normalization and Index Mapping
// =============================================================================

// Normalize converts raw text into the canonical comparison string and a
// position map back to raw-text offsets.
//
// # Description
//
//	A raw rune is retained iff it is a Unicode letter or digit; retained
//	runes are lower-cased. Everything else (whitespace, punctuation,
//	symbols) is dropped from the canonical string entirely, not merely
//	skipped during comparison. indexMap[k] holds the byte offset in raw of
//	the rune that became the kth rune of canonical, so results computed
//	over canonical can be sliced back out of the original text.
//
//	The index map is strictly increasing and every entry points at an
//	alphanumeric rune in raw. It is built once per request and read-only
//	afterwards.
//
// # Inputs
//
//   - raw: The original text. May contain whitespace, punctuation, mixed
//     case, or arbitrary Unicode.
//
// # Outputs
//
//   - canonical: Lower-cased alphanumeric-only string for comparison.
//   - indexMap: Byte offsets into raw, one per canonical rune.
//
// Raw text with no alphanumeric runes yields ("", empty map). Callers must
// treat that as "no palindrome", not as an error.
func Normalize(raw string) (string, []int) {
	var canonical strings.Builder
	indexMap := make([]int, 0, len(raw))

	for i, r := range raw {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		canonical.WriteRune(unicode.ToLower(r))
		indexMap = append(indexMap, i)
	}
	return canonical.String(), indexMap
}

// sliceRaw maps a span over the canonical string back to the raw text.
//
// The span is inclusive over canonical rune positions. The returned slice
// runs from the raw offset of the first spanned rune through the end of the
// raw rune behind the last spanned one, so punctuation and case from the
// original text are preserved inside the result.
func sliceRaw(raw string, indexMap []int, sp span) string {
	if sp.start < 0 || sp.end >= len(indexMap) || sp.start > sp.end {
		return ""
	}
	end := indexMap[sp.end]
	_, width := utf8.DecodeRuneInString(raw[end:])
	return raw[indexMap[sp.start] : end+width]
}
