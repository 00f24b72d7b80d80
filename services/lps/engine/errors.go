// Copyright (C) 2025 Palarena Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package engine finds the longest palindromic substring (LPS) of a text
// with three competing algorithms and measures how they compare.
//
// The package is organized leaf-first:
//   - Normalize reduces raw text to a canonical lower-cased alphanumeric
//     string plus an index map back into the raw text.
//   - NaiveLPS, CenterExpansionLPS and OptimizedManacherLPS each compute the
//     LPS over the canonical string and report it in raw-text coordinates.
//   - Harness runs an algorithm repeatedly (warmup, size-tiered iteration
//     counts, outlier trimming, wall-clock budget) and yields timing and
//     memory statistics.
//   - Comparer ties the above together into a single comparison run.
//
// # Ownership Model
//
// All state is request-scoped. Normalize output, spans and sample sets are
// allocated per invocation and never shared, so concurrent comparisons do
// not contend on engine data structures.
//
// # Thread Safety
//
// Algorithms hold no mutable state between calls. The Harness owns a seeded
// random source that is only touched from the goroutine driving a
// comparison, so construct one Comparer per concurrent caller or serialize
// calls externally (the HTTP layer does the latter so measurements stay
// uncontended).
package engine

import "errors"

// Sentinel errors for the comparison engine.
var (
	// ErrInvalidInput is returned when a caller hands the engine input it
	// cannot work with, such as a missing text payload at the HTTP boundary.
	// Empty text is NOT an error: it yields an empty result set.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInternalConsistency is returned when an algorithm's computed span
	// fails palindrome validation. The algorithm fails loudly instead of
	// falling back to a plausible-looking single character, because a silent
	// fallback would mask real defects.
	ErrInternalConsistency = errors.New("computed span is not a palindrome")

	// ErrMeasurementTimeout marks a measurement loop that exceeded its
	// wall-clock budget. The harness recovers by returning the partial
	// result flagged TimedOut rather than surfacing this directly.
	ErrMeasurementTimeout = errors.New("measurement exceeded wall-clock budget")

	// ErrUnknownVariant is returned when an algorithm is constructed with a
	// variant it does not implement.
	ErrUnknownVariant = errors.New("unknown algorithm variant")
)
