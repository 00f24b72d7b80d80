// Copyright (C) 2025 Palarena Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engine

// =============================================================================
// Result Types
// =============================================================================

// AlgorithmName identifies one of the three LPS implementations.
type AlgorithmName string

const (
	// AlgorithmNaive is the reference expand-around-center implementation.
	AlgorithmNaive AlgorithmName = "naive"

	// AlgorithmCenterExpansion is the historically "DP"-labeled variant.
	// See CenterExpansionLPS for the naming story.
	AlgorithmCenterExpansion AlgorithmName = "center_expansion_dp"

	// AlgorithmManacher is the memory-optimized Manacher-style variant.
	AlgorithmManacher AlgorithmName = "optimized_manacher"
)

// AlgorithmResult is one algorithm's outcome for a single comparison.
//
// It is produced once per algorithm per request and immutable after
// creation. Timing and memory numbers come from the harness's trimmed-mean
// aggregation; both are best-effort instrumentation, never exact
// measurement, and the flags exist precisely to surface that noise rather
// than launder it.
type AlgorithmResult struct {
	// Substring is the LPS in raw-text coordinates, with original casing
	// and punctuation preserved inside the matched region.
	Substring string `json:"substring"`

	// CanonicalLength is the palindrome's length in canonical runes.
	// All three algorithms must agree on this value for the same input.
	CanonicalLength int `json:"canonical_length"`

	// ExecutionTimeMs is the trimmed-mean wall-clock time per iteration.
	ExecutionTimeMs float64 `json:"execution_time_ms"`

	// MemoryDeltaKB is the trimmed-mean heap-allocation delta per
	// iteration. Signed: allocator counters can legitimately go backwards
	// when collection runs mid-iteration.
	MemoryDeltaKB float64 `json:"memory_delta_kb"`

	// Iterations is the number of timed samples actually collected.
	Iterations int `json:"iterations"`

	// TimedOut is set when the wall-clock budget stopped the measurement
	// loop early. The result still carries whatever was produced.
	TimedOut bool `json:"timed_out"`

	// MeasurementUnreliable is set when the aggregated memory delta came
	// out non-positive. The raw value is reported as-is instead of being
	// clamped or hidden.
	MeasurementUnreliable bool `json:"measurement_unreliable"`

	// Error carries an algorithm failure (e.g. a validation guard trip).
	// One algorithm's failure never suppresses its siblings' results.
	Error string `json:"error,omitempty"`
}

// sample is one timed iteration's measurements.
type sample struct {
	timeMs        float64
	memoryDeltaKB float64
}

// sampleSet collects per-iteration samples for one algorithm and is
// discarded after aggregation.
type sampleSet struct {
	samples []sample
}

func (s *sampleSet) add(timeMs, memoryDeltaKB float64) {
	s.samples = append(s.samples, sample{timeMs: timeMs, memoryDeltaKB: memoryDeltaKB})
}

func (s *sampleSet) len() int {
	return len(s.samples)
}

// times returns the time series in collection order.
func (s *sampleSet) times() []float64 {
	out := make([]float64, len(s.samples))
	for i, smp := range s.samples {
		out[i] = smp.timeMs
	}
	return out
}

// memoryDeltas returns the memory series in collection order.
func (s *sampleSet) memoryDeltas() []float64 {
	out := make([]float64, len(s.samples))
	for i, smp := range s.samples {
		out[i] = smp.memoryDeltaKB
	}
	return out
}

// Comparison is the aggregate outcome of one RunComparison call.
type Comparison struct {
	// ID uniquely identifies the comparison run (for logs and clients).
	ID string `json:"id"`

	// Results holds one entry per algorithm, keyed by name.
	Results map[AlgorithmName]AlgorithmResult `json:"results"`

	// ExecutionOrder records the order algorithms were measured in. The
	// Manacher-style variant is always first; the other two are shuffled
	// per request (see Harness.ExecutionOrder).
	ExecutionOrder []AlgorithmName `json:"execution_order"`

	// RawLength and CanonicalLength describe the input.
	RawLength       int `json:"raw_length"`
	CanonicalLength int `json:"canonical_length"`
}
