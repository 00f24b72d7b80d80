// Copyright (C) 2025 Palarena Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engine

import (
	"context"
	"log/slog"
	"math/rand"
	"runtime"
	"sort"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// =============================================================================
// Performance Harness
// =============================================================================

var harnessTracer = otel.Tracer("palarena.engine.harness")

// Harness measurement constants.
const (
	// DefaultWarmupRuns is the number of untimed invocations before
	// sampling starts.
	DefaultWarmupRuns = 2

	// DefaultBudget bounds one algorithm's total measured run. On
	// exceeding it the harness stops scheduling further iterations and
	// flags the result; it never interrupts a running iteration.
	DefaultBudget = 120 * time.Second

	// DefaultTrimFraction is the share of samples discarded from each end
	// of the sorted series before averaging, to suppress scheduler and GC
	// jitter.
	DefaultTrimFraction = 0.20

	// DefaultMinSamplesForTrim is the minimum sample count before any
	// trimming happens. Below it, every sample counts.
	DefaultMinSamplesForTrim = 5

	// DefaultSettleDelay is the pause between samples that lets background
	// collection finish before the next timing window opens.
	DefaultSettleDelay = 10 * time.Millisecond
)

// IterationTier maps an input-size ceiling to a timed iteration count.
// Smaller inputs get more iterations for a statistically stable estimate;
// larger inputs get fewer so total wall time stays bounded.
type IterationTier struct {
	// MaxCanonicalLen is the tier's exclusive upper bound on canonical
	// rune count.
	MaxCanonicalLen int `yaml:"max_canonical_len"`

	// Iterations is the timed iteration count for inputs under the bound.
	Iterations int `yaml:"iterations"`
}

// DefaultIterationTiers returns the standard size tiers. Inputs at or above
// the last bound run a single timed iteration.
func DefaultIterationTiers() []IterationTier {
	return []IterationTier{
		{MaxCanonicalLen: 1_000, Iterations: 7},
		{MaxCanonicalLen: 5_000, Iterations: 5},
		{MaxCanonicalLen: 20_000, Iterations: 3},
	}
}

// HarnessOptions configures the measurement harness.
type HarnessOptions struct {
	// WarmupRuns is the number of untimed invocations before sampling.
	// Must be >= 0. Default: 2.
	WarmupRuns int

	// Budget is the wall-clock limit for one algorithm's measured run.
	// Must be > 0. Default: 120s.
	Budget time.Duration

	// TrimFraction is the share trimmed from each end of the sorted
	// sample series. Must be in (0, 0.5). Default: 0.20.
	TrimFraction float64

	// MinSamplesForTrim is the sample count below which nothing is
	// trimmed. Must be > 0. Default: 5.
	MinSamplesForTrim int

	// SettleDelay is the inter-sample pause. Must be >= 0. Default: 10ms.
	SettleDelay time.Duration

	// DisableGC skips the forced collection between samples. The zero
	// value keeps the forced collection on, which is what measurement
	// wants; tests disable it to run fast.
	DisableGC bool

	// Tiers maps canonical input size to iteration count. Entries must be
	// sorted by ascending MaxCanonicalLen. Default: DefaultIterationTiers.
	Tiers []IterationTier

	// Rand drives the execution-order shuffle. Seed it in tests for a
	// deterministic order. Default: time-seeded.
	Rand *rand.Rand

	// Logger receives per-measurement diagnostics. Verbosity is scoped to
	// this harness instead of any process-wide flag. Default: slog.Default.
	Logger *slog.Logger
}

// Validate checks options and applies defaults for invalid values.
func (o *HarnessOptions) Validate() {
	if o.WarmupRuns < 0 {
		o.WarmupRuns = DefaultWarmupRuns
	}
	if o.Budget <= 0 {
		o.Budget = DefaultBudget
	}
	if o.TrimFraction <= 0 || o.TrimFraction >= 0.5 {
		o.TrimFraction = DefaultTrimFraction
	}
	if o.MinSamplesForTrim <= 0 {
		o.MinSamplesForTrim = DefaultMinSamplesForTrim
	}
	if o.SettleDelay < 0 {
		o.SettleDelay = DefaultSettleDelay
	}
	if len(o.Tiers) == 0 {
		o.Tiers = DefaultIterationTiers()
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// DefaultHarnessOptions returns sensible defaults.
func DefaultHarnessOptions() *HarnessOptions {
	o := &HarnessOptions{
		WarmupRuns:        DefaultWarmupRuns,
		Budget:            DefaultBudget,
		TrimFraction:      DefaultTrimFraction,
		MinSamplesForTrim: DefaultMinSamplesForTrim,
		SettleDelay:       DefaultSettleDelay,
	}
	o.Validate()
	return o
}

// Harness measures one algorithm at a time: warmup, size-tiered timed
// iterations, forced collection with a settling pause between samples, and
// trimmed-mean aggregation of the collected series.
//
// Algorithms are always run sequentially, never concurrently, so resource
// contention cannot pollute the timing and memory numbers. The only
// cancellation is the wall-clock budget (plus the caller's context), and it
// stops scheduling further iterations rather than interrupting a running
// one.
type Harness struct {
	opts HarnessOptions
}

// NewHarness creates a harness. A nil opts uses defaults.
func NewHarness(opts *HarnessOptions) *Harness {
	o := HarnessOptions{}
	if opts != nil {
		o = *opts
	}
	o.Validate()
	return &Harness{opts: o}
}

// Measure runs one algorithm under the measurement procedure and returns
// its result.
//
// # Description
//
//	Runs WarmupRuns untimed invocations, then up to the tiered iteration
//	count of timed ones. Before every timed sample the harness reclaims
//	memory (unless disabled) and settles, then records wall-clock time and
//	the signed heap-allocation delta. The series are sorted independently,
//	trimmed when large enough, and averaged.
//
//	Anomalies are local-recoverable by design: a budget overrun yields a
//	partial result flagged TimedOut, an algorithm failure yields a result
//	carrying Error, and a non-positive aggregated memory delta is flagged
//	MeasurementUnreliable with the raw value reported as-is. Measure never
//	panics or aborts the surrounding comparison.
//
// # Inputs
//
//   - ctx: Context checked between iterations. Must not be nil.
//   - alg: The algorithm under measurement. Must not be nil.
//   - canonical, indexMap, raw: Normalize output plus the original text.
//
// # Outputs
//
//   - AlgorithmResult: Substring, aggregated stats, and anomaly flags.
func (h *Harness) Measure(ctx context.Context, alg Algorithm, canonical string, indexMap []int, raw string) AlgorithmResult {
	ctx, span := harnessTracer.Start(ctx, "Harness.Measure",
		trace.WithAttributes(attribute.String("algorithm", string(alg.Name()))))
	defer span.End()

	start := time.Now()
	deadline := start.Add(h.opts.Budget)
	iterations := h.iterationsFor(utf8.RuneCountInString(canonical))
	result := AlgorithmResult{}

	// Untimed warmup. A failure here is the same defect it would be in a
	// timed run, so it short-circuits identically.
	for w := 0; w < h.opts.WarmupRuns; w++ {
		if h.expired(ctx, deadline) {
			result.TimedOut = true
			break
		}
		sub, err := alg.Find(canonical, indexMap, raw)
		if err != nil {
			return h.failed(span, alg, result, err)
		}
		result.Substring = sub
	}

	set := &sampleSet{samples: make([]sample, 0, iterations)}
	var before, after runtime.MemStats
	for i := 0; i < iterations; i++ {
		if h.expired(ctx, deadline) {
			result.TimedOut = true
			break
		}
		h.reclaim()

		runtime.ReadMemStats(&before)
		t0 := time.Now()
		sub, err := alg.Find(canonical, indexMap, raw)
		elapsed := time.Since(t0)
		runtime.ReadMemStats(&after)

		if err != nil {
			return h.failed(span, alg, result, err)
		}
		result.Substring = sub
		set.add(
			float64(elapsed.Nanoseconds())/1e6,
			(float64(after.HeapAlloc)-float64(before.HeapAlloc))/1024.0,
		)
	}

	result.Iterations = set.len()
	if set.len() > 0 {
		result.ExecutionTimeMs = h.trimmedMean(set.times())
		result.MemoryDeltaKB = h.trimmedMean(set.memoryDeltas())
		if result.MemoryDeltaKB <= 0 {
			result.MeasurementUnreliable = true
		}
	}
	subCanonical, _ := Normalize(result.Substring)
	result.CanonicalLength = utf8.RuneCountInString(subCanonical)

	h.opts.Logger.Debug("measurement complete",
		"algorithm", alg.Name(),
		"iterations", result.Iterations,
		"time_ms", result.ExecutionTimeMs,
		"memory_delta_kb", result.MemoryDeltaKB,
		"timed_out", result.TimedOut,
		"total_ms", time.Since(start).Milliseconds(),
	)
	span.SetAttributes(
		attribute.Int("iterations", result.Iterations),
		attribute.Bool("timed_out", result.TimedOut),
	)
	if result.TimedOut {
		span.RecordError(ErrMeasurementTimeout)
	}
	return result
}

// ExecutionOrder returns the measurement order for a comparison run.
//
// The Manacher-style variant is always scheduled first so its numbers are
// never cache-warmed by a sibling; the remaining algorithms are shuffled
// with the harness's seedable random source to avoid systematic bias from a
// fixed ordering. The input slice is not modified.
func (h *Harness) ExecutionOrder(algorithms []Algorithm) []Algorithm {
	order := make([]Algorithm, 0, len(algorithms))
	var rest []Algorithm
	for _, alg := range algorithms {
		if alg.Name() == AlgorithmManacher && len(order) == 0 {
			order = append(order, alg)
			continue
		}
		rest = append(rest, alg)
	}
	h.opts.Rand.Shuffle(len(rest), func(i, j int) {
		rest[i], rest[j] = rest[j], rest[i]
	})
	return append(order, rest...)
}

// iterationsFor selects the timed iteration count for an input size.
func (h *Harness) iterationsFor(canonicalLen int) int {
	for _, tier := range h.opts.Tiers {
		if canonicalLen < tier.MaxCanonicalLen {
			return tier.Iterations
		}
	}
	return 1
}

// reclaim requests a collection and settles so background reclamation can
// finish before the next timing window opens. This is a deliberate pause
// primitive, not a spin loop: it suspends the goroutine instead of burning
// the CPU the next sample is about to be timed on.
func (h *Harness) reclaim() {
	if !h.opts.DisableGC {
		runtime.GC()
	}
	if h.opts.SettleDelay > 0 {
		time.Sleep(h.opts.SettleDelay)
	}
}

// expired reports whether the caller's context or the budget ended the run.
func (h *Harness) expired(ctx context.Context, deadline time.Time) bool {
	return ctx.Err() != nil || time.Now().After(deadline)
}

// failed finalizes a result for an algorithm error without aborting the
// surrounding comparison.
func (h *Harness) failed(span trace.Span, alg Algorithm, result AlgorithmResult, err error) AlgorithmResult {
	span.RecordError(err)
	h.opts.Logger.Error("algorithm failed during measurement",
		"algorithm", alg.Name(),
		"error", err.Error(),
	)
	result.Substring = ""
	result.CanonicalLength = 0
	result.Error = err.Error()
	return result
}

// trimmedMean sorts a copy of the series, discards TrimFraction from each
// end when at least MinSamplesForTrim samples were collected, and averages
// the remainder.
func (h *Harness) trimmedMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if len(sorted) >= h.opts.MinSamplesForTrim {
		k := int(float64(len(sorted)) * h.opts.TrimFraction)
		if 2*k < len(sorted) {
			sorted = sorted[k : len(sorted)-k]
		}
	}

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	return sum / float64(len(sorted))
}
