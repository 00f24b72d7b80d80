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
	"unicode/utf8"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// =============================================================================
// Comparison Orchestration
// =============================================================================

var compareTracer = otel.Tracer("palarena.engine.compare")

// ComparerOptions configures a Comparer.
type ComparerOptions struct {
	// Harness tunes the measurement procedure. Nil uses defaults.
	Harness *HarnessOptions

	// CenterVariant selects the strategy for the "DP"-labeled algorithm.
	// Default: the historical expansion behavior.
	CenterVariant CenterVariant

	// ManacherVariant selects the strategy for the Manacher-style
	// algorithm. Default: the historical two-pass behavior.
	ManacherVariant ManacherVariant

	// Logger receives per-comparison diagnostics. Default: slog.Default.
	Logger *slog.Logger
}

// Comparer runs the three LPS algorithms against one text and reports each
// algorithm's result alongside its measurement statistics.
//
// The algorithms run strictly sequentially in the order chosen by the
// harness (Manacher-variant first, the rest shuffled), so one algorithm's
// execution never contends with another's measurement.
type Comparer struct {
	harness    *Harness
	algorithms []Algorithm
	log        *slog.Logger
}

// NewComparer constructs a comparer with its three algorithms. A nil opts
// uses defaults everywhere.
func NewComparer(opts *ComparerOptions) *Comparer {
	o := ComparerOptions{}
	if opts != nil {
		o = *opts
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Harness == nil {
		o.Harness = DefaultHarnessOptions()
	}
	if o.Harness.Logger == nil {
		o.Harness.Logger = o.Logger
	}

	return &Comparer{
		harness: NewHarness(o.Harness),
		algorithms: []Algorithm{
			NewNaiveLPS(),
			NewCenterExpansionLPS(&CenterExpansionOptions{Variant: o.CenterVariant}),
			NewOptimizedManacherLPS(&ManacherOptions{Variant: o.ManacherVariant}),
		},
		log: o.Logger,
	}
}

// RunComparison measures all three algorithms against raw and returns the
// per-algorithm results plus the order they ran in.
//
// # Description
//
//	The text is normalized once; every algorithm consumes the same
//	canonical string and index map. Each algorithm's outcome is
//	independent: a timeout or internal-consistency failure in one is
//	flagged on that algorithm's result and never suppresses the other
//	two. Text with no alphanumeric runes (including the empty string)
//	succeeds with empty substrings and zeroed statistics.
//
// # Inputs
//
//   - ctx: Context checked between measurement iterations. Must not be nil.
//   - raw: The text to analyze. May be any size; large inputs degrade the
//     iteration count, they are never rejected.
//
// # Outputs
//
//   - Comparison: Per-algorithm results keyed by name, plus the execution
//     order and input dimensions.
func (c *Comparer) RunComparison(ctx context.Context, raw string) Comparison {
	ctx, span := compareTracer.Start(ctx, "Comparer.RunComparison",
		trace.WithAttributes(attribute.Int("raw_bytes", len(raw))))
	defer span.End()

	canonical, indexMap := Normalize(raw)
	comparison := Comparison{
		ID:              uuid.NewString(),
		Results:         make(map[AlgorithmName]AlgorithmResult, len(c.algorithms)),
		RawLength:       utf8.RuneCountInString(raw),
		CanonicalLength: utf8.RuneCountInString(canonical),
	}

	order := c.harness.ExecutionOrder(c.algorithms)
	for _, alg := range order {
		comparison.ExecutionOrder = append(comparison.ExecutionOrder, alg.Name())
		comparison.Results[alg.Name()] = c.harness.Measure(ctx, alg, canonical, indexMap, raw)
	}

	c.log.Info("comparison complete",
		"comparison_id", comparison.ID,
		"raw_length", comparison.RawLength,
		"canonical_length", comparison.CanonicalLength,
		"execution_order", comparison.ExecutionOrder,
	)
	span.SetAttributes(attribute.String("comparison_id", comparison.ID))
	return comparison
}

// Algorithms exposes the configured algorithm set, primarily for tests and
// the CLI's verbose output.
func (c *Comparer) Algorithms() []Algorithm {
	out := make([]Algorithm, len(c.algorithms))
	copy(out, c.algorithms)
	return out
}
