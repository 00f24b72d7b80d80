// Copyright (C) 2025 Palarena Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package observability provides Prometheus metrics for the comparison
// service.
//
// Metrics are exposed via the /metrics endpoint and cover the request
// boundary (comparison counts by source and status, input sizes, active
// runs) plus per-algorithm measurement outcomes (duration, memory delta,
// timeouts). All operations are thread-safe via Prometheus's internal
// locking.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// Metric Definitions
// =============================================================================

// Namespace for all metrics.
const metricsNamespace = "palarena"

// Subsystem for comparison metrics.
const comparisonSubsystem = "comparison"

// Metrics holds all Prometheus metrics for comparison runs.
//
// Initialize once at startup via NewMetrics(); pass a private registry in
// tests to avoid duplicate-registration panics.
type Metrics struct {
	// ComparisonsTotal counts comparison requests.
	// Labels: source (text, upload, cli), status (success, error)
	ComparisonsTotal *prometheus.CounterVec

	// AlgorithmDurationSeconds observes each algorithm's trimmed-mean
	// execution time. Labels: algorithm
	AlgorithmDurationSeconds *prometheus.HistogramVec

	// AlgorithmTimeoutsTotal counts budget-stopped measurements.
	// Labels: algorithm
	AlgorithmTimeoutsTotal *prometheus.CounterVec

	// AlgorithmErrorsTotal counts algorithm failures (validation guard
	// trips and the like). Labels: algorithm
	AlgorithmErrorsTotal *prometheus.CounterVec

	// InputCanonicalRunes observes canonical input sizes.
	InputCanonicalRunes prometheus.Histogram

	// ActiveComparisons gauges currently running comparisons.
	ActiveComparisons prometheus.Gauge
}

// NewMetrics creates and registers all comparison metrics.
//
// A nil registerer uses the default Prometheus registry, which is what the
// server wants; tests pass prometheus.NewRegistry() for isolation.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		ComparisonsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: comparisonSubsystem,
			Name:      "requests_total",
			Help:      "Comparison requests by source and status.",
		}, []string{"source", "status"}),

		AlgorithmDurationSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: comparisonSubsystem,
			Name:      "algorithm_duration_seconds",
			Help:      "Trimmed-mean execution time per algorithm.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 12),
		}, []string{"algorithm"}),

		AlgorithmTimeoutsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: comparisonSubsystem,
			Name:      "algorithm_timeouts_total",
			Help:      "Measurements stopped by the wall-clock budget.",
		}, []string{"algorithm"}),

		AlgorithmErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: comparisonSubsystem,
			Name:      "algorithm_errors_total",
			Help:      "Algorithm failures surfaced during measurement.",
		}, []string{"algorithm"}),

		InputCanonicalRunes: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: comparisonSubsystem,
			Name:      "input_canonical_runes",
			Help:      "Canonical input size distribution.",
			Buckets:   prometheus.ExponentialBuckets(10, 4, 10),
		}),

		ActiveComparisons: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: comparisonSubsystem,
			Name:      "active_runs",
			Help:      "Comparisons currently being measured.",
		}),
	}
}

// RecordResult updates the per-algorithm metrics for one measurement.
func (m *Metrics) RecordResult(algorithm string, durationMs float64, timedOut, failed bool) {
	m.AlgorithmDurationSeconds.WithLabelValues(algorithm).Observe(durationMs / 1000.0)
	if timedOut {
		m.AlgorithmTimeoutsTotal.WithLabelValues(algorithm).Inc()
	}
	if failed {
		m.AlgorithmErrorsTotal.WithLabelValues(algorithm).Inc()
	}
}
