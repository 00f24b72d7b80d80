// Copyright (C) 2025 Palarena Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package handlers contains the HTTP handlers of the comparison service.
//
// Handlers are thin: they marshal the request boundary, hand the text to
// the engine, and record request metrics. All algorithmic and measurement
// behavior lives in services/lps/engine.
package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/palarena/palarena/services/lps/engine"
	"github.com/palarena/palarena/services/lps/observability"
)

var handlerTracer = otel.Tracer("palarena.handlers")

// CompareRequest is the JSON body of POST /v1/compare.
type CompareRequest struct {
	// Text is the raw input to analyze. Required and non-empty; large
	// texts are never rejected here, the engine degrades its iteration
	// count instead.
	Text string `json:"text" binding:"required"`
}

// HandleCompare runs a comparison for a directly submitted text.
func HandleCompare(comparer *engine.Comparer, metrics *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := handlerTracer.Start(c.Request.Context(), "HandleCompare")
		defer span.End()

		var req CompareRequest
		if err := c.BindJSON(&req); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			slog.Error("failed to parse the compare request", "error", err)
			metrics.ComparisonsTotal.WithLabelValues("text", "error").Inc()
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "invalid request body: a non-empty text field is required",
			})
			return
		}

		runComparison(ctx, c, comparer, metrics, req.Text, "text")
	}
}

// runComparison is the shared tail of the text and upload handlers.
func runComparison(ctx context.Context, c *gin.Context, comparer *engine.Comparer,
	metrics *observability.Metrics, text, source string) {

	metrics.ActiveComparisons.Inc()
	defer metrics.ActiveComparisons.Dec()

	comparison := comparer.RunComparison(ctx, text)

	metrics.InputCanonicalRunes.Observe(float64(comparison.CanonicalLength))
	for name, result := range comparison.Results {
		metrics.RecordResult(string(name), result.ExecutionTimeMs,
			result.TimedOut, result.Error != "")
	}
	metrics.ComparisonsTotal.WithLabelValues(source, "success").Inc()

	c.JSON(http.StatusOK, comparison)
}
