// Copyright (C) 2025 Palarena Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"log/slog"
	"net/http"
	"os"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/codes"

	"github.com/palarena/palarena/services/lps/engine"
	"github.com/palarena/palarena/services/lps/observability"
)

// HandleCompareUpload runs a comparison for an uploaded text file.
//
// The multipart part is spooled to a temporary file that lives only for
// the duration of the request; the comparison itself sees nothing but the
// file's contents as a string. Non-UTF-8 payloads are rejected rather than
// silently mangled.
func HandleCompareUpload(comparer *engine.Comparer, metrics *observability.Metrics,
	maxBytes int64) gin.HandlerFunc {

	return func(c *gin.Context) {
		ctx, span := handlerTracer.Start(c.Request.Context(), "HandleCompareUpload")
		defer span.End()

		fileHeader, err := c.FormFile("file")
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			metrics.ComparisonsTotal.WithLabelValues("upload", "error").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"error": "a file field is required"})
			return
		}
		if fileHeader.Size > maxBytes {
			metrics.ComparisonsTotal.WithLabelValues("upload", "error").Inc()
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "uploaded file too large"})
			return
		}

		tmp, err := os.CreateTemp("", "palarena-upload-*.txt")
		if err != nil {
			span.RecordError(err)
			slog.Error("failed to create the upload spool file", "error", err)
			metrics.ComparisonsTotal.WithLabelValues("upload", "error").Inc()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not accept upload"})
			return
		}
		tmpPath := tmp.Name()
		_ = tmp.Close()
		defer func() {
			if err := os.Remove(tmpPath); err != nil {
				slog.Warn("failed to remove the upload spool file",
					"path", tmpPath, "error", err)
			}
		}()

		if err := c.SaveUploadedFile(fileHeader, tmpPath); err != nil {
			span.RecordError(err)
			slog.Error("failed to spool the uploaded file", "error", err)
			metrics.ComparisonsTotal.WithLabelValues("upload", "error").Inc()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read upload"})
			return
		}

		data, err := os.ReadFile(tmpPath)
		if err != nil {
			span.RecordError(err)
			slog.Error("failed to read the spooled upload", "error", err)
			metrics.ComparisonsTotal.WithLabelValues("upload", "error").Inc()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read upload"})
			return
		}
		if !utf8.Valid(data) {
			metrics.ComparisonsTotal.WithLabelValues("upload", "error").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"error": "uploaded file is not valid UTF-8 text"})
			return
		}
		if len(data) == 0 {
			metrics.ComparisonsTotal.WithLabelValues("upload", "error").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"error": "uploaded file is empty"})
			return
		}

		runComparison(ctx, c, comparer, metrics, string(data), "upload")
	}
}
