// Copyright (C) 2025 Palarena Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palarena/palarena/services/lps/engine"
	"github.com/palarena/palarena/services/lps/observability"
)

// =============================================================================
// Test Setup
// =============================================================================

func init() {
	gin.SetMode(gin.TestMode)
}

func testComparer() *engine.Comparer {
	return engine.NewComparer(&engine.ComparerOptions{
		Harness: &engine.HarnessOptions{
			WarmupRuns:  1,
			Budget:      10 * time.Second,
			DisableGC:   true,
			SettleDelay: 0,
			Tiers:       []engine.IterationTier{{MaxCanonicalLen: 1 << 30, Iterations: 2}},
		},
	})
}

func testMetrics() *observability.Metrics {
	return observability.NewMetrics(prometheus.NewRegistry())
}

func compareRouter(metrics *observability.Metrics) *gin.Engine {
	router := gin.New()
	router.POST("/v1/compare", HandleCompare(testComparer(), metrics))
	router.POST("/v1/compare/upload", HandleCompareUpload(testComparer(), metrics, 1<<20))
	router.GET("/health", HealthCheck)
	return router
}

func decodeComparison(t *testing.T, body *bytes.Buffer) engine.Comparison {
	t.Helper()
	var comparison engine.Comparison
	require.NoError(t, json.Unmarshal(body.Bytes(), &comparison))
	return comparison
}

// =============================================================================
// HandleCompare Tests
// =============================================================================

func TestHandleCompare_Success(t *testing.T) {
	metrics := testMetrics()
	router := compareRouter(metrics)

	body := bytes.NewBufferString(`{"text": "babad"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/compare", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	comparison := decodeComparison(t, w.Body)

	assert.NotEmpty(t, comparison.ID)
	require.Len(t, comparison.Results, 3)
	assert.Equal(t, engine.AlgorithmManacher, comparison.ExecutionOrder[0])
	for name, result := range comparison.Results {
		assert.Equal(t, 3, result.CanonicalLength, "algorithm %s", name)
	}
	assert.Equal(t, 1.0, testutil.ToFloat64(
		metrics.ComparisonsTotal.WithLabelValues("text", "success")))
}

func TestHandleCompare_MissingTextIsRejected(t *testing.T) {
	router := compareRouter(testMetrics())

	for _, body := range []string{`{}`, `{"text": ""}`, `not json`} {
		req := httptest.NewRequest(http.MethodPost, "/v1/compare", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, "body %q", body)
	}
}

func TestHandleCompare_PunctuationOnlyTextSucceedsEmpty(t *testing.T) {
	// Text with no alphanumeric runes is valid input: the result set is
	// empty, not an error.
	router := compareRouter(testMetrics())

	req := httptest.NewRequest(http.MethodPost, "/v1/compare",
		strings.NewReader(`{"text": "?!, --"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	comparison := decodeComparison(t, w.Body)
	assert.Zero(t, comparison.CanonicalLength)
	for name, result := range comparison.Results {
		assert.Empty(t, result.Substring, "algorithm %s", name)
		assert.Empty(t, result.Error, "algorithm %s", name)
	}
}

// =============================================================================
// HandleCompareUpload Tests
// =============================================================================

func multipartBody(t *testing.T, field, filename string, contents []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(contents)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func TestHandleCompareUpload_Success(t *testing.T) {
	metrics := testMetrics()
	router := compareRouter(metrics)

	body, contentType := multipartBody(t, "file", "input.txt",
		[]byte("A man a plan a canal Panama"))
	req := httptest.NewRequest(http.MethodPost, "/v1/compare/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	comparison := decodeComparison(t, w.Body)
	assert.Equal(t, 21, comparison.CanonicalLength)
	assert.Equal(t, 1.0, testutil.ToFloat64(
		metrics.ComparisonsTotal.WithLabelValues("upload", "success")))
}

func TestHandleCompareUpload_MissingFile(t *testing.T) {
	router := compareRouter(testMetrics())

	body, contentType := multipartBody(t, "wrong_field", "input.txt", []byte("abc"))
	req := httptest.NewRequest(http.MethodPost, "/v1/compare/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleCompareUpload_EmptyFile(t *testing.T) {
	router := compareRouter(testMetrics())

	body, contentType := multipartBody(t, "file", "empty.txt", nil)
	req := httptest.NewRequest(http.MethodPost, "/v1/compare/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleCompareUpload_NonUTF8Rejected(t *testing.T) {
	router := compareRouter(testMetrics())

	body, contentType := multipartBody(t, "file", "blob.bin", []byte{0xff, 0xfe, 0x00, 0x80})
	req := httptest.NewRequest(http.MethodPost, "/v1/compare/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleCompareUpload_OversizedRejected(t *testing.T) {
	metrics := testMetrics()
	router := gin.New()
	router.POST("/v1/compare/upload", HandleCompareUpload(testComparer(), metrics, 8))

	body, contentType := multipartBody(t, "file", "big.txt",
		[]byte(strings.Repeat("a", 64)))
	req := httptest.NewRequest(http.MethodPost, "/v1/compare/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

// =============================================================================
// HealthCheck Tests
// =============================================================================

func TestHealthCheck(t *testing.T) {
	router := compareRouter(testMetrics())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var payload map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Equal(t, "ok", payload["status"])
	assert.Equal(t, "palarena", payload["service"])
}
