// Copyright (C) 2025 Palarena Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// =============================================================================
// CORS Tests
// =============================================================================

func TestCORS_WildcardAllowsAnyOrigin(t *testing.T) {
	router := gin.New()
	router.Use(CORS([]string{"*"}))
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://anywhere.example")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_ListedOriginEchoed(t *testing.T) {
	router := gin.New()
	router.Use(CORS([]string{"http://localhost:3000"}))
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_UnlistedOriginGetsNoHeader(t *testing.T) {
	router := gin.New()
	router.Use(CORS([]string{"http://localhost:3000"}))
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://evil.example")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_PreflightAnsweredDirectly(t *testing.T) {
	router := gin.New()
	router.Use(CORS([]string{"*"}))
	router.POST("/v1/compare", func(c *gin.Context) { c.String(http.StatusOK, "never") })

	req := httptest.NewRequest(http.MethodOptions, "/v1/compare", nil)
	req.Header.Set("Origin", "http://anywhere.example")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

// =============================================================================
// BodySizeLimit Tests
// =============================================================================

func TestBodySizeLimit_RejectsOversizedContentLength(t *testing.T) {
	router := gin.New()
	router.Use(BodySizeLimit(10))
	router.POST("/echo", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(strings.Repeat("x", 100)))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestBodySizeLimit_WrapsReaderForUnknownLength(t *testing.T) {
	router := gin.New()
	router.Use(BodySizeLimit(10))
	router.POST("/echo", func(c *gin.Context) {
		_, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.String(http.StatusRequestEntityTooLarge, "too big")
			return
		}
		c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(strings.Repeat("x", 100)))
	req.ContentLength = -1 // chunked-style, size unknown up front
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestBodySizeLimit_AllowsSmallBody(t *testing.T) {
	router := gin.New()
	router.Use(BodySizeLimit(1024))
	router.POST("/echo", func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		require.NoError(t, err)
		c.String(http.StatusOK, string(body))
	})

	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("hello"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hello", w.Body.String())
}

// =============================================================================
// ComparisonGuard Tests
// =============================================================================

func TestComparisonGuard_SerializesRequests(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})

	router := gin.New()
	router.Use(ComparisonGuard(1))
	router.GET("/slow", func(c *gin.Context) {
		entered <- struct{}{}
		<-release
		c.String(http.StatusOK, "done")
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/slow", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}()

	// Wait until the first request holds the guard, then race a second one.
	select {
	case <-entered:
	case <-time.After(time.Second):
		t.Fatal("first request never entered the handler")
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/slow", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	close(release)
	wg.Wait()
}

func TestComparisonGuard_ReleasesAfterCompletion(t *testing.T) {
	router := gin.New()
	router.Use(ComparisonGuard(1))
	router.GET("/fast", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fast", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestComparisonGuard_NonPositiveLimitDefaultsToOne(t *testing.T) {
	assert.NotPanics(t, func() {
		router := gin.New()
		router.Use(ComparisonGuard(0))
		w := httptest.NewRecorder()
		router.GET("/fast", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fast", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
