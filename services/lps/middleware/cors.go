// Copyright (C) 2025 Palarena Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package middleware provides HTTP middleware for the comparison service.
//
// The middleware here guards the request boundary: CORS headers for the
// browser UI, a request-body size cap so oversized uploads fail fast, and
// a concurrency gate that keeps parallel comparisons from polluting each
// other's timing measurements.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// =============================================================================
// CORS
// =============================================================================

// CORS returns middleware that answers cross-origin requests for the
// browser UI.
//
// allowedOrigins lists acceptable Origin values; "*" allows any. Requests
// from unlisted origins pass through without CORS headers, which the
// browser then rejects on its side. Preflight OPTIONS requests are
// answered directly with 204.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	allowAny := false
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		if origin == "*" {
			allowAny = true
		}
		allowed[origin] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			_, ok := allowed[origin]
			if allowAny {
				c.Header("Access-Control-Allow-Origin", "*")
			} else if ok {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
			}
			c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
