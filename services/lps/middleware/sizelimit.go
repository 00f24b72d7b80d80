// Copyright (C) 2025 Palarena Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// =============================================================================
// Request Size Limit
// =============================================================================

// BodySizeLimit returns middleware that caps the request body at maxBytes.
//
// Oversized requests are rejected up front when Content-Length says so;
// otherwise the body reader is wrapped so handlers reading past the cap
// get an error instead of buffering an unbounded payload. Large texts are
// fine and the engine degrades its iteration count for them; this cap only
// guards the transport against abuse.
func BodySizeLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
				"error": "request body too large",
			})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
