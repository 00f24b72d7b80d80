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
	"golang.org/x/sync/semaphore"
)

// =============================================================================
// Comparison Concurrency Guard
// =============================================================================

// ComparisonGuard returns middleware that bounds how many comparisons run
// at once.
//
// Measurement quality depends on the measured algorithm having the machine
// to itself; two comparisons racing for cores would inflate each other's
// timing samples. Requests beyond the limit are turned away immediately
// with 429 rather than queued, since a queued comparison would only tell
// the client stale numbers later.
func ComparisonGuard(maxConcurrent int64) gin.HandlerFunc {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	sem := semaphore.NewWeighted(maxConcurrent)

	return func(c *gin.Context) {
		if !sem.TryAcquire(1) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "a comparison is already running, retry shortly",
			})
			return
		}
		defer sem.Release(1)
		c.Next()
	}
}
