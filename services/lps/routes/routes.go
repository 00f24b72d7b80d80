// Copyright (C) 2025 Palarena Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/palarena/palarena/services/lps/config"
	"github.com/palarena/palarena/services/lps/engine"
	"github.com/palarena/palarena/services/lps/handlers"
	"github.com/palarena/palarena/services/lps/middleware"
	"github.com/palarena/palarena/services/lps/observability"
)

// SetupRoutes registers all routes of the comparison service.
func SetupRoutes(router *gin.Engine, comparer *engine.Comparer,
	metrics *observability.Metrics, cfg config.ServerConfig) {

	router.Use(middleware.CORS(cfg.AllowedOrigins))

	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if cfg.UIDir != "" {
		router.StaticFS("/ui", http.Dir(cfg.UIDir))
		// Friendly redirect for browsers landing on the root. The target is
		// the directory path: the file server answers it with index.html
		// directly, whereas an explicit /ui/index.html would bounce through
		// its own canonicalizing redirect first.
		router.GET("/", func(c *gin.Context) {
			c.Redirect(http.StatusMovedPermanently, "/ui/")
		})
	}

	// API version 1 group
	v1 := router.Group("/v1")
	v1.Use(
		middleware.BodySizeLimit(cfg.MaxBodyBytes),
		middleware.ComparisonGuard(cfg.MaxConcurrentComparisons),
	)
	{
		v1.POST("/compare", handlers.HandleCompare(comparer, metrics))
		v1.POST("/compare/upload", handlers.HandleCompareUpload(comparer, metrics, cfg.MaxBodyBytes))
	}
}
