// Copyright (C) 2025 Greensight AI (oss@greensight.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package analysis

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all analysis routes with the router.
//
// Description:
//
//	Registers all /v1/analysis/* endpoints with the given Gin router
//	group. The group should already have any required middleware
//	applied.
//
// Inputs:
//
//	rg - Gin router group (typically /v1)
//	handlers - The handlers instance
//
// Endpoints:
//
//	POST /v1/analysis/analyze  - Score a submission and rank suggestions
//	POST /v1/analysis/optimize - Mechanically rewrite and compare
//	GET  /v1/analysis/languages - List supported languages
//	GET  /v1/analysis/rules    - List active suggestion rules
//	GET  /v1/analysis/health   - Health check
//	GET  /v1/analysis/ready    - Readiness check
//
// Example:
//
//	service, _ := analysis.NewService(registry, table, analysis.DefaultServiceConfig())
//	handlers := analysis.NewHandlers(service)
//
//	v1 := router.Group("/v1")
//	analysis.RegisterRoutes(v1, handlers)
func RegisterRoutes(rg *gin.RouterGroup, handlers *Handlers) {
	ar := rg.Group("/analysis")
	{
		ar.POST("/analyze", handlers.HandleAnalyze)
		ar.POST("/optimize", handlers.HandleOptimize)

		ar.GET("/languages", handlers.HandleLanguages)
		ar.GET("/rules", handlers.HandleRules)

		ar.GET("/health", handlers.HandleHealth)
		ar.GET("/ready", handlers.HandleReady)
	}
}
