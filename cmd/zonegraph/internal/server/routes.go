// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package server

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// RegisterRoutes registers all zones endpoints with the router group.
//
// Endpoints:
//
//	POST /v1/zones/affected - Compute the affected set for one change
//	POST /v1/zones/plan - Group pull requests into serialization zones
//	GET  /v1/zones/health - Health check
//	GET  /v1/zones/ready - Readiness check
func RegisterRoutes(rg *gin.RouterGroup, handlers *Handlers) {
	zonesGroup := rg.Group("/zones")
	{
		zonesGroup.POST("/affected", handlers.HandleAffected)
		zonesGroup.POST("/plan", handlers.HandlePlan)

		zonesGroup.GET("/health", handlers.HandleHealth)
		zonesGroup.GET("/ready", handlers.HandleReady)
	}
}

// NewRouter builds the service router with tracing middleware, the /v1
// API group, and the Prometheus scrape endpoint.
func NewRouter(handlers *Handlers) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware("zonegraph-service"))

	v1 := router.Group("/v1")
	RegisterRoutes(v1, handlers)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return router
}
