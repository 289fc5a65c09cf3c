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
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AleutianAI/zonegraph/cmd/zonegraph/internal/dag"
	"github.com/AleutianAI/zonegraph/cmd/zonegraph/internal/store"
)

// ServiceVersion is the zonegraph service version.
const ServiceVersion = "0.1.0"

// Handlers contains the HTTP handlers for the zones API.
type Handlers struct {
	svc *Service
}

// NewHandlers creates handlers for the given service.
func NewHandlers(svc *Service) *Handlers {
	return &Handlers{svc: svc}
}

// HandleAffected handles POST /v1/zones/affected.
//
// Description:
//
//	Hydrates the graph for the requested baseline and commit stack, then
//	computes the transitive set of packages affected by the directly
//	changed packages.
//
// Request Body:
//
//	AffectedRequest
//
// Response:
//
//	200 OK: AffectedResponse
//	400 Bad Request: Validation error or non-full-dag baseline
//	502 Bad Gateway: One or more snapshots could not be fetched
func (h *Handlers) HandleAffected(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := h.svc.logger.With("request_id", requestID, "handler", "HandleAffected")

	var req AffectedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	result, err := h.svc.Affected(c.Request.Context(), req)
	if err != nil {
		h.writeComputeError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, AffectedResponse{
		Affected:       result.Affected.Targets(),
		Unresolved:     result.Unresolved,
		UnnamedDropped: result.UnnamedDropped,
	})
}

// HandlePlan handles POST /v1/zones/plan.
//
// Description:
//
//	Computes per-pull-request affected sets against a shared baseline and
//	groups overlapping pull requests into serialization zones.
//
// Request Body:
//
//	PlanRequest
//
// Response:
//
//	200 OK: PlanResponse
//	400 Bad Request: Validation error or non-full-dag baseline
//	502 Bad Gateway: One or more snapshots could not be fetched
func (h *Handlers) HandlePlan(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := h.svc.logger.With("request_id", requestID, "handler", "HandlePlan")

	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	planned, err := h.svc.Plan(c.Request.Context(), req)
	if err != nil {
		h.writeComputeError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, PlanResponse{Zones: planned})
}

// HandleHealth handles GET /v1/zones/health.
//
// Response:
//
//	200 OK: HealthResponse
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "healthy",
		Version: ServiceVersion,
	})
}

// HandleReady handles GET /v1/zones/ready.
//
// Response:
//
//	200 OK: ReadyResponse
func (h *Handlers) HandleReady(c *gin.Context) {
	c.JSON(http.StatusOK, ReadyResponse{
		Ready:        true,
		StoreOK:      true,
		CachedGraphs: h.svc.CachedGraphs(),
	})
}

// writeComputeError maps service errors onto HTTP responses.
func (h *Handlers) writeComputeError(c *gin.Context, logger interface{ Error(string, ...any) }, err error) {
	statusCode := http.StatusInternalServerError
	errCode := "COMPUTE_FAILED"

	var batchErr *store.BatchFetchError
	switch {
	case errors.Is(err, dag.ErrBaselineMode):
		statusCode = http.StatusBadRequest
		errCode = "BASELINE_NOT_FULL_DAG"
	case errors.As(err, &batchErr):
		statusCode = http.StatusBadGateway
		errCode = "SNAPSHOT_FETCH_FAILED"
	case errors.Is(err, store.ErrNoCommits):
		statusCode = http.StatusBadRequest
		errCode = "NO_COMMITS"
	}

	logger.Error("Compute failed", "error", err, "code", errCode)
	c.JSON(statusCode, ErrorResponse{Error: err.Error(), Code: errCode})
}

// getOrCreateRequestID returns the X-Request-ID header, minting one when
// the caller did not send it, and echoes it on the response.
func getOrCreateRequestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Header("X-Request-ID", requestID)
	return requestID
}
