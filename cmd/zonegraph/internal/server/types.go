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
	"github.com/AleutianAI/zonegraph/cmd/zonegraph/internal/closure"
	"github.com/AleutianAI/zonegraph/cmd/zonegraph/internal/zones"
)

// AffectedRequest asks for the affected set of one change.
//
// BaselineSha names the commit whose full-dag snapshot anchors hydration.
// Commits are the ordered head commits whose filtered snapshots are folded
// on top. Packages are the directly-changed package names seeding the
// closure.
type AffectedRequest struct {
	BaselineSha string   `json:"baselineSha" binding:"required"`
	Commits     []string `json:"commits"`
	Packages    []string `json:"packages" binding:"required"`
}

// AffectedResponse carries the computed affected set.
type AffectedResponse struct {
	Affected       []closure.ComputedTarget `json:"affected"`
	Unresolved     []string                 `json:"unresolved,omitempty"`
	UnnamedDropped int                      `json:"unnamedDropped,omitempty"`
}

// PullRequestSpec is one pull request in a plan request.
type PullRequestSpec struct {
	ID       string   `json:"id" binding:"required"`
	Commits  []string `json:"commits"`
	Packages []string `json:"packages"`
}

// PlanRequest asks for serialization zones over a set of pull requests
// sharing one baseline.
type PlanRequest struct {
	BaselineSha  string            `json:"baselineSha" binding:"required"`
	PullRequests []PullRequestSpec `json:"pullRequests" binding:"required"`
}

// PlanResponse carries the computed zones.
type PlanResponse struct {
	Zones []zones.Zone `json:"zones"`
}

// HealthResponse is the health check payload.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ReadyResponse is the readiness check payload.
type ReadyResponse struct {
	Ready        bool `json:"ready"`
	StoreOK      bool `json:"storeOk"`
	CachedGraphs int  `json:"cachedGraphs"`
}

// ErrorResponse is the standard error payload.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
