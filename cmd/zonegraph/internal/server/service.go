// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package server exposes affected-set and zone-plan computation over HTTP.
package server

import (
	"context"
	"errors"
	"time"

	"github.com/AleutianAI/zonegraph/cmd/zonegraph/internal/cache"
	"github.com/AleutianAI/zonegraph/cmd/zonegraph/internal/closure"
	"github.com/AleutianAI/zonegraph/cmd/zonegraph/internal/dag"
	"github.com/AleutianAI/zonegraph/cmd/zonegraph/internal/store"
	"github.com/AleutianAI/zonegraph/cmd/zonegraph/internal/telemetry"
	"github.com/AleutianAI/zonegraph/cmd/zonegraph/internal/zones"
	"github.com/AleutianAI/zonegraph/pkg/logging"
)

// Service wires snapshot fetching, hydration caching, and closure
// computation behind the HTTP handlers.
//
// Thread Safety: safe for concurrent use; all mutable state lives in the
// DAG cache.
type Service struct {
	fetcher  *store.Fetcher
	dagCache *cache.DAGCache
	logger   *logging.Logger
}

// NewService creates a Service.
//
// A nil dagCache gets a default-sized one; a nil logger falls back to the
// package default.
func NewService(fetcher *store.Fetcher, dagCache *cache.DAGCache, logger *logging.Logger) (*Service, error) {
	if fetcher == nil {
		return nil, errors.New("fetcher must not be nil")
	}
	if dagCache == nil {
		dagCache = cache.NewDAGCache()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{fetcher: fetcher, dagCache: dagCache, logger: logger}, nil
}

// CachedGraphs reports how many hydrated graphs are currently cached.
func (s *Service) CachedGraphs() int {
	return s.dagCache.Len()
}

// hydrated returns the graph for baseline plus the ordered additional
// commits, fetching and folding snapshots on cache miss.
func (s *Service) hydrated(ctx context.Context, baselineSha string, commits []string) (*dag.HydratedDAG, error) {
	key := cache.Key(baselineSha, commits)
	return s.dagCache.GetOrBuild(ctx, key, func(ctx context.Context) (*dag.HydratedDAG, error) {
		refs := make([]store.CommitRef, 0, len(commits)+1)
		refs = append(refs, store.CommitRef{SHA: baselineSha, Kind: store.KindFull})
		for _, sha := range commits {
			refs = append(refs, store.CommitRef{SHA: sha, Kind: store.KindPartial})
		}

		snaps, err := s.fetcher.FetchSnapshots(ctx, refs)
		if err != nil {
			return nil, err
		}

		start := time.Now()
		d, err := dag.Hydrate(snaps[0], snaps[1:])
		if err != nil {
			return nil, err
		}
		telemetry.HydrationDuration.Observe(time.Since(start).Seconds())

		s.logger.Info("hydrated graph",
			"baseline", baselineSha,
			"snapshots", len(snaps),
			"targets", d.TargetCount(),
			"edges", d.EdgeCount(),
		)
		return d, nil
	})
}

// Affected computes the affected set for one change.
func (s *Service) Affected(ctx context.Context, req AffectedRequest) (*closure.Result, error) {
	d, err := s.hydrated(ctx, req.BaselineSha, req.Commits)
	if err != nil {
		return nil, err
	}

	result := closure.Compute(req.Packages, d)
	telemetry.AffectedSetSize.Observe(float64(result.Affected.Len()))
	if result.UnnamedDropped > 0 {
		s.logger.Warn("reachable targets dropped for missing names",
			"baseline", req.BaselineSha,
			"dropped", result.UnnamedDropped,
		)
	}
	return result, nil
}

// Plan computes serialization zones for a set of pull requests sharing a
// baseline. Each pull request is hydrated against its own snapshot stack;
// the baseline graph is shared through the DAG cache.
func (s *Service) Plan(ctx context.Context, req PlanRequest) ([]zones.Zone, error) {
	prs := make([]zones.PullRequest, 0, len(req.PullRequests))
	for _, spec := range req.PullRequests {
		result, err := s.Affected(ctx, AffectedRequest{
			BaselineSha: req.BaselineSha,
			Commits:     spec.Commits,
			Packages:    spec.Packages,
		})
		if err != nil {
			return nil, err
		}
		prs = append(prs, zones.PullRequest{ID: spec.ID, Affected: result.Affected})
	}
	return zones.Group(prs), nil
}
