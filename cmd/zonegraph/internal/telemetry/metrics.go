// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus collectors for the snapshot pipeline. Registered at package
// load via promauto; exposed through the /metrics endpoint in serve mode.
var (
	// SnapshotFetches counts snapshot fetch outcomes, partitioned by
	// result: ok, not_found, invalid, error.
	SnapshotFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "zonegraph",
		Subsystem: "store",
		Name:      "snapshot_fetches_total",
		Help:      "Snapshot fetch attempts by outcome.",
	}, []string{"result"})

	// SnapshotCacheHits counts local cache hits and misses.
	SnapshotCacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "zonegraph",
		Subsystem: "store",
		Name:      "snapshot_cache_total",
		Help:      "Local snapshot cache lookups by outcome (hit, miss).",
	}, []string{"outcome"})

	// HydrationDuration observes wall time of graph hydration.
	HydrationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "zonegraph",
		Subsystem: "dag",
		Name:      "hydration_duration_seconds",
		Help:      "Time to fold baseline plus incremental snapshots.",
		Buckets:   prometheus.DefBuckets,
	})

	// AffectedSetSize observes the size of computed affected sets.
	AffectedSetSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "zonegraph",
		Subsystem: "closure",
		Name:      "affected_set_size",
		Help:      "Number of targets in a computed affected set.",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
	})
)
