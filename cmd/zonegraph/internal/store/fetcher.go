// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package store

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/zonegraph/cmd/zonegraph/internal/dag"
	"github.com/AleutianAI/zonegraph/cmd/zonegraph/internal/snapshot"
	"github.com/AleutianAI/zonegraph/cmd/zonegraph/internal/telemetry"
)

// DefaultBatchSize is the number of fetches issued concurrently per batch.
const DefaultBatchSize = 50

// CommitRef names one snapshot to fetch.
type CommitRef struct {
	SHA  string
	Kind Kind
}

// Fetcher retrieves and validates snapshots for a list of commits.
//
// Thread Safety: safe for concurrent use; each call allocates its own
// bookkeeping.
type Fetcher struct {
	store     ObjectStore
	key       KeyFunc
	batchSize int
}

// FetcherOption customizes a Fetcher.
type FetcherOption func(*Fetcher)

// WithKeyFunc overrides the storage key layout.
func WithKeyFunc(key KeyFunc) FetcherOption {
	return func(f *Fetcher) {
		if key != nil {
			f.key = key
		}
	}
}

// WithBatchSize overrides the per-batch concurrency. Values below one are
// ignored.
func WithBatchSize(n int) FetcherOption {
	return func(f *Fetcher) {
		if n >= 1 {
			f.batchSize = n
		}
	}
}

// NewFetcher creates a Fetcher over the given store.
func NewFetcher(store ObjectStore, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		store:     store,
		key:       DefaultKey,
		batchSize: DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchSnapshots retrieves and validates snapshots for every commit.
//
// Description:
//
//	Processes commits in fixed-size batches. All fetches within a batch
//	run concurrently; the batch is awaited before the next one starts.
//	An individual failure (not-found, schema-invalid, transport) is
//	collected rather than short-circuiting its batch, and the overall
//	call fails only after every fetch has completed, reporting all
//	failed commits together in a *BatchFetchError. There is no retry
//	logic here; one attempt per commit.
//
// Inputs:
//
//	ctx - Context for cancellation.
//	commits - Commits to fetch. Must be non-empty.
//
// Outputs:
//
//	[]dag.Snapshot - Validated snapshots in input order.
//	error - ErrNoCommits, ctx.Err(), or a *BatchFetchError.
//
// Thread Safety: safe for concurrent use.
func (f *Fetcher) FetchSnapshots(ctx context.Context, commits []CommitRef) ([]dag.Snapshot, error) {
	if len(commits) == 0 {
		return nil, ErrNoCommits
	}

	results := make([]dag.Snapshot, len(commits))

	var mu sync.Mutex
	var failures []FetchFailure

	for start := 0; start < len(commits); start += f.batchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := min(start+f.batchSize, len(commits))

		var g errgroup.Group
		for i := start; i < end; i++ {
			i := i
			ref := commits[i]
			g.Go(func() error {
				snap, err := f.fetchOne(ctx, ref)
				if err != nil {
					mu.Lock()
					failures = append(failures, FetchFailure{Commit: ref.SHA, Kind: ref.Kind, Err: err})
					mu.Unlock()
					return nil // Collected, never propagated: the batch runs to completion.
				}
				results[i] = snap
				return nil
			})
		}
		_ = g.Wait()
	}

	if len(failures) > 0 {
		return nil, &BatchFetchError{Failures: failures}
	}
	return results, nil
}

// fetchOne retrieves and validates a single snapshot.
func (f *Fetcher) fetchOne(ctx context.Context, ref CommitRef) (dag.Snapshot, error) {
	raw, err := f.store.Fetch(ctx, f.key(ref.SHA, ref.Kind))
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			telemetry.SnapshotFetches.WithLabelValues("not_found").Inc()
		} else {
			telemetry.SnapshotFetches.WithLabelValues("error").Inc()
		}
		return dag.Snapshot{}, err
	}

	snap, err := snapshot.Decode(raw, ref.SHA)
	if err != nil {
		telemetry.SnapshotFetches.WithLabelValues("invalid").Inc()
		return dag.Snapshot{}, err
	}

	telemetry.SnapshotFetches.WithLabelValues("ok").Inc()
	return snap, nil
}
