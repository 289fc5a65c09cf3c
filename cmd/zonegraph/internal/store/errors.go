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
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for snapshot retrieval.
var (
	// ErrObjectNotFound indicates the storage key does not exist.
	ErrObjectNotFound = errors.New("object not found")

	// ErrNoCommits indicates FetchSnapshots was called with an empty list.
	ErrNoCommits = errors.New("no commits to fetch")
)

// NotFoundError reports a missing object by key.
type NotFoundError struct {
	Key string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("object %q not found", e.Key)
}

// Unwrap returns the sentinel error.
func (e *NotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// FetchFailure records one commit that could not be retrieved or validated.
type FetchFailure struct {
	Commit string
	Kind   Kind
	Err    error
}

// BatchFetchError aggregates every per-commit failure of a batch fetch.
//
// The fetcher never short-circuits: all fetches run to completion and the
// error message names every commit that failed, not just the first.
type BatchFetchError struct {
	Failures []FetchFailure
}

// Error implements the error interface.
func (e *BatchFetchError) Error() string {
	commits := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		commits = append(commits, f.Commit)
	}
	sort.Strings(commits)
	return fmt.Sprintf("failed to fetch snapshots for %d commit(s): %s",
		len(e.Failures), strings.Join(commits, ", "))
}

// For returns the failure recorded for a commit, if any.
func (e *BatchFetchError) For(commit string) (FetchFailure, bool) {
	for _, f := range e.Failures {
		if f.Commit == commit {
			return f, true
		}
	}
	return FetchFailure{}, false
}
