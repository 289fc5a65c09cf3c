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
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/zonegraph/cmd/zonegraph/internal/dag"
	"github.com/AleutianAI/zonegraph/cmd/zonegraph/internal/snapshot"
)

// putSnapshot encodes a minimal valid snapshot into the store under the
// default key for (sha, kind).
func putSnapshot(t *testing.T, m *MemoryStore, sha string, kind Kind) {
	t.Helper()

	snap := dag.Snapshot{
		Mode:      dag.ModeFullDAG,
		HeadSHA:   sha,
		TargetIDs: []string{"t-" + sha},
		Graph: []dag.Target{
			{Target: dag.TargetRef{TargetID: "t-" + sha, TargetName: "pkg-" + sha}},
		},
	}
	if kind == KindPartial {
		snap.Mode = dag.ModeFiltered
		snap.BaseSHA = "base-" + sha
	}

	raw, err := snapshot.Encode(snap)
	require.NoError(t, err)
	m.Put(DefaultKey(sha, kind), raw)
}

func TestFetchSnapshots_SingleCommit(t *testing.T) {
	m := NewMemoryStore()
	putSnapshot(t, m, "abc123", KindFull)

	f := NewFetcher(m)
	snaps, err := f.FetchSnapshots(context.Background(), []CommitRef{{SHA: "abc123", Kind: KindFull}})
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, "abc123", snaps[0].HeadSHA)
	assert.Equal(t, dag.ModeFullDAG, snaps[0].Mode)
}

func TestFetchSnapshots_EmptyCommitList(t *testing.T) {
	f := NewFetcher(NewMemoryStore())
	_, err := f.FetchSnapshots(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoCommits)
}

func TestFetchSnapshots_PreservesInputOrder(t *testing.T) {
	m := NewMemoryStore()
	commits := make([]CommitRef, 0, 20)
	for i := 0; i < 20; i++ {
		sha := fmt.Sprintf("sha-%02d", i)
		putSnapshot(t, m, sha, KindPartial)
		commits = append(commits, CommitRef{SHA: sha, Kind: KindPartial})
	}

	// A batch size smaller than the input exercises the batching loop.
	f := NewFetcher(m, WithBatchSize(7))
	snaps, err := f.FetchSnapshots(context.Background(), commits)
	require.NoError(t, err)
	require.Len(t, snaps, 20)
	for i, snap := range snaps {
		assert.Equal(t, fmt.Sprintf("sha-%02d", i), snap.HeadSHA)
	}
}

func TestFetchSnapshots_ReportsEveryFailedCommit(t *testing.T) {
	m := NewMemoryStore()
	putSnapshot(t, m, "good1", KindPartial)
	putSnapshot(t, m, "good2", KindPartial)
	// missing1 and missing2 are never stored.

	f := NewFetcher(m, WithBatchSize(2))
	_, err := f.FetchSnapshots(context.Background(), []CommitRef{
		{SHA: "good1", Kind: KindPartial},
		{SHA: "missing1", Kind: KindPartial},
		{SHA: "good2", Kind: KindPartial},
		{SHA: "missing2", Kind: KindPartial},
	})
	require.Error(t, err)

	var batchErr *BatchFetchError
	require.ErrorAs(t, err, &batchErr)
	assert.Len(t, batchErr.Failures, 2)
	assert.Contains(t, err.Error(), "missing1")
	assert.Contains(t, err.Error(), "missing2")
	assert.NotContains(t, err.Error(), "good1")

	failure, ok := batchErr.For("missing1")
	require.True(t, ok)
	assert.ErrorIs(t, failure.Err, ErrObjectNotFound)
	_, ok = batchErr.For("good1")
	assert.False(t, ok)
}

func TestFetchSnapshots_InvalidSnapshotCollected(t *testing.T) {
	m := NewMemoryStore()
	m.Put(DefaultKey("bad", KindFull), []byte(`{"version":1,"mode":"sideways"}`))

	f := NewFetcher(m)
	_, err := f.FetchSnapshots(context.Background(), []CommitRef{{SHA: "bad", Kind: KindFull}})
	require.Error(t, err)

	var batchErr *BatchFetchError
	require.ErrorAs(t, err, &batchErr)
	failure, ok := batchErr.For("bad")
	require.True(t, ok)
	assert.ErrorIs(t, failure.Err, snapshot.ErrInvalidSnapshot)
}

func TestFetchSnapshots_CanceledContext(t *testing.T) {
	m := NewMemoryStore()
	putSnapshot(t, m, "abc123", KindFull)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := NewFetcher(m)
	_, err := f.FetchSnapshots(ctx, []CommitRef{{SHA: "abc123", Kind: KindFull}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetchSnapshots_CustomKeyFunc(t *testing.T) {
	m := NewMemoryStore()
	snap := dag.Snapshot{
		Mode:      dag.ModeFullDAG,
		HeadSHA:   "abc123",
		TargetIDs: []string{"t1"},
		Graph:     []dag.Target{{Target: dag.TargetRef{TargetID: "t1", TargetName: "p1"}}},
	}
	raw, err := snapshot.Encode(snap)
	require.NoError(t, err)
	m.Put("custom/full/abc123", raw)

	f := NewFetcher(m, WithKeyFunc(func(sha string, kind Kind) string {
		return fmt.Sprintf("custom/%s/%s", kind, sha)
	}))
	snaps, err := f.FetchSnapshots(context.Background(), []CommitRef{{SHA: "abc123", Kind: KindFull}})
	require.NoError(t, err)
	assert.Equal(t, "abc123", snaps[0].HeadSHA)
}

func TestDefaultKey(t *testing.T) {
	assert.Equal(t, "commit-targets/full-abc.json", DefaultKey("abc", KindFull))
	assert.Equal(t, "commit-targets/partial-def.json", DefaultKey("def", KindPartial))
}

func TestMemoryStore_FetchMissing(t *testing.T) {
	m := NewMemoryStore()
	_, err := m.Fetch(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrObjectNotFound)

	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "nope", nf.Key)
}

func TestMemoryStore_FetchReturnsCopy(t *testing.T) {
	m := NewMemoryStore()
	m.Put("k", []byte("abc"))

	data, err := m.Fetch(context.Background(), "k")
	require.NoError(t, err)
	data[0] = 'z'

	again, err := m.Fetch(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again)
}
