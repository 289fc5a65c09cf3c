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
	"sync"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestDB opens an in-memory badger instance scoped to the test.
func openTestDB(t *testing.T) *badger.DB {
	t.Helper()

	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// countingStore wraps a MemoryStore and counts Fetch calls.
type countingStore struct {
	*MemoryStore

	mu    sync.Mutex
	calls int
}

func (c *countingStore) Fetch(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return c.MemoryStore.Fetch(ctx, key)
}

func (c *countingStore) fetchCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func TestCachedStore_ReadThrough(t *testing.T) {
	backing := &countingStore{MemoryStore: NewMemoryStore()}
	backing.Put("k1", []byte("payload"))

	cached, err := NewCachedStore(openTestDB(t), backing, nil)
	require.NoError(t, err)

	data, err := cached.Fetch(context.Background(), "k1")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), data)
	assert.Equal(t, 1, backing.fetchCalls())

	// Second read is served from badger.
	data, err = cached.Fetch(context.Background(), "k1")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), data)
	assert.Equal(t, 1, backing.fetchCalls())
}

func TestCachedStore_NotFoundNotCached(t *testing.T) {
	backing := &countingStore{MemoryStore: NewMemoryStore()}

	cached, err := NewCachedStore(openTestDB(t), backing, nil)
	require.NoError(t, err)

	_, err = cached.Fetch(context.Background(), "absent")
	assert.ErrorIs(t, err, ErrObjectNotFound)
	assert.Equal(t, 1, backing.fetchCalls())

	// Object appears later; the miss must not have been cached.
	backing.Put("absent", []byte("late"))
	data, err := cached.Fetch(context.Background(), "absent")
	require.NoError(t, err)
	assert.Equal(t, []byte("late"), data)
	assert.Equal(t, 2, backing.fetchCalls())
}

func TestCachedStore_CanceledContext(t *testing.T) {
	cached, err := NewCachedStore(openTestDB(t), NewMemoryStore(), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = cached.Fetch(ctx, "k1")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewCachedStore_NilArguments(t *testing.T) {
	db := openTestDB(t)

	_, err := NewCachedStore(nil, NewMemoryStore(), nil)
	assert.Error(t, err)

	_, err = NewCachedStore(db, nil, nil)
	assert.Error(t, err)
}

func TestCachedStore_AsFetcherBacking(t *testing.T) {
	backing := &countingStore{MemoryStore: NewMemoryStore()}
	putSnapshot(t, backing.MemoryStore, "abc123", KindFull)

	cached, err := NewCachedStore(openTestDB(t), backing, nil)
	require.NoError(t, err)

	f := NewFetcher(cached)
	commits := []CommitRef{{SHA: "abc123", Kind: KindFull}}

	snaps, err := f.FetchSnapshots(context.Background(), commits)
	require.NoError(t, err)
	assert.Equal(t, "abc123", snaps[0].HeadSHA)

	// Repeat fetch should be a cache hit on the raw bytes.
	_, err = f.FetchSnapshots(context.Background(), commits)
	require.NoError(t, err)
	assert.Equal(t, 1, backing.fetchCalls())
}
