// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package store retrieves cached snapshot bytes from object storage and
// batches per-commit fetches into validated snapshots.
package store

import (
	"context"
	"fmt"
	"sync"
)

// Kind selects which snapshot flavor a storage key addresses.
type Kind string

const (
	// KindFull addresses a full-dag snapshot.
	KindFull Kind = "full"

	// KindPartial addresses a filtered snapshot.
	KindPartial Kind = "partial"
)

// KeyFunc derives a storage key from a commit sha and snapshot kind.
// Callers may supply their own layout; DefaultKey is used otherwise.
type KeyFunc func(commitSHA string, kind Kind) string

// DefaultKey is the standard key layout: commit-targets/{kind}-{sha}.json.
func DefaultKey(commitSHA string, kind Kind) string {
	return fmt.Sprintf("commit-targets/%s-%s.json", kind, commitSHA)
}

// ObjectStore fetches raw snapshot bytes by storage key.
//
// Implementations: gcs.Client for bucket storage, MemoryStore for tests,
// CachedStore as a read-through decorator over either.
type ObjectStore interface {
	// Fetch returns the object bytes for key, or ErrObjectNotFound if the
	// key does not exist.
	Fetch(ctx context.Context, key string) ([]byte, error)
}

// MemoryStore is an in-memory ObjectStore for tests and local tooling.
//
// Thread Safety: safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

// Put stores bytes under key, replacing any previous value.
func (m *MemoryStore) Put(key string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
}

// Fetch implements ObjectStore.
func (m *MemoryStore) Fetch(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.objects[key]
	if !ok {
		return nil, &NotFoundError{Key: key}
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}
