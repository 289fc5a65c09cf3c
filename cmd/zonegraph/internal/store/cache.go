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
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/AleutianAI/zonegraph/cmd/zonegraph/internal/telemetry"
)

// cacheKeyPrefix namespaces snapshot entries in the shared badger keyspace.
const cacheKeyPrefix = "snapshot/"

// DefaultCacheTTL is how long cached snapshot bytes stay valid. Snapshots
// are immutable per commit, so the TTL only bounds disk growth.
const DefaultCacheTTL = 7 * 24 * time.Hour

// CachedStore is a badger-backed read-through decorator over an ObjectStore.
//
// Snapshots are keyed by commit and never change once written, which makes
// them ideal cache material: a hit skips the bucket round trip entirely.
// Not-found results are not cached; a snapshot may be published later.
//
// Thread Safety: safe for concurrent use.
type CachedStore struct {
	db      *badger.DB
	backing ObjectStore
	ttl     time.Duration
	logger  *slog.Logger
}

// NewCachedStore wraps backing with a local badger cache.
//
// Description:
//
//	Reads check the local database first and fall through to the backing
//	store on miss. Successful fetches are written back with a TTL. Cache
//	write failures are logged and otherwise ignored; the fetched bytes
//	are still returned.
//
// Inputs:
//
//	db - An open badger database. Must not be nil. Caller owns its lifecycle.
//	backing - The store to consult on cache miss. Must not be nil.
//	logger - Optional logger for cache write failures.
//
// Outputs:
//
//	*CachedStore - The decorated store.
//	error - Non-nil if db or backing is nil.
func NewCachedStore(db *badger.DB, backing ObjectStore, logger *slog.Logger) (*CachedStore, error) {
	if db == nil {
		return nil, errors.New("db must not be nil")
	}
	if backing == nil {
		return nil, errors.New("backing store must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedStore{db: db, backing: backing, ttl: DefaultCacheTTL, logger: logger}, nil
}

// Fetch implements ObjectStore.
func (c *CachedStore) Fetch(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if data, ok := c.get(key); ok {
		telemetry.SnapshotCacheHits.WithLabelValues("hit").Inc()
		return data, nil
	}
	telemetry.SnapshotCacheHits.WithLabelValues("miss").Inc()

	data, err := c.backing.Fetch(ctx, key)
	if err != nil {
		return nil, err
	}

	if err := c.set(key, data); err != nil {
		c.logger.Warn("snapshot cache write failed", "key", key, "error", err)
	}
	return data, nil
}

// get reads a cached value, returning false on miss or read error.
func (c *CachedStore) get(key string) ([]byte, bool) {
	var data []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(cacheKeyPrefix + key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, false
	}
	return data, true
}

// set writes a value with the configured TTL.
func (c *CachedStore) set(key string, data []byte) error {
	err := c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(cacheKeyPrefix+key), data).WithTTL(c.ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("badger set %q: %w", key, err)
	}
	return nil
}
