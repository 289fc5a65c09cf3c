// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package cache provides LRU caching for hydrated graphs.
//
// Hydration is pure: the same baseline and additional snapshots always
// produce the same graph, and the graph is never mutated after Hydrate
// returns. That makes entries freely shareable across requests without
// reference counting; eviction only drops the cache's own pointer.
package cache

import (
	"container/list"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/AleutianAI/zonegraph/cmd/zonegraph/internal/dag"
)

// BuildFunc hydrates the graph for a cache miss.
type BuildFunc func(ctx context.Context) (*dag.HydratedDAG, error)

// DefaultMaxEntries bounds the cache when no option overrides it.
const DefaultMaxEntries = 32

// DefaultTTL is how long an entry stays valid. Snapshot content for a
// given commit set never changes, so the TTL mostly bounds memory held
// for merge queues that have moved on.
const DefaultTTL = 15 * time.Minute

type cacheEntry struct {
	key          string
	graph        *dag.HydratedDAG
	builtAtMilli int64
	lruElement   *list.Element
}

// DAGCache provides LRU caching for hydrated graphs keyed by commit set.
//
// Thread Safety:
//
//	DAGCache is safe for concurrent use. Concurrent misses for the same
//	key are deduplicated through singleflight so the snapshots are
//	fetched and folded once.
type DAGCache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	lru     *list.List
	flight  singleflight.Group

	maxEntries int
	ttl        time.Duration

	hits      int64
	misses    int64
	evictions int64
	builds    int64
}

// Option customizes a DAGCache.
type Option func(*DAGCache)

// WithMaxEntries bounds the number of cached graphs. Values below one are
// ignored.
func WithMaxEntries(n int) Option {
	return func(c *DAGCache) {
		if n >= 1 {
			c.maxEntries = n
		}
	}
}

// WithTTL overrides the entry lifetime. Zero disables expiry.
func WithTTL(ttl time.Duration) Option {
	return func(c *DAGCache) {
		if ttl >= 0 {
			c.ttl = ttl
		}
	}
}

// NewDAGCache creates a DAGCache.
func NewDAGCache(opts ...Option) *DAGCache {
	c := &DAGCache{
		entries:    make(map[string]*cacheEntry),
		lru:        list.New(),
		maxEntries: DefaultMaxEntries,
		ttl:        DefaultTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key derives the cache key for a baseline commit plus ordered additional
// commits. Order matters: name resolution is later-wins, so the same
// commits folded in a different order are a different graph.
func Key(baselineSHA string, additionalSHAs []string) string {
	h := sha256.New()
	h.Write([]byte(baselineSHA))
	h.Write([]byte{0})
	h.Write([]byte(strings.Join(additionalSHAs, "\x00")))
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached graph for key, if present and unexpired.
func (c *DAGCache) Get(key string) (*dag.HydratedDAG, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	if !ok {
		c.mu.RUnlock()
		atomic.AddInt64(&c.misses, 1)
		return nil, false
	}
	if c.isExpired(entry) {
		c.mu.RUnlock()
		c.remove(key)
		atomic.AddInt64(&c.misses, 1)
		return nil, false
	}
	graph := entry.graph
	c.mu.RUnlock()

	c.touch(entry)
	atomic.AddInt64(&c.hits, 1)
	return graph, true
}

// GetOrBuild returns the cached graph for key, hydrating it on miss.
//
// Uses singleflight to deduplicate concurrent builds for the same key.
// Build errors are returned to every waiter and never cached; the next
// request retries.
func (c *DAGCache) GetOrBuild(ctx context.Context, key string, build BuildFunc) (*dag.HydratedDAG, error) {
	if graph, ok := c.Get(key); ok {
		return graph, nil
	}

	result, err, _ := c.flight.Do(key, func() (interface{}, error) {
		graph, err := build(ctx)
		if err != nil {
			return nil, err
		}
		c.add(key, graph)
		atomic.AddInt64(&c.builds, 1)
		return graph, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*dag.HydratedDAG), nil
}

// Invalidate removes an entry. Removing a missing key is a no-op.
func (c *DAGCache) Invalidate(key string) {
	c.remove(key)
}

// Stats reports cache counters.
func (c *DAGCache) Stats() (hits, misses, evictions, builds int64) {
	return atomic.LoadInt64(&c.hits),
		atomic.LoadInt64(&c.misses),
		atomic.LoadInt64(&c.evictions),
		atomic.LoadInt64(&c.builds)
}

// Len reports the number of cached graphs.
func (c *DAGCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *DAGCache) isExpired(entry *cacheEntry) bool {
	if c.ttl == 0 {
		return false
	}
	return time.Now().UnixMilli()-entry.builtAtMilli > c.ttl.Milliseconds()
}

func (c *DAGCache) add(key string, graph *dag.HydratedDAG) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.entries[key]; ok {
		// Lost a race with another add; keep the existing entry.
		c.lru.MoveToFront(existing.lruElement)
		return
	}

	for len(c.entries) >= c.maxEntries {
		oldest := c.lru.Back()
		if oldest == nil {
			break
		}
		oldKey := oldest.Value.(string)
		c.lru.Remove(oldest)
		delete(c.entries, oldKey)
		atomic.AddInt64(&c.evictions, 1)
	}

	entry := &cacheEntry{
		key:          key,
		graph:        graph,
		builtAtMilli: time.Now().UnixMilli(),
	}
	entry.lruElement = c.lru.PushFront(key)
	c.entries[key] = entry
}

func (c *DAGCache) touch(entry *cacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[entry.key]; ok {
		c.lru.MoveToFront(entry.lruElement)
	}
}

func (c *DAGCache) remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.entries[key]; ok {
		c.lru.Remove(entry.lruElement)
		delete(c.entries, key)
	}
}
