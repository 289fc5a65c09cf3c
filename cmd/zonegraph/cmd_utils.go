// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"

	"github.com/AleutianAI/zonegraph/cmd/zonegraph/config"
	"github.com/AleutianAI/zonegraph/cmd/zonegraph/gcs"
	"github.com/AleutianAI/zonegraph/cmd/zonegraph/internal/store"
)

// Exit codes for zonegraph commands.
const (
	ExitSuccess = 0 // Computation successful (even if the affected set is empty)
	ExitError   = 1 // Error (store unreachable, invalid snapshot, etc.)
	ExitBadArgs = 2 // Invalid arguments
)

// storeStack is the object store plus the resources behind it that need
// closing when the command finishes.
type storeStack struct {
	objects store.ObjectStore
	closers []func() error
}

func (s *storeStack) Close() {
	for _, c := range s.closers {
		_ = c()
	}
}

// buildStoreStack assembles the object store from the loaded config:
// the configured backend, optionally wrapped in the local badger cache.
func buildStoreStack(ctx context.Context) (*storeStack, error) {
	cfg := config.Global
	stack := &storeStack{}

	switch cfg.Store.Backend {
	case "memory":
		stack.objects = store.NewMemoryStore()
	case "gcs", "":
		client, err := gcs.NewClient(ctx, cfg.Store.Project, cfg.Store.Bucket, cfg.Store.SAKeyPath)
		if err != nil {
			return nil, err
		}
		stack.objects = client
		stack.closers = append(stack.closers, client.Close)
	default:
		return nil, fmt.Errorf("unknown store backend %q (want gcs or memory)", cfg.Store.Backend)
	}

	if cfg.Store.CacheDir != "" || cfg.Store.CacheInMem {
		var opts badger.Options
		if cfg.Store.CacheInMem {
			opts = badger.DefaultOptions("").WithInMemory(true)
		} else {
			opts = badger.DefaultOptions(expandPath(cfg.Store.CacheDir))
		}
		opts = opts.WithLogger(nil)

		db, err := badger.Open(opts)
		if err != nil {
			// A broken local cache should not block the command.
			cliLogger.Warn("snapshot cache unavailable, reading straight from the store", "error", err)
			return stack, nil
		}
		stack.closers = append(stack.closers, db.Close)

		cached, err := store.NewCachedStore(db, stack.objects, cliLogger.Slog())
		if err != nil {
			return nil, err
		}
		stack.objects = cached
	}

	return stack, nil
}

// buildFetcher wraps the stack's object store in a Fetcher with the
// configured batch size.
func buildFetcher(stack *storeStack) *store.Fetcher {
	var opts []store.FetcherOption
	if config.Global.Fetch.BatchSize > 0 {
		opts = append(opts, store.WithBatchSize(config.Global.Fetch.BatchSize))
	}
	return store.NewFetcher(stack.objects, opts...)
}

// expandPath expands a leading ~ to the user's home directory.
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return home + path[1:]
		}
	}
	return path
}

// outputError prints a command error, as JSON when asked.
func outputError(asJSON bool, msg string, err error) {
	if asJSON {
		result := map[string]interface{}{
			"success": false,
			"error":   msg,
		}
		if err != nil {
			result["error"] = fmt.Sprintf("%s: %v", msg, err)
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		encoder.Encode(result)
	} else {
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
		}
	}
}

// outputJSON writes v to stdout as indented JSON.
func outputJSON(v interface{}) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode JSON: %v\n", err)
		os.Exit(ExitError)
	}
}
