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
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/zonegraph/cmd/zonegraph/internal/snapshot"
	"github.com/AleutianAI/zonegraph/cmd/zonegraph/internal/store"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	fetchCommit string
	fetchKind   string
	fetchRaw    bool
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch and dump one snapshot (debugging)",
	Long: `Fetch one snapshot object from the store and print it.

By default the snapshot is validated and re-encoded; --raw dumps the
stored bytes untouched, which is useful when the snapshot fails
validation and you need to see why.

Examples:
  zonegraph fetch --commit 3f9c1d2 --kind full
  zonegraph fetch --commit a1b2c3 --kind partial --raw`,
	Args: cobra.NoArgs,
	Run:  runFetch,
}

func init() {
	fetchCmd.Flags().StringVar(&fetchCommit, "commit", "",
		"Commit sha to fetch the snapshot for (required)")
	fetchCmd.Flags().StringVar(&fetchKind, "kind", "full",
		"Snapshot kind: full or partial")
	fetchCmd.Flags().BoolVar(&fetchRaw, "raw", false,
		"Dump the stored bytes without validating")

	_ = fetchCmd.MarkFlagRequired("commit")
}

// =============================================================================
// COMMAND IMPLEMENTATION
// =============================================================================

func runFetch(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var kind store.Kind
	switch fetchKind {
	case "full":
		kind = store.KindFull
	case "partial":
		kind = store.KindPartial
	default:
		outputError(false, fmt.Sprintf("unknown kind %q (want full or partial)", fetchKind), nil)
		os.Exit(ExitBadArgs)
	}

	stack, err := buildStoreStack(ctx)
	if err != nil {
		outputError(false, "Store init failed", err)
		os.Exit(ExitError)
	}
	defer stack.Close()

	key := store.DefaultKey(fetchCommit, kind)
	raw, err := stack.objects.Fetch(ctx, key)
	if err != nil {
		outputError(false, fmt.Sprintf("Fetch failed for %s", key), err)
		os.Exit(ExitError)
	}

	if fetchRaw {
		os.Stdout.Write(raw)
		fmt.Println()
		os.Exit(ExitSuccess)
	}

	snap, err := snapshot.Decode(raw, fetchCommit)
	if err != nil {
		outputError(false, "Snapshot failed validation (retry with --raw to inspect)", err)
		os.Exit(ExitError)
	}

	outputJSON(map[string]interface{}{
		"key":     key,
		"mode":    snap.Mode,
		"headSha": snap.HeadSHA,
		"baseSha": snap.BaseSHA,
		"targets": len(snap.TargetIDs),
		"graph":   len(snap.Graph),
	})
	os.Exit(ExitSuccess)
}
