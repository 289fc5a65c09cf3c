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
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/AleutianAI/zonegraph/cmd/zonegraph/internal/closure"
	"github.com/AleutianAI/zonegraph/cmd/zonegraph/internal/dag"
	"github.com/AleutianAI/zonegraph/cmd/zonegraph/internal/store"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	affectedBase     string
	affectedCommits  []string
	affectedPackages []string

	affectedJSON  bool
	affectedQuiet bool
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

var affectedCmd = &cobra.Command{
	Use:   "affected",
	Short: "Compute the packages transitively affected by a change",
	Long: `Compute the transitive set of packages affected by directly
changed packages.

Fetches the full-dag snapshot for the baseline commit and the filtered
snapshots for each --commit (in order), folds them into one dependents
graph, and walks it from the changed packages.

Examples:
  zonegraph affected --base 3f9c1d2 --package web --package utils
  zonegraph affected --base 3f9c1d2 --commit a1b2c3 --commit d4e5f6 --package api --json

CI/CD Integration:
  zonegraph affected --base $MERGE_BASE --package $CHANGED --json
  (exits 0 with the affected set on stdout)`,
	Args: cobra.NoArgs,
	Run:  runAffected,
}

func init() {
	affectedCmd.Flags().StringVar(&affectedBase, "base", "",
		"Baseline commit sha with a full-dag snapshot (required)")
	affectedCmd.Flags().StringSliceVar(&affectedCommits, "commit", nil,
		"Head commit sha with a filtered snapshot; repeatable, order matters")
	affectedCmd.Flags().StringSliceVar(&affectedPackages, "package", nil,
		"Directly changed package name; repeatable (required)")

	affectedCmd.Flags().BoolVar(&affectedJSON, "json", false,
		"Output as JSON for scripting")
	affectedCmd.Flags().BoolVar(&affectedQuiet, "quiet", false,
		"Only exit code, no output")

	_ = affectedCmd.MarkFlagRequired("base")
	_ = affectedCmd.MarkFlagRequired("package")
}

// =============================================================================
// COMMAND IMPLEMENTATION
// =============================================================================

func runAffected(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	result, err := computeAffected(ctx, affectedBase, affectedCommits, affectedPackages)
	if err != nil {
		outputError(affectedJSON, "Affected computation failed", err)
		os.Exit(ExitError)
	}

	if !affectedQuiet {
		if affectedJSON {
			outputJSON(affectedPayload(result))
		} else {
			outputAffectedText(result)
		}
	}
	os.Exit(ExitSuccess)
}

// computeAffected fetches, hydrates, and walks the graph for one change.
func computeAffected(ctx context.Context, base string, commits, packages []string) (*closure.Result, error) {
	stack, err := buildStoreStack(ctx)
	if err != nil {
		return nil, err
	}
	defer stack.Close()

	refs := make([]store.CommitRef, 0, len(commits)+1)
	refs = append(refs, store.CommitRef{SHA: base, Kind: store.KindFull})
	for _, sha := range commits {
		refs = append(refs, store.CommitRef{SHA: sha, Kind: store.KindPartial})
	}

	snaps, err := buildFetcher(stack).FetchSnapshots(ctx, refs)
	if err != nil {
		return nil, err
	}

	d, err := dag.Hydrate(snaps[0], snaps[1:])
	if err != nil {
		return nil, err
	}
	return closure.Compute(packages, d), nil
}

// =============================================================================
// OUTPUT FUNCTIONS
// =============================================================================

func affectedPayload(result *closure.Result) map[string]interface{} {
	payload := map[string]interface{}{
		"success":  true,
		"affected": result.Affected.Targets(),
	}
	if len(result.Unresolved) > 0 {
		payload["unresolved"] = result.Unresolved
	}
	if result.UnnamedDropped > 0 {
		payload["unnamedDropped"] = result.UnnamedDropped
	}
	return payload
}

func outputAffectedText(result *closure.Result) {
	if isatty.IsTerminal(os.Stdout.Fd()) {
		fmt.Println("Affected Packages")
		fmt.Println(strings.Repeat("=", 60))
	}

	for _, name := range result.Affected.Names() {
		fmt.Println(name)
	}

	if len(result.Unresolved) > 0 {
		fmt.Fprintf(os.Stderr, "Warning: %d package(s) not in the graph, passed through: %s\n",
			len(result.Unresolved), strings.Join(result.Unresolved, ", "))
	}
	if result.UnnamedDropped > 0 {
		fmt.Fprintf(os.Stderr, "Warning: %d reachable target(s) dropped for missing names\n",
			result.UnnamedDropped)
	}
}
