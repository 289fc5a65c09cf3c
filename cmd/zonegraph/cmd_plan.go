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
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/zonegraph/cmd/zonegraph/internal/zones"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	planBase string
	planFile string
	planJSON bool
)

// planPullRequest is one queued pull request in the plan input file.
type planPullRequest struct {
	ID       string   `json:"id"`
	Commits  []string `json:"commits"`
	Packages []string `json:"packages"`
}

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Group queued pull requests into serialization zones",
	Long: `Group queued pull requests into serialization zones by affected-set
overlap.

Reads the queued pull requests from a JSON file (or stdin with -): an
array of {id, commits, packages} objects sharing the --base baseline.
Pull requests whose affected sets overlap land in the same zone and must
merge serially; disjoint zones may merge in parallel.

Examples:
  zonegraph plan --base 3f9c1d2 --file queue.json
  some-tool export-queue | zonegraph plan --base 3f9c1d2 --file - --json`,
	Args: cobra.NoArgs,
	Run:  runPlan,
}

func init() {
	planCmd.Flags().StringVar(&planBase, "base", "",
		"Baseline commit sha with a full-dag snapshot (required)")
	planCmd.Flags().StringVar(&planFile, "file", "",
		"JSON file with the queued pull requests, or - for stdin (required)")
	planCmd.Flags().BoolVar(&planJSON, "json", false,
		"Output as JSON for scripting")

	_ = planCmd.MarkFlagRequired("base")
	_ = planCmd.MarkFlagRequired("file")
}

// =============================================================================
// COMMAND IMPLEMENTATION
// =============================================================================

func runPlan(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	prs, err := readPlanFile(planFile)
	if err != nil {
		outputError(planJSON, "Failed to read the pull request list", err)
		os.Exit(ExitBadArgs)
	}

	grouped := make([]zones.PullRequest, 0, len(prs))
	for _, pr := range prs {
		result, err := computeAffected(ctx, planBase, pr.Commits, pr.Packages)
		if err != nil {
			outputError(planJSON, fmt.Sprintf("Affected computation failed for %s", pr.ID), err)
			os.Exit(ExitError)
		}
		grouped = append(grouped, zones.PullRequest{ID: pr.ID, Affected: result.Affected})
	}

	planned := zones.Group(grouped)

	if planJSON {
		outputJSON(map[string]interface{}{
			"success": true,
			"zones":   planned,
		})
	} else {
		outputPlanText(planned)
	}
	os.Exit(ExitSuccess)
}

func readPlanFile(path string) ([]planPullRequest, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}

	var prs []planPullRequest
	if err := json.Unmarshal(data, &prs); err != nil {
		return nil, fmt.Errorf("parse pull request list: %w", err)
	}
	if len(prs) == 0 {
		return nil, fmt.Errorf("pull request list is empty")
	}
	for i, pr := range prs {
		if pr.ID == "" {
			return nil, fmt.Errorf("pull request at index %d is missing an id", i)
		}
	}
	return prs, nil
}

// =============================================================================
// OUTPUT FUNCTIONS
// =============================================================================

func outputPlanText(planned []zones.Zone) {
	fmt.Printf("Zones: %d\n", len(planned))
	fmt.Println(strings.Repeat("=", 60))
	for i, zone := range planned {
		fmt.Printf("Zone %d: %s\n", i+1, strings.Join(zone.PullRequests, ", "))
		fmt.Printf("  targets: %d\n", len(zone.TargetIDs))
	}
}
