// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package zones groups pull requests into serialization zones.
//
// Two pull requests land in the same zone when their affected target sets
// overlap: merging one can change the other's test outcome, so they must be
// serialized. Disjoint pull requests may merge in parallel.
package zones

import (
	"sort"

	"github.com/AleutianAI/zonegraph/cmd/zonegraph/internal/closure"
)

// PullRequest pairs a pull request identifier with its affected set.
type PullRequest struct {
	ID       string
	Affected *closure.AffectedSet
}

// Zone is one serialization group.
//
// PullRequests and TargetIDs are sorted; zones themselves come back ordered
// by their first pull request id so output is deterministic.
type Zone struct {
	PullRequests []string `json:"pullRequests"`
	TargetIDs    []string `json:"targetIds"`
}

// Group partitions pull requests into zones by affected-set overlap.
//
// # Description
//
// Union-find keyed by pull request index: every affected target id is
// claimed by the first pull request that touches it, and any later pull
// request touching the same id is united with the claimant. A pull request
// with an empty affected set forms its own zone; it conflicts with nothing.
//
// # Inputs
//
//   - prs: Pull requests with their affected sets. A nil Affected is
//     treated as empty.
//
// # Outputs
//
//   - []Zone: The serialization zones, deterministically ordered.
func Group(prs []PullRequest) []Zone {
	if len(prs) == 0 {
		return nil
	}

	parent := make([]int, len(prs))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[rb] = ra
		}
	}

	claimedBy := make(map[string]int)
	for i, pr := range prs {
		if pr.Affected == nil {
			continue
		}
		for _, target := range pr.Affected.Targets() {
			if owner, ok := claimedBy[target.ID]; ok {
				union(owner, i)
			} else {
				claimedBy[target.ID] = i
			}
		}
	}

	groups := make(map[int][]int)
	for i := range prs {
		root := find(i)
		groups[root] = append(groups[root], i)
	}

	zones := make([]Zone, 0, len(groups))
	for _, members := range groups {
		zone := Zone{}
		targetIDs := make(map[string]struct{})
		for _, i := range members {
			zone.PullRequests = append(zone.PullRequests, prs[i].ID)
			if prs[i].Affected == nil {
				continue
			}
			for _, target := range prs[i].Affected.Targets() {
				targetIDs[target.ID] = struct{}{}
			}
		}
		sort.Strings(zone.PullRequests)
		zone.TargetIDs = make([]string, 0, len(targetIDs))
		for id := range targetIDs {
			zone.TargetIDs = append(zone.TargetIDs, id)
		}
		sort.Strings(zone.TargetIDs)
		zones = append(zones, zone)
	}

	sort.Slice(zones, func(a, b int) bool {
		return zones[a].PullRequests[0] < zones[b].PullRequests[0]
	})
	return zones
}
