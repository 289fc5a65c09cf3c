// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package zones

import (
	"reflect"
	"testing"

	"github.com/AleutianAI/zonegraph/cmd/zonegraph/internal/closure"
)

// affected builds an AffectedSet where each id doubles as its name.
func affected(ids ...string) *closure.AffectedSet {
	s := closure.NewAffectedSet()
	for _, id := range ids {
		s.Add(closure.ComputedTarget{ID: id, Name: id})
	}
	return s
}

func prIDs(zones []Zone) [][]string {
	out := make([][]string, 0, len(zones))
	for _, z := range zones {
		out = append(out, z.PullRequests)
	}
	return out
}

func TestGroup_DisjointPRsStaySeparate(t *testing.T) {
	zones := Group([]PullRequest{
		{ID: "pr-1", Affected: affected("a", "b")},
		{ID: "pr-2", Affected: affected("c")},
	})

	want := [][]string{{"pr-1"}, {"pr-2"}}
	if !reflect.DeepEqual(prIDs(zones), want) {
		t.Errorf("zones = %v, want %v", prIDs(zones), want)
	}
}

func TestGroup_OverlappingPRsMerge(t *testing.T) {
	zones := Group([]PullRequest{
		{ID: "pr-1", Affected: affected("a", "b")},
		{ID: "pr-2", Affected: affected("b", "c")},
	})

	if len(zones) != 1 {
		t.Fatalf("got %d zones, want 1", len(zones))
	}
	if !reflect.DeepEqual(zones[0].PullRequests, []string{"pr-1", "pr-2"}) {
		t.Errorf("PullRequests = %v", zones[0].PullRequests)
	}
	if !reflect.DeepEqual(zones[0].TargetIDs, []string{"a", "b", "c"}) {
		t.Errorf("TargetIDs = %v", zones[0].TargetIDs)
	}
}

// Transitive overlap: pr-1 and pr-3 share nothing directly but pr-2
// bridges them, so all three serialize together.
func TestGroup_TransitiveOverlap(t *testing.T) {
	zones := Group([]PullRequest{
		{ID: "pr-1", Affected: affected("a")},
		{ID: "pr-2", Affected: affected("a", "b")},
		{ID: "pr-3", Affected: affected("b")},
	})

	if len(zones) != 1 {
		t.Fatalf("got %d zones, want 1", len(zones))
	}
	if !reflect.DeepEqual(zones[0].PullRequests, []string{"pr-1", "pr-2", "pr-3"}) {
		t.Errorf("PullRequests = %v", zones[0].PullRequests)
	}
}

func TestGroup_EmptyAffectedSetOwnZone(t *testing.T) {
	zones := Group([]PullRequest{
		{ID: "pr-1", Affected: affected("a")},
		{ID: "pr-2", Affected: affected()},
		{ID: "pr-3", Affected: nil},
	})

	want := [][]string{{"pr-1"}, {"pr-2"}, {"pr-3"}}
	if !reflect.DeepEqual(prIDs(zones), want) {
		t.Errorf("zones = %v, want %v", prIDs(zones), want)
	}
}

func TestGroup_NoPRs(t *testing.T) {
	if zones := Group(nil); zones != nil {
		t.Errorf("Group(nil) = %v, want nil", zones)
	}
}

func TestGroup_DeterministicAcrossInputOrder(t *testing.T) {
	prs := []PullRequest{
		{ID: "pr-1", Affected: affected("a")},
		{ID: "pr-2", Affected: affected("b")},
		{ID: "pr-3", Affected: affected("a", "c")},
	}
	reversed := []PullRequest{prs[2], prs[1], prs[0]}

	a := Group(prs)
	b := Group(reversed)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("zone output depends on input order:\n%v\n%v", a, b)
	}
}
