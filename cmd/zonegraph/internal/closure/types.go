// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package closure

import "sort"

// ComputedTarget is one element of an affected set.
//
// Two computed targets are equal iff their IDs are equal; Name is the
// best-known display name at computation time and is informational only.
type ComputedTarget struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AffectedSet is a set of computed targets deduplicated by ID.
type AffectedSet struct {
	byID map[string]ComputedTarget
}

// NewAffectedSet returns an empty affected set.
func NewAffectedSet() *AffectedSet {
	return &AffectedSet{byID: make(map[string]ComputedTarget)}
}

// Add inserts a target, keyed by ID. A later insert with the same ID
// replaces the stored name.
func (s *AffectedSet) Add(t ComputedTarget) {
	s.byID[t.ID] = t
}

// Has reports whether a target with the given ID is in the set.
func (s *AffectedSet) Has(id string) bool {
	_, ok := s.byID[id]
	return ok
}

// Len returns the number of distinct target ids in the set.
func (s *AffectedSet) Len() int {
	return len(s.byID)
}

// Targets returns the members sorted by ID for stable output.
func (s *AffectedSet) Targets() []ComputedTarget {
	out := make([]ComputedTarget, 0, len(s.byID))
	for _, t := range s.byID {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Names returns the sorted, deduplicated display names of the members.
func (s *AffectedSet) Names() []string {
	seen := make(map[string]struct{}, len(s.byID))
	out := make([]string, 0, len(s.byID))
	for _, t := range s.byID {
		if _, ok := seen[t.Name]; ok {
			continue
		}
		seen[t.Name] = struct{}{}
		out = append(out, t.Name)
	}
	sort.Strings(out)
	return out
}
