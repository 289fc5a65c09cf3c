// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package dag

// Mode discriminates snapshot variants.
type Mode string

const (
	// ModeFullDAG is a complete dependency graph as of a commit.
	// Only full-dag snapshots may be used as the hydration baseline.
	ModeFullDAG Mode = "full-dag"

	// ModeFiltered is a partial graph covering only directly affected
	// targets and their immediate edges.
	ModeFiltered Mode = "filtered"
)

// TargetRef identifies a build unit.
//
// TargetID is opaque and stable across all snapshot versions for the same
// unit. TargetName is the human-readable package name and may change between
// snapshots; it is a display attribute, never a join key.
type TargetRef struct {
	TargetID   string `json:"targetId"`
	TargetName string `json:"targetName,omitempty"`
}

// Target is one node of a snapshot graph.
//
// Dependencies and Dependents are declared independently per snapshot and
// are not guaranteed mutually consistent; Hydrate reconciles them.
type Target struct {
	Target       TargetRef `json:"target"`
	Dependencies []string  `json:"dependencies"`
	Dependents   []string  `json:"dependents"`
}

// Snapshot is one cached per-commit graph.
//
// BaseSHA is set only for filtered snapshots. TargetIDs lists the package
// names the snapshot considers directly affected; it does not necessarily
// cover every target id appearing in Graph.
type Snapshot struct {
	Mode      Mode
	HeadSHA   string
	BaseSHA   string
	TargetIDs []string
	Graph     []Target
}

// IDSet is a set of target ids.
type IDSet map[string]struct{}

// NewIDSet creates a set containing the given ids.
func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	s.Add(ids...)
	return s
}

// Add inserts ids into the set.
func (s IDSet) Add(ids ...string) {
	for _, id := range ids {
		s[id] = struct{}{}
	}
}

// Has reports whether id is in the set.
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of ids in the set.
func (s IDSet) Len() int {
	return len(s)
}

// Values returns the ids in unspecified order.
func (s IDSet) Values() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	return out
}

// HydratedDAG is the merged view produced by Hydrate.
//
// DependentsOf maps a target id to the set of target ids that depend on it
// (reverse-edge adjacency). NameOf maps a target id to its latest known
// display name. IDsByName is the inverse of NameOf and may map one name to
// several ids (multiple tasks per package, or renames across snapshots);
// stale aliases from before a rename are retained on purpose so inputs that
// still reference the old name keep resolving.
type HydratedDAG struct {
	DependentsOf map[string]IDSet
	NameOf       map[string]string
	IDsByName    map[string]IDSet
}

// NewHydratedDAG returns an empty hydrated DAG.
func NewHydratedDAG() *HydratedDAG {
	return &HydratedDAG{
		DependentsOf: make(map[string]IDSet),
		NameOf:       make(map[string]string),
		IDsByName:    make(map[string]IDSet),
	}
}

// TargetCount returns the number of target ids with at least one recorded
// name.
func (d *HydratedDAG) TargetCount() int {
	return len(d.NameOf)
}

// EdgeCount returns the total number of reverse edges.
func (d *HydratedDAG) EdgeCount() int {
	n := 0
	for _, deps := range d.DependentsOf {
		n += deps.Len()
	}
	return n
}
