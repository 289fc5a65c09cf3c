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

import (
	"github.com/AleutianAI/zonegraph/cmd/zonegraph/internal/dag"
)

// Result carries the affected set plus traversal diagnostics.
type Result struct {
	// Affected is the deduplicated set of impacted targets.
	Affected *AffectedSet

	// Unresolved lists input names that matched nothing in the DAG. Each
	// such name is also present in Affected as a synthetic target.
	Unresolved []string

	// UnnamedDropped counts targets that were reached by traversal but
	// excluded from Affected because no snapshot ever named them. Reachable
	// and reported-as-affected are not always equivalent; this makes the
	// gap observable without changing the result set.
	UnnamedDropped int
}

// ComputeAffected returns the transitive dependent closure of the named
// packages.
//
// # Description
//
// Resolves each input name through the DAG's name table (one name may seed
// several target ids), then walks the reverse-edge adjacency breadth-first
// from all seeds at once. Every reachable id is visited exactly once no
// matter how many paths lead to it, so cyclic edge data terminates. A name
// with no match in the DAG produces a synthetic {id: name, name: name}
// entry instead of an error: a newly introduced package is never silently
// excluded, at the cost of not discovering dependents it cannot have yet.
//
// # Inputs
//
//   - seedNames: Directly changed package names. May be empty, contain
//     duplicates, or reference names absent from the DAG.
//   - d: The hydrated DAG. Must not be nil.
//
// # Outputs
//
//   - *AffectedSet: The affected targets, deduplicated by id. Never nil.
//
// # Thread Safety
//
// Pure function over its inputs; safe for concurrent use.
func ComputeAffected(seedNames []string, d *dag.HydratedDAG) *AffectedSet {
	return Compute(seedNames, d).Affected
}

// Compute is ComputeAffected plus diagnostics about unresolved seeds and
// reachable-but-unnamed targets.
func Compute(seedNames []string, d *dag.HydratedDAG) *Result {
	result := &Result{Affected: NewAffectedSet()}

	var queue []string
	seeded := make(map[string]struct{}, len(seedNames))
	for _, name := range seedNames {
		ids, ok := d.IDsByName[name]
		if !ok {
			result.Unresolved = append(result.Unresolved, name)
			// Pass the unknown package through untraversed.
			result.Affected.Add(ComputedTarget{ID: name, Name: name})
			continue
		}
		for _, id := range ids.Values() {
			if _, dup := seeded[id]; dup {
				continue
			}
			seeded[id] = struct{}{}
			queue = append(queue, id)
		}
	}

	visited := make(map[string]bool, len(queue))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		if visited[id] {
			continue
		}
		visited[id] = true

		name, named := d.NameOf[id]
		if named {
			result.Affected.Add(ComputedTarget{ID: id, Name: name})
		} else {
			result.UnnamedDropped++
		}

		for dep := range d.DependentsOf[id] {
			if !visited[dep] {
				queue = append(queue, dep)
			}
		}
	}

	return result
}
