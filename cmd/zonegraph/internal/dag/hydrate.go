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

// Hydrate merges a full baseline graph with incremental snapshots.
//
// # Description
//
// Folds the baseline first, then each element of additional in sequence
// order. For every node the display name is (re)written, so the most
// recently processed snapshot's name wins; this is how package renames
// propagate. Declared dependents are unioned into the reverse-edge table,
// and for every declared dependency the reverse edge is synthesized even if
// the dependency's own node never lists this dependent. Filtered snapshots
// typically only declare dependencies for the directly affected node, so
// the synthesis is what keeps ancestors connected.
//
// # Inputs
//
//   - baseline: The full-dag snapshot to start from. Must carry ModeFullDAG.
//   - additional: Ordered incremental snapshots, any mode. May be empty.
//
// # Outputs
//
//   - *HydratedDAG: The merged adjacency and name tables.
//   - error: A *BaselineModeError if the baseline is not full-dag. No
//     partial output is produced on error.
//
// # Thread Safety
//
// Pure function; safe for concurrent use with distinct or shared inputs.
func Hydrate(baseline Snapshot, additional []Snapshot) (*HydratedDAG, error) {
	if baseline.Mode != ModeFullDAG {
		return nil, &BaselineModeError{Commit: baseline.HeadSHA, Mode: baseline.Mode}
	}

	d := NewHydratedDAG()
	d.fold(baseline)
	for _, snap := range additional {
		d.fold(snap)
	}
	return d, nil
}

// fold merges one snapshot into the accumulator.
func (d *HydratedDAG) fold(snap Snapshot) {
	for _, node := range snap.Graph {
		id := node.Target.TargetID

		// Later snapshots overwrite the name; the stale alias under the
		// old name is kept so it still resolves to this id.
		name := node.Target.TargetName
		if name == "" {
			name = fallbackName(id)
		}
		d.NameOf[id] = name
		d.addAlias(name, id)

		d.addDependents(id, node.Dependents)
		for _, dep := range node.Dependencies {
			d.addDependents(dep, []string{id})
		}
	}
}

// addDependents unions ids into the dependent set of target, initializing
// the set on first touch.
func (d *HydratedDAG) addDependents(target string, ids []string) {
	set, ok := d.DependentsOf[target]
	if !ok {
		set = make(IDSet, len(ids))
		d.DependentsOf[target] = set
	}
	set.Add(ids...)
}

// addAlias records name -> id in the inverse name table.
func (d *HydratedDAG) addAlias(name, id string) {
	set, ok := d.IDsByName[name]
	if !ok {
		set = make(IDSet, 1)
		d.IDsByName[name] = set
	}
	set.Add(id)
}

// fallbackName renders a visible placeholder for a target that no snapshot
// ever named. The id stays recognizable in output.
func fallbackName(id string) string {
	return "<" + id + ">"
}
