// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package snapshot decodes and validates the persisted per-commit snapshot
// wire format and converts it to the canonical in-memory shape consumed by
// hydration.
package snapshot

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/AleutianAI/zonegraph/cmd/zonegraph/internal/dag"
)

// SchemaVersion is the wire format version this build reads and writes.
const SchemaVersion = 1

// CachedBuildTargets is the persisted snapshot wire shape.
//
// BaseSha is required iff Mode is "filtered"; the tag language cannot
// express that, so Decode enforces it after struct validation.
type CachedBuildTargets struct {
	Version   int          `json:"version" validate:"required,min=1"`
	Mode      string       `json:"mode" validate:"required,oneof=full-dag filtered"`
	HeadSha   string       `json:"headSha" validate:"required"`
	BaseSha   string       `json:"baseSha,omitempty"`
	TargetIDs []string     `json:"targetIds" validate:"required"`
	Graph     []WireTarget `json:"graph" validate:"required,dive"`
}

// WireTarget is one graph node on the wire.
type WireTarget struct {
	Target       WireTargetRef `json:"target" validate:"required"`
	Dependencies []string      `json:"dependencies"`
	Dependents   []string      `json:"dependents"`
}

// WireTargetRef is the on-wire target identity.
type WireTargetRef struct {
	TargetID   string `json:"targetId" validate:"required"`
	TargetName string `json:"targetName,omitempty"`
}

// snapshotValidate is the shared validator instance for wire shapes.
var snapshotValidate = validator.New()

// Decode parses raw snapshot bytes and returns the canonical snapshot.
//
// # Description
//
// Unmarshals the JSON wire shape, runs structural validation, then applies
// the mode-specific rules: filtered snapshots must carry baseSha, full-dag
// snapshots must not. Any failure is wrapped in a *ValidationError carrying
// the commit identifier so batch-level reporting can name the offender.
//
// # Inputs
//
//   - raw: The snapshot bytes as fetched from the store.
//   - commit: The commit sha the bytes were fetched for, used in errors.
//
// # Outputs
//
//   - dag.Snapshot: The validated canonical snapshot.
//   - error: A *ValidationError describing what failed.
func Decode(raw []byte, commit string) (dag.Snapshot, error) {
	var wire CachedBuildTargets
	if err := json.Unmarshal(raw, &wire); err != nil {
		return dag.Snapshot{}, &ValidationError{Commit: commit, Err: fmt.Errorf("unmarshal snapshot: %w", err)}
	}

	if err := snapshotValidate.Struct(&wire); err != nil {
		return dag.Snapshot{}, &ValidationError{Commit: commit, Err: err}
	}
	if wire.Version > SchemaVersion {
		return dag.Snapshot{}, &ValidationError{Commit: commit,
			Err: fmt.Errorf("snapshot version %d is newer than supported version %d", wire.Version, SchemaVersion)}
	}
	if wire.Mode == string(dag.ModeFiltered) && wire.BaseSha == "" {
		return dag.Snapshot{}, &ValidationError{Commit: commit,
			Err: fmt.Errorf("filtered snapshot is missing baseSha")}
	}
	if wire.Mode == string(dag.ModeFullDAG) && wire.BaseSha != "" {
		return dag.Snapshot{}, &ValidationError{Commit: commit,
			Err: fmt.Errorf("full-dag snapshot must not carry baseSha %q", wire.BaseSha)}
	}

	return toCanonical(wire), nil
}

// Encode serializes a canonical snapshot back to the wire shape.
func Encode(snap dag.Snapshot) ([]byte, error) {
	wire := CachedBuildTargets{
		Version:   SchemaVersion,
		Mode:      string(snap.Mode),
		HeadSha:   snap.HeadSHA,
		BaseSha:   snap.BaseSHA,
		TargetIDs: snap.TargetIDs,
		Graph:     make([]WireTarget, 0, len(snap.Graph)),
	}
	if wire.TargetIDs == nil {
		wire.TargetIDs = []string{}
	}
	for _, node := range snap.Graph {
		wire.Graph = append(wire.Graph, WireTarget{
			Target: WireTargetRef{
				TargetID:   node.Target.TargetID,
				TargetName: node.Target.TargetName,
			},
			Dependencies: node.Dependencies,
			Dependents:   node.Dependents,
		})
	}
	return json.Marshal(wire)
}

// toCanonical projects the wire shape onto the hydration input type.
func toCanonical(wire CachedBuildTargets) dag.Snapshot {
	snap := dag.Snapshot{
		Mode:      dag.Mode(wire.Mode),
		HeadSHA:   wire.HeadSha,
		BaseSHA:   wire.BaseSha,
		TargetIDs: wire.TargetIDs,
		Graph:     make([]dag.Target, 0, len(wire.Graph)),
	}
	for _, node := range wire.Graph {
		snap.Graph = append(snap.Graph, dag.Target{
			Target: dag.TargetRef{
				TargetID:   node.Target.TargetID,
				TargetName: node.Target.TargetName,
			},
			Dependencies: node.Dependencies,
			Dependents:   node.Dependents,
		})
	}
	return snap
}
