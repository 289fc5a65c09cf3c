// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package dag hydrates cached per-commit dependency snapshots into a single
// merged adjacency structure.
//
// A hydration folds one trusted full-DAG baseline plus an ordered sequence of
// partial ("filtered") snapshots into three lookup tables: reverse-edge
// adjacency keyed by target id, target id to display name, and display name
// back to target ids. Target ids are the only stable join key across
// snapshots; names may change between snapshots (package renames) and the
// most recently folded snapshot wins.
//
// Edges only ever accumulate: folding more snapshots can add dependents to a
// target but never remove them, regardless of how a later snapshot
// re-describes a node. This keeps hydration order-independent on edges and
// order-dependent only on name resolution.
//
// Hydration is a pure function of its inputs. Every call allocates fresh
// maps, so concurrent callers need no coordination.
package dag
