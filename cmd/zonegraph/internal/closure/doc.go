// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package closure computes the transitive set of packages affected by a set
// of directly changed package names.
//
// Traversal follows the "is depended on by" direction over a hydrated DAG:
// seeding with a package yields that package plus everything that
// transitively depends on it. Names absent from the DAG pass through as
// synthetic results so newly introduced packages are never silently excluded
// from the affected set.
package closure
