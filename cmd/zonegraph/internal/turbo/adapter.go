// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package turbo projects build-tool task records onto the canonical graph
// node shape. It is a field mapping only; all graph semantics live in the
// dag package.
package turbo

import (
	"github.com/AleutianAI/zonegraph/cmd/zonegraph/internal/dag"
)

// Task is one task record as emitted by the build tool's dry-run output.
type Task struct {
	TaskID       string   `json:"taskId"`
	Task         string   `json:"task"`
	Package      string   `json:"package"`
	Dependencies []string `json:"dependencies"`
	Dependents   []string `json:"dependents"`
}

// FromTask projects one task record onto a graph node. The owning package
// becomes the target name; dependency and dependent task ids carry over
// untouched.
func FromTask(t Task) dag.Target {
	return dag.Target{
		Target: dag.TargetRef{
			TargetID:   t.TaskID,
			TargetName: t.Package,
		},
		Dependencies: t.Dependencies,
		Dependents:   t.Dependents,
	}
}

// FromTasks projects a task list onto graph nodes, preserving order.
func FromTasks(tasks []Task) []dag.Target {
	targets := make([]dag.Target, 0, len(tasks))
	for _, t := range tasks {
		targets = append(targets, FromTask(t))
	}
	return targets
}
