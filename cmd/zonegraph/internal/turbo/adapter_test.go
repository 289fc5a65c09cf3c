// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package turbo

import (
	"reflect"
	"testing"

	"github.com/AleutianAI/zonegraph/cmd/zonegraph/internal/dag"
)

func TestFromTask(t *testing.T) {
	task := Task{
		TaskID:       "web#build",
		Task:         "build",
		Package:      "web",
		Dependencies: []string{"ui#build", "utils#build"},
		Dependents:   []string{"web#deploy"},
	}

	got := FromTask(task)

	if got.Target.TargetID != "web#build" {
		t.Errorf("TargetID = %q, want %q", got.Target.TargetID, "web#build")
	}
	if got.Target.TargetName != "web" {
		t.Errorf("TargetName = %q, want %q", got.Target.TargetName, "web")
	}
	if !reflect.DeepEqual(got.Dependencies, []string{"ui#build", "utils#build"}) {
		t.Errorf("Dependencies = %v", got.Dependencies)
	}
	if !reflect.DeepEqual(got.Dependents, []string{"web#deploy"}) {
		t.Errorf("Dependents = %v", got.Dependents)
	}
}

func TestFromTask_EmptyPackage(t *testing.T) {
	got := FromTask(Task{TaskID: "anon#lint", Task: "lint"})
	if got.Target.TargetName != "" {
		t.Errorf("TargetName = %q, want empty", got.Target.TargetName)
	}
}

func TestFromTasks_PreservesOrder(t *testing.T) {
	tasks := []Task{
		{TaskID: "a#build", Package: "a"},
		{TaskID: "b#build", Package: "b"},
		{TaskID: "c#build", Package: "c"},
	}

	got := FromTasks(tasks)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i, want := range []string{"a#build", "b#build", "c#build"} {
		if got[i].Target.TargetID != want {
			t.Errorf("targets[%d].TargetID = %q, want %q", i, got[i].Target.TargetID, want)
		}
	}
}

func TestFromTasks_Empty(t *testing.T) {
	if got := FromTasks(nil); len(got) != 0 {
		t.Errorf("FromTasks(nil) = %v, want empty", got)
	}
}

// Projected tasks must feed hydration directly.
func TestFromTasks_HydratesCleanly(t *testing.T) {
	tasks := []Task{
		{TaskID: "utils#build", Package: "utils", Dependents: []string{"web#build"}},
		{TaskID: "web#build", Package: "web", Dependencies: []string{"utils#build"}},
	}

	baseline := dag.Snapshot{
		Mode:      dag.ModeFullDAG,
		HeadSHA:   "abc",
		TargetIDs: []string{"utils#build", "web#build"},
		Graph:     FromTasks(tasks),
	}

	d, err := dag.Hydrate(baseline, nil)
	if err != nil {
		t.Fatalf("Hydrate: %v", err)
	}
	if !d.DependentsOf["utils#build"].Has("web#build") {
		t.Error("web#build should be a dependent of utils#build")
	}
	if d.NameOf["web#build"] != "web" {
		t.Errorf("NameOf[web#build] = %q, want web", d.NameOf["web#build"])
	}
}
