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

import (
	"errors"
	"fmt"
)

// Sentinel errors for hydration.
var (
	// ErrBaselineMode indicates the baseline snapshot is not a full DAG.
	ErrBaselineMode = errors.New("baseline snapshot must be full-dag")
)

// BaselineModeError reports a baseline snapshot in the wrong mode.
//
// The message names the offending commit and the mode actually observed so
// the caller can identify which cached snapshot was misused.
type BaselineModeError struct {
	Commit string
	Mode   Mode
}

// Error implements the error interface.
func (e *BaselineModeError) Error() string {
	return fmt.Sprintf("baseline snapshot for commit %q has mode %q, expected %q",
		e.Commit, e.Mode, ModeFullDAG)
}

// Unwrap returns the sentinel error.
func (e *BaselineModeError) Unwrap() error {
	return ErrBaselineMode
}
