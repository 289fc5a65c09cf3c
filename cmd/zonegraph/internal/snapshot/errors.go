// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package snapshot

import (
	"errors"
	"fmt"
)

// ErrInvalidSnapshot is the sentinel for any snapshot validation failure.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

// ValidationError reports a snapshot that failed schema validation,
// carrying the original error detail and the commit it was fetched for.
type ValidationError struct {
	Commit string
	Err    error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("snapshot for commit %q failed validation: %v", e.Commit, e.Err)
}

// Unwrap returns the underlying cause and matches ErrInvalidSnapshot.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match the sentinel without losing the cause chain.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidSnapshot
}
