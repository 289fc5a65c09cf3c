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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/zonegraph/cmd/zonegraph/internal/dag"
)

const validFullDAG = `{
	"version": 1,
	"mode": "full-dag",
	"headSha": "abc123",
	"targetIds": ["utils"],
	"graph": [
		{
			"target": {"targetId": "t-utils", "targetName": "utils"},
			"dependencies": [],
			"dependents": ["t-frontend"]
		}
	]
}`

func TestDecode_ValidFullDAG(t *testing.T) {
	snap, err := Decode([]byte(validFullDAG), "abc123")
	require.NoError(t, err)

	assert.Equal(t, dag.ModeFullDAG, snap.Mode)
	assert.Equal(t, "abc123", snap.HeadSHA)
	assert.Empty(t, snap.BaseSHA)
	require.Len(t, snap.Graph, 1)
	assert.Equal(t, "t-utils", snap.Graph[0].Target.TargetID)
	assert.Equal(t, []string{"t-frontend"}, snap.Graph[0].Dependents)
}

func TestDecode_FilteredRequiresBaseSha(t *testing.T) {
	raw := `{
		"version": 1,
		"mode": "filtered",
		"headSha": "head1",
		"targetIds": ["pkg-a"],
		"graph": []
	}`

	_, err := Decode([]byte(raw), "head1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSnapshot)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "head1", verr.Commit)
	assert.Contains(t, err.Error(), "baseSha")
}

func TestDecode_FullDAGRejectsBaseSha(t *testing.T) {
	raw := `{
		"version": 1,
		"mode": "full-dag",
		"headSha": "head1",
		"baseSha": "base1",
		"targetIds": [],
		"graph": []
	}`

	_, err := Decode([]byte(raw), "head1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "baseSha")
}

func TestDecode_UnknownMode(t *testing.T) {
	raw := `{"version": 1, "mode": "incremental", "headSha": "x", "targetIds": [], "graph": []}`

	_, err := Decode([]byte(raw), "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSnapshot)
}

func TestDecode_MalformedJSON(t *testing.T) {
	_, err := Decode([]byte("{not json"), "sha1")
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "sha1", verr.Commit)
}

func TestDecode_NewerVersionRejected(t *testing.T) {
	raw := `{"version": 99, "mode": "full-dag", "headSha": "x", "targetIds": [], "graph": []}`

	_, err := Decode([]byte(raw), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "version")
}

func TestDecode_MissingTargetID(t *testing.T) {
	raw := `{
		"version": 1,
		"mode": "full-dag",
		"headSha": "x",
		"targetIds": [],
		"graph": [{"target": {"targetName": "orphan"}, "dependencies": [], "dependents": []}]
	}`

	_, err := Decode([]byte(raw), "x")
	require.Error(t, err)
}

func TestEncode_RoundTripsThroughDecode(t *testing.T) {
	snap := dag.Snapshot{
		Mode:      dag.ModeFiltered,
		HeadSHA:   "head1",
		BaseSHA:   "base1",
		TargetIDs: []string{"pkg-a"},
		Graph: []dag.Target{
			{Target: dag.TargetRef{TargetID: "t1", TargetName: "pkg-a"},
				Dependencies: []string{"t0"}},
		},
	}

	raw, err := Encode(snap)
	require.NoError(t, err)

	decoded, err := Decode(raw, "head1")
	require.NoError(t, err)
	assert.Equal(t, snap.Mode, decoded.Mode)
	assert.Equal(t, snap.BaseSHA, decoded.BaseSHA)
	require.Len(t, decoded.Graph, 1)
	assert.Equal(t, "pkg-a", decoded.Graph[0].Target.TargetName)
}

func TestValidationError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &ValidationError{Commit: "sha1", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrInvalidSnapshot)
	assert.Contains(t, err.Error(), "sha1")
}
