// SPDX-FileCopyrightText: 2026 The macrun authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageArtifact(t *testing.T) {
	artifactDir := t.TempDir()
	sharedDir := t.TempDir()

	artifact := filepath.Join(artifactDir, "MemTest.bin")
	require.NoError(t, os.WriteFile(artifact, []byte("JOYJOY"), 0o644))

	name, err := stageArtifact(artifact, sharedDir)
	require.NoError(t, err)

	// The guest-visible name has no type-marker extension.
	assert.Equal(t, "MemTest", name)

	staged, err := os.ReadFile(filepath.Join(sharedDir, "MemTest"))
	require.NoError(t, err)
	assert.Equal(t, []byte("JOYJOY"), staged)
}

func TestStageArtifactOverwrites(t *testing.T) {
	artifactDir := t.TempDir()
	sharedDir := t.TempDir()

	artifact := filepath.Join(artifactDir, "MemTest.bin")
	require.NoError(t, os.WriteFile(artifact, []byte("new"), 0o644))

	stale := filepath.Join(sharedDir, "MemTest")
	require.NoError(t, os.WriteFile(stale, []byte("old and longer"), 0o644))

	_, err := stageArtifact(artifact, sharedDir)
	require.NoError(t, err)

	staged, err := os.ReadFile(stale)
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), staged)
}

func TestStageArtifactMissingSource(t *testing.T) {
	_, err := stageArtifact(
		filepath.Join(t.TempDir(), "MemTest.bin"), t.TempDir(),
	)
	require.ErrorIs(t, err, os.ErrNotExist)
}
