// SPDX-FileCopyrightText: 2026 The macrun authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package harness_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/macrun/macrun/internal/harness"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandBuilderBuild(t *testing.T) {
	artifactDir := t.TempDir()
	artifact := filepath.Join(artifactDir, "MemTest.bin")

	target := harness.Target{
		Name:       "memtest",
		Build:      "memtest",
		Binary:     "MemTest.bin",
		ResultFile: "memtest-results.txt",
	}

	builder := &harness.CommandBuilder{
		// The build identifier is appended as last argument and lands in
		// $0, which the script ignores.
		Command:     []string{"/bin/sh", "-c", "touch " + artifact},
		ArtifactDir: artifactDir,
	}

	path, err := builder.Build(context.Background(), target)
	require.NoError(t, err)

	assert.Equal(t, artifact, path)
	assert.FileExists(t, path)
}

func TestCommandBuilderBuildFailure(t *testing.T) {
	target := harness.Target{
		Name:       "memtest",
		Build:      "memtest",
		Binary:     "MemTest.bin",
		ResultFile: "memtest-results.txt",
	}

	builder := &harness.CommandBuilder{
		Command:     []string{"/bin/sh", "-c", "echo 'ld: boom' >&2; exit 1"},
		ArtifactDir: t.TempDir(),
	}

	_, err := builder.Build(context.Background(), target)
	require.ErrorIs(t, err, &harness.BuildError{})

	var buildErr *harness.BuildError

	require.ErrorAs(t, err, &buildErr)
	assert.Equal(t, "memtest", buildErr.Target)
	// The combined output is retained for reporting.
	assert.Contains(t, buildErr.Output, "ld: boom")
}

func TestCommandBuilderBuildNoCommand(t *testing.T) {
	builder := &harness.CommandBuilder{ArtifactDir: t.TempDir()}

	_, err := builder.Build(context.Background(), harness.Target{Name: "memtest"})
	require.ErrorIs(t, err, &harness.BuildError{})
}

func TestCommandBuilderBuildMissingArtifact(t *testing.T) {
	builder := &harness.CommandBuilder{
		Command:     []string{"true"},
		ArtifactDir: t.TempDir(),
	}

	target := harness.Target{
		Name:       "memtest",
		Build:      "memtest",
		Binary:     "MemTest.bin",
		ResultFile: "memtest-results.txt",
	}

	// The command succeeds but leaves no artifact behind.
	_, err := builder.Build(context.Background(), target)
	require.ErrorIs(t, err, harness.ErrArtifactNotFound)
}

func TestCommandBuilderLocate(t *testing.T) {
	artifactDir := t.TempDir()
	artifact := filepath.Join(artifactDir, "FSTest.bin")

	require.NoError(t, os.WriteFile(artifact, []byte("artifact"), 0o644))

	builder := &harness.CommandBuilder{ArtifactDir: artifactDir}

	path, err := builder.Locate(harness.Target{Name: "fstest", Binary: "FSTest.bin"})
	require.NoError(t, err)
	assert.Equal(t, artifact, path)

	_, err = builder.Locate(harness.Target{Name: "other", Binary: "Other.bin"})
	require.ErrorIs(t, err, harness.ErrArtifactNotFound)
}
