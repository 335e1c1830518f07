// SPDX-FileCopyrightText: 2026 The macrun authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package harness

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
)

// Builder is the boundary to the external build toolchain: build a target,
// report success or failure, locate the produced artifact.
type Builder interface {
	// Build builds the target and returns the artifact path.
	Build(ctx context.Context, target Target) (string, error)

	// Locate returns the artifact path of a previously built target.
	Locate(target Target) (string, error)
}

// CommandBuilder invokes an external build command with the target's build
// identifier appended as last argument, expecting the artifact in
// ArtifactDir afterwards.
type CommandBuilder struct {
	Command     []string
	ArtifactDir string
}

var _ Builder = (*CommandBuilder)(nil)

// Build implements [Builder]. A failed command is a [BuildError] retaining
// the combined build output.
func (b *CommandBuilder) Build(
	ctx context.Context,
	target Target,
) (string, error) {
	if len(b.Command) == 0 {
		return "", &BuildError{
			Target: target.Name,
			Err:    errors.New("no build command configured"),
		}
	}

	args := append(b.Command[1:len(b.Command):len(b.Command)], target.Build)

	slog.Debug("Building target",
		slog.String("target", target.Name),
		slog.String("command", b.Command[0]),
		slog.Any("args", args))

	cmd := exec.CommandContext(ctx, b.Command[0], args...)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", &BuildError{
			Target: target.Name,
			Output: string(output),
			Err:    err,
		}
	}

	return b.Locate(target)
}

// Locate implements [Builder].
func (b *CommandBuilder) Locate(target Target) (string, error) {
	artifact := filepath.Join(b.ArtifactDir, target.Binary)

	_, err := os.Stat(artifact)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrArtifactNotFound, artifact)
	}

	if err != nil {
		return "", fmt.Errorf("locate artifact: %w", err)
	}

	return artifact, nil
}
