// SPDX-FileCopyrightText: 2026 The macrun authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package harness

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// typeMarkerExt is the host-side artifact extension. The guest OS resolves
// applications by file type, not extension, and the Finder shows the name
// verbatim, so the extension is stripped when staging.
const typeMarkerExt = ".bin"

// stageArtifact copies a built artifact into the shared directory under its
// guest-visible name and returns that name.
func stageArtifact(artifact, sharedDir string) (string, error) {
	name := strings.TrimSuffix(filepath.Base(artifact), typeMarkerExt)
	destination := filepath.Join(sharedDir, name)

	src, err := os.Open(artifact)
	if err != nil {
		return "", fmt.Errorf("open artifact: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(destination)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", destination, err)
	}

	_, err = io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}

	if err != nil {
		return "", fmt.Errorf("copy to %s: %w", destination, err)
	}

	slog.Debug("Staged artifact",
		slog.String("artifact", artifact),
		slog.String("staged", destination))

	return name, nil
}
