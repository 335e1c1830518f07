// SPDX-FileCopyrightText: 2026 The macrun authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package harness

import (
	"errors"
	"fmt"
)

var (
	// ErrArtifactNotFound is returned if a build reported success but the
	// expected artifact is not at the expected path.
	ErrArtifactNotFound = errors.New("build artifact not found")

	// ErrNoTargets is returned if a run has no targets to execute.
	ErrNoTargets = errors.New("no targets selected")

	// ErrUnknownTarget is returned if a selected target name is not
	// configured.
	ErrUnknownTarget = errors.New("unknown target")
)

// BuildError wraps a failed invocation of the external build collaborator.
// It retains the build output for reporting.
type BuildError struct {
	Target string
	Output string
	Err    error
}

// Error implements the [error] interface.
func (e *BuildError) Error() string {
	return fmt.Sprintf("build %s: %v", e.Target, e.Err)
}

// Is implements the [errors.Is] interface.
func (*BuildError) Is(other error) bool {
	_, ok := other.(*BuildError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *BuildError) Unwrap() error {
	return e.Err
}
