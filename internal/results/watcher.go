// SPDX-FileCopyrightText: 2026 The macrun authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package results

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"
)

// DefaultPollInterval paces the result file polls.
const DefaultPollInterval = time.Second

// TimeoutError is returned if no complete result log appeared within the
// watch window.
type TimeoutError struct {
	Path    string
	Elapsed time.Duration
}

// Error implements the [error] interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("no results at %s after %s",
		e.Path, e.Elapsed.Round(time.Millisecond))
}

// Is implements the [errors.Is] interface.
func (*TimeoutError) Is(other error) bool {
	_, ok := other.(*TimeoutError)
	return ok
}

// Watcher polls a path on the shared filesystem for a completed result log.
type Watcher struct {
	// Path of the result log on the host side of the shared volume.
	Path string

	// PollInterval paces the polls.
	PollInterval time.Duration

	// Timeout is the wall-clock watch window, computed once on entry.
	Timeout time.Duration
}

// Wait blocks until the result log exists, contains the summary marker and
// parses, or the watch window elapses.
//
// The guest writes the log incrementally; a file that exists but lacks the
// summary marker is treated the same as a missing file.
func (w *Watcher) Wait(ctx context.Context) (*ResultSet, error) {
	start := time.Now()
	deadline := start.Add(w.Timeout)

	slog.Debug("Waiting for results",
		slog.String("path", w.Path),
		slog.Duration("timeout", w.Timeout))

	for {
		data, err := os.ReadFile(w.Path)
		if err == nil && bytes.Contains(data, []byte(summaryMarker)) {
			return Parse(bytes.NewReader(data))
		}

		if !time.Now().Before(deadline) {
			return nil, &TimeoutError{
				Path:    w.Path,
				Elapsed: time.Since(start),
			}
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(w.PollInterval):
		}
	}
}
