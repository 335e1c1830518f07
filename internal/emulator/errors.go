// SPDX-FileCopyrightText: 2026 The macrun authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package emulator

import (
	"errors"
	"fmt"
)

var (
	// ErrDisplayNotUsable is returned if the emulator process is alive and
	// answering but reports a display with no usable size.
	ErrDisplayNotUsable = errors.New("emulator display has no usable size")

	// ErrSocketNotReady is returned if the automation socket did not become
	// responsive within an attempt's wait window.
	ErrSocketNotReady = errors.New("automation socket did not become ready")
)

// BootError is returned if the boot attempt budget is exhausted. It retains
// the last underlying error for reporting.
type BootError struct {
	Attempts int
	Err      error
}

// Error implements the [error] interface.
func (e *BootError) Error() string {
	return fmt.Sprintf("boot failed after %d attempts: %v", e.Attempts, e.Err)
}

// Is implements the [errors.Is] interface.
func (*BootError) Is(other error) bool {
	_, ok := other.(*BootError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *BootError) Unwrap() error {
	return e.Err
}
