// SPDX-FileCopyrightText: 2026 The macrun authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"errors"
	"flag"
	"fmt"
)

var (
	// ErrHelp is returned if help or version output was requested. The
	// main binary is supposed to exit without error in this case.
	ErrHelp = flag.ErrHelp

	// ErrReadBuildInfo is returned if the binary's build information is
	// not available.
	ErrReadBuildInfo = errors.New("failed to read build info")
)

// ParseArgsError wraps errors that occur during argument parsing.
type ParseArgsError struct {
	err error
	msg string
}

func (e *ParseArgsError) Error() string {
	if e.err == nil {
		return e.msg
	}

	return fmt.Sprintf("%s: %v", e.msg, e.err)
}

func (e *ParseArgsError) Is(other error) bool {
	_, ok := other.(*ParseArgsError)
	return ok
}

func (e *ParseArgsError) Unwrap() error {
	return e.err
}
