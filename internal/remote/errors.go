// SPDX-FileCopyrightText: 2026 The macrun authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package remote

import (
	"errors"
	"fmt"
)

var (
	// ErrShortReply is returned if a reply carries fewer values than the
	// invoked method requires.
	ErrShortReply = errors.New("reply carries too few values")

	// ErrConnClosed is returned if a call is issued on a closed connection.
	ErrConnClosed = errors.New("connection is closed")
)

// ConnectionError indicates a socket level failure: the socket path does not
// exist, the connection was refused or the peer closed it.
//
// While the emulator is still booting this is expected and retryable. After a
// connection has been verified it is fatal to the current operation.
type ConnectionError struct {
	Path string
	Err  error
}

// Error implements the [error] interface.
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connect %s: %v", e.Path, e.Err)
}

// Is implements the [errors.Is] interface.
func (*ConnectionError) Is(other error) bool {
	_, ok := other.(*ConnectionError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// TransportError indicates a short read or write on an otherwise open
// socket. It is terminal for the call it occurred in.
type TransportError struct {
	Op  string
	Err error
}

// Error implements the [error] interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Op, e.Err)
}

// Is implements the [errors.Is] interface.
func (*TransportError) Is(other error) bool {
	_, ok := other.(*TransportError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// ProtocolError indicates an unexpected sentinel or tag, or a malformed
// reply shape. It points at a version or assumption mismatch between client
// and server and must never be silently retried.
type ProtocolError struct {
	msg string
}

// Error implements the [error] interface.
func (e *ProtocolError) Error() string {
	return "protocol: " + e.msg
}

// Is implements the [errors.Is] interface.
func (*ProtocolError) Is(other error) bool {
	_, ok := other.(*ProtocolError)
	return ok
}

func protocolErrorf(format string, args ...any) *ProtocolError {
	return &ProtocolError{msg: fmt.Sprintf(format, args...)}
}
