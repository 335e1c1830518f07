// SPDX-FileCopyrightText: 2026 The macrun authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package remote

import "context"

// Automation is the full automation surface implemented by [Client].
//
// Consumers that drive the emulator accept this interface so tests can
// substitute a scripted fake for the real protocol connection.
type Automation interface {
	Ping(ctx context.Context) (bool, error)
	ScreenSize(ctx context.Context) (ScreenSize, error)
	Screenshot(ctx context.Context) (*Screenshot, error)
	TypeText(ctx context.Context, text string) error
	MouseMove(ctx context.Context, x, y int) error
	Click(ctx context.Context, x, y int, button MouseButton) error
	DoubleClick(ctx context.Context, x, y int, button MouseButton) error
	MouseDown(ctx context.Context, button MouseButton) error
	MouseUp(ctx context.Context, button MouseButton) error
	KeyDown(ctx context.Context, code KeyCode) error
	KeyUp(ctx context.Context, code KeyCode) error
	PressKey(ctx context.Context, code KeyCode) error
	Chord(ctx context.Context, key KeyCode, modifiers ...KeyCode) error
	WaitMs(ctx context.Context, ms int) error
	Close() error
}

var _ Automation = (*Client)(nil)
