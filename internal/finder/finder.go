// SPDX-FileCopyrightText: 2026 The macrun authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package finder launches applications on the guest desktop using only
// keyboard and mouse primitives.
//
// The automation protocol has no "run program" verb and the guest OS offers
// no remote exec, so the only way to start a test program is to drive the
// guest's file manager: select the shared volume by type-ahead, open it,
// select the application by type-ahead, open it.
//
// The sequence is inherently timing fragile. There is no acknowledgement
// that a type-ahead selection succeeded before the open chord is sent, and
// the guest offers no selection-changed event to wait for. The settle
// delays between steps accommodate the guest UI's redraw and focus latency;
// an occasional failed launch is part of the observed contract and is not
// retried here.
package finder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/macrun/macrun/internal/remote"
)

// Virtual key codes of the guest keyboard layout used for the Finder
// chords.
const (
	keyCommand remote.KeyCode = 0x37
	keyOption  remote.KeyCode = 0x3a
	keyW       remote.KeyCode = 0x0d
	keyO       remote.KeyCode = 0x1f
)

// DefaultSettle paces the navigation steps. Guest UI redraw on an emulated
// machine of this vintage is slow.
const DefaultSettle = 500 * time.Millisecond

// Default desktop coordinate clicked to give the file manager input focus.
// An empty desktop area on the smallest supported display (512x342).
const (
	defaultFocusX = 300
	defaultFocusY = 250
)

// Client is the automation surface the navigator drives.
type Client interface {
	Click(ctx context.Context, x, y int, button remote.MouseButton) error
	TypeText(ctx context.Context, text string) error
	Chord(ctx context.Context, key remote.KeyCode,
		modifiers ...remote.KeyCode) error
	WaitMs(ctx context.Context, ms int) error
}

// Navigator drives the guest file manager to locate and open applications
// by name.
type Navigator struct {
	// Client is the live automation connection.
	Client Client

	// Volume is the shared volume's name on the guest desktop.
	Volume string

	// Settle is the delay between navigation steps.
	Settle time.Duration

	// FocusX, FocusY is the desktop coordinate clicked to focus the file
	// manager.
	FocusX int
	FocusY int
}

// New creates a [Navigator] with default settle timing and focus
// coordinates.
func New(client Client, volume string) *Navigator {
	return &Navigator{
		Client: client,
		Volume: volume,
		Settle: DefaultSettle,
		FocusX: defaultFocusX,
		FocusY: defaultFocusY,
	}
}

// OpenApplication locates the named application on the shared volume and
// launches it, leaving a clean desktop state for the next launch.
func (n *Navigator) OpenApplication(ctx context.Context, name string) error {
	slog.Info("Launching guest application",
		slog.String("volume", n.Volume),
		slog.String("application", name))

	steps := []struct {
		desc string
		run  func(context.Context) error
	}{
		{"close all windows", n.closeAllWindows},
		{"focus desktop", n.focusDesktop},
		{"open volume", n.openByName(n.Volume)},
		{"open application", n.openByName(name)},
		{"close folder window", n.closeWindow},
	}

	for _, step := range steps {
		err := step.run(ctx)
		if err != nil {
			return fmt.Errorf("%s: %w", step.desc, err)
		}

		if err := n.settle(ctx); err != nil {
			return err
		}
	}

	return nil
}

// closeAllWindows leaves only the desktop visible.
func (n *Navigator) closeAllWindows(ctx context.Context) error {
	return n.Client.Chord(ctx, keyW, keyCommand, keyOption)
}

// focusDesktop clicks a fixed desktop coordinate so the file manager has
// input focus and type-ahead goes to it.
func (n *Navigator) focusDesktop(ctx context.Context) error {
	return n.Client.Click(ctx, n.FocusX, n.FocusY, remote.ButtonPrimary)
}

// openByName selects an item by type-ahead and issues the open chord. There
// is no confirmation that the selection landed; see the package comment.
func (n *Navigator) openByName(name string) func(context.Context) error {
	return func(ctx context.Context) error {
		err := n.Client.TypeText(ctx, name)
		if err != nil {
			return err
		}

		if err := n.settle(ctx); err != nil {
			return err
		}

		return n.Client.Chord(ctx, keyO, keyCommand)
	}
}

func (n *Navigator) closeWindow(ctx context.Context) error {
	return n.Client.Chord(ctx, keyW, keyCommand)
}

// settle asks the remote side to pace itself, keeping automation aligned
// with the guest event queue instead of sleeping locally.
func (n *Navigator) settle(ctx context.Context) error {
	return n.Client.WaitMs(ctx, int(n.Settle.Milliseconds()))
}
