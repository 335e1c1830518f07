// SPDX-FileCopyrightText: 2026 The macrun authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package emulator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/macrun/macrun/internal/remote"
)

// Default timings of the boot state machine.
const (
	DefaultAttempts     = 3
	DefaultSocketWait   = 30 * time.Second
	DefaultPollInterval = time.Second
	DefaultSettleDelay  = 15 * time.Second
	DefaultCooldown     = 2 * time.Second
)

// DialFunc connects to the automation socket at the given path.
type DialFunc func(path string) (remote.Automation, error)

// Booter brings the emulator into a usable state.
//
// Each attempt runs the fixed sequence: clear stale socket and processes,
// launch, poll the socket until ping answers, verify the display, settle.
// Any failure kills the launched process and starts the next attempt after
// a short cooldown, up to the attempt budget.
type Booter struct {
	// Supervisor owns the emulator process lifecycle.
	Supervisor ProcessSupervisor

	// Dial connects to the automation socket.
	Dial DialFunc

	// SocketPath is the well-known automation socket path. It is removed
	// before each launch to avoid stale-bind errors.
	SocketPath string

	// Attempts is the launch attempt budget.
	Attempts int

	// SocketWait is the per-attempt window for the socket to answer.
	SocketWait time.Duration

	// PollInterval paces connect attempts within the wait window.
	PollInterval time.Duration

	// SettleDelay is slept after verification. The emulator accepts
	// connections before the guest OS has finished booting.
	SettleDelay time.Duration

	// Cooldown is slept between failed attempts.
	Cooldown time.Duration

	// proc is the emulator process of the last successful Boot. Attach
	// leaves it nil, an attached emulator is not ours to stop.
	proc *Process
}

// NewBooter creates a [Booter] with the default timings and the real
// protocol dialer.
func NewBooter(supervisor ProcessSupervisor, socketPath string) *Booter {
	return &Booter{
		Supervisor: supervisor,
		Dial: func(path string) (remote.Automation, error) {
			client, err := remote.Connect(path)
			if err != nil {
				return nil, err
			}

			return client, nil
		},
		SocketPath:   socketPath,
		Attempts:     DefaultAttempts,
		SocketWait:   DefaultSocketWait,
		PollInterval: DefaultPollInterval,
		SettleDelay:  DefaultSettleDelay,
		Cooldown:     DefaultCooldown,
	}
}

// Boot launches the emulator and returns a verified live connection.
//
// Exhausting the attempt budget returns a [BootError] retaining the last
// underlying error.
func (b *Booter) Boot(ctx context.Context) (remote.Automation, error) {
	var lastErr error

	for attempt := 1; attempt <= b.Attempts; attempt++ {
		slog.Info("Booting emulator",
			slog.Int("attempt", attempt),
			slog.Int("budget", b.Attempts))

		client, proc, err := b.attempt(ctx)
		if err == nil {
			b.proc = proc

			return client, nil
		}

		lastErr = err

		slog.Warn("Boot attempt failed",
			slog.Int("attempt", attempt),
			slog.Any("error", err))

		if ctx.Err() != nil {
			break
		}

		if attempt < b.Attempts {
			if err := sleep(ctx, b.Cooldown); err != nil {
				break
			}
		}
	}

	return nil, &BootError{Attempts: b.Attempts, Err: lastErr}
}

// Attach connects to an already-running emulator's socket, for operators
// who pre-launch it themselves. It skips launching and socket polling but
// still verifies the display.
func (b *Booter) Attach(ctx context.Context) (remote.Automation, error) {
	client, err := b.Dial(b.SocketPath)
	if err != nil {
		return nil, err
	}

	if err := b.verify(ctx, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	return client, nil
}

// Shutdown terminates the emulator process of the last successful [Boot].
// It is a no-op after [Attach] or when nothing was booted.
func (b *Booter) Shutdown() error {
	if b.proc == nil {
		return nil
	}

	err := b.Supervisor.Kill(b.proc)
	b.proc = nil

	return err
}

// attempt runs one full launch cycle. On any failure the launched process
// is terminated before the error is returned.
func (b *Booter) attempt(ctx context.Context) (remote.Automation, *Process, error) {
	err := b.clearStale(ctx)
	if err != nil {
		return nil, nil, err
	}

	proc, err := b.Supervisor.Launch(ctx)
	if err != nil {
		return nil, nil, err
	}

	client, err := b.waitForSocket(ctx)
	if err != nil {
		_ = b.Supervisor.Kill(proc)
		return nil, nil, err
	}

	if err := b.verify(ctx, client); err != nil {
		_ = client.Close()
		_ = b.Supervisor.Kill(proc)

		return nil, nil, err
	}

	// The guest OS keeps booting after the socket is up. Give it time to
	// reach the desktop before any UI automation starts.
	if err := sleep(ctx, b.SettleDelay); err != nil {
		_ = client.Close()
		_ = b.Supervisor.Kill(proc)

		return nil, nil, err
	}

	slog.Info("Emulator ready", slog.Int("pid", proc.Pid()))

	return client, proc, nil
}

// clearStale removes a leftover socket file and kills leftover emulator
// processes. A fresh connection to a stale socket would be undefined: the
// listening socket belongs to the process it was launched with.
func (b *Booter) clearStale(ctx context.Context) error {
	err := os.Remove(b.SocketPath)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove stale socket: %w", err)
	}

	return b.Supervisor.ForceKillByName(ctx)
}

// waitForSocket polls the socket until the server answers a ping or the
// wait window elapses. Connection errors and negative pings both mean "not
// yet ready" here, never failure.
func (b *Booter) waitForSocket(ctx context.Context) (remote.Automation, error) {
	deadline := time.Now().Add(b.SocketWait)

	var lastErr error

	for time.Now().Before(deadline) {
		client, err := b.Dial(b.SocketPath)
		if err == nil {
			alive, err := client.Ping(ctx)
			if err == nil && alive {
				return client, nil
			}

			lastErr = err
			_ = client.Close()
		} else {
			lastErr = err
		}

		if err := sleep(ctx, b.PollInterval); err != nil {
			return nil, err
		}
	}

	if lastErr != nil {
		return nil, fmt.Errorf("%w after %s: %w",
			ErrSocketNotReady, b.SocketWait, lastErr)
	}

	return nil, fmt.Errorf("%w after %s", ErrSocketNotReady, b.SocketWait)
}

// verify checks that the emulator serves a usable display, not just a
// responsive socket.
func (b *Booter) verify(ctx context.Context, client remote.Automation) error {
	size, err := client.ScreenSize(ctx)
	if err != nil {
		return fmt.Errorf("verify display: %w", err)
	}

	if size.Width <= 0 || size.Height <= 0 {
		return fmt.Errorf("%w: %dx%d",
			ErrDisplayNotUsable, size.Width, size.Height)
	}

	slog.Debug("Verified emulator display",
		slog.Int("width", size.Width),
		slog.Int("height", size.Height),
		slog.Int("depth", size.Depth))

	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
