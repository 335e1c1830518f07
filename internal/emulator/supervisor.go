// SPDX-FileCopyrightText: 2026 The macrun authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package emulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"path/filepath"
	"syscall"

	"golang.org/x/sys/unix"
)

// automationFlag makes the emulator listen for automation calls on the
// given Unix socket path.
const automationFlag = "--automation-socket"

// Process is a handle to a launched emulator process.
type Process struct {
	cmd    *exec.Cmd
	waited chan error
}

// Pid returns the OS process id.
func (p *Process) Pid() int {
	if p.cmd == nil || p.cmd.Process == nil {
		return 0
	}

	return p.cmd.Process.Pid
}

// ProcessSupervisor launches and kills emulator processes. Launch failures
// are reported, not retried; retry policy lives in [Booter].
type ProcessSupervisor interface {
	Launch(ctx context.Context) (*Process, error)
	Kill(p *Process) error
	ForceKillByName(ctx context.Context) error
}

// Supervisor runs the emulator binary with its automation flag pointing at
// a known socket path. The emulator's own output is directed away from the
// controlling terminal.
type Supervisor struct {
	// Path to the emulator binary.
	Executable string

	// Path the automation socket is created at.
	SocketPath string

	// Additional arguments passed to the emulator.
	ExtraArgs []string

	// Output receives the emulator's stdout and stderr. Discarded if unset.
	Output io.Writer
}

var _ ProcessSupervisor = (*Supervisor)(nil)

func (s *Supervisor) output() io.Writer {
	if s.Output == nil {
		return io.Discard
	}

	return s.Output
}

// Launch starts the emulator process in its own process group so a later
// [Supervisor.Kill] takes down any children as well.
func (s *Supervisor) Launch(ctx context.Context) (*Process, error) {
	args := append([]string{automationFlag, s.SocketPath}, s.ExtraArgs...)

	cmd := exec.CommandContext(ctx, s.Executable, args...)
	cmd.Stdout = s.output()
	cmd.Stderr = s.output()
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	err := cmd.Start()
	if err != nil {
		return nil, fmt.Errorf("start %s: %w", s.Executable, err)
	}

	slog.Debug("Launched emulator",
		slog.String("executable", s.Executable),
		slog.Int("pid", cmd.Process.Pid))

	proc := &Process{
		cmd:    cmd,
		waited: make(chan error, 1),
	}

	go func() {
		proc.waited <- cmd.Wait()
	}()

	return proc, nil
}

// Kill terminates the process group of the given process and reaps it. A
// nil or already terminated process is not an error.
func (s *Supervisor) Kill(p *Process) error {
	if p == nil || p.cmd == nil || p.cmd.Process == nil {
		return nil
	}

	slog.Debug("Killing emulator", slog.Int("pid", p.Pid()))

	err := unix.Kill(-p.Pid(), unix.SIGKILL)
	if err != nil && !errors.Is(err, unix.ESRCH) {
		return fmt.Errorf("kill pgid %d: %w", p.Pid(), err)
	}

	// Reap. The wait error is the kill signal, not a failure.
	<-p.waited

	return nil
}

// ForceKillByName kills any process matching the emulator's binary name.
// Used to clear prior runs before a fresh boot attempt, since the listening
// socket belongs to the process it was launched with.
func (s *Supervisor) ForceKillByName(ctx context.Context) error {
	name := filepath.Base(s.Executable)

	cmd := exec.CommandContext(ctx, "pkill", "-KILL", "-x", name)

	err := cmd.Run()

	// Exit code 1 means no process matched, which is the usual case.
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
		return nil
	}

	if err != nil {
		return fmt.Errorf("pkill %s: %w", name, err)
	}

	slog.Debug("Killed stale emulator process", slog.String("name", name))

	return nil
}
