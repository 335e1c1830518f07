// SPDX-FileCopyrightText: 2026 The macrun authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/macrun/macrun/internal/emulator"
	"github.com/macrun/macrun/internal/harness"
)

// Exit codes of the command.
const (
	exitSuccess = 0
	exitFailure = 1
	exitUsage   = 2
)

// IO provides input and output details for the command.
type IO struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func newOrchestrator(cfg *harness.Config, targets []harness.Target,
	flags *flags, stderr io.Writer,
) *harness.Orchestrator {
	supervisor := &emulator.Supervisor{
		Executable: cfg.Emulator,
		SocketPath: cfg.Socket,
		Output:     stderr,
	}

	return &harness.Orchestrator{
		Config:  cfg,
		Targets: targets,
		Builder: &harness.CommandBuilder{
			Command:     cfg.BuildCommand,
			ArtifactDir: cfg.ArtifactDir,
		},
		Emulator:    emulator.NewBooter(supervisor, cfg.Socket),
		Attach:      flags.attach,
		SkipBuild:   flags.skipBuild,
		KeepRunning: flags.keepRunning,
	}
}

func run(ctx context.Context, flags *flags, cfg IO) (*harness.RunReport, error) {
	conf, err := harness.LoadConfig(flags.configPath)
	if err != nil {
		return nil, flags.fail("configuration", err)
	}

	if err := flags.apply(conf); err != nil {
		return nil, err
	}

	targets, err := conf.SelectTargets(flags.targets)
	if err != nil {
		return nil, flags.fail("select targets", err)
	}

	report, err := newOrchestrator(conf, targets, flags, cfg.Stderr).Run(ctx)
	if err != nil {
		return report, fmt.Errorf("run: %w", err)
	}

	return report, nil
}

func handleParseArgsError(err error) int {
	// [ErrHelp] is returned when help or version output is requested. So
	// exit without error in this case.
	if errors.Is(err, ErrHelp) {
		return exitSuccess
	}

	// ParseArgs already prints errors, so we just exit without an error.
	if !errors.Is(err, &ParseArgsError{}) {
		slog.Error(err.Error())
	}

	return exitUsage
}

func handleRunError(err error, stderr io.Writer) int {
	if errors.Is(err, &ParseArgsError{}) {
		return handleParseArgsError(err)
	}

	// A failed build keeps the toolchain output. Print it verbatim, its
	// line structure matters more than log framing.
	var buildErr *harness.BuildError
	if errors.As(err, &buildErr) && buildErr.Output != "" {
		fmt.Fprintln(stderr, buildErr.Output)
	}

	slog.Error(err.Error())

	return exitFailure
}

// Run is the main entry point for the CLI command.
func Run(ctx context.Context, args []string, cfg IO) int {
	flags := newFlags(cfg.Stderr)

	err := flags.ParseArgs(args[1:])
	if err != nil {
		return handleParseArgsError(err)
	}

	setupLogging(cfg.Stderr, flags.debug)

	report, err := run(ctx, flags, cfg)

	if report != nil {
		if werr := report.WriteSummary(cfg.Stdout); werr != nil {
			slog.Error("Write summary", slog.Any("error", werr))
		}
	}

	if err != nil {
		return handleRunError(err, cfg.Stderr)
	}

	if !report.Success() {
		return exitFailure
	}

	return exitSuccess
}
