// SPDX-FileCopyrightText: 2026 The macrun authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package harness

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/macrun/macrun/internal/finder"
	"github.com/macrun/macrun/internal/remote"
	"github.com/macrun/macrun/internal/results"
)

// EmulatorControl brings the emulated machine up and down. Boot starts a
// fresh instance, Attach connects to an already running one, Shutdown
// terminates whatever Boot started.
type EmulatorControl interface {
	Boot(ctx context.Context) (remote.Automation, error)
	Attach(ctx context.Context) (remote.Automation, error)
	Shutdown() error
}

// Orchestrator runs the configured targets against a single emulator
// instance. Builds happen up front and any build failure aborts the run
// before the emulator is touched. Once a target is launched in the guest,
// its failures are scoped to itself and remaining targets still run.
type Orchestrator struct {
	Config   *Config
	Targets  []Target
	Builder  Builder
	Emulator EmulatorControl

	// Attach connects to a running emulator instead of booting one.
	Attach bool
	// SkipBuild locates previously built artifacts instead of building.
	SkipBuild bool
	// KeepRunning leaves the emulator up after the run.
	KeepRunning bool
}

// Run executes the full run and returns the aggregated report. The returned
// error covers failures of the run machinery itself. Per target failures are
// recorded in the report, not returned.
func (o *Orchestrator) Run(ctx context.Context) (*RunReport, error) {
	if len(o.Targets) == 0 {
		return nil, ErrNoTargets
	}

	staged, err := o.prepareArtifacts(ctx)
	if err != nil {
		return nil, err
	}

	client, err := o.connect(ctx)
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = client.Close()

		if o.KeepRunning {
			slog.Info("Leaving emulator running")

			return
		}

		if err := o.Emulator.Shutdown(); err != nil {
			slog.Warn("Emulator shutdown failed", slog.Any("error", err))
		}
	}()

	navigator := finder.New(client, o.Config.Volume)
	report := &RunReport{}

	for idx, target := range o.Targets {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}

		slog.Info("Running target", slog.String("target", target.Name))

		outcome := o.runTarget(ctx, navigator, client, target, staged[idx])
		report.Outcomes = append(report.Outcomes, outcome)
	}

	return report, nil
}

// prepareArtifacts builds (or locates) all target artifacts and stages them
// into the shared directory. It returns the guest-visible name per target.
func (o *Orchestrator) prepareArtifacts(ctx context.Context) ([]string, error) {
	artifacts := make([]string, len(o.Targets))

	if o.SkipBuild {
		for idx, target := range o.Targets {
			artifact, err := o.Builder.Locate(target)
			if err != nil {
				return nil, err
			}

			artifacts[idx] = artifact
		}
	} else {
		group, groupCtx := errgroup.WithContext(ctx)

		for idx, target := range o.Targets {
			group.Go(func() error {
				artifact, err := o.Builder.Build(groupCtx, target)
				if err != nil {
					return err
				}

				artifacts[idx] = artifact

				return nil
			})
		}

		if err := group.Wait(); err != nil {
			return nil, err
		}
	}

	staged := make([]string, len(o.Targets))

	for idx, artifact := range artifacts {
		name, err := stageArtifact(artifact, o.Config.SharedDir)
		if err != nil {
			return nil, fmt.Errorf("stage %s: %w", o.Targets[idx].Name, err)
		}

		staged[idx] = name
	}

	return staged, nil
}

func (o *Orchestrator) connect(ctx context.Context) (remote.Automation, error) {
	if o.Attach {
		return o.Emulator.Attach(ctx)
	}

	return o.Emulator.Boot(ctx)
}

func (o *Orchestrator) runTarget(
	ctx context.Context,
	navigator *finder.Navigator,
	client remote.Automation,
	target Target,
	stagedName string,
) TargetOutcome {
	outcome := TargetOutcome{Target: target}

	resultPath := filepath.Join(o.Config.SharedDir, target.ResultFile)

	err := os.Remove(resultPath)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		outcome.Err = fmt.Errorf("remove stale result file: %w", err)

		return outcome
	}

	if err := navigator.OpenApplication(ctx, stagedName); err != nil {
		outcome.Err = fmt.Errorf("launch: %w", err)

		return outcome
	}

	watcher := &results.Watcher{
		Path:         resultPath,
		PollInterval: results.DefaultPollInterval,
		Timeout:      time.Duration(o.Config.ResultTimeout),
	}

	set, err := watcher.Wait(ctx)
	if err != nil {
		outcome.Err = fmt.Errorf("collect results: %w", err)
	} else {
		outcome.Results = set
	}

	o.captureScreenshot(ctx, client, &outcome)

	return outcome
}

// captureScreenshot captures and stores the current guest screen if a
// screenshot directory is configured. Capture failures are logged but never
// fail the target, the screen content is diagnostic only.
func (o *Orchestrator) captureScreenshot(
	ctx context.Context,
	client remote.Automation,
	outcome *TargetOutcome,
) {
	if o.Config.ScreenshotDir == "" {
		return
	}

	shot, err := client.Screenshot(ctx)
	if err != nil {
		slog.Warn("Screenshot capture failed",
			slog.String("target", outcome.Target.Name),
			slog.Any("error", err))

		return
	}

	path, err := saveScreenshot(o.Config.ScreenshotDir, outcome.Target.Name, shot)
	if err != nil {
		slog.Warn("Screenshot save failed",
			slog.String("target", outcome.Target.Name),
			slog.Any("error", err))

		return
	}

	outcome.Screenshot = path
}
