// SPDX-FileCopyrightText: 2026 The macrun authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"flag"
	"fmt"
	"io"
	"runtime/debug"
	"strings"
	"time"

	"github.com/macrun/macrun/internal/harness"
)

const (
	name = "macrun"

	configDefault = "macrun.yaml"

	usageMessage = `Usage of 'macrun':
    macrun [flags...] [target...]

Runs the configured guest test targets against the emulated machine. With
no targets given, all configured targets run.

Examples:
	macrun
	macrun -config=ci.yaml memtest fstest
	macrun -attach -skip-build fstest
`
)

// Set on build.
var version = "dev"

type flags struct {
	flagSet *flag.FlagSet

	configPath string
	targets    []string

	// Optional overrides of configuration file values.
	emulator      string
	socket        string
	sharedDir     string
	screenshotDir string
	resultTimeout time.Duration

	skipBuild   bool
	attach      bool
	keepRunning bool

	version bool
	debug   bool
}

func newFlags(output io.Writer) *flags {
	flags := &flags{
		configPath: configDefault,
	}

	flags.initFlagset(output)

	return flags
}

func (f *flags) ParseArgs(args []string) error {
	err := f.flagSet.Parse(args)
	if err != nil {
		return &ParseArgsError{msg: "flag parse", err: err}
	}

	// With version flag, just print the version and exit. Using [ErrHelp]
	// the main binary is supposed to return with a non error exit code.
	if f.version {
		err := f.printVersionInformation()
		return &ParseArgsError{msg: "version requested", err: err}
	}

	// Positional arguments select a subset of the configured targets.
	f.targets = f.flagSet.Args()

	return nil
}

func (f *flags) initFlagset(output io.Writer) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usageMessage)
		fs.PrintDefaults()
	}

	fs.StringVar(
		&f.configPath,
		"config",
		f.configPath,
		"run configuration file",
	)

	fs.StringVar(
		&f.emulator,
		"emulator",
		f.emulator,
		"emulator binary to use, overrides the configuration file",
	)

	fs.StringVar(
		&f.socket,
		"socket",
		f.socket,
		"automation socket path, overrides the configuration file",
	)

	fs.StringVar(
		&f.sharedDir,
		"shared-dir",
		f.sharedDir,
		"host side of the shared volume, overrides the configuration file",
	)

	fs.StringVar(
		&f.screenshotDir,
		"screenshot-dir",
		f.screenshotDir,
		"store a per-target screenshot in this directory",
	)

	fs.DurationVar(
		&f.resultTimeout,
		"result-timeout",
		f.resultTimeout,
		"per-target result wait window, overrides the configuration file",
	)

	fs.BoolVar(
		&f.skipBuild,
		"skip-build",
		f.skipBuild,
		"use previously built artifacts instead of building",
	)

	fs.BoolVar(
		&f.attach,
		"attach",
		f.attach,
		"connect to an already running emulator instead of booting one",
	)

	fs.BoolVar(
		&f.keepRunning,
		"keep-running",
		f.keepRunning,
		"leave the emulator running after the run",
	)

	fs.BoolVar(
		&f.debug,
		"debug",
		f.debug,
		"enable debug output",
	)

	fs.BoolVar(
		&f.version,
		"version",
		f.version,
		"show version and exit",
	)

	f.flagSet = fs
}

// fail fails like flag does. It prints the error first and then usage.
func (f *flags) fail(msg string, err error) error {
	err = &ParseArgsError{msg: msg, err: err}
	fmt.Fprintln(f.flagSet.Output(), err.Error())

	f.flagSet.Usage()

	return err
}

// apply overlays the given flags over the loaded configuration and checks
// that everything the run needs is present.
func (f *flags) apply(cfg *harness.Config) error {
	if f.emulator != "" {
		cfg.Emulator = f.emulator
	}

	if f.socket != "" {
		cfg.Socket = f.socket
	}

	if f.sharedDir != "" {
		cfg.SharedDir = f.sharedDir
	}

	if f.screenshotDir != "" {
		cfg.ScreenshotDir = f.screenshotDir
	}

	if f.resultTimeout != 0 {
		cfg.ResultTimeout = harness.Duration(f.resultTimeout)
	}

	var missing []string

	if cfg.Socket == "" {
		missing = append(missing, "socket")
	}

	if cfg.SharedDir == "" {
		missing = append(missing, "shared_dir")
	}

	if cfg.Volume == "" {
		missing = append(missing, "volume")
	}

	// The emulator binary is only needed if we boot it ourselves.
	if cfg.Emulator == "" && !f.attach {
		missing = append(missing, "emulator")
	}

	if len(missing) > 0 {
		return f.fail("missing configuration: "+strings.Join(missing, ", "), nil)
	}

	return nil
}

func (f *flags) printVersionInformation() error {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return ErrReadBuildInfo
	}

	fmt.Fprintf(f.flagSet.Output(), "%s: %s\n\n", name, version)
	fmt.Fprintln(f.flagSet.Output(), buildInfo.String())

	return ErrHelp
}
