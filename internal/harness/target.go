// SPDX-FileCopyrightText: 2026 The macrun authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package harness

import (
	"fmt"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultResultTimeout is the per-target window for the guest to produce
// its result log.
const DefaultResultTimeout = 5 * time.Minute

// Duration wraps [time.Duration] for YAML configuration values like "90s"
// or "5m".
type Duration time.Duration

// UnmarshalYAML implements the [yaml.Unmarshaler] interface.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string

	err := node.Decode(&raw)
	if err != nil {
		return err
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", raw, err)
	}

	*d = Duration(parsed)

	return nil
}

// Target identifies one guest test program. Immutable, defined by
// configuration, not by protocol state.
type Target struct {
	// Name is the logical target name used for selection and reporting.
	Name string `yaml:"name"`

	// Build is the identifier passed to the external build collaborator.
	// Defaults to Name.
	Build string `yaml:"build,omitempty"`

	// Binary is the artifact file name the build produces, including the
	// type-marker extension the guest must not see.
	Binary string `yaml:"binary"`

	// ResultFile is the result log file name the guest runner writes on
	// the shared volume.
	ResultFile string `yaml:"result_file"`
}

func (t *Target) validate() error {
	switch {
	case t.Name == "":
		return fmt.Errorf("target without name")
	case t.Binary == "":
		return fmt.Errorf("target %s: binary missing", t.Name)
	case t.ResultFile == "":
		return fmt.Errorf("target %s: result_file missing", t.Name)
	}

	return nil
}

// Config is the run configuration, usually read from macrun.yaml. All
// paths the orchestrator uses come in explicitly through this struct.
type Config struct {
	// Emulator is the path to the emulator binary.
	Emulator string `yaml:"emulator"`

	// Socket is the well-known automation socket path.
	Socket string `yaml:"socket"`

	// SharedDir is the host side of the shared volume.
	SharedDir string `yaml:"shared_dir"`

	// Volume is the shared volume's name as the guest desktop shows it.
	Volume string `yaml:"volume"`

	// BuildCommand is the external build collaborator command. The
	// target's build identifier is appended as last argument.
	BuildCommand []string `yaml:"build_command"`

	// ArtifactDir is where the build command leaves the built binaries.
	ArtifactDir string `yaml:"artifact_dir"`

	// ScreenshotDir enables per-target screenshots when set.
	ScreenshotDir string `yaml:"screenshot_dir,omitempty"`

	// ResultTimeout is the per-target result wait window.
	ResultTimeout Duration `yaml:"result_timeout,omitempty"`

	Targets []Target `yaml:"targets"`
}

// LoadConfig reads and validates a YAML run configuration.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)

	var cfg Config

	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	return &cfg, nil
}

func (c *Config) normalize() error {
	if c.ResultTimeout == 0 {
		c.ResultTimeout = Duration(DefaultResultTimeout)
	}

	for idx := range c.Targets {
		if err := c.Targets[idx].validate(); err != nil {
			return err
		}

		if c.Targets[idx].Build == "" {
			c.Targets[idx].Build = c.Targets[idx].Name
		}
	}

	return nil
}

// SelectTargets returns the configured targets matching the given names,
// in configuration order. An empty selection returns all targets.
func (c *Config) SelectTargets(names []string) ([]Target, error) {
	if len(names) == 0 {
		return c.Targets, nil
	}

	for _, name := range names {
		known := slices.ContainsFunc(c.Targets, func(t Target) bool {
			return t.Name == name
		})
		if !known {
			return nil, fmt.Errorf("%w: %s", ErrUnknownTarget, name)
		}
	}

	selected := make([]Target, 0, len(names))

	for _, target := range c.Targets {
		if slices.Contains(names, target.Name) {
			selected = append(selected, target)
		}
	}

	return selected, nil
}
