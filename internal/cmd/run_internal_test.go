// SPDX-FileCopyrightText: 2026 The macrun authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func runCmd(t *testing.T, args ...string) (int, string, string) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	cfg := IO{
		Stdout: &stdout,
		Stderr: &stderr,
	}

	exitCode := Run(context.Background(), append([]string{"macrun"}, args...), cfg)

	return exitCode, stdout.String(), stderr.String()
}

func TestRunVersion(t *testing.T) {
	exitCode, _, stderr := runCmd(t, "-version")

	assert.Equal(t, exitSuccess, exitCode)
	assert.Contains(t, stderr, "macrun:")
}

func TestRunHelp(t *testing.T) {
	exitCode, _, stderr := runCmd(t, "-h")

	assert.Equal(t, exitSuccess, exitCode)
	assert.Contains(t, stderr, "Usage of 'macrun':")
}

func TestRunUnknownFlag(t *testing.T) {
	exitCode, _, _ := runCmd(t, "-frobnicate")

	assert.Equal(t, exitUsage, exitCode)
}

func TestRunMissingConfig(t *testing.T) {
	exitCode, _, _ := runCmd(t,
		"-config", filepath.Join(t.TempDir(), "nope.yaml"))

	assert.Equal(t, exitUsage, exitCode)
}

func TestRunUnknownTarget(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "macrun.yaml")

	config := `emulator: /bin/false
socket: /tmp/auto.sock
shared_dir: /srv/shared
volume: Tests
targets:
  - name: memtest
    binary: MemTest.bin
    result_file: memtest-results.txt
`
	require.NoError(t, os.WriteFile(configPath, []byte(config), 0o644))

	exitCode, _, stderr := runCmd(t, "-config", configPath, "nope")

	assert.Equal(t, exitUsage, exitCode)
	assert.Contains(t, stderr, "unknown target")
}

func TestRunMissingConfigValues(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "macrun.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("volume: Tests\n"), 0o644))

	exitCode, _, stderr := runCmd(t, "-config", configPath)

	assert.Equal(t, exitUsage, exitCode)
	assert.Contains(t, stderr, "missing configuration")
}
