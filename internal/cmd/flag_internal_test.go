// SPDX-FileCopyrightText: 2026 The macrun authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"bytes"
	"testing"
	"time"

	"github.com/macrun/macrun/internal/harness"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlagsParseArgs(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		expected    func(t *testing.T, f *flags)
		expectedErr error
	}{
		{
			name: "defaults",
			args: []string{},
			expected: func(t *testing.T, f *flags) {
				t.Helper()
				assert.Equal(t, configDefault, f.configPath)
				assert.Empty(t, f.targets)
				assert.False(t, f.skipBuild)
			},
		},
		{
			name: "all flags",
			args: []string{
				"-config", "ci.yaml",
				"-emulator", "/opt/emulator/bin/emulator",
				"-socket", "/tmp/auto.sock",
				"-shared-dir", "/srv/shared",
				"-screenshot-dir", "/tmp/shots",
				"-result-timeout", "90s",
				"-skip-build",
				"-attach",
				"-keep-running",
				"-debug",
			},
			expected: func(t *testing.T, f *flags) {
				t.Helper()
				assert.Equal(t, "ci.yaml", f.configPath)
				assert.Equal(t, "/opt/emulator/bin/emulator", f.emulator)
				assert.Equal(t, "/tmp/auto.sock", f.socket)
				assert.Equal(t, "/srv/shared", f.sharedDir)
				assert.Equal(t, "/tmp/shots", f.screenshotDir)
				assert.Equal(t, 90*time.Second, f.resultTimeout)
				assert.True(t, f.skipBuild)
				assert.True(t, f.attach)
				assert.True(t, f.keepRunning)
				assert.True(t, f.debug)
			},
		},
		{
			name: "positional arguments select targets",
			args: []string{"-skip-build", "memtest", "fstest"},
			expected: func(t *testing.T, f *flags) {
				t.Helper()
				assert.Equal(t, []string{"memtest", "fstest"}, f.targets)
			},
		},
		{
			name:        "unknown flag",
			args:        []string{"-frobnicate"},
			expectedErr: &ParseArgsError{},
		},
		{
			name:        "help requested",
			args:        []string{"-h"},
			expectedErr: ErrHelp,
		},
		{
			name:        "version requested",
			args:        []string{"-version"},
			expectedErr: ErrHelp,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var output bytes.Buffer

			flags := newFlags(&output)

			err := flags.ParseArgs(tt.args)
			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
				return
			}

			require.NoError(t, err)
			tt.expected(t, flags)
		})
	}
}

func TestFlagsApply(t *testing.T) {
	baseConfig := func() *harness.Config {
		return &harness.Config{
			Emulator:      "/opt/emulator/bin/emulator",
			Socket:        "/tmp/auto.sock",
			SharedDir:     "/srv/shared",
			Volume:        "Tests",
			ResultTimeout: harness.Duration(harness.DefaultResultTimeout),
		}
	}

	t.Run("flags override configuration", func(t *testing.T) {
		var output bytes.Buffer

		flags := newFlags(&output)
		require.NoError(t, flags.ParseArgs([]string{
			"-socket", "/tmp/other.sock",
			"-result-timeout", "30s",
		}))

		cfg := baseConfig()
		require.NoError(t, flags.apply(cfg))

		assert.Equal(t, "/tmp/other.sock", cfg.Socket)
		assert.Equal(t, harness.Duration(30*time.Second), cfg.ResultTimeout)
		// Untouched values stay.
		assert.Equal(t, "/srv/shared", cfg.SharedDir)
	})

	t.Run("missing values are reported", func(t *testing.T) {
		var output bytes.Buffer

		flags := newFlags(&output)
		require.NoError(t, flags.ParseArgs(nil))

		err := flags.apply(&harness.Config{})
		require.ErrorIs(t, err, &ParseArgsError{})

		assert.Contains(t, output.String(), "socket")
		assert.Contains(t, output.String(), "shared_dir")
		assert.Contains(t, output.String(), "volume")
		assert.Contains(t, output.String(), "emulator")
	})

	t.Run("attach needs no emulator binary", func(t *testing.T) {
		var output bytes.Buffer

		flags := newFlags(&output)
		require.NoError(t, flags.ParseArgs([]string{"-attach"}))

		cfg := baseConfig()
		cfg.Emulator = ""

		require.NoError(t, flags.apply(cfg))
	})
}
