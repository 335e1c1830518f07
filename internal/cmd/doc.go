// SPDX-FileCopyrightText: 2026 The macrun authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cmd provides the CLI command entry point for macrun. It handles
// flag parsing, configuration loading, error handling, and output handling.
package cmd
