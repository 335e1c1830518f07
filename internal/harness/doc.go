// SPDX-FileCopyrightText: 2026 The macrun authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package harness sequences a full test run: build the targets, stage
// their artifacts on the shared volume, get an emulator into a usable
// state, then launch every target in the guest and collect its results.
//
// Failures are scoped deliberately. A failed build or staging step aborts
// the whole run, since every later step depends on it. Once the emulator
// is up, a single target's launch or collection failure is recorded and
// the remaining targets still run; the orchestrator always attempts every
// selected target before reporting.
package harness
