// SPDX-FileCopyrightText: 2026 The macrun authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package results collects test results from the shared volume.
//
// The guest-side test runner writes a plain line-oriented log to a
// well-known path on the shared volume and ends it with a summary line.
// Since the guest gives no other completion signal, [Watcher] polls for the
// file and considers it safe to parse only once the summary marker is
// present.
package results
