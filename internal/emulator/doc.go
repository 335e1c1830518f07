// SPDX-FileCopyrightText: 2026 The macrun authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package emulator owns the emulator process and gets it into a usable
// state.
//
// [Supervisor] launches and kills the emulator process. [Booter] layers the
// retry policy on top: emulator boot is unreliable and occasionally hangs,
// so each boot attempt launches a fresh process, polls the automation socket
// until it answers a ping, verifies the guest display is usable and only
// then hands out the live connection. A failed attempt kills the process and
// starts over, up to a fixed attempt budget.
package emulator
