// SPDX-FileCopyrightText: 2026 The macrun authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package tools

import (
	_ "github.com/boumenot/gocover-cobertura"
	_ "github.com/jstemmer/go-junit-report/v2"
	_ "golang.org/x/vuln/cmd/govulncheck"
)
