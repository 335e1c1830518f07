// SPDX-FileCopyrightText: 2026 The macrun authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package results

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Markers the guest-side test runner writes.
const (
	passMarker = "[PASS]"
	failMarker = "[FAIL]"

	// summaryMarker signals the log is complete and safe to parse.
	summaryMarker = "Summary:"
)

// detailRE matches a file:line: message fragment as emitted by a failing
// guest assertion.
var detailRE = regexp.MustCompile(`^\S+:[0-9]+: `)

// Result is a single test outcome.
type Result struct {
	Name   string
	Passed bool
	// Detail holds the failure detail line, if the runner emitted one.
	Detail string
}

// ResultSet is the parsed outcome of one target run. Immutable after
// parsing.
type ResultSet struct {
	Results []Result
	Passed  int
	Failed  int
}

// AllPassed reports whether no individual test failed.
func (s *ResultSet) AllPassed() bool {
	return s.Failed == 0
}

// String implements the [fmt.Stringer] interface.
func (s *ResultSet) String() string {
	return fmt.Sprintf("%d passed, %d failed", s.Passed, s.Failed)
}

// Parse reads a line-oriented result log.
//
// Lines beginning with the pass or fail marker count as test outcomes, with
// the rest of the line as the test name. A file:line: fragment on the line
// immediately following a failed entry is attached to it as failure detail.
// All other lines are ignored; any of them ends the detail window of the
// preceding failure.
func Parse(r io.Reader) (*ResultSet, error) {
	set := &ResultSet{}

	// Set while the current line directly follows a fail line.
	expectDetail := false

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, passMarker):
			set.Results = append(set.Results, Result{
				Name:   strings.TrimSpace(line[len(passMarker):]),
				Passed: true,
			})
			set.Passed++
			expectDetail = false
		case strings.HasPrefix(line, failMarker):
			set.Results = append(set.Results, Result{
				Name: strings.TrimSpace(line[len(failMarker):]),
			})
			set.Failed++
			expectDetail = true
		case expectDetail && detailRE.MatchString(line):
			set.Results[len(set.Results)-1].Detail = strings.TrimSpace(line)
			expectDetail = false
		default:
			expectDetail = false
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read results: %w", err)
	}

	return set, nil
}
