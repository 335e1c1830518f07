// SPDX-FileCopyrightText: 2026 The macrun authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package harness

import (
	"fmt"
	"io"

	"github.com/macrun/macrun/internal/results"
)

// TargetOutcome is the outcome of a single target run.
type TargetOutcome struct {
	Target     Target
	Results    *results.ResultSet
	Screenshot string
	Err        error
}

// Failed reports whether the target run failed, either because a stage of
// running it errored or because the collected results contain failures.
func (o *TargetOutcome) Failed() bool {
	if o.Err != nil {
		return true
	}

	return o.Results == nil || !o.Results.AllPassed()
}

// RunReport aggregates the outcomes of all targets of a run.
type RunReport struct {
	Outcomes []TargetOutcome
}

// Success reports whether every target ran and passed.
func (r *RunReport) Success() bool {
	if len(r.Outcomes) == 0 {
		return false
	}

	for idx := range r.Outcomes {
		if r.Outcomes[idx].Failed() {
			return false
		}
	}

	return true
}

// WriteSummary writes a human readable per target summary followed by an
// aggregate verdict.
func (r *RunReport) WriteSummary(w io.Writer) error {
	failed := 0

	for idx := range r.Outcomes {
		outcome := &r.Outcomes[idx]

		switch {
		case outcome.Err != nil:
			failed++

			_, err := fmt.Fprintf(w, "FAIL %s: %v\n", outcome.Target.Name, outcome.Err)
			if err != nil {
				return err
			}
		case outcome.Failed():
			failed++

			_, err := fmt.Fprintf(w, "FAIL %s: %s\n", outcome.Target.Name, outcome.Results)
			if err != nil {
				return err
			}

			for _, result := range outcome.Results.Results {
				if result.Passed {
					continue
				}

				if _, err := fmt.Fprintf(w, "     %s: %s\n", result.Name, result.Detail); err != nil {
					return err
				}
			}
		default:
			_, err := fmt.Fprintf(w, "ok   %s: %s\n", outcome.Target.Name, outcome.Results)
			if err != nil {
				return err
			}
		}
	}

	if failed > 0 {
		_, err := fmt.Fprintf(w, "FAIL (%d of %d targets)\n", failed, len(r.Outcomes))

		return err
	}

	_, err := fmt.Fprintf(w, "OK (%d targets)\n", len(r.Outcomes))

	return err
}
