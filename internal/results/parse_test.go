// SPDX-FileCopyrightText: 2026 The macrun authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package results_test

import (
	"strings"
	"testing"

	"github.com/macrun/macrun/internal/results"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected results.ResultSet
	}{
		{
			name:     "empty",
			expected: results.ResultSet{},
		},
		{
			name: "pass and fail with detail",
			input: strings.Join([]string{
				"[PASS] Foo",
				"[FAIL] Bar",
				"bar.c:42: assertion failed",
				"Summary: 1 passed, 1 failed",
			}, "\n"),
			expected: results.ResultSet{
				Results: []results.Result{
					{Name: "Foo", Passed: true},
					{
						Name:   "Bar",
						Detail: "bar.c:42: assertion failed",
					},
				},
				Passed: 1,
				Failed: 1,
			},
		},
		{
			name: "detail after pass is ignored",
			input: strings.Join([]string{
				"[PASS] Foo",
				"foo.c:10: stray message",
				"Summary: 1 passed, 0 failed",
			}, "\n"),
			expected: results.ResultSet{
				Results: []results.Result{
					{Name: "Foo", Passed: true},
				},
				Passed: 1,
			},
		},
		{
			name: "only first detail attaches",
			input: strings.Join([]string{
				"[FAIL] Bounds",
				"bounds.c:7: index out of range",
				"bounds.c:8: second message",
				"Summary: 0 passed, 1 failed",
			}, "\n"),
			expected: results.ResultSet{
				Results: []results.Result{
					{
						Name:   "Bounds",
						Detail: "bounds.c:7: index out of range",
					},
				},
				Failed: 1,
			},
		},
		{
			name: "chatter between fail and detail ends the detail window",
			input: strings.Join([]string{
				"[FAIL] Bar",
				"cleaning up",
				"bar.c:42: assertion failed",
				"Summary: 0 passed, 1 failed",
			}, "\n"),
			expected: results.ResultSet{
				Results: []results.Result{
					{Name: "Bar"},
				},
				Failed: 1,
			},
		},
		{
			name: "unrelated chatter is ignored",
			input: strings.Join([]string{
				"starting up",
				"[PASS] Alloc",
				"[PASS] Free",
				"done",
				"Summary: 2 passed, 0 failed",
			}, "\n"),
			expected: results.ResultSet{
				Results: []results.Result{
					{Name: "Alloc", Passed: true},
					{Name: "Free", Passed: true},
				},
				Passed: 2,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual, err := results.Parse(strings.NewReader(tt.input))
			require.NoError(t, err)

			assert.Equal(t, &tt.expected, actual)
		})
	}
}

func TestResultSetAllPassed(t *testing.T) {
	assert.True(t, (&results.ResultSet{Passed: 3}).AllPassed())
	assert.False(t, (&results.ResultSet{Passed: 3, Failed: 1}).AllPassed())
	assert.True(t, (&results.ResultSet{}).AllPassed())
}
