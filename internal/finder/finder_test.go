// SPDX-FileCopyrightText: 2026 The macrun authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package finder_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/macrun/macrun/internal/finder"
	"github.com/macrun/macrun/internal/remote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptClient records the operations the navigator issues, optionally
// failing a single scripted operation.
type scriptClient struct {
	ops []string

	failOp  string
	failErr error
}

func (c *scriptClient) record(op string) error {
	c.ops = append(c.ops, op)

	if op == c.failOp {
		return c.failErr
	}

	return nil
}

func (c *scriptClient) Click(
	_ context.Context, x, y int, _ remote.MouseButton,
) error {
	return c.record(fmt.Sprintf("click %d,%d", x, y))
}

func (c *scriptClient) TypeText(_ context.Context, text string) error {
	return c.record("type " + text)
}

func (c *scriptClient) Chord(
	_ context.Context, key remote.KeyCode, modifiers ...remote.KeyCode,
) error {
	op := fmt.Sprintf("chord %#02x", int32(key))
	for _, mod := range modifiers {
		op += fmt.Sprintf("+%#02x", int32(mod))
	}

	return c.record(op)
}

func (c *scriptClient) WaitMs(_ context.Context, ms int) error {
	return c.record(fmt.Sprintf("wait %dms", ms))
}

func TestNavigatorOpenApplication(t *testing.T) {
	client := &scriptClient{}

	navigator := finder.New(client, "Tests")
	navigator.Settle = 100 * time.Millisecond

	err := navigator.OpenApplication(context.Background(), "MemTest")
	require.NoError(t, err)

	expected := []string{
		"chord 0x0d+0x37+0x3a", // close all windows
		"wait 100ms",
		"click 300,250", // focus the desktop
		"wait 100ms",
		"type Tests", // select the shared volume
		"wait 100ms",
		"chord 0x1f+0x37", // open it
		"wait 100ms",
		"type MemTest", // select the application
		"wait 100ms",
		"chord 0x1f+0x37", // launch it
		"wait 100ms",
		"chord 0x0d+0x37", // close the folder window
		"wait 100ms",
	}
	assert.Equal(t, expected, client.ops)
}

func TestNavigatorStopsOnError(t *testing.T) {
	failErr := errors.New("boom")

	client := &scriptClient{
		failOp:  "type Tests",
		failErr: failErr,
	}

	navigator := finder.New(client, "Tests")

	err := navigator.OpenApplication(context.Background(), "MemTest")
	require.ErrorIs(t, err, failErr)

	// Nothing past the failing step was issued.
	assert.Equal(t, "type Tests", client.ops[len(client.ops)-1])
}
