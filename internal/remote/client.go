// SPDX-FileCopyrightText: 2026 The macrun authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package remote

import (
	"context"
	"time"
)

// Method ids assigned by the emulator's automation server. The client must
// match them exactly.
const (
	methodPing          Method = 1
	methodGetScreenSize Method = 2
	methodScreenshot    Method = 3
	methodTypeText      Method = 4
	methodMouseMove     Method = 5
	methodClick         Method = 6
	methodMouseDown     Method = 7
	methodMouseUp       Method = 8
	methodKeyDown       Method = 9
	methodKeyUp         Method = 10
	methodWaitMs        Method = 11
)

// doubleClickDelay paces the two clicks of [Client.DoubleClick] so the guest
// registers them as a double click instead of two separate ones.
const doubleClickDelay = 100 * time.Millisecond

// KeyCode is a raw virtual key code of the guest's keyboard layout.
type KeyCode int32

// MouseButton identifies a mouse button. Classic Macintosh mice have a
// single button.
type MouseButton int32

// ButtonPrimary is the primary (and on the guest, only) mouse button.
const ButtonPrimary MouseButton = 0

// ScreenSize describes the guest display as reported by the emulator. It is
// queried, not cached, as it may change across emulator restarts.
type ScreenSize struct {
	Width  int
	Height int
	Depth  int
}

// Screenshot is a raw captured frame. Ownership of the pixel buffer
// transfers to the caller on receipt.
type Screenshot struct {
	Width  int
	Height int
	Depth  int
	// Stride is the number of bytes per pixel row.
	Stride int
	Pixels []byte
}

// Client is the typed facade over the automation protocol, one operation per
// method id. All operations are synchronous: each issues exactly one call
// and blocks for exactly one reply. There is no pipelining.
type Client struct {
	conn *Conn
}

// Connect dials the automation socket at path and returns a client owning
// the connection.
func Connect(path string) (*Client, error) {
	conn, err := Dial(path)
	if err != nil {
		return nil, err
	}

	return &Client{conn: conn}, nil
}

// NewClient creates a client on an existing connection.
func NewClient(conn *Conn) *Client {
	return &Client{conn: conn}
}

// Close closes the underlying connection. It is idempotent.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Ping checks that the automation server responds. It returns true iff the
// server answered with the expected value.
func (c *Client) Ping(ctx context.Context) (bool, error) {
	values, err := c.conn.Call(ctx, methodPing)
	if err != nil {
		return false, err
	}

	if len(values) != 1 {
		return false, ErrShortReply
	}

	v, err := values[0].Int32()
	if err != nil {
		return false, err
	}

	return v == 1, nil
}

// ScreenSize queries the guest display dimensions and pixel depth.
func (c *Client) ScreenSize(ctx context.Context) (ScreenSize, error) {
	values, err := c.conn.Call(ctx, methodGetScreenSize)
	if err != nil {
		return ScreenSize{}, err
	}

	ints, err := intValues(values, 3)
	if err != nil {
		return ScreenSize{}, err
	}

	size := ScreenSize{
		Width:  ints[0],
		Height: ints[1],
		Depth:  ints[2],
	}

	return size, nil
}

// Screenshot captures the current guest frame.
func (c *Client) Screenshot(ctx context.Context) (*Screenshot, error) {
	values, err := c.conn.Call(ctx, methodScreenshot)
	if err != nil {
		return nil, err
	}

	const numValues = 5

	if len(values) < numValues {
		return nil, protocolErrorf(
			"screenshot reply carries %d values, need at least %d",
			len(values), numValues)
	}

	ints, err := intValues(values[:numValues-1], numValues-1)
	if err != nil {
		return nil, err
	}

	pixels, err := values[len(values)-1].Bytes()
	if err != nil {
		return nil, err
	}

	shot := &Screenshot{
		Width:  ints[0],
		Height: ints[1],
		Depth:  ints[2],
		Stride: ints[3],
		Pixels: pixels,
	}

	return shot, nil
}

// TypeText sends a full string in one call. The server injects it into the
// guest character by character.
func (c *Client) TypeText(ctx context.Context, text string) error {
	_, err := c.conn.Call(ctx, methodTypeText, StringValue(text))

	return err
}

// MouseMove moves the guest cursor to the given coordinates.
func (c *Client) MouseMove(ctx context.Context, x, y int) error {
	_, err := c.conn.Call(ctx, methodMouseMove,
		Int32Value(int32(x)), Int32Value(int32(y)))

	return err
}

// Click presses and releases the given button at the given coordinates.
func (c *Client) Click(
	ctx context.Context,
	x, y int,
	button MouseButton,
) error {
	_, err := c.conn.Call(ctx, methodClick,
		Int32Value(int32(x)), Int32Value(int32(y)),
		Int32Value(int32(button)))

	return err
}

// DoubleClick issues two clicks paced by [doubleClickDelay].
func (c *Client) DoubleClick(
	ctx context.Context,
	x, y int,
	button MouseButton,
) error {
	err := c.Click(ctx, x, y, button)
	if err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(doubleClickDelay):
	}

	return c.Click(ctx, x, y, button)
}

// MouseDown presses the given button at the current cursor position.
func (c *Client) MouseDown(ctx context.Context, button MouseButton) error {
	_, err := c.conn.Call(ctx, methodMouseDown, Int32Value(int32(button)))

	return err
}

// MouseUp releases the given button.
func (c *Client) MouseUp(ctx context.Context, button MouseButton) error {
	_, err := c.conn.Call(ctx, methodMouseUp, Int32Value(int32(button)))

	return err
}

// KeyDown presses the given raw key code. The protocol has no native chord
// primitive; callers compose chords from ordered down/up pairs.
func (c *Client) KeyDown(ctx context.Context, code KeyCode) error {
	_, err := c.conn.Call(ctx, methodKeyDown, Int32Value(int32(code)))

	return err
}

// KeyUp releases the given raw key code.
func (c *Client) KeyUp(ctx context.Context, code KeyCode) error {
	_, err := c.conn.Call(ctx, methodKeyUp, Int32Value(int32(code)))

	return err
}

// PressKey presses and releases a single key.
func (c *Client) PressKey(ctx context.Context, code KeyCode) error {
	err := c.KeyDown(ctx, code)
	if err != nil {
		return err
	}

	return c.KeyUp(ctx, code)
}

// Chord presses the modifier keys in order, presses and releases the key,
// and releases the modifiers in reverse order.
func (c *Client) Chord(
	ctx context.Context,
	key KeyCode,
	modifiers ...KeyCode,
) error {
	for _, mod := range modifiers {
		if err := c.KeyDown(ctx, mod); err != nil {
			return err
		}
	}

	if err := c.PressKey(ctx, key); err != nil {
		return err
	}

	for idx := len(modifiers) - 1; idx >= 0; idx-- {
		if err := c.KeyUp(ctx, modifiers[idx]); err != nil {
			return err
		}
	}

	return nil
}

// WaitMs asks the remote side to pace itself for the given duration. This is
// a protocol level delay request, not a local sleep. It keeps automation and
// the emulator's event queue synchronized without the client guessing
// timing.
func (c *Client) WaitMs(ctx context.Context, ms int) error {
	_, err := c.conn.Call(ctx, methodWaitMs, Uint32Value(uint32(ms)))

	return err
}

// intValues asserts that the value list carries exactly want integer values
// and converts them. Both integer tags are accepted, as the server is not
// consistent about signedness for dimensions.
func intValues(values []Value, want int) ([]int, error) {
	if len(values) != want {
		return nil, protocolErrorf("reply carries %d values, want %d",
			len(values), want)
	}

	ints := make([]int, len(values))

	for idx, value := range values {
		switch value.Tag() {
		case TagInt32:
			v, _ := value.Int32()
			ints[idx] = int(v)
		case TagUint32:
			v, _ := value.Uint32()
			ints[idx] = int(v)
		default:
			return nil, protocolErrorf("value %d is %s, not an integer",
				idx, value.Tag())
		}
	}

	return ints, nil
}
