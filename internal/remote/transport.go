// SPDX-FileCopyrightText: 2026 The macrun authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package remote

import (
	"context"
	"net"
	"sync"
	"sync/atomic"
	"time"
)

// Control sentinels of the call/reply protocol. They are disjoint from the
// [Tag] namespace.
const (
	callStart int32 = -1
	callEnd   int32 = -2
	replyTag  int32 = -3
	replyAck  int32 = -4
)

// Method is the protocol method identifier, a small positive integer
// assigned by the emulator's automation server.
type Method int32

// Conn is a single automation protocol connection.
//
// It owns the underlying socket exclusively. The protocol is strictly
// request/reply with one call in flight at a time, so all calls issued
// through one Conn are serialized by an internal mutex. Close never takes
// that mutex; it must be able to abort a call that is blocked on the
// socket.
type Conn struct {
	mu     sync.Mutex
	conn   net.Conn
	closed atomic.Bool
}

// Dial opens a Unix domain stream socket to the given path.
//
// It fails with a [ConnectionError] if the path does not exist or the
// connection is refused. While the emulator is still booting this is
// expected; callers treat it as retryable, not fatal.
func Dial(path string) (*Conn, error) {
	conn, err := net.Dial("unix", path)
	if err != nil {
		return nil, &ConnectionError{Path: path, Err: err}
	}

	return &Conn{conn: conn}, nil
}

// NewConn wraps an already established connection. Used by tests with
// [net.Pipe] ends.
func NewConn(conn net.Conn) *Conn {
	return &Conn{conn: conn}
}

// Call issues a single call and blocks for its reply.
//
// A context deadline is applied to the socket for the duration of the
// exchange. The returned values are ordered as sent by the server; the
// caller knows by the method it invoked how many values of which type to
// expect.
func (c *Conn) Call(
	ctx context.Context,
	method Method,
	args ...Value,
) ([]Value, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return nil, ErrConnClosed
	}

	if deadline, ok := ctx.Deadline(); ok {
		_ = c.conn.SetDeadline(deadline)
	}

	// Socket I/O does not watch the context by itself. On cancellation,
	// expire the deadline immediately so the blocked read or write aborts.
	watchDone := make(chan struct{})

	go func() {
		select {
		case <-ctx.Done():
			_ = c.conn.SetDeadline(time.Now())
		case <-watchDone:
		}
	}()

	defer func() {
		close(watchDone)
		_ = c.conn.SetDeadline(time.Time{})
	}()

	values, err := c.exchange(method, args)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		return nil, err
	}

	return values, nil
}

func (c *Conn) exchange(method Method, args []Value) ([]Value, error) {
	err := c.sendCall(method, args)
	if err != nil {
		return nil, err
	}

	return c.recvReply()
}

// Close closes the socket. It is idempotent.
//
// Closing while a call is in flight surfaces as a [TransportError] on that
// call's next read or write; besides context cancellation this is the only
// way to abort a call. Close therefore never waits for an in-flight call.
func (c *Conn) Close() error {
	if c.closed.Swap(true) {
		return nil
	}

	return c.conn.Close()
}

func (c *Conn) sendCall(method Method, args []Value) error {
	w := wireWriter{w: c.conn}

	err := w.writeInt32(callStart)
	if err != nil {
		return err
	}

	if err := w.writeInt32(int32(method)); err != nil {
		return err
	}

	for _, arg := range args {
		if err := writeValue(w, arg); err != nil {
			return err
		}
	}

	return w.writeInt32(callEnd)
}

func writeValue(w wireWriter, v Value) error {
	err := w.writeInt32(int32(v.tag))
	if err != nil {
		return err
	}

	switch v.tag {
	case TagInt32:
		return w.writeInt32(v.i32)
	case TagUint32:
		return w.writeUint32(v.u32)
	case TagString:
		return w.writeString(v.str)
	case TagByteArray:
		// Element type, element count, raw bytes.
		if err := w.writeInt32(int32(TagByte)); err != nil {
			return err
		}

		return w.writeBytes(v.bytes)
	default:
		return protocolErrorf("cannot encode %s", v.tag)
	}
}

// recvReply reads one complete reply frame: the reply sentinel, a tag-typed
// value list terminated by the end sentinel, and the acknowledgement.
func (c *Conn) recvReply() ([]Value, error) {
	r := wireReader{r: c.conn}

	head, err := r.readInt32()
	if err != nil {
		return nil, err
	}

	if head != replyTag {
		return nil, protocolErrorf("reply starts with %d, not %d",
			head, replyTag)
	}

	var values []Value

	for {
		tag, err := r.readInt32()
		if err != nil {
			return nil, err
		}

		if tag == callEnd {
			break
		}

		value, err := readValue(r, Tag(tag))
		if err != nil {
			return nil, err
		}

		values = append(values, value)
	}

	ack, err := r.readInt32()
	if err != nil {
		return nil, err
	}

	if ack != replyAck {
		return nil, protocolErrorf("reply ends with %d, not %d",
			ack, replyAck)
	}

	return values, nil
}

func readValue(r wireReader, tag Tag) (Value, error) {
	switch tag {
	case TagInt32:
		v, err := r.readInt32()

		return Int32Value(v), err
	case TagUint32:
		v, err := r.readUint32()

		return Uint32Value(v), err
	case TagString:
		v, err := r.readString()

		return StringValue(v), err
	case TagByteArray:
		elem, err := r.readInt32()
		if err != nil {
			return Value{}, err
		}

		if Tag(elem) != TagByte {
			return Value{}, protocolErrorf(
				"byte array with element type %s", Tag(elem))
		}

		v, err := r.readExactPrefixed()

		return BytesValue(v), err
	default:
		return Value{}, protocolErrorf("unknown tag %s", tag)
	}
}
