// SPDX-FileCopyrightText: 2026 The macrun authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package remote

import (
	"encoding/binary"
	"io"
)

// wireWriter serializes the primitive values used by the protocol. All
// multi-byte integers go out in big-endian order. Writes are all-or-nothing:
// a short write is a [TransportError].
type wireWriter struct {
	w io.Writer
}

func (w wireWriter) writeInt32(v int32) error {
	return w.writeUint32(uint32(v))
}

func (w wireWriter) writeUint32(v uint32) error {
	var buf [4]byte

	binary.BigEndian.PutUint32(buf[:], v)

	if _, err := w.w.Write(buf[:]); err != nil {
		return &TransportError{Op: "write", Err: err}
	}

	return nil
}

// writeString writes a 4-byte length prefix holding the byte count of the
// UTF-8 encoding, followed by the raw bytes. The empty string is a valid
// zero-length write.
func (w wireWriter) writeString(s string) error {
	return w.writeBytes([]byte(s))
}

func (w wireWriter) writeBytes(b []byte) error {
	err := w.writeUint32(uint32(len(b)))
	if err != nil {
		return err
	}

	if len(b) == 0 {
		return nil
	}

	if _, err := w.w.Write(b); err != nil {
		return &TransportError{Op: "write", Err: err}
	}

	return nil
}

// wireReader deserializes the primitive values used by the protocol. Every
// read blocks until the full value is available. There is no partial or
// streaming decode: a short read or closed connection is a [TransportError].
type wireReader struct {
	r io.Reader
}

func (r wireReader) readInt32() (int32, error) {
	v, err := r.readUint32()

	return int32(v), err
}

func (r wireReader) readUint32() (uint32, error) {
	var buf [4]byte

	if _, err := io.ReadFull(r.r, buf[:]); err != nil {
		return 0, &TransportError{Op: "read", Err: err}
	}

	return binary.BigEndian.Uint32(buf[:]), nil
}

func (r wireReader) readString() (string, error) {
	b, err := r.readExactPrefixed()

	return string(b), err
}

// readExact reads exactly n bytes, looping over partial reads.
func (r wireReader) readExact(n int) ([]byte, error) {
	buf := make([]byte, n)

	if _, err := io.ReadFull(r.r, buf); err != nil {
		return nil, &TransportError{Op: "read", Err: err}
	}

	return buf, nil
}

// maxPrefixedLen bounds length-prefixed payloads. The largest legitimate
// payload is a full frame buffer; even a deep large display stays well
// below this, so anything bigger is a corrupt or hostile length, not data.
const maxPrefixedLen = 16 << 20

func (r wireReader) readExactPrefixed() ([]byte, error) {
	n, err := r.readUint32()
	if err != nil {
		return nil, err
	}

	if n > maxPrefixedLen {
		return nil, protocolErrorf("length prefix %d exceeds limit %d",
			n, maxPrefixedLen)
	}

	if n == 0 {
		return nil, nil
	}

	return r.readExact(int(n))
}
