// SPDX-FileCopyrightText: 2026 The macrun authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package remote

import "fmt"

// Tag identifies the wire type of a [Value].
//
// Tags share the negative integer space with the control sentinels but the
// two sets are disjoint, so a decoder never confuses a list terminator with
// a typed value.
type Tag int32

const (
	// TagInt32 marks a signed 32 bit integer.
	TagInt32 Tag = -10
	// TagUint32 marks an unsigned 32 bit integer.
	TagUint32 Tag = -11
	// TagString marks a length-prefixed UTF-8 string.
	TagString Tag = -12
	// TagByteArray marks a byte array, encoded as element type, element
	// count and the raw bytes.
	TagByteArray Tag = -13
	// TagByte is the element type marker used only inside [TagByteArray].
	TagByte Tag = -14
)

// String implements the [fmt.Stringer] interface.
func (t Tag) String() string {
	switch t {
	case TagInt32:
		return "int32"
	case TagUint32:
		return "uint32"
	case TagString:
		return "string"
	case TagByteArray:
		return "bytes"
	case TagByte:
		return "byte"
	default:
		return fmt.Sprintf("tag(%d)", int32(t))
	}
}

// Value is a single tagged protocol value, either a call argument or one
// element of a reply list.
//
// The zero Value is invalid. Use the constructors and the checked accessors;
// an accessor called for the wrong tag returns a [ProtocolError].
type Value struct {
	tag Tag

	i32   int32
	u32   uint32
	str   string
	bytes []byte
}

// Int32Value creates a [Value] carrying a signed 32 bit integer.
func Int32Value(v int32) Value {
	return Value{tag: TagInt32, i32: v}
}

// Uint32Value creates a [Value] carrying an unsigned 32 bit integer.
func Uint32Value(v uint32) Value {
	return Value{tag: TagUint32, u32: v}
}

// StringValue creates a [Value] carrying a string.
func StringValue(v string) Value {
	return Value{tag: TagString, str: v}
}

// BytesValue creates a [Value] carrying a raw byte array. The Value does not
// copy the slice.
func BytesValue(v []byte) Value {
	return Value{tag: TagByteArray, bytes: v}
}

// Tag returns the wire type of the value.
func (v Value) Tag() Tag {
	return v.tag
}

// Int32 returns the signed integer payload.
func (v Value) Int32() (int32, error) {
	if v.tag != TagInt32 {
		return 0, protocolErrorf("value is %s, not %s", v.tag, TagInt32)
	}

	return v.i32, nil
}

// Uint32 returns the unsigned integer payload.
func (v Value) Uint32() (uint32, error) {
	if v.tag != TagUint32 {
		return 0, protocolErrorf("value is %s, not %s", v.tag, TagUint32)
	}

	return v.u32, nil
}

// String returns the string payload, or a description for non-string values.
// Use [Value.Str] for the checked accessor.
func (v Value) String() string {
	switch v.tag {
	case TagString:
		return v.str
	case TagInt32:
		return fmt.Sprintf("int32(%d)", v.i32)
	case TagUint32:
		return fmt.Sprintf("uint32(%d)", v.u32)
	case TagByteArray:
		return fmt.Sprintf("bytes(%d)", len(v.bytes))
	default:
		return v.tag.String()
	}
}

// Str returns the string payload.
func (v Value) Str() (string, error) {
	if v.tag != TagString {
		return "", protocolErrorf("value is %s, not %s", v.tag, TagString)
	}

	return v.str, nil
}

// Bytes returns the byte array payload.
func (v Value) Bytes() ([]byte, error) {
	if v.tag != TagByteArray {
		return nil, protocolErrorf("value is %s, not %s", v.tag, TagByteArray)
	}

	return v.bytes, nil
}
