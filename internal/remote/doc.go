// SPDX-FileCopyrightText: 2026 The macrun authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package remote implements the client side of the emulator's automation
// protocol: a synchronous binary RPC over a Unix domain stream socket.
//
// The protocol is strictly request/reply. A call is framed as a start
// sentinel, a method id, a sequence of type-tagged arguments and an end
// sentinel. The reply is a tagged value list terminated by the end sentinel
// and followed by an acknowledgement. All integers on the wire are big-endian
// 4-byte values. Control sentinels and type tags live in disjoint negative
// namespaces, so a decoder can tell them apart without extra framing.
//
// The protocol is not self-describing beyond the tags present: the method id
// determines the expected argument and reply shapes. [Client] encodes that
// private contract, one typed operation per method id.
package remote
