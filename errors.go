package brotli

/* Copyright 2016 Google Inc. All Rights Reserved.

   Distributed under MIT license.
   See file LICENSE for detail or copy at https://opensource.org/licenses/MIT
*/

import "errors"

// Stream faults. Once the decoder reports one of these the stream is dead;
// Err returns the same value on every subsequent call.
var (
	ErrWindowBits  = errors.New("brotli: invalid window size field")
	ErrReservedBit = errors.New("brotli: reserved bit set")
	ErrBlockLength = errors.New("brotli: meta-block length inconsistent with content")
	ErrHuffmanCode = errors.New("brotli: incomplete or over-subscribed prefix code")
	ErrContextMap  = errors.New("brotli: invalid context map")
	ErrDistance    = errors.New("brotli: distance out of range")
	ErrDictionary  = errors.New("brotli: invalid static dictionary reference")
	ErrTransform   = errors.New("brotli: dictionary transform out of range")
	ErrPadding     = errors.New("brotli: non-zero padding bits")
)

// Usage fault, reported by option methods rather than the stream.
var errStarted = errors.New("brotli: decoding already started")

// Reported by Reader when bytes follow the end of the stream.
var errExcessiveInput = errors.New("brotli: excessive input")
