package brotli

/* Copyright 2013 Google Inc. All Rights Reserved.

   Distributed under MIT license.
   See file LICENSE for detail or copy at https://opensource.org/licenses/MIT
*/

/* Bit reading helpers */

// bitReader serves bits LSB-first out of a 64-bit accumulator topped up from
// an internal byte buffer. All reads are availability-checked: a read that
// cannot be satisfied consumes nothing and reports failure, so the caller can
// suspend and retry at the exact same stream position after more input
// arrives.
type bitReader struct {
	input   []byte
	pos     int    // next unread byte in input
	bufBits uint64 // accumulator, next bit is bit 0
	numBits uint32 // valid low bits in bufBits; bits above are zero
}

// bitReaderState is a memento for multi-field reads that must commit
// atomically. Restoring rewinds both the accumulator and the byte cursor.
type bitReaderState struct {
	pos     int
	bufBits uint64
	numBits uint32
}

func (br *bitReader) save() bitReaderState {
	return bitReaderState{pos: br.pos, bufBits: br.bufBits, numBits: br.numBits}
}

func (br *bitReader) restore(s bitReaderState) {
	br.pos = s.pos
	br.bufBits = s.bufBits
	br.numBits = s.numBits
}

// feed appends compressed bytes, compacting the already-consumed prefix
// first. The caller's slice is copied; the reader owns its buffer.
func (br *bitReader) feed(p []byte) {
	if br.pos > 0 {
		n := copy(br.input, br.input[br.pos:])
		br.input = br.input[:n]
		br.pos = 0
	}
	br.input = append(br.input, p...)
}

// fill tops the accumulator up to at least 57 bits or until input runs out.
func (br *bitReader) fill() {
	for br.numBits <= 56 && br.pos < len(br.input) {
		br.bufBits |= uint64(br.input[br.pos]) << br.numBits
		br.numBits += 8
		br.pos++
	}
}

func bitMask(n uint32) uint32 {
	return (1 << n) - 1
}

// peek returns the low n bits of the accumulator without consuming them,
// zero-padded when fewer than n bits are buffered. Call fill first.
func (br *bitReader) peek(n uint32) uint32 {
	return uint32(br.bufBits) & bitMask(n)
}

func (br *bitReader) drop(n uint32) {
	br.bufBits >>= n
	br.numBits -= n
}

// readBits consumes n <= 32 bits, or consumes nothing and reports false when
// the stream does not hold that many yet.
func (br *bitReader) readBits(n uint32) (uint32, bool) {
	if br.numBits < n {
		br.fill()
		if br.numBits < n {
			return 0, false
		}
	}
	v := br.peek(n)
	br.drop(n)
	return v, true
}

// alignToByte discards bits up to the next stream byte boundary and returns
// them. Bytes enter the accumulator whole, so numBits&7 is exactly the
// distance to the boundary.
func (br *bitReader) alignToByte() uint32 {
	n := br.numBits & 7
	v := br.peek(n)
	br.drop(n)
	return v
}

// copyBytes moves up to len(dst) aligned bytes into dst, draining the
// accumulator before the byte buffer. Requires byte alignment.
func (br *bitReader) copyBytes(dst []byte) int {
	n := 0
	for n < len(dst) && br.numBits >= 8 {
		dst[n] = byte(br.bufBits)
		br.drop(8)
		n++
	}
	m := copy(dst[n:], br.input[br.pos:])
	br.pos += m
	return n + m
}

// unusedBytes reports whole bytes buffered but not yet consumed. Partial
// accumulator bytes round down, so when the reader is byte-aligned this is
// exact.
func (br *bitReader) unusedBytes() int {
	return int(br.numBits>>3) + len(br.input) - br.pos
}
