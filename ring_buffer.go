package brotli

/* Copyright 2013 Google Inc. All Rights Reserved.

   Distributed under MIT license.
   See file LICENSE for detail or copy at https://opensource.org/licenses/MIT
*/

/* Sliding-window output buffer. */

// ringBuffer holds the most recent window of decoded output. Positions are
// absolute stream offsets; pos-out is the produced-but-unflushed span, which
// never exceeds the buffer size. The buffer grows lazily toward the window
// size and only ever wraps once it has reached it, so growth is a plain
// copy of the linear prefix.
type ringBuffer struct {
	data []byte
	size int   // power of two, 0 until first allocation
	mask int
	pos  int64 // total bytes produced
	out  int64 // total bytes handed to the caller
}

// targetSize picks the allocation for the next meta-block: the smallest
// power of two covering both the bytes already held and the block's output,
// capped at the window size. Matches the lazy-growth policy of the reference
// decoder so tiny streams never allocate a full window.
func (rb *ringBuffer) targetSize(windowSize, blockLen int) int {
	if rb.size == windowSize {
		return windowSize
	}
	minSize := 1024
	if rb.size > minSize {
		minSize = rb.size
	}
	if need := int(rb.pos) + blockLen; need > minSize {
		minSize = need
	}
	newSize := windowSize
	for newSize>>1 >= minSize {
		newSize >>= 1
	}
	return newSize
}

// ensure grows the buffer to at least size, preserving contents. Only legal
// before the buffer has wrapped, which targetSize guarantees.
func (rb *ringBuffer) ensure(size int) {
	if size <= rb.size {
		return
	}
	data := make([]byte, size)
	held := rb.pos
	if held > int64(rb.size) {
		held = int64(rb.size)
	}
	copy(data, rb.data[:held])
	rb.data = data
	rb.size = size
	rb.mask = size - 1
}

// free reports how many bytes can be written before unflushed output would
// be overwritten.
func (rb *ringBuffer) free() int {
	return rb.size - int(rb.pos-rb.out)
}

// pending reports produced bytes not yet flushed.
func (rb *ringBuffer) pending() int {
	return int(rb.pos - rb.out)
}

func (rb *ringBuffer) writeByte(b byte) {
	rb.data[int(rb.pos)&rb.mask] = b
	rb.pos++
}

// lastTwo returns the previous two output bytes, zero before the stream has
// produced them (the buffer starts zeroed and grows zero-filled).
func (rb *ringBuffer) lastTwo() (p1, p2 byte) {
	return rb.data[int(rb.pos-1)&rb.mask], rb.data[int(rb.pos-2)&rb.mask]
}

// copyBack copies length bytes from distance bytes behind the write head.
// Overlapping copies replicate bytes written earlier in the same call, which
// is how the format expresses runs. The caller has validated the distance
// and reserved the space.
func (rb *ringBuffer) copyBack(distance, length int) {
	start := int(rb.pos) & rb.mask
	src := int(rb.pos-int64(distance)) & rb.mask
	if distance >= length && start+length <= rb.size && src+length <= rb.size {
		copy(rb.data[start:start+length], rb.data[src:src+length])
		rb.pos += int64(length)
		return
	}
	for i := 0; i < length; i++ {
		rb.data[int(rb.pos)&rb.mask] = rb.data[int(rb.pos-int64(distance))&rb.mask]
		rb.pos++
	}
}

// writableSegment returns the contiguous run of bytes that can be written
// right now, bounded by free space and the physical end of the buffer.
// advance commits bytes written into it.
func (rb *ringBuffer) writableSegment() []byte {
	start := int(rb.pos) & rb.mask
	n := rb.free()
	if start+n > rb.size {
		n = rb.size - start
	}
	return rb.data[start : start+n]
}

func (rb *ringBuffer) advance(n int) {
	rb.pos += int64(n)
}

// flush copies unflushed output into dst and returns the count.
func (rb *ringBuffer) flush(dst []byte) int {
	total := 0
	for len(dst) > 0 && rb.out < rb.pos {
		start := int(rb.out) & rb.mask
		n := int(rb.pos - rb.out)
		if start+n > rb.size {
			n = rb.size - start
		}
		if n > len(dst) {
			n = len(dst)
		}
		copy(dst, rb.data[start:start+n])
		dst = dst[n:]
		rb.out += int64(n)
		total += n
	}
	return total
}
