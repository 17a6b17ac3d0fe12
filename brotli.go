package brotli

/* Copyright 2016 Google Inc. All Rights Reserved.

   Distributed under MIT license.
   See file LICENSE for detail or copy at https://opensource.org/licenses/MIT
*/

/* Feed/Pull decoding API. */

// Result reports why a Pull call returned.
type Result int

const (
	// ResultNeedsMoreInput means the decoder consumed everything fed so far
	// and is suspended inside the stream; Feed more bytes and Pull again.
	ResultNeedsMoreInput Result = iota

	// ResultNeedsMoreOutput means the output buffer filled before the
	// decoder could make further progress; Pull again with fresh space.
	ResultNeedsMoreOutput

	// ResultDone means the stream decoded completely and all output has
	// been delivered. Further Pull calls keep returning ResultDone.
	ResultDone

	// ResultError means the stream is invalid; Err reports the fault.
	ResultError
)

func (r Result) String() string {
	switch r {
	case ResultNeedsMoreInput:
		return "needs more input"
	case ResultNeedsMoreOutput:
		return "needs more output"
	case ResultDone:
		return "done"
	case ResultError:
		return "error"
	}
	return "unknown"
}

// NewDecoder returns a decoder ready for the start of a brotli stream.
func NewDecoder() *Decoder {
	d := new(Decoder)
	d.reset()
	return d
}

func (d *Decoder) reset() {
	d.state = stateStreamHeader
	d.br = bitReader{}
	d.rb = ringBuffer{}
	d.err = nil
	d.started = false
	d.blockTypeTrees = make([]hcode, 3*blockTypeStride)
	d.blockLenTrees = make([]hcode, 3*blockLenStride)
	d.distRb = [4]int{16, 15, 11, 4}
	d.distRbIdx = 0
	d.literalGroup = huffmanGroup{}
	d.insertGroup = huffmanGroup{}
	d.distanceGroup = huffmanGroup{}
	d.metablockBegin()
}

// Reset returns the decoder to the start-of-stream state, dropping any
// unconsumed input and undelivered output. Options revert to their defaults.
func (d *Decoder) Reset() {
	d.largeWindow = false
	d.eagerOutput = false
	d.customDict = nil
	d.reset()
}

// Feed hands compressed bytes to the decoder. The slice is copied; the
// caller may reuse it immediately. Feeding after the stream has finished or
// faulted is a no-op.
func (d *Decoder) Feed(p []byte) {
	if d.state == stateDone || d.state == stateError {
		return
	}
	d.br.feed(p)
}

// Pull decodes into dst and returns the byte count produced together with
// the reason decoding stopped. A zero-length dst is valid and reports the
// decoder's status without producing output.
func (d *Decoder) Pull(dst []byte) (int, Result) {
	if d.err != nil {
		return 0, ResultError
	}
	d.started = true
	n := 0
	return n, d.run(dst, &n)
}

// Err returns the error that moved the decoder into the error state, or nil.
func (d *Decoder) Err() error {
	return d.err
}

// UnusedInput reports how many fed bytes the decoder has not consumed. After
// ResultDone this is the length of the trailing data beyond the stream.
func (d *Decoder) UnusedInput() int {
	return d.br.unusedBytes()
}

// AttachDictionaryChunk prepends a compound dictionary chunk. Backward
// references beyond the decoded output resolve against it, most recent byte
// first. Must be called before the first Pull.
func (d *Decoder) AttachDictionaryChunk(p []byte) error {
	if d.started {
		return errStarted
	}
	d.customDict = append(d.customDict, p...)
	return nil
}

// EnableLargeWindow accepts the large-window extension (window sizes up to
// 2^30). Must be called before the first Pull.
func (d *Decoder) EnableLargeWindow() error {
	if d.started {
		return errStarted
	}
	d.largeWindow = true
	return nil
}

// EnableEagerOutput makes Pull surface decoded bytes before asking for more
// input, trading ring-buffer batching for latency. Must be called before the
// first Pull.
func (d *Decoder) EnableEagerOutput() error {
	if d.started {
		return errStarted
	}
	d.eagerOutput = true
	return nil
}
