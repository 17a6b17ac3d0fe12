package brotli

/* Copyright 2016 Google Inc. All Rights Reserved.

   Distributed under MIT license.
   See file LICENSE for detail or copy at https://opensource.org/licenses/MIT
*/

import (
	"io"
)

// readBufSize is a "good" buffer size that avoids excessive round-trips
// between the source and the decoder but doesn't waste too much memory on
// buffering. It is arbitrarily chosen to be equal to the constant used in
// io.Copy.
const readBufSize = 32 * 1024

// Reader adapts a Decoder to the io.Reader interface.
type Reader struct {
	src io.Reader
	d   *Decoder
	buf []byte
}

// NewReader initializes a new Reader instance decoding from src.
func NewReader(src io.Reader) *Reader {
	return &Reader{
		src: src,
		d:   NewDecoder(),
		buf: make([]byte, readBufSize),
	}
}

// Reset discards the Reader's state and makes it equivalent to the result of
// NewReader(src), allowing it to be reused.
func (r *Reader) Reset(src io.Reader) {
	r.src = src
	r.d.Reset()
}

func (r *Reader) Read(p []byte) (n int, err error) {
	for {
		m, result := r.d.Pull(p[n:])
		n += m

		switch result {
		case ResultDone:
			if n > 0 {
				return n, nil
			}
			if r.d.UnusedInput() > 0 {
				return 0, errExcessiveInput
			}
			return 0, io.EOF
		case ResultError:
			return n, r.d.Err()
		case ResultNeedsMoreOutput:
			if n == 0 && len(p) > 0 {
				// Cannot happen with a non-empty p, but keep the
				// contract explicit.
				return 0, io.ErrShortBuffer
			}
			return n, nil
		case ResultNeedsMoreInput:
		}

		// Calling r.src.Read may block. Don't block if we have data to
		// return.
		if n > 0 {
			return n, nil
		}

		m, readErr := r.src.Read(r.buf)
		if m > 0 {
			r.d.Feed(r.buf[:m])
			continue
		}
		if readErr == io.EOF {
			// The stream was cut off mid-way.
			return 0, io.ErrUnexpectedEOF
		}
		return 0, readErr
	}
}

// Decode decompresses a complete brotli stream held in memory.
func Decode(data []byte) ([]byte, error) {
	d := NewDecoder()
	d.Feed(data)
	var out []byte
	buf := make([]byte, 4096)
	for {
		n, result := d.Pull(buf)
		out = append(out, buf[:n]...)
		switch result {
		case ResultDone:
			return out, nil
		case ResultNeedsMoreOutput:
		case ResultError:
			return out, d.Err()
		case ResultNeedsMoreInput:
			return out, io.ErrUnexpectedEOF
		}
	}
}
