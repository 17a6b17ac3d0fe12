package brotli

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}

// decodeAll feeds the whole stream up front and pulls with outSize-byte
// buffers until the decoder finishes.
func decodeAll(t *testing.T, d *Decoder, input []byte, outSize int) []byte {
	t.Helper()
	d.Feed(input)
	out := []byte{}
	buf := make([]byte, outSize)
	for {
		n, result := d.Pull(buf)
		out = append(out, buf[:n]...)
		switch result {
		case ResultDone:
			return out
		case ResultNeedsMoreOutput:
		default:
			t.Fatalf("unexpected result %v (err: %v)", result, d.Err())
		}
	}
}

func TestEmptyStream(t *testing.T) {
	// The two canonical zero-length streams: one-byte 17-bit-window form
	// and the ISLASTEMPTY form.
	for _, stream := range [][]byte{{0x3b}, {0x06}} {
		d := NewDecoder()
		d.Feed(stream)
		n, result := d.Pull(make([]byte, 16))
		require.Equal(t, ResultDone, result)
		require.Equal(t, 0, n)
		require.NoError(t, d.Err())
	}
}

func TestFixtures(t *testing.T) {
	tests := []struct {
		compressed string
		want       string // literal unless rawFile is set
		rawFile    string
	}{
		{compressed: "uncompressed_abc.br", want: "abc"},
		{compressed: "overlap_copy.br", want: "aaaaaaaaaa"},
		{compressed: "single_x.br", rawFile: "single_x.raw"},
		{compressed: "dict_time.br", want: "time"},
		{compressed: "dict_time_space.br", want: "time "},
		{compressed: "metadata_skip.br", want: ""},
		{compressed: "text_q1.br", rawFile: "text_q1.raw"},
		{compressed: "text_q5.br", rawFile: "text_q5.raw"},
		{compressed: "text_q9.br", rawFile: "text_q9.raw"},
		{compressed: "text_q11.br", rawFile: "text_q11.raw"},
		{compressed: "text_q5_w10.br", rawFile: "text_q5_w10.raw"},
		{compressed: "random_q1.br", rawFile: "random_q1.raw"},
		{compressed: "random_q5.br", rawFile: "random_q5.raw"},
	}
	for _, tt := range tests {
		t.Run(tt.compressed, func(t *testing.T) {
			want := []byte(tt.want)
			if tt.rawFile != "" {
				want = readFixture(t, tt.rawFile)
			}
			got := decodeAll(t, NewDecoder(), readFixture(t, tt.compressed), 4096)
			require.Equal(t, want, got)
		})
	}
}

func TestFixtureErrors(t *testing.T) {
	tests := []struct {
		compressed string
		want       error
	}{
		{"bad_huffman.br", ErrHuffmanCode},
		{"bad_distance.br", ErrDictionary},
		{"bad_transform.br", ErrTransform},
		{"bad_window.br", ErrWindowBits},
	}
	for _, tt := range tests {
		t.Run(tt.compressed, func(t *testing.T) {
			d := NewDecoder()
			d.Feed(readFixture(t, tt.compressed))
			buf := make([]byte, 4096)
			var result Result
			for {
				_, result = d.Pull(buf)
				if result != ResultNeedsMoreOutput {
					break
				}
			}
			require.Equal(t, ResultError, result)
			require.ErrorIs(t, d.Err(), tt.want)

			// The fault is sticky: further calls re-report it and late
			// input is ignored.
			_, result = d.Pull(buf)
			assert.Equal(t, ResultError, result)
			d.Feed([]byte{0x00})
			_, result = d.Pull(buf)
			assert.Equal(t, ResultError, result)
			assert.ErrorIs(t, d.Err(), tt.want)
		})
	}
}

// Every proper prefix of a valid stream must suspend for input, never fault
// and never report completion.
func TestTruncatedPrefixes(t *testing.T) {
	for _, name := range []string{"text_q5.br", "dict_time.br", "uncompressed_abc.br"} {
		stream := readFixture(t, name)
		buf := make([]byte, 32*1024)
		for cut := 0; cut < len(stream); cut++ {
			d := NewDecoder()
			d.Feed(stream[:cut])
			var result Result
			for {
				_, result = d.Pull(buf)
				if result != ResultNeedsMoreOutput {
					break
				}
			}
			require.Equalf(t, ResultNeedsMoreInput, result,
				"%s truncated to %d bytes: got %v (err: %v)", name, cut, result, d.Err())
		}
	}
}

// Feeding one byte at a time must produce the same output as feeding the
// stream in bulk.
func TestByteAtATimeInput(t *testing.T) {
	for _, name := range []string{"text_q5.br", "text_q11.br", "dict_time_space.br"} {
		stream := readFixture(t, name)
		want := decodeAll(t, NewDecoder(), stream, 4096)

		d := NewDecoder()
		var got []byte
		buf := make([]byte, 4096)
		result := ResultNeedsMoreInput
		for _, b := range stream {
			d.Feed([]byte{b})
			for {
				var n int
				n, result = d.Pull(buf)
				got = append(got, buf[:n]...)
				if result != ResultNeedsMoreOutput {
					break
				}
			}
			if result == ResultDone {
				break
			}
			require.Equal(t, ResultNeedsMoreInput, result)
		}
		require.Equal(t, ResultDone, result, name)
		require.Equal(t, want, got, name)
	}
}

// Pulling into a one-byte buffer must produce the same output, one byte per
// call.
func TestByteAtATimeOutput(t *testing.T) {
	want := readFixture(t, "text_q5.raw")
	got := decodeAll(t, NewDecoder(), readFixture(t, "text_q5.br"), 1)
	require.Equal(t, want, got)
}

// A 1 KiB window stream larger than its window exercises ring wrap-around
// under output pressure.
func TestSmallWindowWrapAround(t *testing.T) {
	want := readFixture(t, "text_q5_w10.raw")
	got := decodeAll(t, NewDecoder(), readFixture(t, "text_q5_w10.br"), 100)
	require.Equal(t, want, got)
}

func TestTrailingData(t *testing.T) {
	stream := readFixture(t, "uncompressed_abc.br")
	trailing := []byte("trailing")
	d := NewDecoder()
	got := decodeAll(t, d, append(append([]byte{}, stream...), trailing...), 16)
	require.Equal(t, []byte("abc"), got)
	require.Equal(t, len(trailing), d.UnusedInput())
}

func TestCompoundDictionary(t *testing.T) {
	// dict_time.br copies four bytes from one past the window start, which
	// is the last byte of an attached chunk. The copy then overlaps into
	// the output it is producing, repeating that byte.
	chunk := []byte("irrelevantQ")
	d := NewDecoder()
	require.NoError(t, d.AttachDictionaryChunk(chunk))
	got := decodeAll(t, d, readFixture(t, "dict_time.br"), 16)
	require.Equal(t, []byte("QQQQ"), got)
}

func TestOptionsRejectedAfterStart(t *testing.T) {
	d := NewDecoder()
	require.NoError(t, d.EnableLargeWindow())
	require.NoError(t, d.EnableEagerOutput())
	require.NoError(t, d.AttachDictionaryChunk([]byte("abc")))

	d.Pull(nil)
	require.Error(t, d.EnableLargeWindow())
	require.Error(t, d.EnableEagerOutput())
	require.Error(t, d.AttachDictionaryChunk([]byte("abc")))
}

// The byte 0x11 opens the large-window escape sequence. Without the option
// it is an invalid window field; with it, the stream is merely incomplete.
func TestLargeWindowEscape(t *testing.T) {
	d := NewDecoder()
	d.Feed([]byte{0x11})
	_, result := d.Pull(make([]byte, 16))
	require.Equal(t, ResultError, result)
	require.ErrorIs(t, d.Err(), ErrWindowBits)

	d = NewDecoder()
	require.NoError(t, d.EnableLargeWindow())
	d.Feed([]byte{0x11})
	_, result = d.Pull(make([]byte, 16))
	require.Equal(t, ResultNeedsMoreInput, result)
	require.NoError(t, d.Err())

	// 0x91 is the same escape with the reserved bit set.
	d = NewDecoder()
	require.NoError(t, d.EnableLargeWindow())
	d.Feed([]byte{0x91})
	_, result = d.Pull(make([]byte, 16))
	require.Equal(t, ResultError, result)
	require.ErrorIs(t, d.Err(), ErrWindowBits)
}

func TestEagerOutput(t *testing.T) {
	stream := readFixture(t, "uncompressed_abc.br")
	buf := make([]byte, 16)

	// Default: bytes stay in the ring across an input suspension.
	d := NewDecoder()
	d.Feed(stream[:5]) // header plus "ab"
	n, result := d.Pull(buf)
	require.Equal(t, ResultNeedsMoreInput, result)
	require.Equal(t, 0, n)

	// Eager: the same suspension surfaces the bytes decoded so far.
	d = NewDecoder()
	require.NoError(t, d.EnableEagerOutput())
	d.Feed(stream[:5])
	n, result = d.Pull(buf)
	require.Equal(t, ResultNeedsMoreInput, result)
	require.Equal(t, []byte("ab"), buf[:n])

	d.Feed(stream[5:])
	n, result = d.Pull(buf)
	require.Equal(t, ResultDone, result)
	require.Equal(t, []byte("c"), buf[:n])
}

func TestReset(t *testing.T) {
	d := NewDecoder()
	got := decodeAll(t, d, readFixture(t, "overlap_copy.br"), 16)
	require.Equal(t, []byte("aaaaaaaaaa"), got)

	d.Reset()
	got = decodeAll(t, d, readFixture(t, "uncompressed_abc.br"), 16)
	require.Equal(t, []byte("abc"), got)
}

func TestDecode(t *testing.T) {
	out, err := Decode(readFixture(t, "text_q9.br"))
	require.NoError(t, err)
	require.Equal(t, readFixture(t, "text_q9.raw"), out)

	_, err = Decode(readFixture(t, "bad_huffman.br"))
	require.ErrorIs(t, err, ErrHuffmanCode)

	_, err = Decode([]byte{0x1b})
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
}
