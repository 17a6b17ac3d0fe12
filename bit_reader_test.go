package brotli

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBitReaderReadBits(t *testing.T) {
	var br bitReader
	br.feed([]byte{0b10110100, 0b01100001})

	v, ok := br.readBits(3)
	require.True(t, ok)
	require.Equal(t, uint32(0b100), v)

	v, ok = br.readBits(5)
	require.True(t, ok)
	require.Equal(t, uint32(0b10110), v)

	v, ok = br.readBits(8)
	require.True(t, ok)
	require.Equal(t, uint32(0b01100001), v)

	_, ok = br.readBits(1)
	require.False(t, ok)
}

// A failing read consumes nothing; after more input arrives the same read
// succeeds from the same position.
func TestBitReaderUnderrun(t *testing.T) {
	var br bitReader
	br.feed([]byte{0xff})

	_, ok := br.readBits(12)
	require.False(t, ok)

	br.feed([]byte{0x0a})
	v, ok := br.readBits(12)
	require.True(t, ok)
	require.Equal(t, uint32(0xaff), v)
}

func TestBitReaderSaveRestore(t *testing.T) {
	var br bitReader
	br.feed([]byte{0x12, 0x34, 0x56})

	m := br.save()
	v1, ok := br.readBits(10)
	require.True(t, ok)

	br.restore(m)
	v2, ok := br.readBits(10)
	require.True(t, ok)
	require.Equal(t, v1, v2)
}

func TestBitReaderAlignAndCopy(t *testing.T) {
	var br bitReader
	br.feed([]byte{0b00000101, 'h', 'i', '!'})

	v, ok := br.readBits(3)
	require.True(t, ok)
	require.Equal(t, uint32(0b101), v)
	require.Equal(t, uint32(0), br.alignToByte())

	dst := make([]byte, 2)
	require.Equal(t, 2, br.copyBytes(dst))
	require.Equal(t, []byte("hi"), dst)
	require.Equal(t, 1, br.unusedBytes())
}

func TestBitReaderNonZeroPadding(t *testing.T) {
	var br bitReader
	br.feed([]byte{0b01000001})

	_, ok := br.readBits(1)
	require.True(t, ok)
	require.NotEqual(t, uint32(0), br.alignToByte())
}

func TestBitReaderFeedCompaction(t *testing.T) {
	var br bitReader
	br.feed([]byte{1, 2, 3, 4})
	br.fill()
	// All four bytes are in the accumulator; feeding more must append
	// without disturbing consumed positions.
	br.feed([]byte{5})
	require.Equal(t, 5, br.unusedBytes())

	for want := 1; want <= 5; want++ {
		v, ok := br.readBits(8)
		require.True(t, ok)
		require.Equal(t, uint32(want), v)
	}
}
