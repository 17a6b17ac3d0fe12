package brotli

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// A canonical code assigns each symbol of length L exactly 2^(8-L) of the
// 256 possible table prefixes.
func TestBuildHuffmanTableDistribution(t *testing.T) {
	lengths := []byte{1, 2, 3, 3}
	table := make([]hcode, maxHuffmanTableSize(uint32(len(lengths))))
	size := buildHuffmanTable(table, huffmanTableBits, lengths)
	require.Equal(t, uint32(256), size)

	var counts [4]int
	for b := 0; b < 256; b++ {
		var br bitReader
		br.feed([]byte{byte(b)})
		sym, ok := readSymbol(table, &br)
		require.True(t, ok)
		counts[sym]++
		require.Equal(t, uint32(8)-uint32(lengths[sym]), br.numBits)
	}
	require.Equal(t, [4]int{128, 64, 32, 32}, counts)
}

// Codes longer than the root width land in second-level tables.
func TestBuildHuffmanTableTwoLevel(t *testing.T) {
	// Kraft-complete: 1/2 + 1/4 + ... + 1/256 + 4/1024 = 1.
	lengths := []byte{1, 2, 3, 4, 5, 6, 7, 8, 10, 10, 10, 10}
	table := make([]hcode, maxHuffmanTableSize(uint32(len(lengths))))
	size := buildHuffmanTable(table, huffmanTableBits, lengths)
	require.Greater(t, size, uint32(256))

	counts := make([]int, len(lengths))
	for v := 0; v < 1<<16; v++ {
		var br bitReader
		br.feed([]byte{byte(v), byte(v >> 8)})
		sym, ok := readSymbol(table, &br)
		require.True(t, ok)
		counts[sym]++
		require.Equal(t, uint32(16)-uint32(lengths[sym]), br.numBits)
	}
	for sym, l := range lengths {
		require.Equalf(t, 1<<(16-int(l)), counts[sym], "symbol %d", sym)
	}
}

// A code with a single used symbol consumes no bits at all.
func TestBuildHuffmanTableSingleSymbol(t *testing.T) {
	lengths := []byte{0, 0, 0, 1, 0}
	table := make([]hcode, maxHuffmanTableSize(uint32(len(lengths))))
	buildHuffmanTable(table, huffmanTableBits, lengths)

	var br bitReader
	for i := 0; i < 3; i++ {
		sym, ok := readSymbol(table, &br)
		require.True(t, ok)
		require.Equal(t, uint32(3), sym)
	}
	require.Equal(t, uint32(0), br.numBits)
}

// readSymbol must consume nothing when the buffered bits cannot determine a
// symbol yet.
func TestReadSymbolUnderrun(t *testing.T) {
	lengths := []byte{1, 2, 3, 3}
	table := make([]hcode, maxHuffmanTableSize(uint32(len(lengths))))
	buildHuffmanTable(table, huffmanTableBits, lengths)

	var br bitReader
	_, ok := readSymbol(table, &br)
	require.False(t, ok)

	br.feed([]byte{0xff})
	sym, ok := readSymbol(table, &br)
	require.True(t, ok)
	require.Equal(t, uint32(3), sym)
}

func TestMaxHuffmanTableSize(t *testing.T) {
	require.Equal(t, uint32(1080), maxHuffmanTableSize(numCommandSymbols))
	require.Equal(t, uint32(402), maxHuffmanTableSize(numBlockLengthCodes))
}
