package brotli

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDictionaryWord(t *testing.T) {
	require.Equal(t, "time", string(dictionaryWord(4, 0)))
	require.Equal(t, "first", string(dictionaryWord(5, 0)))

	// Every populated length bucket serves words of exactly that length.
	for length := minDictionaryWordLength; length <= maxDictionaryWordLength; length++ {
		last := (1 << dictionarySizeBits[length]) - 1
		require.Len(t, dictionaryWord(length, 0), length)
		require.Len(t, dictionaryWord(length, last), length)
	}
}

func TestDictionaryOffsets(t *testing.T) {
	for n := minDictionaryWordLength; n <= maxDictionaryWordLength; n++ {
		require.Equal(t, n<<dictionarySizeBits[n], dictionaryOffsets[n+1]-dictionaryOffsets[n])
	}
	require.Equal(t, len(dictionaryData), dictionaryOffsets[maxDictionaryWordLength+1])
}
