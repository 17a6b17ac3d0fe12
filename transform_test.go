package brotli

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTransformDictionaryWord(t *testing.T) {
	tests := []struct {
		idx  int
		word string
		want string
	}{
		{0, "time", "time"},   // identity
		{1, "time", "time "},  // trailing space
		{3, "time", "ime"},    // omit first
		{4, "time", "Time "},  // uppercase first, trailing space
		{7, "time", "s time "}, // "s " prefix
		{9, "time", "Time"},   // uppercase first
		{12, "time", "tim"},   // omit last
		{44, "time", "TIME"},  // uppercase all
	}
	var dst [maxTransformedWordLength]byte
	for _, tt := range tests {
		n := transformDictionaryWord(dst[:], []byte(tt.word), tt.idx)
		require.Equal(t, tt.want, string(dst[:n]))
	}
}

// Uppercasing operates on multi-byte sequences the way the format defines.
func TestTransformUppercaseNonASCII(t *testing.T) {
	var dst [maxTransformedWordLength]byte

	n := transformDictionaryWord(dst[:], []byte("über"), 9)
	require.Equal(t, "Über", string(dst[:n]))
}

// Omit counts larger than the word clamp instead of underflowing.
func TestTransformOmitClamps(t *testing.T) {
	var dst [maxTransformedWordLength]byte

	// omitFirst9 on a four-byte word leaves nothing of it.
	require.Equal(t, byte(omitFirst9), kTransforms[54].kind)
	n := transformDictionaryWord(dst[:], []byte("abcd"), 54)
	require.Equal(t, "", string(dst[:n]))
}

// Some dictionary words end in a truncated multi-byte sequence; uppercasing
// must not run off the transformed word.
func TestTransformTruncatedMultiByte(t *testing.T) {
	word := dictionaryWord(4, 436)
	require.Equal(t, "zh:\xe5", string(word))

	var dst [maxTransformedWordLength]byte
	n := transformDictionaryWord(dst[:], word, 44) // uppercaseAll
	require.Equal(t, "ZH:\xe5", string(dst[:n]))
}

// Every transform of every dictionary word must fit the output buffer.
func TestTransformAllWords(t *testing.T) {
	var dst [maxTransformedWordLength]byte
	for length := minDictionaryWordLength; length <= maxDictionaryWordLength; length++ {
		for index := 0; index < 1<<dictionarySizeBits[length]; index++ {
			word := dictionaryWord(length, index)
			for idx := range kTransforms {
				n := transformDictionaryWord(dst[:], word, idx)
				require.LessOrEqual(t, n, maxTransformedWordLength)
			}
		}
	}
}

func TestPrefixSuffixTable(t *testing.T) {
	require.Equal(t, " ", prefixSuffixString(0))
	require.Equal(t, ", ", prefixSuffixString(1))
	require.Equal(t, " of the ", prefixSuffixString(2))
	require.Equal(t, "", prefixSuffixString(49))

	// Every entry must decode without running off the packed string.
	for id := 0; id < len(kPrefixSuffixMap); id++ {
		_ = prefixSuffixString(byte(id))
	}
}
