package brotli

/* Copyright 2013 Google Inc. All Rights Reserved.

   Distributed under MIT license.
   See file LICENSE for detail or copy at https://opensource.org/licenses/MIT
*/

/* The static dictionary defined by RFC 7932 appendix A. */

import (
	_ "embed"
)

//go:embed dictionary.bin
var dictionaryData []byte

const (
	minDictionaryWordLength = 4
	maxDictionaryWordLength = 24
)

// dictionarySizeBits gives log2 of the word count per length; zero entries
// mean no words of that length exist.
var dictionarySizeBits = [maxDictionaryWordLength + 1]byte{
	0, 0, 0, 0, 10, 10, 11, 11, 10, 10, 10, 10, 10, 9, 9, 8, 7, 7, 8, 7, 7, 6, 6, 5, 5,
}

// dictionaryOffsets[n] is the byte offset of the first word of length n.
var dictionaryOffsets [maxDictionaryWordLength + 2]int

func init() {
	off := 0
	for n := 0; n <= maxDictionaryWordLength; n++ {
		dictionaryOffsets[n] = off
		if dictionarySizeBits[n] != 0 {
			off += n << dictionarySizeBits[n]
		}
	}
	dictionaryOffsets[maxDictionaryWordLength+1] = off
	if off != len(dictionaryData) {
		panic("brotli: embedded dictionary size mismatch")
	}
}

// dictionaryWord returns the raw word selected by a copy length and a word
// index, before any transform is applied.
func dictionaryWord(length, index int) []byte {
	off := dictionaryOffsets[length] + index*length
	return dictionaryData[off : off+length]
}
