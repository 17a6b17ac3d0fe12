package brotli

/* Copyright 2013 Google Inc. All Rights Reserved.

   Distributed under MIT license.
   See file LICENSE for detail or copy at https://opensource.org/licenses/MIT
*/

/* Range codes and fixed tables shared by the command and distance decoders. */

const (
	numLiteralSymbols    = 256
	numCommandSymbols    = 704
	numBlockLengthCodes  = 26
	maxBlockTypeSymbols  = 256 + 2
	maxContextMapSymbols = 256 + 16

	numDistanceShortCodes = 16
	maxNPostfix           = 3
	maxNDirect            = 120

	maxDistanceBits            = 24
	maxLargeWindowDistanceBits = 62

	// Hard cap on any backward reference, dictionary addresses included.
	maxAllowedDistance = 0x7FFFFFFC
)

type rangeCode struct {
	base uint32
	bits uint8
}

func makeRanges(base uint32, bits []uint8) []rangeCode {
	rc := make([]rangeCode, len(bits))
	for i, nb := range bits {
		rc[i] = rangeCode{base: base, bits: nb}
		base += 1 << nb
	}
	return rc
}

var (
	insertLengthRanges = makeRanges(0, []uint8{
		0, 0, 0, 0, 0, 0, 1, 1, 2, 2, 3, 3, 4, 4, 5, 5, 6, 7, 8, 9, 10, 12, 14, 24,
	})
	copyLengthRanges = makeRanges(2, []uint8{
		0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 2, 2, 3, 3, 4, 4, 5, 5, 6, 7, 8, 9, 10, 24,
	})
	blockLengthRanges = makeRanges(1, []uint8{
		2, 2, 2, 2, 3, 3, 3, 3, 4, 4, 4, 4, 5, 5, 5, 5, 6, 6, 7, 8, 9, 10, 11, 12, 13, 24,
	})
)

// A command symbol's upper bits select an insert range bank and a copy range
// bank; the first two banks imply distance code 0.
var (
	insertRangeBank = [9]byte{0, 0, 8, 8, 0, 16, 8, 16, 16}
	copyRangeBank   = [9]byte{0, 8, 0, 8, 16, 0, 16, 8, 16}
)

// Code lengths in a complex prefix code description are themselves coded
// with this fixed code, decoded by peeking 4 bits.
var (
	kCodeLengthPrefixLength = [16]byte{2, 2, 2, 3, 2, 2, 2, 4, 2, 2, 2, 3, 2, 2, 2, 4}
	kCodeLengthPrefixValue  = [16]byte{0, 4, 3, 2, 0, 4, 3, 1, 0, 4, 3, 2, 0, 4, 3, 5}
)

// Order in which lengths of the code length code appear in the stream.
var kCodeLengthCodeOrder = [codeLengthCodes]byte{
	1, 2, 3, 4, 0, 5, 17, 6, 16, 7, 8, 9, 10, 11, 12, 13, 14, 15,
}

// Short distance codes reference the distance cache: an index offset
// relative to the most recent entry plus a value delta.
var (
	distanceShortCodeIndexOffset = [numDistanceShortCodes]byte{
		3, 2, 1, 0, 3, 3, 3, 3, 3, 3, 2, 2, 2, 2, 2, 2,
	}
	distanceShortCodeValueOffset = [numDistanceShortCodes]int8{
		0, 0, 0, 0, -1, 1, -2, 2, -3, 3, -1, 1, -2, 2, -3, 3,
	}
)

// maxDistanceSymbol bounds the usable part of the large-window distance
// alphabet for a given NDIRECT/NPOSTFIX, tighter than the code-space size.
func maxDistanceSymbol(ndirect, npostfix uint32) uint32 {
	bound := [maxNPostfix + 1]uint32{0, 4, 12, 28}
	diff := [maxNPostfix + 1]uint32{73, 126, 228, 424}
	postfix := uint32(1) << npostfix
	switch {
	case ndirect < bound[npostfix]:
		return ndirect + diff[npostfix] + postfix
	case ndirect > bound[npostfix]+postfix:
		return ndirect + diff[npostfix]
	default:
		return bound[npostfix] + diff[npostfix] + postfix
	}
}
