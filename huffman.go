package brotli

/* Copyright 2013 Google Inc. All Rights Reserved.

   Distributed under MIT license.
   See file LICENSE for detail or copy at https://opensource.org/licenses/MIT
*/

/* Canonical prefix code tables: two-level lookup, 8-bit root. */

const (
	huffmanTableBits = 8
	huffmanTableMask = (1 << huffmanTableBits) - 1

	maxCodeLength = 15

	// Code lengths themselves travel under an 18-symbol prefix code whose
	// own lengths fit in 5 bits.
	codeLengthCodes   = 18
	maxCodeLengthCode = 5
)

// hcode is one table entry. For root entries that chain to a second level,
// bits holds rootBits+subTableBits and value the offset of the sub-table;
// for terminal entries bits is the remaining code length (0 for the
// degenerate single-symbol code, which consumes no bits at all).
type hcode struct {
	bits  uint8
	value uint16
}

// Worst-case two-level table sizes per 32 symbols of alphabet, assuming an
// 8-bit root.
var kMaxTableSize = [...]uint16{
	256, 402, 436, 468, 500, 534, 566, 598, 630, 662, 694, 726, 758, 790,
	822, 854, 886, 920, 952, 984, 1016, 1048, 1080,
}

func maxHuffmanTableSize(alphabetLimit uint32) uint32 {
	return uint32(kMaxTableSize[(alphabetLimit+31)>>5])
}

// getNextKey advances a length-bit code in bit-reversed order.
func getNextKey(key, length uint32) uint32 {
	step := uint32(1) << (length - 1)
	for key&step != 0 {
		step >>= 1
	}
	return (key & (step - 1)) + step
}

// replicateValue stores item in all table slots whose low bits equal the
// current key.
func replicateValue(table []hcode, offset, step, end uint32, item hcode) {
	for {
		end -= step
		table[offset+end] = item
		if end == 0 {
			break
		}
	}
}

// nextTableBitSize picks the width of the next sub-table so that it is large
// enough for all remaining codes of length > rootBits.
func nextTableBitSize(count []uint16, length, rootBits uint32) uint32 {
	left := int32(1) << (length - rootBits)
	for length < maxCodeLength {
		left -= int32(count[length])
		if left <= 0 {
			break
		}
		length++
		left <<= 1
	}
	return length - rootBits
}

// buildHuffmanTable fills table from per-symbol code lengths and returns the
// total number of entries used. The lengths must describe a complete code
// (the callers account for code space before building); a code using a
// single symbol yields zero-bit entries that decode without consuming input.
func buildHuffmanTable(table []hcode, rootBits uint32, codeLengths []byte) uint32 {
	var count [maxCodeLength + 1]uint16
	var offset [maxCodeLength + 1]uint16

	for _, l := range codeLengths {
		count[l]++
	}
	for l := uint32(1); l < maxCodeLength; l++ {
		offset[l+1] = offset[l] + count[l]
	}

	// Symbols ordered by (length, value), the canonical code order.
	sorted := make([]uint16, int(offset[maxCodeLength])+int(count[maxCodeLength]))
	for sym, l := range codeLengths {
		if l != 0 {
			sorted[offset[l]] = uint16(sym)
			offset[l]++
		}
	}

	tableBits := rootBits
	tableSize := uint32(1) << tableBits
	totalSize := tableSize

	if len(sorted) == 1 {
		for k := uint32(0); k < totalSize; k++ {
			table[k] = hcode{bits: 0, value: sorted[0]}
		}
		return totalSize
	}

	// Codes no longer than the root width fill the first level directly.
	key := uint32(0)
	symbol := 0
	for length, step := uint32(1), uint32(2); length <= rootBits; length, step = length+1, step<<1 {
		for ; count[length] > 0; count[length]-- {
			replicateValue(table, key, step, tableSize, hcode{bits: uint8(length), value: sorted[symbol]})
			symbol++
			key = getNextKey(key, length)
		}
	}

	// Longer codes hang sub-tables off the root slot their low bits select.
	mask := totalSize - 1
	low := uint32(0xffffffff)
	var subOffset uint32
	for length, step := rootBits+1, uint32(2); length <= maxCodeLength; length, step = length+1, step<<1 {
		for ; count[length] > 0; count[length]-- {
			if key&mask != low {
				subOffset += tableSize
				tableBits = nextTableBitSize(count[:], length, rootBits)
				tableSize = 1 << tableBits
				totalSize += tableSize
				low = key & mask
				table[low] = hcode{bits: uint8(tableBits + rootBits), value: uint16(subOffset - low)}
			}
			replicateValue(table[subOffset:], key>>rootBits, step, tableSize,
				hcode{bits: uint8(length - rootBits), value: sorted[symbol]})
			symbol++
			key = getNextKey(key, length)
		}
	}
	return totalSize
}

// readSymbol decodes one symbol, or consumes nothing and reports false when
// the buffered bits cannot determine it yet.
func readSymbol(table []hcode, br *bitReader) (uint32, bool) {
	br.fill()
	n := br.numBits
	val := uint32(br.bufBits)

	e := table[val&huffmanTableMask]
	if uint32(e.bits) <= huffmanTableBits {
		if uint32(e.bits) > n {
			return 0, false
		}
		br.drop(uint32(e.bits))
		return uint32(e.value), true
	}

	// Second level. Bits beyond numBits peek as zero, which is fine: the
	// availability check below rejects the result before it is committed.
	if n < huffmanTableBits {
		return 0, false
	}
	ext := table[(val&huffmanTableMask)+uint32(e.value)+
		((val>>huffmanTableBits)&bitMask(uint32(e.bits)-huffmanTableBits))]
	total := huffmanTableBits + uint32(ext.bits)
	if total > n {
		return 0, false
	}
	br.drop(total)
	return uint32(ext.value), true
}
