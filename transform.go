package brotli

/* Copyright 2013 Google Inc. All Rights Reserved.

   Distributed under MIT license.
   See file LICENSE for detail or copy at https://opensource.org/licenses/MIT
*/

/* Transformations on dictionary words. */

// Transform kinds. Omit-first/omit-last carry their count in the kind value.
const (
	identity = iota
	omitLast1
	omitLast2
	omitLast3
	omitLast4
	omitLast5
	omitLast6
	omitLast7
	omitLast8
	omitLast9
	uppercaseFirst
	uppercaseAll
	omitFirst1
	omitFirst2
	omitFirst3
	omitFirst4
	omitFirst5
	omitFirst6
	omitFirst7
	omitFirst8
	omitFirst9
)

const numTransforms = 121

// Longest prefix (8) + longest word (24) + longest suffix (8).
const maxTransformedWordLength = 40

// Prefix and suffix strings, length-prefixed and concatenated. Entry 49 is
// the empty string.
const kPrefixSuffix = "\001 \002, \010 of the \004 of \002s \001.\005 and \004 " +
	"in \001\"\004 to \002\">\001\n\002. \001]\005 for \003 a \006 " +
	"that \001'\006 with \006 from \004 by \001(\006. T" +
	"he \004 on \004 as \004 is \004ing \002\n\t\001:\003ed " +
	"\002=\"\004 at \003ly \001,\002='\005.com/\007. This \005" +
	" not \003er \003al \004ful \004ive \005less \004es" +
	"t \004ize \002\xc2\xa0\004ous \005 the \002e \000"

var kPrefixSuffixMap = [50]uint16{
	0x00, 0x02, 0x05, 0x0E, 0x13, 0x16, 0x18, 0x1E, 0x23, 0x25,
	0x2A, 0x2D, 0x2F, 0x32, 0x34, 0x3A, 0x3E, 0x45, 0x47, 0x4E,
	0x55, 0x5A, 0x5C, 0x63, 0x68, 0x6D, 0x72, 0x77, 0x7A, 0x7C,
	0x80, 0x83, 0x88, 0x8C, 0x8E, 0x91, 0x97, 0x9F, 0xA5, 0xA9,
	0xAD, 0xB2, 0xB7, 0xBD, 0xC2, 0xC7, 0xCA, 0xCF, 0xD5, 0xD8,
}

type transform struct {
	prefix byte // index into kPrefixSuffixMap
	kind   byte
	suffix byte // index into kPrefixSuffixMap
}

var kTransforms = [numTransforms]transform{
	{49, identity, 49},
	{49, identity, 0},
	{0, identity, 0},
	{49, omitFirst1, 49},
	{49, uppercaseFirst, 0},
	{49, identity, 47},
	{0, identity, 49},
	{4, identity, 0},
	{49, identity, 3},
	{49, uppercaseFirst, 49},
	{49, identity, 6},
	{49, omitFirst2, 49},
	{49, omitLast1, 49},
	{1, identity, 0},
	{49, identity, 1},
	{0, uppercaseFirst, 0},
	{49, identity, 7},
	{49, identity, 9},
	{48, identity, 0},
	{49, identity, 8},
	{49, identity, 5},
	{49, identity, 10},
	{49, identity, 11},
	{49, omitLast3, 49},
	{49, identity, 13},
	{49, identity, 14},
	{49, omitFirst3, 49},
	{49, omitLast2, 49},
	{49, identity, 15},
	{49, identity, 16},
	{0, uppercaseFirst, 49},
	{49, identity, 12},
	{5, identity, 49},
	{0, identity, 1},
	{49, omitFirst4, 49},
	{49, identity, 18},
	{49, identity, 17},
	{49, identity, 19},
	{49, identity, 20},
	{49, omitFirst5, 49},
	{49, omitFirst6, 49},
	{47, identity, 49},
	{49, omitLast4, 49},
	{49, identity, 22},
	{49, uppercaseAll, 49},
	{49, identity, 23},
	{49, identity, 24},
	{49, identity, 25},
	{49, omitLast7, 49},
	{49, omitLast1, 26},
	{49, identity, 27},
	{49, identity, 28},
	{0, identity, 12},
	{49, identity, 29},
	{49, omitFirst9, 49},
	{49, omitFirst7, 49},
	{49, omitLast6, 49},
	{49, identity, 21},
	{49, uppercaseFirst, 1},
	{49, omitLast8, 49},
	{49, identity, 31},
	{49, identity, 32},
	{47, identity, 3},
	{49, omitLast5, 49},
	{49, omitLast9, 49},
	{0, uppercaseFirst, 1},
	{49, uppercaseFirst, 8},
	{5, identity, 21},
	{49, uppercaseAll, 0},
	{49, uppercaseFirst, 10},
	{49, identity, 30},
	{0, identity, 5},
	{35, identity, 49},
	{47, identity, 2},
	{49, uppercaseFirst, 17},
	{49, identity, 36},
	{49, identity, 33},
	{5, identity, 0},
	{49, uppercaseFirst, 21},
	{49, uppercaseFirst, 5},
	{49, identity, 37},
	{0, identity, 30},
	{49, identity, 38},
	{0, uppercaseAll, 0},
	{49, identity, 39},
	{0, uppercaseAll, 49},
	{49, identity, 34},
	{49, uppercaseAll, 8},
	{49, uppercaseFirst, 12},
	{0, identity, 21},
	{49, identity, 40},
	{0, uppercaseFirst, 12},
	{49, identity, 41},
	{49, identity, 42},
	{49, uppercaseAll, 17},
	{49, identity, 43},
	{0, uppercaseFirst, 5},
	{49, uppercaseAll, 10},
	{0, identity, 34},
	{49, uppercaseFirst, 33},
	{49, identity, 44},
	{49, uppercaseAll, 5},
	{45, identity, 49},
	{0, identity, 33},
	{49, uppercaseFirst, 30},
	{49, uppercaseAll, 30},
	{49, identity, 46},
	{49, uppercaseAll, 1},
	{49, uppercaseFirst, 34},
	{0, uppercaseFirst, 33},
	{0, uppercaseAll, 30},
	{0, uppercaseAll, 1},
	{49, uppercaseAll, 33},
	{49, uppercaseAll, 21},
	{49, uppercaseAll, 12},
	{0, uppercaseAll, 5},
	{49, uppercaseAll, 34},
	{0, uppercaseAll, 12},
	{0, uppercaseFirst, 30},
	{0, uppercaseAll, 34},
	{0, uppercaseFirst, 34},
}

func prefixSuffixString(id byte) string {
	off := int(kPrefixSuffixMap[id])
	n := int(kPrefixSuffix[off])
	return kPrefixSuffix[off+1 : off+1+n]
}

// toUpperCase uppercases one pseudo-UTF8 rune in place, the way the format
// defines it (heuristic, operates on 1 to 3 bytes). Dictionary words may end
// in a truncated multi-byte sequence, so the rune's tail can extend past the
// word; callers pass an open-ended slice whose slack the suffix overwrites.
func toUpperCase(p []byte) int {
	if p[0] < 0xc0 {
		if p[0] >= 'a' && p[0] <= 'z' {
			p[0] ^= 32
		}
		return 1
	}
	if p[0] < 0xe0 {
		p[1] ^= 32
		return 2
	}
	p[2] ^= 5
	return 3
}

// transformDictionaryWord writes the transformed word into dst and returns
// the transformed length. dst must hold the longest possible result
// (maxTransformedWordLength).
func transformDictionaryWord(dst []byte, word []byte, idx int) int {
	t := kTransforms[idx]
	n := 0

	prefix := prefixSuffixString(t.prefix)
	n += copy(dst[n:], prefix)

	switch {
	case t.kind >= omitFirst1:
		skip := int(t.kind) - (omitFirst1 - 1)
		if skip > len(word) {
			skip = len(word)
		}
		word = word[skip:]
	case t.kind >= omitLast1 && t.kind <= omitLast9:
		cut := int(t.kind)
		if cut > len(word) {
			cut = len(word)
		}
		word = word[:len(word)-cut]
	}
	start := n
	n += copy(dst[n:], word)

	switch t.kind {
	case uppercaseFirst:
		if n > start {
			toUpperCase(dst[start:])
		}
	case uppercaseAll:
		for i := start; i < n; {
			i += toUpperCase(dst[i:])
		}
	}

	suffix := prefixSuffixString(t.suffix)
	n += copy(dst[n:], suffix)
	return n
}
