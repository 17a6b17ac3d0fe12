package brotli

/* Copyright 2013 Google Inc. All Rights Reserved.

   Distributed under MIT license.
   See file LICENSE for detail or copy at https://opensource.org/licenses/MIT
*/

/* Literal context modeling. */

// Literal context modes. Each literal block type carries one; it selects a
// 512-byte window of contextLookup mapping the previous two output bytes to
// one of 64 context ids.
const (
	contextLSB6 = iota
	contextMSB6
	contextUTF8
	contextSigned
)

const numLiteralContexts = 64

// contextLUT returns the two lookup halves for a mode: the id is
// lut1[p1] | lut2[p2] where p1, p2 are the last and second-to-last bytes.
func contextLUT(mode int) (lut1, lut2 []byte) {
	off := mode << 9
	return contextLookup[off : off+256], contextLookup[off+256 : off+512]
}

// Distance contexts depend only on the copy length: 2, 3, 4 and "5 or more".
func distanceContext(copyLengthBase uint32) int {
	if copyLengthBase > 4 {
		return 3
	}
	return int(copyLengthBase) - 2
}
