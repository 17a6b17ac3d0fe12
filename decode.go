package brotli

/* Copyright 2013 Google Inc. All Rights Reserved.

   Distributed under MIT license.
   See file LICENSE for detail or copy at https://opensource.org/licenses/MIT
*/

/* Meta-block decoding state machine. */

import (
	"math/bits"
)

const (
	windowGap = 16

	literalContextBits  = 6
	distanceContextBits = 2

	largeMinWindowBits = 10
	largeMaxWindowBits = 30
)

// Results of one decoding step.
const (
	stepDone = iota
	stepMoreInput
	stepFailed
)

func distanceAlphabetSize(npostfix, ndirect, maxdistbits uint32) uint32 {
	return numDistanceShortCodes + ndirect + maxdistbits<<(npostfix+1)
}

// fail latches the first stream fault; the decoder stays in stateError and
// reports the same error forever after.
func (d *Decoder) fail(err error) int {
	if d.err == nil {
		d.err = err
	}
	d.state = stateError
	return stepFailed
}

// readStreamHeader decodes WBITS, including the large-window escape.
func (d *Decoder) readStreamHeader() int {
	br := &d.br
	m := br.save()
	b, ok := br.readBits(1)
	if !ok {
		return stepMoreInput
	}
	wbits := uint32(16)
	if b != 0 {
		n, ok := br.readBits(3)
		if !ok {
			br.restore(m)
			return stepMoreInput
		}
		if n != 0 {
			wbits = 17 + n
		} else {
			n, ok = br.readBits(3)
			if !ok {
				br.restore(m)
				return stepMoreInput
			}
			switch {
			case n == 1:
				if !d.largeWindow {
					return d.fail(ErrWindowBits)
				}
				rsv, ok := br.readBits(1)
				if !ok {
					br.restore(m)
					return stepMoreInput
				}
				if rsv != 0 {
					return d.fail(ErrWindowBits)
				}
				w, ok := br.readBits(6)
				if !ok {
					br.restore(m)
					return stepMoreInput
				}
				if w < largeMinWindowBits || w > largeMaxWindowBits {
					return d.fail(ErrWindowBits)
				}
				wbits = w
			case n != 0:
				wbits = 8 + n
			default:
				wbits = 17
			}
		}
	}
	d.windowBits = wbits
	d.windowSize = 1 << wbits
	d.maxBackward = d.windowSize - windowGap
	return stepDone
}

// readVarLenUint8 decodes the 1..11 bit variable-length count used for block
// type and tree counts (values 0..255).
func (d *Decoder) readVarLenUint8() (uint32, bool) {
	br := &d.br
	m := br.save()
	b, ok := br.readBits(1)
	if !ok {
		return 0, false
	}
	if b == 0 {
		return 0, true
	}
	nbits, ok := br.readBits(3)
	if !ok {
		br.restore(m)
		return 0, false
	}
	if nbits == 0 {
		return 1, true
	}
	v, ok := br.readBits(nbits)
	if !ok {
		br.restore(m)
		return 0, false
	}
	return v + 1<<nbits, true
}

// readMetablockHeader decodes ISLAST, MNIBBLES/MSKIPBYTES and the length
// field, 2 to 31 bits in total, committed atomically.
func (d *Decoder) readMetablockHeader() int {
	br := &d.br
	m := br.save()
	more := func() int {
		br.restore(m)
		return stepMoreInput
	}

	b, ok := br.readBits(1)
	if !ok {
		return stepMoreInput
	}
	d.inputEnd = b != 0
	if d.inputEnd {
		empty, ok := br.readBits(1)
		if !ok {
			return more()
		}
		if empty != 0 {
			return stepDone
		}
	}

	nib, ok := br.readBits(2)
	if !ok {
		return more()
	}
	if nib == 3 {
		d.isMetadata = true
		rsv, ok := br.readBits(1)
		if !ok {
			return more()
		}
		if rsv != 0 {
			return d.fail(ErrReservedBit)
		}
		skipBytes, ok := br.readBits(2)
		if !ok {
			return more()
		}
		if skipBytes == 0 {
			return stepDone
		}
		length := uint32(0)
		for i := uint32(0); i < skipBytes; i++ {
			b, ok := br.readBits(8)
			if !ok {
				return more()
			}
			if i+1 == skipBytes && skipBytes > 1 && b == 0 {
				return d.fail(ErrBlockLength)
			}
			length |= b << (i * 8)
		}
		d.metaBlockLength = int(length) + 1
		return stepDone
	}

	nibbles := nib + 4
	length := uint32(0)
	for i := uint32(0); i < nibbles; i++ {
		b, ok := br.readBits(4)
		if !ok {
			return more()
		}
		if i+1 == nibbles && nibbles > 4 && b == 0 {
			return d.fail(ErrBlockLength)
		}
		length |= b << (i * 4)
	}
	d.metaBlockLength = int(length) + 1

	if !d.inputEnd {
		u, ok := br.readBits(1)
		if !ok {
			return more()
		}
		d.isUncompressed = u != 0
	}
	return stepDone
}

// readHuffmanCode decodes one prefix code description into table. On success
// d.hReader.tableSize holds the number of entries used. alphabetSize is the
// code-space size (it drives the bit width of simple-code symbols);
// maxSymbol bounds the symbols a complex description may define.
func (d *Decoder) readHuffmanCode(alphabetSize, maxSymbol uint32, table []hcode) int {
	br := &d.br
	h := &d.hReader
	for {
		switch h.phase {
		case huffmanNone:
			b, ok := br.readBits(2)
			if !ok {
				return stepMoreInput
			}
			if b == 1 {
				h.symbolIndex = 0
				h.phase = huffmanSimpleSize
				break
			}
			// b is the number of leading code lengths to skip.
			h.clIndex = b
			for i := range h.clLengths {
				h.clLengths[i] = 0
			}
			h.clSpace = 32
			h.clNumCodes = 0
			h.phase = huffmanComplexLengths

		case huffmanSimpleSize:
			v, ok := br.readBits(2)
			if !ok {
				return stepMoreInput
			}
			h.numSymbols = v + 1
			h.phase = huffmanSimpleRead

		case huffmanSimpleRead:
			maxBits := uint32(bits.Len32(alphabetSize - 1))
			for h.symbolIndex < h.numSymbols {
				v, ok := br.readBits(maxBits)
				if !ok {
					return stepMoreInput
				}
				if v >= maxSymbol {
					return d.fail(ErrHuffmanCode)
				}
				h.symbols[h.symbolIndex] = uint16(v)
				h.symbolIndex++
			}
			for i := uint32(0); i+1 < h.numSymbols; i++ {
				for k := i + 1; k < h.numSymbols; k++ {
					if h.symbols[i] == h.symbols[k] {
						return d.fail(ErrHuffmanCode)
					}
				}
			}
			h.phase = huffmanSimpleBuild

		case huffmanSimpleBuild:
			simpleLengths := [4][4]byte{
				{1},
				{1, 1},
				{1, 2, 2},
				{2, 2, 2, 2},
			}
			lens := simpleLengths[h.numSymbols-1]
			if h.numSymbols == 4 {
				sel, ok := br.readBits(1)
				if !ok {
					return stepMoreInput
				}
				if sel != 0 {
					lens = [4]byte{1, 2, 3, 3}
				}
			}
			lengths := make([]byte, maxSymbol)
			for i := uint32(0); i < h.numSymbols; i++ {
				lengths[h.symbols[i]] = lens[i]
			}
			h.tableSize = buildHuffmanTable(table, huffmanTableBits, lengths)
			h.phase = huffmanNone
			return stepDone

		case huffmanComplexLengths:
			// Lengths of the code length code, under a fixed code read
			// by peeking 4 bits.
			for h.clIndex < codeLengthCodes {
				br.fill()
				p := br.peek(4)
				l := uint32(kCodeLengthPrefixLength[p])
				if br.numBits < l {
					return stepMoreInput
				}
				v := kCodeLengthPrefixValue[p]
				br.drop(l)
				h.clLengths[kCodeLengthCodeOrder[h.clIndex]] = v
				h.clIndex++
				if v != 0 {
					h.clSpace -= 32 >> v
					h.clNumCodes++
					if h.clSpace <= 0 {
						break
					}
				}
			}
			if h.clNumCodes != 1 && h.clSpace != 0 {
				return d.fail(ErrHuffmanCode)
			}
			buildHuffmanTable(h.clTable[:], huffmanTableBits, h.clLengths[:])
			h.lengths = make([]byte, maxSymbol)
			h.symbol = 0
			h.space = 32768
			h.prevCodeLen = 8
			h.repeat = 0
			h.repeatCodeLen = 0
			h.phase = huffmanSymbolLengths

		case huffmanSymbolLengths:
			for h.symbol < maxSymbol && h.space > 0 {
				m := br.save()
				codeLen, ok := readSymbol(h.clTable[:], br)
				if !ok {
					return stepMoreInput
				}
				if codeLen < 16 {
					h.repeat = 0
					if codeLen != 0 {
						h.lengths[h.symbol] = byte(codeLen)
						h.prevCodeLen = codeLen
						h.space -= 32768 >> codeLen
					}
					h.symbol++
					continue
				}
				// Repeat codes: 16 repeats the previous length, 17
				// repeats zeros; chained repeats extend the count.
				extraBits := codeLen - 14
				delta, ok := br.readBits(extraBits)
				if !ok {
					br.restore(m)
					return stepMoreInput
				}
				newLen := uint32(0)
				if codeLen == 16 {
					newLen = h.prevCodeLen
				}
				if h.repeatCodeLen != newLen {
					h.repeat = 0
					h.repeatCodeLen = newLen
				}
				oldRepeat := h.repeat
				if h.repeat > 0 {
					h.repeat = (h.repeat - 2) << extraBits
				}
				h.repeat += delta + 3
				repeatDelta := h.repeat - oldRepeat
				if h.symbol+repeatDelta > maxSymbol {
					return d.fail(ErrHuffmanCode)
				}
				if h.repeatCodeLen != 0 {
					for i := uint32(0); i < repeatDelta; i++ {
						h.lengths[h.symbol+i] = byte(h.repeatCodeLen)
					}
					h.space -= int32(repeatDelta) << (15 - h.repeatCodeLen)
				}
				h.symbol += repeatDelta
			}
			if h.space != 0 {
				return d.fail(ErrHuffmanCode)
			}
			h.tableSize = buildHuffmanTable(table, huffmanTableBits, h.lengths)
			h.lengths = nil
			h.phase = huffmanNone
			return stepDone
		}
	}
}

func inverseMoveToFront(v []byte) {
	var mtf [256]byte
	for i := range mtf {
		mtf[i] = byte(i)
	}
	for i, idx := range v {
		value := mtf[idx]
		copy(mtf[1:int(idx)+1], mtf[:idx])
		mtf[0] = value
		v[i] = value
	}
}

// decodeContextMap reads one context map (literal or distance). The tree
// count lands in d.cmapReader.numTrees.
func (d *Decoder) decodeContextMap(contextMapSize uint32, mapOut *[]byte) int {
	br := &d.br
	cm := &d.cmapReader
	for {
		switch cm.phase {
		case contextMapNone:
			v, ok := d.readVarLenUint8()
			if !ok {
				return stepMoreInput
			}
			cm.numTrees = v + 1
			*mapOut = make([]byte, contextMapSize)
			if cm.numTrees == 1 {
				return stepDone
			}
			cm.phase = contextMapRLEMax

		case contextMapRLEMax:
			// One bit enables run-length coding of zeros; if set, four
			// more bits give RLEMAX.
			br.fill()
			if br.numBits < 1 {
				return stepMoreInput
			}
			if br.peek(1) == 0 {
				cm.maxRunLength = 0
				br.drop(1)
			} else {
				if br.numBits < 5 {
					return stepMoreInput
				}
				cm.maxRunLength = (br.peek(5) >> 1) + 1
				br.drop(5)
			}
			cm.table = make([]hcode, maxHuffmanTableSize(maxContextMapSymbols))
			cm.index = 0
			d.hReader.phase = huffmanNone
			cm.phase = contextMapCode

		case contextMapCode:
			alphabet := cm.numTrees + cm.maxRunLength
			if st := d.readHuffmanCode(alphabet, alphabet, cm.table); st != stepDone {
				return st
			}
			cm.phase = contextMapSymbols

		case contextMapSymbols:
			for cm.index < contextMapSize {
				m := br.save()
				sym, ok := readSymbol(cm.table, br)
				if !ok {
					return stepMoreInput
				}
				switch {
				case sym == 0:
					(*mapOut)[cm.index] = 0
					cm.index++
				case sym <= cm.maxRunLength:
					// A run of (1 << sym) + extra zeros.
					extra, ok := br.readBits(sym)
					if !ok {
						br.restore(m)
						return stepMoreInput
					}
					reps := uint32(1)<<sym + extra
					if cm.index+reps > contextMapSize {
						return d.fail(ErrContextMap)
					}
					for ; reps > 0; reps-- {
						(*mapOut)[cm.index] = 0
						cm.index++
					}
				default:
					(*mapOut)[cm.index] = byte(sym - cm.maxRunLength)
					cm.index++
				}
			}
			cm.phase = contextMapTransform

		case contextMapTransform:
			b, ok := br.readBits(1)
			if !ok {
				return stepMoreInput
			}
			if b != 0 {
				inverseMoveToFront(*mapOut)
			}
			cm.phase = contextMapNone
			cm.table = nil
			return stepDone
		}
	}
}

// detectTrivialLiteralBlockTypes marks literal block types whose 64 contexts
// all select the same tree, enabling the fast literal path.
func (d *Decoder) detectTrivialLiteralBlockTypes() {
	d.trivialContexts = [8]uint32{}
	for i := uint32(0); i < d.numBlockTypes[0]; i++ {
		offset := i << literalContextBits
		sample := d.contextMap[offset]
		trivial := true
		for j := uint32(1); j < numLiteralContexts; j++ {
			if d.contextMap[offset+j] != sample {
				trivial = false
				break
			}
		}
		if trivial {
			d.trivialContexts[i>>5] |= 1 << (i & 31)
		}
	}
}

func (d *Decoder) prepareLiteralDecoding() {
	blockType := d.blockTypeRb[1]
	d.contextMapSlice = d.contextMap[blockType<<literalContextBits:]
	d.trivialLiteral = d.trivialContexts[blockType>>5]>>(blockType&31)&1 != 0
	d.literalTree = d.literalGroup.trees[d.contextMapSlice[0]]
	mode := int(d.contextModes[blockType]) & 3
	d.contextLUT1, d.contextLUT2 = contextLUT(mode)
}

// readBlockLength decodes a block-count symbol plus its extra bits.
func (d *Decoder) readBlockLength(table []hcode) (uint32, bool) {
	br := &d.br
	m := br.save()
	sym, ok := readSymbol(table, br)
	if !ok {
		return 0, false
	}
	r := blockLengthRanges[sym]
	extra, ok := br.readBits(uint32(r.bits))
	if !ok {
		br.restore(m)
		return 0, false
	}
	return r.base + extra, true
}

// readBlockSwitch decodes a block switch command for one category: the new
// block type (through the two-entry type ring) and the next block length.
func (d *Decoder) readBlockSwitch(cat int) int {
	br := &d.br
	m := br.save()
	sym, ok := readSymbol(d.blockTypeTrees[cat*blockTypeStride:], br)
	if !ok {
		return stepMoreInput
	}
	length, ok := d.readBlockLength(d.blockLenTrees[cat*blockLenStride:])
	if !ok {
		br.restore(m)
		return stepMoreInput
	}
	d.blockLength[cat] = length

	ring := d.blockTypeRb[cat*2 : cat*2+2]
	var blockType uint32
	switch sym {
	case 0:
		blockType = ring[0]
	case 1:
		blockType = ring[1] + 1
	default:
		blockType = sym - 2
	}
	if blockType >= d.numBlockTypes[cat] {
		blockType -= d.numBlockTypes[cat]
	}
	ring[0] = ring[1]
	ring[1] = blockType
	return stepDone
}

func (d *Decoder) decodeLiteralBlockSwitch() int {
	if st := d.readBlockSwitch(0); st != stepDone {
		return st
	}
	d.prepareLiteralDecoding()
	return stepDone
}

func (d *Decoder) decodeCommandBlockSwitch() int {
	if st := d.readBlockSwitch(1); st != stepDone {
		return st
	}
	d.htreeCommand = d.insertGroup.trees[d.blockTypeRb[3]]
	return stepDone
}

func (d *Decoder) decodeDistanceBlockSwitch() int {
	if st := d.readBlockSwitch(2); st != stepDone {
		return st
	}
	d.distContextMapSlice = d.distContextMap[d.blockTypeRb[5]<<distanceContextBits:]
	d.distHtreeIdx = d.distContextMapSlice[d.distanceCtx]
	return stepDone
}

// readCommand decodes one insert-and-copy command: the command symbol and
// both extra-bit fields, committed atomically.
func (d *Decoder) readCommand() bool {
	br := &d.br
	m := br.save()
	sym, ok := readSymbol(d.htreeCommand, br)
	if !ok {
		return false
	}
	bank := sym >> 6
	if bank >= 2 {
		bank -= 2
		d.distanceCode = -1
	} else {
		d.distanceCode = 0
	}
	insRange := insertLengthRanges[uint32(insertRangeBank[bank])+(sym>>3)&7]
	cpyRange := copyLengthRanges[uint32(copyRangeBank[bank])+sym&7]
	insExtra, ok := br.readBits(uint32(insRange.bits))
	if !ok {
		br.restore(m)
		return false
	}
	cpyExtra, ok := br.readBits(uint32(cpyRange.bits))
	if !ok {
		br.restore(m)
		return false
	}
	d.insertRemaining = int(insRange.base + insExtra)
	d.copyLength = int(cpyRange.base + cpyExtra)
	d.distanceCtx = distanceContext(cpyRange.base)
	d.distHtreeIdx = d.distContextMapSlice[d.distanceCtx]
	d.blockLength[1]--
	return true
}

// readDistance decodes a distance symbol, resolves short codes against the
// distance cache, and reads explicit extra bits.
func (d *Decoder) readDistance() int {
	br := &d.br
	m := br.save()
	sym, ok := readSymbol(d.distanceGroup.trees[d.distHtreeIdx], br)
	if !ok {
		return stepMoreInput
	}
	d.distanceCtx = 0
	switch {
	case sym < numDistanceShortCodes:
		if sym == 0 {
			d.distRbIdx--
			d.distance = d.distRb[d.distRbIdx&3]
			d.distanceCtx = 1
		} else {
			idx := (d.distRbIdx + int(distanceShortCodeIndexOffset[sym])) & 3
			dist := d.distRb[idx] + int(distanceShortCodeValueOffset[sym])
			if dist <= 0 {
				return d.fail(ErrDistance)
			}
			d.distance = dist
		}
	case sym < d.numDirectDistanceCodes:
		d.distance = int(sym) - numDistanceShortCodes + 1
	default:
		distval := int(sym) - int(d.numDirectDistanceCodes)
		postfix := distval & int(d.distancePostfixMask)
		distval >>= d.distancePostfixBits
		nbits := uint32(distval>>1) + 1
		offset := (2+distval&1)<<nbits - 4
		extra, ok := br.readBits(nbits)
		if !ok {
			br.restore(m)
			return stepMoreInput
		}
		d.distance = int(d.numDirectDistanceCodes) +
			(offset+int(extra))<<d.distancePostfixBits + postfix -
			numDistanceShortCodes + 1
	}
	d.blockLength[2]--
	return stepDone
}

// maxDistance is how far back a copy may reach right now: the window, capped
// by how much output exists.
func (d *Decoder) maxDistance() int {
	if d.rb.pos < int64(d.maxBackward) {
		return int(d.rb.pos)
	}
	return d.maxBackward
}

// resolveCopy routes a decoded (distance, copy length) pair to a backward
// copy, a compound dictionary copy, or a static dictionary word.
func (d *Decoder) resolveCopy() int {
	maxDist := d.maxDistance()
	if d.distance <= maxDist {
		d.distRb[d.distRbIdx&3] = d.distance
		d.distRbIdx++
		d.metaBlockLength -= d.copyLength
		d.copyRemaining = d.copyLength
		d.state = stateCommandCopy
		return stepDone
	}

	if d.distance > maxAllowedDistance {
		return d.fail(ErrDistance)
	}
	// Dictionary references leave the cache alone; undo the roll a short
	// code 0 performed.
	d.distRbIdx += d.distanceCtx

	address := d.distance - maxDist - 1
	if address < len(d.customDict) {
		d.cdSrc = len(d.customDict) - 1 - address
		d.metaBlockLength -= d.copyLength
		d.copyRemaining = d.copyLength
		d.state = stateCommandCompound
		return stepDone
	}
	address -= len(d.customDict)

	if d.copyLength < minDictionaryWordLength || d.copyLength > maxDictionaryWordLength {
		// No dictionary words of this length exist.
		return d.fail(ErrDictionary)
	}
	shift := uint32(dictionarySizeBits[d.copyLength])
	wordIdx := address & int(bitMask(shift))
	transformIdx := address >> shift
	if transformIdx >= numTransforms {
		return d.fail(ErrTransform)
	}
	word := dictionaryWord(d.copyLength, wordIdx)
	d.wordLen = transformDictionaryWord(d.wordBuf[:], word, transformIdx)
	d.wordOff = 0
	d.metaBlockLength -= d.wordLen
	d.state = stateCommandDictWord
	return stepDone
}

// afterCopy picks the state following a completed copy.
func (d *Decoder) afterCopy() {
	if d.metaBlockLength <= 0 {
		d.state = stateMetablockDone
	} else {
		d.state = stateCommandBegin
	}
}

// run drives the state machine until it finishes, faults, or suspends for
// input or output. Produced bytes are flushed into dst through *n.
func (d *Decoder) run(dst []byte, n *int) Result {
	br := &d.br

	// Leftover output from an earlier Pull goes out first.
	if d.rb.pending() > 0 {
		*n += d.rb.flush(dst[*n:])
		if d.rb.pending() > 0 {
			return ResultNeedsMoreOutput
		}
	}

	// makeRoom drains the ring into dst; reports false when dst is full
	// and the ring still has no free space.
	makeRoom := func() bool {
		*n += d.rb.flush(dst[*n:])
		return d.rb.free() > 0
	}
	suspend := func(st int) Result {
		if st == stepFailed {
			return ResultError
		}
		if d.eagerOutput {
			*n += d.rb.flush(dst[*n:])
			if d.rb.pending() > 0 {
				return ResultNeedsMoreOutput
			}
		}
		return ResultNeedsMoreInput
	}

	for {
		switch d.state {
		case stateStreamHeader:
			if st := d.readStreamHeader(); st != stepDone {
				return suspend(st)
			}
			d.state = stateMetablockBegin

		case stateMetablockBegin:
			d.metablockBegin()
			d.state = stateMetablockHeader

		case stateMetablockHeader:
			if st := d.readMetablockHeader(); st != stepDone {
				return suspend(st)
			}
			if d.isMetadata || d.isUncompressed {
				if br.alignToByte() != 0 {
					return suspend(d.fail(ErrPadding))
				}
			}
			if d.isMetadata {
				d.state = stateMetadataSkip
				break
			}
			if d.metaBlockLength == 0 {
				d.state = stateMetablockDone
				break
			}
			d.rb.ensure(d.rb.targetSize(d.windowSize, d.metaBlockLength))
			if d.isUncompressed {
				d.state = stateUncompressed
				break
			}
			d.state = stateBlockTypeSection

		case stateMetadataSkip:
			for d.metaBlockLength > 0 {
				if _, ok := br.readBits(8); !ok {
					return suspend(stepMoreInput)
				}
				d.metaBlockLength--
			}
			d.state = stateMetablockDone

		case stateUncompressed:
			for d.metaBlockLength > 0 {
				seg := d.rb.writableSegment()
				if len(seg) == 0 {
					if !makeRoom() {
						return ResultNeedsMoreOutput
					}
					continue
				}
				if len(seg) > d.metaBlockLength {
					seg = seg[:d.metaBlockLength]
				}
				c := br.copyBytes(seg)
				if c == 0 {
					return suspend(stepMoreInput)
				}
				d.rb.advance(c)
				d.metaBlockLength -= c
			}
			d.state = stateMetablockDone

		case stateBlockTypeSection:
			if d.loopCounter >= 3 {
				d.state = stateDistanceParams
				break
			}
			cat := d.loopCounter
			switch d.blockSectionType {
			case blockSectionTypeCount:
				v, ok := d.readVarLenUint8()
				if !ok {
					return suspend(stepMoreInput)
				}
				d.numBlockTypes[cat] = v + 1
				if d.numBlockTypes[cat] < 2 {
					d.loopCounter++
					break
				}
				d.blockSectionType = blockSectionTypeCode
			case blockSectionTypeCode:
				alphabet := d.numBlockTypes[cat] + 2
				st := d.readHuffmanCode(alphabet, alphabet, d.blockTypeTrees[cat*blockTypeStride:])
				if st != stepDone {
					return suspend(st)
				}
				d.blockSectionType = blockSectionLengthCode
			case blockSectionLengthCode:
				st := d.readHuffmanCode(numBlockLengthCodes, numBlockLengthCodes, d.blockLenTrees[cat*blockLenStride:])
				if st != stepDone {
					return suspend(st)
				}
				d.blockSectionType = blockSectionFirstLength
			case blockSectionFirstLength:
				v, ok := d.readBlockLength(d.blockLenTrees[cat*blockLenStride:])
				if !ok {
					return suspend(stepMoreInput)
				}
				d.blockLength[cat] = v
				d.blockSectionType = blockSectionTypeCount
				d.loopCounter++
			}

		case stateDistanceParams:
			b, ok := br.readBits(6)
			if !ok {
				return suspend(stepMoreInput)
			}
			d.distancePostfixBits = b & 3
			d.numDirectDistanceCodes = numDistanceShortCodes + (b>>2)<<d.distancePostfixBits
			d.distancePostfixMask = bitMask(d.distancePostfixBits)
			d.contextModes = make([]byte, d.numBlockTypes[0])
			d.loopCounter = 0
			d.state = stateContextModes

		case stateContextModes:
			for d.loopCounter < int(d.numBlockTypes[0]) {
				b, ok := br.readBits(2)
				if !ok {
					return suspend(stepMoreInput)
				}
				d.contextModes[d.loopCounter] = byte(b)
				d.loopCounter++
			}
			d.state = stateLiteralContextMap

		case stateLiteralContextMap:
			st := d.decodeContextMap(d.numBlockTypes[0]<<literalContextBits, &d.contextMap)
			if st != stepDone {
				return suspend(st)
			}
			d.numLiteralTrees = d.cmapReader.numTrees
			d.detectTrivialLiteralBlockTypes()
			d.state = stateDistanceContextMap

		case stateDistanceContextMap:
			st := d.decodeContextMap(d.numBlockTypes[2]<<distanceContextBits, &d.distContextMap)
			if st != stepDone {
				return suspend(st)
			}
			d.numDistTrees = d.cmapReader.numTrees

			ndirect := d.numDirectDistanceCodes - numDistanceShortCodes
			var distanceCodes, maxDistSym uint32
			if d.largeWindow {
				distanceCodes = distanceAlphabetSize(d.distancePostfixBits, ndirect, maxLargeWindowDistanceBits)
				maxDistSym = maxDistanceSymbol(ndirect, d.distancePostfixBits)
			} else {
				distanceCodes = distanceAlphabetSize(d.distancePostfixBits, ndirect, maxDistanceBits)
				maxDistSym = distanceCodes
			}
			d.literalGroup.init(numLiteralSymbols, numLiteralSymbols, d.numLiteralTrees)
			d.insertGroup.init(numCommandSymbols, numCommandSymbols, d.numBlockTypes[1])
			d.distanceGroup.init(distanceCodes, maxDistSym, d.numDistTrees)
			d.treeGroupIndex = 0
			d.treeIndex = 0
			d.treeOffset = 0
			d.state = stateTreeGroups

		case stateTreeGroups:
			var g *huffmanGroup
			switch d.treeGroupIndex {
			case 0:
				g = &d.literalGroup
			case 1:
				g = &d.insertGroup
			default:
				g = &d.distanceGroup
			}
			for d.treeIndex < uint32(len(g.trees)) {
				st := d.readHuffmanCode(g.alphabetSize, g.maxSymbol, g.codes[d.treeOffset:])
				if st != stepDone {
					return suspend(st)
				}
				g.trees[d.treeIndex] = g.codes[d.treeOffset:]
				d.treeOffset += d.hReader.tableSize
				d.treeIndex++
			}
			d.treeGroupIndex++
			d.treeIndex = 0
			d.treeOffset = 0
			if d.treeGroupIndex == 3 {
				d.prepareLiteralDecoding()
				d.distContextMapSlice = d.distContextMap
				d.distHtreeIdx = d.distContextMapSlice[0]
				d.htreeCommand = d.insertGroup.trees[0]
				d.state = stateCommandBegin
			}

		case stateCommandBegin:
			if d.blockLength[1] == 0 {
				if st := d.decodeCommandBlockSwitch(); st != stepDone {
					return suspend(st)
				}
			}
			if !d.readCommand() {
				return suspend(stepMoreInput)
			}
			if d.insertRemaining == 0 {
				d.state = stateCommandPostLiterals
				break
			}
			d.metaBlockLength -= d.insertRemaining
			d.state = stateCommandInner

		case stateCommandInner:
			for d.insertRemaining > 0 {
				if d.blockLength[0] == 0 {
					if st := d.decodeLiteralBlockSwitch(); st != stepDone {
						return suspend(st)
					}
				}
				if d.rb.free() == 0 {
					if !makeRoom() {
						return ResultNeedsMoreOutput
					}
				}
				var tree []hcode
				if d.trivialLiteral {
					tree = d.literalTree
				} else {
					p1, p2 := d.rb.lastTwo()
					ctx := d.contextLUT1[p1] | d.contextLUT2[p2]
					tree = d.literalGroup.trees[d.contextMapSlice[ctx]]
				}
				sym, ok := readSymbol(tree, br)
				if !ok {
					return suspend(stepMoreInput)
				}
				d.rb.writeByte(byte(sym))
				d.blockLength[0]--
				d.insertRemaining--
			}
			if d.metaBlockLength <= 0 {
				d.state = stateMetablockDone
				break
			}
			d.state = stateCommandPostLiterals

		case stateCommandPostLiterals:
			if d.distanceCode >= 0 {
				// Implicit distance code 0: reuse the last distance.
				d.distRbIdx--
				d.distance = d.distRb[d.distRbIdx&3]
				d.distanceCtx = 1
			} else {
				if d.blockLength[2] == 0 {
					if st := d.decodeDistanceBlockSwitch(); st != stepDone {
						return suspend(st)
					}
				}
				if st := d.readDistance(); st != stepDone {
					return suspend(st)
				}
			}
			if st := d.resolveCopy(); st != stepDone {
				return suspend(st)
			}

		case stateCommandCopy:
			for d.copyRemaining > 0 {
				free := d.rb.free()
				if free == 0 {
					if !makeRoom() {
						return ResultNeedsMoreOutput
					}
					continue
				}
				chunk := d.copyRemaining
				if chunk > free {
					chunk = free
				}
				d.rb.copyBack(d.distance, chunk)
				d.copyRemaining -= chunk
			}
			d.afterCopy()

		case stateCommandCompound:
			for d.copyRemaining > 0 {
				if d.rb.free() == 0 {
					if !makeRoom() {
						return ResultNeedsMoreOutput
					}
					continue
				}
				var b byte
				if d.cdSrc < len(d.customDict) {
					b = d.customDict[d.cdSrc]
				} else {
					// The copy ran off the chunk into the start of the
					// stream itself.
					b = d.rb.data[(d.cdSrc-len(d.customDict))&d.rb.mask]
				}
				d.cdSrc++
				d.rb.writeByte(b)
				d.copyRemaining--
			}
			d.afterCopy()

		case stateCommandDictWord:
			for d.wordOff < d.wordLen {
				if d.rb.free() == 0 {
					if !makeRoom() {
						return ResultNeedsMoreOutput
					}
					continue
				}
				d.rb.writeByte(d.wordBuf[d.wordOff])
				d.wordOff++
			}
			d.afterCopy()

		case stateMetablockDone:
			if d.metaBlockLength < 0 {
				return suspend(d.fail(ErrBlockLength))
			}
			if !d.inputEnd {
				d.state = stateMetablockBegin
				break
			}
			if br.alignToByte() != 0 {
				return suspend(d.fail(ErrPadding))
			}
			d.state = stateDone

		case stateDone:
			*n += d.rb.flush(dst[*n:])
			if d.rb.pending() > 0 {
				return ResultNeedsMoreOutput
			}
			return ResultDone

		case stateError:
			return ResultError
		}
	}
}
