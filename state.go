package brotli

/* Copyright 2015 Google Inc. All Rights Reserved.

   Distributed under MIT license.
   See file LICENSE for detail or copy at https://opensource.org/licenses/MIT
*/

/* Decoder state for partial streaming decoding. */

type decoderState int

const (
	stateStreamHeader decoderState = iota
	stateMetablockBegin
	stateMetablockHeader
	stateMetadataSkip
	stateUncompressed
	stateBlockTypeSection
	stateDistanceParams
	stateContextModes
	stateLiteralContextMap
	stateDistanceContextMap
	stateTreeGroups
	stateCommandBegin
	stateCommandInner
	stateCommandPostLiterals
	stateCommandCopy
	stateCommandCompound
	stateCommandDictWord
	stateMetablockDone
	stateDone
	stateError
)

// Phases of the per-category block-type section of a meta-block header.
const (
	blockSectionTypeCount = iota
	blockSectionTypeCode
	blockSectionLengthCode
	blockSectionFirstLength
)

// Phases of readHuffmanCode.
const (
	huffmanNone = iota
	huffmanSimpleSize
	huffmanSimpleRead
	huffmanSimpleBuild
	huffmanComplexLengths
	huffmanSymbolLengths
)

// Phases of decodeContextMap.
const (
	contextMapNone = iota
	contextMapRLEMax
	contextMapCode
	contextMapSymbols
	contextMapTransform
)

// huffmanReadState carries the progress of one readHuffmanCode call across
// suspensions. Only one prefix code description is ever in flight.
type huffmanReadState struct {
	phase int

	// Simple codes.
	numSymbols  uint32
	symbols     [4]uint16
	symbolIndex uint32

	// Code lengths of the code length code.
	clLengths  [codeLengthCodes]byte
	clIndex    uint32
	clSpace    int32
	clNumCodes uint32

	// Per-symbol lengths, filled under the code length code.
	lengths       []byte
	symbol        uint32
	space         int32
	prevCodeLen   uint32
	repeat        uint32
	repeatCodeLen uint32

	// Size of the last table built, so tree groups can pack tables densely.
	tableSize uint32

	// Table for the code length code itself, 8-bit root, all codes fit the
	// first level.
	clTable [1 << huffmanTableBits]hcode
}

// contextMapState carries the progress of one decodeContextMap call.
type contextMapState struct {
	phase        int
	numTrees     uint32
	maxRunLength uint32
	index        uint32
	table        []hcode
}

// huffmanGroup is a family of prefix code tables sharing one alphabet, one
// per tree index the context maps can select.
type huffmanGroup struct {
	alphabetSize uint32 // code-space size, drives simple-code bit width
	maxSymbol    uint32 // largest decodable symbol + 1
	codes        []hcode
	trees        [][]hcode
}

func (g *huffmanGroup) init(alphabetSize, maxSymbol, ntrees uint32) {
	g.alphabetSize = alphabetSize
	g.maxSymbol = maxSymbol
	g.codes = make([]hcode, ntrees*maxHuffmanTableSize(maxSymbol))
	g.trees = make([][]hcode, ntrees)
}

// Decoder decodes one brotli stream through the Feed/Pull contract. The zero
// value is not usable; call NewDecoder.
type Decoder struct {
	state decoderState
	br    bitReader
	rb    ringBuffer
	err   error

	started     bool
	largeWindow bool
	eagerOutput bool

	windowBits  uint32
	windowSize  int
	maxBackward int

	// Current meta-block.
	metaBlockLength int // remaining bytes, may briefly go negative on a fault
	inputEnd        bool
	isUncompressed  bool
	isMetadata      bool

	numBlockTypes  [3]uint32
	blockLength    [3]uint32
	blockTypeRb    [6]uint32
	blockTypeTrees []hcode // 3 tables, stride blockTypeStride
	blockLenTrees  []hcode // 3 tables, stride blockLenStride

	distancePostfixBits    uint32
	numDirectDistanceCodes uint32 // includes the 16 short codes
	distancePostfixMask    uint32

	contextModes        []byte
	contextMap          []byte
	distContextMap      []byte
	contextMapSlice     []byte // contextMap window of the active literal block type
	distContextMapSlice []byte
	contextLUT1         []byte
	contextLUT2         []byte
	trivialLiteral      bool
	trivialContexts     [8]uint32 // bitmap per literal block type

	numLiteralTrees uint32
	numDistTrees    uint32
	literalGroup    huffmanGroup
	insertGroup     huffmanGroup
	distanceGroup   huffmanGroup

	literalTree  []hcode // active tree under trivial context
	htreeCommand []hcode
	distHtreeIdx byte

	distRb      [4]int
	distRbIdx   int
	distanceCtx int

	// Command in flight.
	insertRemaining int
	copyLength      int
	distanceCode    int
	distance        int
	copyRemaining   int
	cdSrc           int // compound-copy source cursor, chunk-relative

	// Dictionary word in flight.
	wordBuf [maxTransformedWordLength]byte
	wordLen int
	wordOff int

	// Header section progress.
	blockSectionType int
	loopCounter      int
	treeGroupIndex   int
	treeIndex        uint32
	treeOffset       uint32

	hReader    huffmanReadState
	cmapReader contextMapState

	customDict []byte
}

const (
	blockTypeStride = 662 // maxHuffmanTableSize(258)
	blockLenStride  = 402 // maxHuffmanTableSize(26)
)

// metablockBegin resets the per-meta-block fields, mirroring the fresh state
// a meta-block header expects.
func (d *Decoder) metablockBegin() {
	d.metaBlockLength = 0
	d.isUncompressed = false
	d.isMetadata = false

	for i := 0; i < 3; i++ {
		d.numBlockTypes[i] = 1
		d.blockLength[i] = 1 << 28
	}
	d.blockTypeRb = [6]uint32{1, 0, 1, 0, 1, 0}

	d.contextModes = nil
	d.contextMap = nil
	d.distContextMap = nil
	d.contextMapSlice = nil
	d.distContextMapSlice = nil
	d.trivialLiteral = true
	d.literalTree = nil
	d.htreeCommand = nil
	d.distHtreeIdx = 0
	d.distanceCtx = 0

	d.blockSectionType = blockSectionTypeCount
	d.loopCounter = 0
	d.treeGroupIndex = 0
	d.treeIndex = 0
	d.treeOffset = 0
	d.hReader.phase = huffmanNone
	d.cmapReader.phase = contextMapNone
}
