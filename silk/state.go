package silk

import "github.com/thesyncim/gosilk/resample"

// sideInfo holds the quantization indices of one frame as read from the
// bitstream.
type sideInfo struct {
	gainsIndices     [maxNbSubfr]int8
	ltpIndex         [maxNbSubfr]int8
	nlsfIndices      [maxLPCOrder + 1]int8
	lagIndex         int16
	contourIndex     int8
	signalType       int8
	quantOffsetType  int8
	nlsfInterpCoefQ2 int8
	perIndex         int8
	ltpScaleIndex    int8
	seed             int8
}

// frameControl carries the parameters dequantized from sideInfo.
type frameControl struct {
	pitchL      [maxNbSubfr]int
	gainsQ16    [maxNbSubfr]int32
	predCoefQ12 [2][maxLPCOrder]int16
	ltpCoefQ14  [ltpOrder * maxNbSubfr]int16
	ltpScaleQ14 int32
}

type plcState struct {
	pitchLQ8        int32
	ltpCoefQ14      [ltpOrder]int16
	prevLPCQ12      [maxLPCOrder]int16
	lastFrameLost   bool
	randSeed        int32
	randScaleQ14    int16
	concEnergy      int32
	concEnergyShift int
	prevLTPScaleQ14 int16
	prevGainQ16     [2]int32
	fsKHz           int
	nbSubfr         int
	subfrLength     int
}

type cngState struct {
	excBufQ14   [maxFrameLength]int32
	smthNLSFQ15 [maxLPCOrder]int16
	synthState  [maxLPCOrder]int32
	smthGainQ16 int32
	randSeed    int32
	fsKHz       int
}

type stereoState struct {
	predPrevQ13 [2]int32
	sMid        [2]int16
	sSide       [2]int16
}

// channelState is the persistent decoder state of one coded channel.
type channelState struct {
	prevGainQ16 int32
	excQ14      [maxFrameLength]int32
	sLPCQ14Buf  [maxLPCOrder]int32
	outBuf      [maxFrameLength + 2*maxSubFrameLength]int16
	lagPrev     int

	lastGainIndex int8
	fsKHz         int
	fsAPIHz       int
	nbSubfr       int
	frameLength   int
	subfrLength   int
	ltpMemLength  int
	lpcOrder      int
	prevNLSFQ15   [maxLPCOrder]int16

	firstFrameAfterReset bool
	pitchLagLowBitsICDF  []uint8
	pitchContourICDF     []uint8
	nlsfCB               *nlsfCodebook

	nFramesDecoded   int
	nFramesPerPacket int
	ecPrevSignalType int
	ecPrevLagIndex   int16
	vadFlags         [maxFramesPerPacket]bool
	lbrrFlag         bool
	lbrrFlags        [maxFramesPerPacket]bool

	indices        sideInfo
	lossCnt        int
	prevSignalType int

	resampler resample.Resampler
	plc       plcState
	cng       cngState

	pulses [maxFrameLength]int16
}

// reset returns c to its power-on state. Configuration derived from the
// sample rate is cleared too, so the next frame reconfigures the channel.
func (c *channelState) reset() {
	*c = channelState{}
	c.firstFrameAfterReset = true
	c.prevGainQ16 = 1 << 16
	c.resetCNG()
	c.resetPLC()
}
