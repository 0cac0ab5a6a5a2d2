package silk

import (
	"testing"

	"github.com/thesyncim/gosilk/rangecoding"
)

// testFrame lists the symbols of one coded frame. gain0 is the absolute
// index of the first subframe; deltas are used for every other subframe
// and for the first one when the frame is coded conditionally.
type testFrame struct {
	signalType  int
	quantOffset int
	gain0       int
	deltas      [maxNbSubfr]int
	cb1         int
	residuals   [maxLPCOrder]int
	interp      int
	lagHi       int
	lagLo       int
	contour     int
	per         int
	ltpIndex    [maxNbSubfr]int
	ltpScale    int
	seed        int
	rateLevel   int
	pulses      []int16
}

func steadyDeltas() [maxNbSubfr]int {
	return [maxNbSubfr]int{-minDeltaGainQuant, -minDeltaGainQuant, -minDeltaGainQuant, -minDeltaGainQuant}
}

func silentFrame() *testFrame {
	return &testFrame{signalType: typeNoVoiceActivity, gain0: 8, deltas: steadyDeltas(), interp: 4}
}

func unvoicedFrame() *testFrame {
	return &testFrame{signalType: typeUnvoiced, gain0: 20, deltas: steadyDeltas(), cb1: 2, interp: 4, seed: 2}
}

// voicedFrame codes a lag index of 43 at 16 kHz (5*8 + 3).
func voicedFrame() *testFrame {
	return &testFrame{
		signalType: typeVoiced,
		gain0:      30,
		deltas:     steadyDeltas(),
		cb1:        3,
		interp:     4,
		lagHi:      5,
		lagLo:      3,
		ltpIndex:   [maxNbSubfr]int{2, 2, 2, 2},
		seed:       1,
		rateLevel:  1,
	}
}

// withPulses returns f with a sparse pulse train over frameLength samples.
func (f *testFrame) withPulses(frameLength int) *testFrame {
	g := *f
	g.pulses = make([]int16, (frameLength+shellCodecFrameLength-1)&^(shellCodecFrameLength-1))
	for i := 0; i < frameLength; i += 9 {
		g.pulses[i] = int16(3 - i%7)
	}
	return &g
}

type packetBuilder struct {
	fsKHz      int
	nbSubfr    int
	enc        rangecoding.Encoder
	prevVoiced [2]bool
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// buildPacket encodes a SILK payload. frames is indexed [channel][frame];
// a nil second-channel frame codes that frame as mid only. lbrr has the
// same shape, with nil for frames without redundancy.
func buildPacket(t testing.TB, fsKHz, nbSubfr int, frames, lbrr [][]*testFrame) []byte {
	t.Helper()
	b := &packetBuilder{fsKHz: fsKHz, nbSubfr: nbSubfr}
	b.enc.Init(make([]byte, maxSilkPacketBytes))
	e := &b.enc
	nCh, nFrames := len(frames), len(frames[0])
	hasLBRR := func(n, i int) bool { return lbrr != nil && lbrr[n][i] != nil }

	for n := 0; n < nCh; n++ {
		any := false
		for i := 0; i < nFrames; i++ {
			f := frames[n][i]
			e.EncodeBit(boolInt(f != nil && f.signalType != typeNoVoiceActivity), 1)
			any = any || hasLBRR(n, i)
		}
		e.EncodeBit(boolInt(any), 1)
	}
	for n := 0; n < nCh; n++ {
		mask := 0
		for i := 0; i < nFrames; i++ {
			if hasLBRR(n, i) {
				mask |= 1 << i
			}
		}
		switch {
		case mask == 0 || nFrames == 1:
		case nFrames == 2:
			e.EncodeICDF(mask-1, lbrrFlags2ICDF, 8)
		default:
			e.EncodeICDF(mask-1, lbrrFlags3ICDF, 8)
		}
	}

	for i := 0; i < nFrames; i++ {
		for n := 0; n < nCh; n++ {
			if !hasLBRR(n, i) {
				continue
			}
			if nCh == 2 && n == 0 {
				encodeZeroStereoPred(e)
				if !hasLBRR(1, i) {
					e.EncodeICDF(1, stereoOnlyCodeMidICDF, 8)
				}
			}
			cond := codeIndependently
			if i > 0 && hasLBRR(n, i-1) {
				cond = codeConditionally
			}
			b.frame(n, lbrr[n][i], true, cond)
		}
	}

	for i := 0; i < nFrames; i++ {
		if nCh == 2 {
			encodeZeroStereoPred(e)
			if side := frames[1][i]; side == nil || side.signalType == typeNoVoiceActivity {
				e.EncodeICDF(boolInt(side == nil), stereoOnlyCodeMidICDF, 8)
			}
		}
		for n := 0; n < nCh; n++ {
			f := frames[n][i]
			if f == nil {
				continue
			}
			cond := codeConditionally
			switch {
			case i == 0:
				cond = codeIndependently
			case n == 1 && frames[1][i-1] == nil:
				cond = codeIndependentlyNoLtpScaling
			}
			b.frame(n, f, f.signalType != typeNoVoiceActivity, cond)
		}
	}

	data := e.Done()
	if e.Overflowed() {
		t.Fatal("test packet overflowed")
	}
	return data
}

// encodeZeroStereoPred codes both stereo predictors as 0.
func encodeZeroStereoPred(e *rangecoding.Encoder) {
	e.EncodeICDF(12, stereoPredJointICDF, 8)
	for i := 0; i < 2; i++ {
		e.EncodeICDF(1, uniform3ICDF, 8)
		e.EncodeICDF(2, uniform5ICDF, 8)
	}
}

func (b *packetBuilder) frame(n int, f *testFrame, vadTable bool, cond int) {
	e := &b.enc
	ix := f.signalType<<1 | f.quantOffset
	if vadTable {
		e.EncodeICDF(ix-2, typeOffsetVADICDF, 8)
	} else {
		e.EncodeICDF(ix, typeOffsetNoVADICDF, 8)
	}

	if cond == codeConditionally {
		e.EncodeICDF(f.deltas[0], deltaGainICDF, 8)
	} else {
		e.EncodeICDF(f.gain0>>3, gainICDF[f.signalType][:], 8)
		e.EncodeICDF(f.gain0&7, uniform8ICDF, 8)
	}
	for k := 1; k < b.nbSubfr; k++ {
		e.EncodeICDF(f.deltas[k], deltaGainICDF, 8)
	}

	cb := nlsfCodebookNBMB
	if b.fsKHz == 16 {
		cb = nlsfCodebookWB
	}
	e.EncodeICDF(f.cb1, cb.cb1ICDF[(f.signalType>>1)*cb.nVectors:], 8)
	var ecIx [maxLPCOrder]int16
	var predQ8 [maxLPCOrder]uint8
	cb.unpack(ecIx[:], predQ8[:], f.cb1)
	for i := 0; i < cb.order; i++ {
		s := f.residuals[i] + nlsfQuantMaxAmplitude
		e.EncodeICDF(s, cb.ecICDF[ecIx[i]:], 8)
		if s == 0 || s == 2*nlsfQuantMaxAmplitude {
			e.EncodeICDF(0, nlsfExtICDF, 8)
		}
	}
	if b.nbSubfr == maxNbSubfr {
		e.EncodeICDF(f.interp, nlsfInterpFactorICDF, 8)
	}

	if f.signalType == typeVoiced {
		if cond == codeConditionally && b.prevVoiced[n] {
			// Delta 0 selects absolute lag coding.
			e.EncodeICDF(0, pitchDeltaICDF, 8)
		}
		e.EncodeICDF(f.lagHi, pitchLagICDF, 8)
		e.EncodeICDF(f.lagLo, map[int][]uint8{8: uniform4ICDF, 12: uniform6ICDF, 16: uniform8ICDF}[b.fsKHz], 8)
		e.EncodeICDF(f.contour, b.contourICDF(), 8)
		e.EncodeICDF(f.per, ltpPerIndexICDF, 8)
		for k := 0; k < b.nbSubfr; k++ {
			e.EncodeICDF(f.ltpIndex[k], ltpGainICDF[f.per], 8)
		}
		if cond == codeIndependently {
			e.EncodeICDF(f.ltpScale, ltpScaleICDF, 8)
		}
	}
	b.prevVoiced[n] = f.signalType == typeVoiced

	e.EncodeICDF(f.seed, uniform4ICDF, 8)

	frameLength := b.nbSubfr * subFrameLengthMs * b.fsKHz
	pulses := f.pulses
	if pulses == nil {
		pulses = make([]int16, (frameLength+shellCodecFrameLength-1)&^(shellCodecFrameLength-1))
	}
	encodeTestPulses(e, pulses, f.signalType, f.quantOffset, f.rateLevel)
}

func (b *packetBuilder) contourICDF() []uint8 {
	switch {
	case b.fsKHz == 8 && b.nbSubfr == maxNbSubfr:
		return pitchContourNBICDF
	case b.fsKHz == 8:
		return pitchContour10msNBICDF
	case b.nbSubfr == maxNbSubfr:
		return pitchContourICDF
	}
	return pitchContour10msICDF
}

// encodeTestPulses writes pulses whose per-block magnitude sum is at most
// silkMaxPulses. len(pulses) must be a multiple of shellCodecFrameLength.
func encodeTestPulses(e *rangecoding.Encoder, pulses []int16, signalType, quantOffset, rateLevel int) {
	e.EncodeICDF(rateLevel, rateLevelsICDF[signalType>>1][:], 8)

	blocks := len(pulses) / shellCodecFrameLength
	sums := make([]int, blocks)
	for i := range sums {
		for _, p := range pulses[i*shellCodecFrameLength : (i+1)*shellCodecFrameLength] {
			sums[i] += int(abs16(p))
		}
		if sums[i] > silkMaxPulses {
			panic("test pulses exceed shell block capacity")
		}
		e.EncodeICDF(sums[i], pulsesPerBlockICDF[rateLevel][:], 8)
	}

	tables := map[int][]uint8{
		16: shellCodeTable3[:],
		8:  shellCodeTable2[:],
		4:  shellCodeTable1[:],
		2:  shellCodeTable0[:],
	}
	var split func(x []int16)
	split = func(x []int16) {
		if len(x) == 1 {
			return
		}
		p := sumAbs(x)
		if p == 0 {
			return
		}
		half := len(x) / 2
		e.EncodeICDF(sumAbs(x[:half]), tables[len(x)][shellCodeOffsets[p]:], 8)
		split(x[:half])
		split(x[half:])
	}
	for i := range sums {
		split(pulses[i*shellCodecFrameLength : (i+1)*shellCodecFrameLength])
	}

	tab := signICDF[7*(quantOffset+signalType<<1):]
	for i, s := range sums {
		if s == 0 {
			continue
		}
		icdf := []uint8{tab[min(s&0x1f, 6)], 0}
		for _, p := range pulses[i*shellCodecFrameLength : (i+1)*shellCodecFrameLength] {
			if p != 0 {
				e.EncodeICDF(boolInt(p > 0), icdf, 8)
			}
		}
	}
}

func abs16(v int16) int16 {
	if v < 0 {
		return -v
	}
	return v
}

func sumAbs(x []int16) int {
	s := 0
	for _, v := range x {
		s += int(abs16(v))
	}
	return s
}

func monoControl(fsKHz, apiHz, payloadMs int) *Control {
	return &Control{
		APISampleRate:      apiHz,
		Channels:           1,
		StreamChannels:     1,
		InternalSampleRate: fsKHz * 1000,
		PayloadSizeMs:      payloadMs,
	}
}

func newRangeDecoder(data []byte) *rangecoding.Decoder {
	rd := &rangecoding.Decoder{}
	rd.Init(data)
	return rd
}

func energy(x []int16) int64 {
	var e int64
	for _, v := range x {
		e += int64(v) * int64(v)
	}
	return e
}
