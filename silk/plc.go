package silk

import (
	"math"

	"github.com/thesyncim/gosilk/internal/fixed"
)

// Attenuation per lost frame, indexed by min(lossCnt, 1).
var (
	plcHarmAttQ15       = [2]int32{32440, 31130}
	plcRandAttVoicedQ15 = [2]int32{31130, 26214}
	plcRandAttUnvQ15    = [2]int32{32440, 29491}
)

func (c *channelState) resetPLC() {
	c.plc.pitchLQ8 = int32(c.frameLength) << 7
	c.plc.prevGainQ16 = [2]int32{1 << 16, 1 << 16}
	c.plc.subfrLength = 20
	c.plc.nbSubfr = 2
}

// runPLC either learns from a good frame or synthesizes a lost one.
func (c *channelState) runPLC(ctrl *frameControl, frame []int16, lost bool) {
	if c.fsKHz != c.plc.fsKHz {
		c.resetPLC()
		c.plc.fsKHz = c.fsKHz
	}
	if lost {
		c.concealPLC(ctrl, frame)
		c.lossCnt++
		return
	}
	c.updatePLC(ctrl)
}

// updatePLC records the parameters that concealment extrapolates from.
func (c *channelState) updatePLC(ctrl *frameControl) {
	p := &c.plc
	c.prevSignalType = int(c.indices.signalType)

	if c.indices.signalType == typeVoiced {
		// Take the pitch of the last subframe holding a full pitch pulse.
		var ltpGainQ14 int32
		for j := 0; j*c.subfrLength < ctrl.pitchL[c.nbSubfr-1] && j < c.nbSubfr; j++ {
			k := c.nbSubfr - 1 - j
			var g int32
			for _, v := range ctrl.ltpCoefQ14[k*ltpOrder : (k+1)*ltpOrder] {
				g += int32(v)
			}
			if g > ltpGainQ14 {
				ltpGainQ14 = g
				p.pitchLQ8 = int32(ctrl.pitchL[k]) << 8
			}
		}

		p.ltpCoefQ14 = [ltpOrder]int16{}
		p.ltpCoefQ14[ltpOrder/2] = int16(ltpGainQ14)

		switch {
		case ltpGainQ14 < plcPitchGainMinQ14:
			scaleQ10 := int32(plcPitchGainMinQ14<<10) / max(ltpGainQ14, 1)
			for i := range p.ltpCoefQ14 {
				p.ltpCoefQ14[i] = int16(fixed.SMULBB(int32(p.ltpCoefQ14[i]), scaleQ10) >> 10)
			}
		case ltpGainQ14 > plcPitchGainMaxQ14:
			scaleQ14 := int32(plcPitchGainMaxQ14<<14) / max(ltpGainQ14, 1)
			for i := range p.ltpCoefQ14 {
				p.ltpCoefQ14[i] = int16(fixed.SMULBB(int32(p.ltpCoefQ14[i]), scaleQ14) >> 14)
			}
		}
	} else {
		p.pitchLQ8 = fixed.SMULBB(int32(c.fsKHz), 18) << 8
		p.ltpCoefQ14 = [ltpOrder]int16{}
	}

	copy(p.prevLPCQ12[:c.lpcOrder], ctrl.predCoefQ12[1][:c.lpcOrder])
	p.prevLTPScaleQ14 = int16(ctrl.ltpScaleQ14)
	copy(p.prevGainQ16[:], ctrl.gainsQ16[c.nbSubfr-2:c.nbSubfr])
	p.subfrLength = c.subfrLength
	p.nbSubfr = c.nbSubfr
}

// excitationEnergies returns the gain-scaled energies of the last two
// subframes of the previous excitation.
func (c *channelState) excitationEnergies(prevGainQ10 [2]int32) (e1 int32, s1 int, e2 int32, s2 int) {
	var buf [2 * maxSubFrameLength]int16
	n := c.subfrLength
	for k := 0; k < 2; k++ {
		src := c.excQ14[(k+c.nbSubfr-2)*n:]
		for i := 0; i < n; i++ {
			buf[k*n+i] = int16(fixed.Sat16(fixed.SMULWW(src[i], prevGainQ10[k]) >> 8))
		}
	}
	e1, s1 = fixed.SumSqrShift(buf[:n])
	e2, s2 = fixed.SumSqrShift(buf[n : 2*n])
	return e1, s1, e2, s2
}

// concealPLC fills frame by extrapolating the last good frame: pitch
// pulses from the LTP filter plus noise drawn from the old excitation,
// both fading with every further loss.
func (c *channelState) concealPLC(ctrl *frameControl, frame []int16) {
	p := &c.plc
	prevGainQ10 := [2]int32{p.prevGainQ16[0] >> 6, p.prevGainQ16[1] >> 6}

	if c.firstFrameAfterReset {
		p.prevLPCQ12 = [maxLPCOrder]int16{}
	}

	e1, s1, e2, s2 := c.excitationEnergies(prevGainQ10)
	// Draw noise from the quieter of the last two subframes.
	var randOff int
	if e1>>s2 < e2>>s1 {
		randOff = max(0, (p.nbSubfr-1)*p.subfrLength-plcRandBufSize)
	} else {
		randOff = max(0, p.nbSubfr*p.subfrLength-plcRandBufSize)
	}
	randBuf := c.excQ14[randOff:]

	b := &p.ltpCoefQ14
	randScaleQ14 := p.randScaleQ14

	att := min(1, c.lossCnt)
	harmGainQ15 := plcHarmAttQ15[att]
	randGainQ15 := plcRandAttUnvQ15[att]
	if c.prevSignalType == typeVoiced {
		randGainQ15 = plcRandAttVoicedQ15[att]
	}

	bwExpand(p.prevLPCQ12[:c.lpcOrder], plcBWECoefQ16)
	var a [maxLPCOrder]int16
	copy(a[:], p.prevLPCQ12[:c.lpcOrder])

	if c.lossCnt == 0 {
		randScaleQ14 = 1 << 14
		if c.prevSignalType == typeVoiced {
			for _, v := range b {
				randScaleQ14 -= v
			}
			randScaleQ14 = max(plcMinRandScaleQ14, randScaleQ14)
			randScaleQ14 = int16(fixed.SMULBB(int32(randScaleQ14), int32(p.prevLTPScaleQ14)) >> 14)
		} else {
			invGainQ30 := inversePredGain(p.prevLPCQ12[:c.lpcOrder])
			down := min(1<<30>>plcInvGainHighThresLog, invGainQ30)
			down = max(1<<30>>plcInvGainLowThresLog, down)
			down <<= plcInvGainHighThresLog
			randGainQ15 = fixed.SMULWB(down, randGainQ15) >> 14
		}
	}

	seed := p.randSeed
	lag := int(fixed.RShiftRound(p.pitchLQ8, 8))
	bufIdx := c.ltpMemLength

	// Re-whiten the tail of the output history.
	var sLTP [ltpMemLengthMs * maxFsKHz]int16
	var sLTPQ14 [ltpMemLengthMs*maxFsKHz + maxFrameLength]int32
	start := c.ltpMemLength - lag - c.lpcOrder - ltpOrder/2
	lpcAnalysisFilter(sLTP[start:], c.outBuf[start:], a[:c.lpcOrder], c.ltpMemLength-start)

	invGainQ30 := min(fixed.Inverse32VarQ(p.prevGainQ16[1], 46), math.MaxInt32>>1)
	for i := start + c.lpcOrder; i < c.ltpMemLength; i++ {
		sLTPQ14[i] = fixed.SMULWB(invGainQ30, int32(sLTP[i]))
	}

	for k := 0; k < c.nbSubfr; k++ {
		pred := bufIdx - lag + ltpOrder/2
		for i := 0; i < c.subfrLength; i++ {
			ltpQ12 := int32(2)
			ltpQ12 = fixed.SMLAWB(ltpQ12, sLTPQ14[pred], int32(b[0]))
			ltpQ12 = fixed.SMLAWB(ltpQ12, sLTPQ14[pred-1], int32(b[1]))
			ltpQ12 = fixed.SMLAWB(ltpQ12, sLTPQ14[pred-2], int32(b[2]))
			ltpQ12 = fixed.SMLAWB(ltpQ12, sLTPQ14[pred-3], int32(b[3]))
			ltpQ12 = fixed.SMLAWB(ltpQ12, sLTPQ14[pred-4], int32(b[4]))
			pred++

			seed = fixed.Rand(seed)
			r := (seed >> 25) & plcRandBufMask
			sLTPQ14[bufIdx] = fixed.SMLAWB(ltpQ12, randBuf[r], int32(randScaleQ14)) << 2
			bufIdx++
		}

		for j := range b {
			b[j] = int16(fixed.SMULBB(harmGainQ15, int32(b[j])) >> 15)
		}
		randScaleQ14 = int16(fixed.SMULBB(int32(randScaleQ14), randGainQ15) >> 15)

		// Let the pitch drift slowly upward.
		p.pitchLQ8 = fixed.SMLAWB(p.pitchLQ8, p.pitchLQ8, plcPitchDriftFacQ16)
		p.pitchLQ8 = min(p.pitchLQ8, int32(plcMaxPitchLagMs*c.fsKHz)<<8)
		lag = int(fixed.RShiftRound(p.pitchLQ8, 8))
	}

	// LPC synthesis over the excitation just built, in place.
	sLPC := sLTPQ14[c.ltpMemLength-maxLPCOrder:]
	copy(sLPC[:maxLPCOrder], c.sLPCQ14Buf[:])
	for i := 0; i < c.frameLength; i++ {
		predQ10 := int32(c.lpcOrder >> 1)
		for j := 0; j < c.lpcOrder; j++ {
			predQ10 = fixed.SMLAWB(predQ10, sLPC[maxLPCOrder+i-j-1], int32(a[j]))
		}
		sLPC[maxLPCOrder+i] = fixed.AddSat32(sLPC[maxLPCOrder+i], fixed.LShiftSat32(predQ10, 4))
		frame[i] = int16(fixed.Sat16(fixed.RShiftRound(fixed.SMULWW(sLPC[maxLPCOrder+i], prevGainQ10[1]), 8)))
	}
	copy(c.sLPCQ14Buf[:], sLPC[c.frameLength:c.frameLength+maxLPCOrder])

	p.randSeed = seed
	p.randScaleQ14 = randScaleQ14
	for k := range ctrl.pitchL {
		ctrl.pitchL[k] = lag
	}
}

// glueFrames smooths the energy step from a concealed frame to the first
// good frame after it.
func (c *channelState) glueFrames(frame []int16) {
	p := &c.plc
	if c.lossCnt != 0 {
		p.concEnergy, p.concEnergyShift = fixed.SumSqrShift(frame)
		p.lastFrameLost = true
		return
	}

	if p.lastFrameLost {
		energy, shift := fixed.SumSqrShift(frame)
		if shift > p.concEnergyShift {
			p.concEnergy >>= shift - p.concEnergyShift
		} else if shift < p.concEnergyShift {
			energy >>= p.concEnergyShift - shift
		}

		// Fade in from the concealment level when the new frame is louder.
		if energy > p.concEnergy {
			lz := int(fixed.CLZ32(p.concEnergy)) - 1
			p.concEnergy <<= lz
			energy >>= max(24-lz, 0)

			fracQ24 := p.concEnergy / max(energy, 1)
			gainQ16 := fixed.SqrtApprox(fracQ24) << 4
			slopeQ16 := fixed.Div32_16(1<<16-gainQ16, int32(len(frame))) << 2

			for i := range frame {
				frame[i] = int16(fixed.SMULWB(gainQ16, int32(frame[i])))
				gainQ16 += slopeQ16
				if gainQ16 > 1<<16 {
					break
				}
			}
		}
	}
	p.lastFrameLost = false
}
