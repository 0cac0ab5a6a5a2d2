package silk

import "github.com/thesyncim/gosilk/internal/fixed"

// decodeCore reconstructs one frame from the excitation pulses and the
// dequantized parameters: long-term (pitch) prediction followed by the
// short-term LPC synthesis filter, one subframe at a time.
func (c *channelState) decodeCore(ctrl *frameControl, out []int16, pulses []int16) {
	idx := &c.indices
	offsetQ10 := int32(quantizationOffsetsQ10[idx.signalType>>1][idx.quantOffsetType])
	interp := idx.nlsfInterpCoefQ2 < 4

	seed := int32(idx.seed)
	for i := 0; i < c.frameLength; i++ {
		seed = fixed.Rand(seed)
		e := int32(pulses[i]) << 14
		if e > 0 {
			e -= quantLevelAdjustQ10 << 4
		} else if e < 0 {
			e += quantLevelAdjustQ10 << 4
		}
		e += offsetQ10 << 4
		if seed < 0 {
			e = -e
		}
		c.excQ14[i] = e
		seed += int32(pulses[i])
	}

	var sLPC [maxSubFrameLength + maxLPCOrder]int32
	copy(sLPC[:], c.sLPCQ14Buf[:])

	var sLTP [ltpMemLengthMs * maxFsKHz]int16
	var sLTPQ15 [ltpMemLengthMs*maxFsKHz + maxFrameLength]int32
	bufIdx := c.ltpMemLength

	exc := c.excQ14[:]
	xq := out
	var resQ14 [maxSubFrameLength]int32

	for k := 0; k < c.nbSubfr; k++ {
		a := ctrl.predCoefQ12[k>>1][:c.lpcOrder]
		b := ctrl.ltpCoefQ14[k*ltpOrder : (k+1)*ltpOrder]
		signalType := int(idx.signalType)

		gainQ10 := ctrl.gainsQ16[k] >> 6
		invGainQ31 := fixed.Inverse32VarQ(ctrl.gainsQ16[k], 47)

		// Rescale the filter state when the gain changes.
		gainAdjQ16 := int32(1 << 16)
		if ctrl.gainsQ16[k] != c.prevGainQ16 {
			gainAdjQ16 = fixed.Div32VarQ(c.prevGainQ16, ctrl.gainsQ16[k], 16)
			for i := 0; i < maxLPCOrder; i++ {
				sLPC[i] = fixed.SMULWW(gainAdjQ16, sLPC[i])
			}
		}
		c.prevGainQ16 = ctrl.gainsQ16[k]

		// After a lost voiced frame, keep a weak single-tap pitch predictor
		// going into an unvoiced frame.
		if c.lossCnt != 0 && c.prevSignalType == typeVoiced && signalType != typeVoiced && k < maxNbSubfr/2 {
			clear(b)
			b[ltpOrder/2] = int16(fixed.FixConst(0.25, 14))
			signalType = typeVoiced
			ctrl.pitchL[k] = c.lagPrev
		}

		if signalType == typeVoiced {
			lag := ctrl.pitchL[k]
			if k == 0 || (k == 2 && interp) {
				// Re-whiten the output history with this subframe's filter.
				start := c.ltpMemLength - lag - c.lpcOrder - ltpOrder/2
				if k == 2 {
					copy(c.outBuf[c.ltpMemLength:], out[:2*c.subfrLength])
				}
				lpcAnalysisFilter(sLTP[start:], c.outBuf[start+k*c.subfrLength:], a, c.ltpMemLength-start)

				if k == 0 {
					invGainQ31 = fixed.SMULWB(invGainQ31, ctrl.ltpScaleQ14) << 2
				}
				for i := 0; i < lag+ltpOrder/2; i++ {
					sLTPQ15[bufIdx-i-1] = fixed.SMULWB(invGainQ31, int32(sLTP[c.ltpMemLength-i-1]))
				}
			} else if gainAdjQ16 != 1<<16 {
				for i := 0; i < lag+ltpOrder/2; i++ {
					sLTPQ15[bufIdx-i-1] = fixed.SMULWW(gainAdjQ16, sLTPQ15[bufIdx-i-1])
				}
			}
		}

		res := exc[:c.subfrLength]
		if signalType == typeVoiced {
			p := bufIdx - ctrl.pitchL[k] + ltpOrder/2
			for i := 0; i < c.subfrLength; i++ {
				predQ13 := int32(2)
				predQ13 = fixed.SMLAWB(predQ13, sLTPQ15[p], int32(b[0]))
				predQ13 = fixed.SMLAWB(predQ13, sLTPQ15[p-1], int32(b[1]))
				predQ13 = fixed.SMLAWB(predQ13, sLTPQ15[p-2], int32(b[2]))
				predQ13 = fixed.SMLAWB(predQ13, sLTPQ15[p-3], int32(b[3]))
				predQ13 = fixed.SMLAWB(predQ13, sLTPQ15[p-4], int32(b[4]))
				p++

				resQ14[i] = fixed.AddLShift32(exc[i], predQ13, 1)
				sLTPQ15[bufIdx] = resQ14[i] << 1
				bufIdx++
			}
			res = resQ14[:c.subfrLength]
		}

		for i := 0; i < c.subfrLength; i++ {
			predQ10 := int32(c.lpcOrder >> 1)
			for j, coef := range a {
				predQ10 = fixed.SMLAWB(predQ10, sLPC[maxLPCOrder+i-j-1], int32(coef))
			}
			sLPC[maxLPCOrder+i] = fixed.AddSat32(res[i], fixed.LShiftSat32(predQ10, 4))
			xq[i] = int16(fixed.Sat16(fixed.RShiftRound(fixed.SMULWW(sLPC[maxLPCOrder+i], gainQ10), 8)))
		}

		copy(sLPC[:maxLPCOrder], sLPC[c.subfrLength:c.subfrLength+maxLPCOrder])
		exc = exc[c.subfrLength:]
		xq = xq[c.subfrLength:]
	}

	copy(c.sLPCQ14Buf[:], sLPC[:maxLPCOrder])
}
