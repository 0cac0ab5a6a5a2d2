package silk

// decodeParams dequantizes c.indices into ctrl: gains, both halves' LPC
// filters, and for voiced frames the pitch lags and LTP taps.
func (c *channelState) decodeParams(ctrl *frameControl, condCoding int) {
	idx := &c.indices

	dequantGains(ctrl.gainsQ16[:c.nbSubfr], idx.gainsIndices[:c.nbSubfr], &c.lastGainIndex, condCoding == codeConditionally)

	var nlsfQ15 [maxLPCOrder]int16
	decodeNLSF(nlsfQ15[:], idx.nlsfIndices[:], c.nlsfCB)
	nlsfToLPC(ctrl.predCoefQ12[1][:c.lpcOrder], nlsfQ15[:c.lpcOrder])

	// Interpolation needs a previous frame to start from.
	if c.firstFrameAfterReset {
		idx.nlsfInterpCoefQ2 = 4
	}
	if idx.nlsfInterpCoefQ2 < 4 {
		var nlsf0 [maxLPCOrder]int16
		for i := 0; i < c.lpcOrder; i++ {
			diff := int32(nlsfQ15[i]) - int32(c.prevNLSFQ15[i])
			nlsf0[i] = c.prevNLSFQ15[i] + int16(int32(idx.nlsfInterpCoefQ2)*diff>>2)
		}
		nlsfToLPC(ctrl.predCoefQ12[0][:c.lpcOrder], nlsf0[:c.lpcOrder])
	} else {
		ctrl.predCoefQ12[0] = ctrl.predCoefQ12[1]
	}
	copy(c.prevNLSFQ15[:c.lpcOrder], nlsfQ15[:c.lpcOrder])

	if c.lossCnt != 0 {
		bwExpand(ctrl.predCoefQ12[0][:c.lpcOrder], bweAfterLossQ16)
		bwExpand(ctrl.predCoefQ12[1][:c.lpcOrder], bweAfterLossQ16)
	}

	if idx.signalType != typeVoiced {
		ctrl.pitchL = [maxNbSubfr]int{}
		ctrl.ltpCoefQ14 = [ltpOrder * maxNbSubfr]int16{}
		idx.perIndex = 0
		ctrl.ltpScaleQ14 = 0
		return
	}

	decodePitch(ctrl.pitchL[:], idx.lagIndex, idx.contourIndex, c.fsKHz, c.nbSubfr)
	cbk := ltpVQQ7[idx.perIndex]
	for k := 0; k < c.nbSubfr; k++ {
		row := cbk[idx.ltpIndex[k]]
		for i, v := range row {
			ctrl.ltpCoefQ14[k*ltpOrder+i] = int16(v) << 7
		}
	}
	ctrl.ltpScaleQ14 = int32(ltpScalesQ14[idx.ltpScaleIndex])
}
