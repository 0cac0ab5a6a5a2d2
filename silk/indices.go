package silk

import "github.com/thesyncim/gosilk/rangecoding"

// decodeIndices reads the side information of one frame into c.indices.
// decodeLBRR selects the VAD-active type table for redundant frames.
func (c *channelState) decodeIndices(rd *rangecoding.Decoder, frameIndex int, decodeLBRR bool, condCoding int) {
	idx := &c.indices

	var ix int
	if decodeLBRR || c.vadFlags[frameIndex] {
		ix = rd.DecodeICDF(typeOffsetVADICDF, 8) + 2
	} else {
		ix = rd.DecodeICDF(typeOffsetNoVADICDF, 8)
	}
	idx.signalType = int8(ix >> 1)
	idx.quantOffsetType = int8(ix & 1)

	// Gains: the first subframe is absolute unless coded against the
	// previous frame; the rest are always deltas.
	if condCoding == codeConditionally {
		idx.gainsIndices[0] = int8(rd.DecodeICDF(deltaGainICDF, 8))
	} else {
		msb := rd.DecodeICDF(gainICDF[idx.signalType][:], 8)
		idx.gainsIndices[0] = int8(msb<<3 + rd.DecodeICDF(uniform8ICDF, 8))
	}
	for k := 1; k < c.nbSubfr; k++ {
		idx.gainsIndices[k] = int8(rd.DecodeICDF(deltaGainICDF, 8))
	}

	cb := c.nlsfCB
	idx.nlsfIndices[0] = int8(rd.DecodeICDF(cb.cb1ICDF[int(idx.signalType>>1)*cb.nVectors:], 8))
	var ecIx [maxLPCOrder]int16
	var predQ8 [maxLPCOrder]uint8
	cb.unpack(ecIx[:], predQ8[:], int(idx.nlsfIndices[0]))
	for i := 0; i < cb.order; i++ {
		s := rd.DecodeICDF(cb.ecICDF[ecIx[i]:], 8)
		switch s {
		case 0:
			s -= rd.DecodeICDF(nlsfExtICDF, 8)
		case 2 * nlsfQuantMaxAmplitude:
			s += rd.DecodeICDF(nlsfExtICDF, 8)
		}
		idx.nlsfIndices[i+1] = int8(s - nlsfQuantMaxAmplitude)
	}

	if c.nbSubfr == maxNbSubfr {
		idx.nlsfInterpCoefQ2 = int8(rd.DecodeICDF(nlsfInterpFactorICDF, 8))
	} else {
		idx.nlsfInterpCoefQ2 = 4
	}

	if idx.signalType == typeVoiced {
		absolute := true
		if condCoding == codeConditionally && c.ecPrevSignalType == typeVoiced {
			if delta := rd.DecodeICDF(pitchDeltaICDF, 8); delta > 0 {
				idx.lagIndex = c.ecPrevLagIndex + int16(delta-9)
				absolute = false
			}
		}
		if absolute {
			idx.lagIndex = int16(rd.DecodeICDF(pitchLagICDF, 8) * (c.fsKHz >> 1))
			idx.lagIndex += int16(rd.DecodeICDF(c.pitchLagLowBitsICDF, 8))
		}
		c.ecPrevLagIndex = idx.lagIndex

		idx.contourIndex = int8(rd.DecodeICDF(c.pitchContourICDF, 8))

		idx.perIndex = int8(rd.DecodeICDF(ltpPerIndexICDF, 8))
		for k := 0; k < c.nbSubfr; k++ {
			idx.ltpIndex[k] = int8(rd.DecodeICDF(ltpGainICDF[idx.perIndex], 8))
		}

		if condCoding == codeIndependently {
			idx.ltpScaleIndex = int8(rd.DecodeICDF(ltpScaleICDF, 8))
		} else {
			idx.ltpScaleIndex = 0
		}
	}
	c.ecPrevSignalType = int(idx.signalType)

	idx.seed = int8(rd.DecodeICDF(uniform4ICDF, 8))
}
