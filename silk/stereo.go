package silk

import (
	"github.com/thesyncim/gosilk/internal/fixed"
	"github.com/thesyncim/gosilk/rangecoding"
)

// decodeStereoPred reads the two mid-to-side predictors, in Q13.
func decodeStereoPred(rd *rangecoding.Decoder) [2]int32 {
	var ix [2][3]int
	n := rd.DecodeICDF(stereoPredJointICDF, 8)
	ix[0][2] = n / 5
	ix[1][2] = n - 5*ix[0][2]
	for i := range ix {
		ix[i][0] = rd.DecodeICDF(uniform3ICDF, 8)
		ix[i][1] = rd.DecodeICDF(uniform5ICDF, 8)
	}

	var predQ13 [2]int32
	halfStepQ16 := fixed.FixConst(0.5/stereoQuantSubSteps, 16)
	for i := range ix {
		ix[i][0] += 3 * ix[i][2]
		lowQ13 := int32(stereoPredQuantQ13[ix[i][0]])
		stepQ13 := fixed.SMULWB(int32(stereoPredQuantQ13[ix[i][0]+1])-lowQ13, halfStepQ16)
		predQ13[i] = fixed.SMLABB(lowQ13, stepQ13, int32(2*ix[i][1]+1))
	}
	predQ13[0] -= predQ13[1]
	return predQ13
}

// decodeMidOnly reports whether the side channel is absent for a frame.
func decodeMidOnly(rd *rangecoding.Decoder) bool {
	return rd.DecodeICDF(stereoOnlyCodeMidICDF, 8) == 1
}

// msToLR converts one frame from mid/side to left/right in place. mid and
// side each hold frameLength+2 samples; the first two are overwritten with
// history and the converted frame starts at index 1.
func (s *stereoState) msToLR(mid, side []int16, predQ13 [2]int32, fsKHz, frameLength int) {
	copy(mid[:2], s.sMid[:])
	copy(side[:2], s.sSide[:])
	copy(s.sMid[:], mid[frameLength:frameLength+2])
	copy(s.sSide[:], side[frameLength:frameLength+2])

	interp := stereoInterpLenMs * fsKHz
	denomQ16 := int32((1 << 16) / interp)
	pred0, pred1 := s.predPrevQ13[0], s.predPrevQ13[1]
	delta0 := fixed.RShiftRound(fixed.SMULBB(predQ13[0]-pred0, denomQ16), 16)
	delta1 := fixed.RShiftRound(fixed.SMULBB(predQ13[1]-pred1, denomQ16), 16)

	for n := 0; n < frameLength; n++ {
		if n < interp {
			pred0 += delta0
			pred1 += delta1
		} else {
			pred0, pred1 = predQ13[0], predQ13[1]
		}
		sum := (int32(mid[n]) + int32(mid[n+2]) + int32(mid[n+1])<<1) << 9
		sum = fixed.SMLAWB(int32(side[n+1])<<8, sum, pred0)
		sum = fixed.SMLAWB(sum, int32(mid[n+1])<<11, pred1)
		side[n+1] = int16(fixed.Sat16(fixed.RShiftRound(sum, 8)))
	}
	s.predPrevQ13 = predQ13

	for n := 1; n <= frameLength; n++ {
		m, d := int32(mid[n]), int32(side[n])
		mid[n] = int16(fixed.Sat16(m + d))
		side[n] = int16(fixed.Sat16(m - d))
	}
}
