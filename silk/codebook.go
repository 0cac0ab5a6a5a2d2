package silk

import "github.com/thesyncim/gosilk/internal/fixed"

// nlsfCodebook describes one two-stage NLSF quantizer.
type nlsfCodebook struct {
	nVectors         int
	order            int
	quantStepSizeQ16 int32
	cb1Q8            []uint8
	cb1WghtQ9        []int16
	cb1ICDF          []uint8
	predQ8           []uint8
	ecSel            []uint8
	ecICDF           []uint8
	deltaMinQ15      []int16
}

var (
	nlsfCodebookNBMB = newNLSFCodebook(10, 0.18, nlsfCB1NBMBQ8[:], nlsfCB1ICDFNBMB[:],
		nlsfPredNBMBQ8[:], nlsfCB2SelectNBMB[:], nlsfCB2ICDFNBMB[:], nlsfDeltaMinNBMBQ15[:])
	nlsfCodebookWB = newNLSFCodebook(16, 0.15, nlsfCB1WBQ8[:], nlsfCB1ICDFWB[:],
		nlsfPredWBQ8[:], nlsfCB2SelectWB[:], nlsfCB2ICDFWB[:], nlsfDeltaMinWBQ15[:])
)

func newNLSFCodebook(order int, step float64, cb1 []uint8, cb1ICDF []uint8,
	pred []uint8, sel []uint8, ecICDF []uint8, deltaMin []int16) *nlsfCodebook {
	cb := &nlsfCodebook{
		nVectors:         len(cb1) / order,
		order:            order,
		quantStepSizeQ16: fixed.FixConst(step, 16),
		cb1Q8:            cb1,
		cb1ICDF:          cb1ICDF,
		predQ8:           pred,
		ecSel:            sel,
		ecICDF:           ecICDF,
		deltaMinQ15:      deltaMin,
	}
	cb.cb1WghtQ9 = make([]int16, len(cb1))
	for v := 0; v < cb.nVectors; v++ {
		laroiaWeightsQ9(cb.cb1WghtQ9[v*order:(v+1)*order], cb1[v*order:(v+1)*order])
	}
	return cb
}

// laroiaWeightsQ9 derives the inverse-spacing weights of a first stage
// vector. Each weight is sqrt(1/d_left + 1/d_right) with the spacings taken
// against 0 and pi at the edges.
func laroiaWeightsQ9(dst []int16, cb1Q8 []uint8) {
	const one = 1 << (15 + 2)
	order := len(cb1Q8)
	gap := func(i int) int32 {
		var lo, hi int32 = 0, 1 << 15
		if i > 0 {
			lo = int32(cb1Q8[i-1]) << 7
		}
		if i < order {
			hi = int32(cb1Q8[i]) << 7
		}
		return fixed.Max(hi-lo, 1)
	}
	for i := 0; i < order; i++ {
		w := fixed.Min(one/gap(i)+one/gap(i+1), 32767)
		dst[i] = int16(fixed.SqrtApprox(w << 16))
	}
}
