package silk

import (
	"math"

	"github.com/thesyncim/gosilk/internal/fixed"
)

const (
	nlsf2aQA           = 16
	invPredGainQA      = 24
	invPredGainALimitQ = 16773022 // 0.99975 in Q24
)

// Orderings that interleave the roots so the polynomial products stay
// well conditioned.
var (
	nlsf2aOrdering16 = [16]uint8{0, 15, 8, 7, 4, 11, 12, 3, 2, 13, 10, 5, 6, 9, 14, 1}
	nlsf2aOrdering10 = [10]uint8{0, 9, 6, 3, 4, 5, 8, 1, 2, 7}
)

func nlsf2aFindPoly(out []int32, cLSF []int32, dd int) {
	out[0] = 1 << nlsf2aQA
	out[1] = -cLSF[0]
	for k := 1; k < dd; k++ {
		f := cLSF[2*k]
		out[k+1] = out[k-1]<<1 - int32(fixed.RShiftRound64(fixed.SMULL(f, out[k]), nlsf2aQA))
		for n := k; n > 1; n-- {
			out[n] += out[n-2] - int32(fixed.RShiftRound64(fixed.SMULL(f, out[n-1]), nlsf2aQA))
		}
		out[1] -= f
	}
}

// nlsfToLPC converts NLSFs to Q12 prediction coefficients of the same
// order (10 or 16) and bandwidth-expands them until the filter is stable.
func nlsfToLPC(aQ12 []int16, nlsfQ15 []int16) {
	order := len(nlsfQ15)
	ordering := nlsf2aOrdering10[:]
	if order == maxLPCOrder {
		ordering = nlsf2aOrdering16[:]
	}

	var cosQA [maxLPCOrder]int32
	for k, nlsf := range nlsfQ15 {
		fInt := int32(nlsf) >> (15 - 7)
		fFrac := int32(nlsf) - fInt<<(15-7)
		c := int32(lsfCosTabQ12[fInt])
		delta := int32(lsfCosTabQ12[fInt+1]) - c
		cosQA[ordering[k]] = fixed.RShiftRound(c<<8+delta*fFrac, 20-nlsf2aQA)
	}

	dd := order >> 1
	var p, q [maxLPCOrder/2 + 1]int32
	nlsf2aFindPoly(p[:], cosQA[:order], dd)
	nlsf2aFindPoly(q[:], cosQA[1:order], dd)

	var a32 [maxLPCOrder]int32
	for k := 0; k < dd; k++ {
		pTmp := p[k+1] + p[k]
		qTmp := q[k+1] - q[k]
		a32[k] = -qTmp - pTmp
		a32[order-k-1] = qTmp - pTmp
	}

	lpcFit(aQ12[:order], a32[:order], 12, nlsf2aQA+1)

	for i := 0; inversePredGain(aQ12[:order]) == 0 && i < maxLPCStabilizeIterations; i++ {
		bwExpand32(a32[:order], 65536-int32(2)<<i)
		for k := 0; k < order; k++ {
			aQ12[k] = int16(fixed.RShiftRound(a32[k], nlsf2aQA+1-12))
		}
	}
}

// bwExpand scales coefficient i by chirp^(i+1).
func bwExpand(ar []int16, chirpQ16 int32) {
	if len(ar) == 0 {
		return
	}
	chirpMinusOne := chirpQ16 - 65536
	last := len(ar) - 1
	for i := 0; i < last; i++ {
		ar[i] = int16(fixed.RShiftRound(chirpQ16*int32(ar[i]), 16))
		chirpQ16 += fixed.RShiftRound(chirpQ16*chirpMinusOne, 16)
	}
	ar[last] = int16(fixed.RShiftRound(chirpQ16*int32(ar[last]), 16))
}

func bwExpand32(ar []int32, chirpQ16 int32) {
	chirpMinusOne := chirpQ16 - 65536
	last := len(ar) - 1
	for i := 0; i < last; i++ {
		ar[i] = fixed.SMULWW(chirpQ16, ar[i])
		chirpQ16 += fixed.RShiftRound(chirpQ16*chirpMinusOne, 16)
	}
	ar[last] = fixed.SMULWW(chirpQ16, ar[last])
}

// lpcFit converts aIn from Q(qIn) to Q(qOut) int16 coefficients, applying
// bandwidth expansion until the largest one fits.
func lpcFit(aOut []int16, aIn []int32, qOut, qIn int) {
	shift := qIn - qOut
	i := 0
	for ; i < 10; i++ {
		var maxAbs int32
		at := 0
		for k, v := range aIn {
			if a := fixed.Abs(v); a > maxAbs {
				maxAbs, at = a, k
			}
		}
		maxAbs = fixed.RShiftRound(maxAbs, shift)
		if maxAbs <= math.MaxInt16 {
			break
		}
		// Reduce the magnitude by enough to bring the peak inside int16.
		maxAbs = min(maxAbs, 163838)
		chirpQ16 := fixed.FixConst(0.999, 16) - (maxAbs-math.MaxInt16)<<14/(maxAbs*int32(at+1)>>2)
		bwExpand32(aIn, chirpQ16)
	}

	if i == 10 {
		for k := range aIn {
			aOut[k] = int16(fixed.Sat16(fixed.RShiftRound(aIn[k], shift)))
			aIn[k] = int32(aOut[k]) << shift
		}
		return
	}
	for k := range aIn {
		aOut[k] = int16(fixed.RShiftRound(aIn[k], shift))
	}
}

// inversePredGain returns the inverse prediction gain of aQ12 in Q30, or 0
// when the filter is unstable or its gain is excessive.
func inversePredGain(aQ12 []int16) int32 {
	var aQA [maxLPCOrder]int32
	var dc int32
	for k, a := range aQ12 {
		dc += int32(a)
		aQA[k] = int32(a) << (invPredGainQA - 12)
	}
	if dc >= 4096 {
		return 0
	}
	return inversePredGainQA(aQA[:len(aQ12)])
}

func mul32FracQ(a, b int32, q int) int32 {
	return int32(fixed.RShiftRound64(fixed.SMULL(a, b), q))
}

func reflect(rcQ31 int32, invGainQ30 int32) (rcMult1Q30, gain int32) {
	rcMult1Q30 = 1<<30 - fixed.SMMUL(rcQ31, rcQ31)
	return rcMult1Q30, fixed.SMMUL(invGainQ30, rcMult1Q30) << 2
}

// inversePredGainQA runs the step-down recursion on Q24 coefficients.
// aQA is modified.
func inversePredGainQA(aQA []int32) int32 {
	invGainQ30 := int32(1 << 30)
	for k := len(aQA) - 1; k > 0; k-- {
		if aQA[k] > invPredGainALimitQ || aQA[k] < -invPredGainALimitQ {
			return 0
		}
		rcQ31 := -(aQA[k] << (31 - invPredGainQA))
		var rcMult1Q30 int32
		rcMult1Q30, invGainQ30 = reflect(rcQ31, invGainQ30)
		if invGainQ30 < maxPredictionPowerGainInvQ30 {
			return 0
		}

		mult2Q := 32 - int(fixed.CLZ32(fixed.Abs(rcMult1Q30)))
		rcMult2 := fixed.Inverse32VarQ(rcMult1Q30, mult2Q+30)

		for n := 0; n < (k+1)>>1; n++ {
			t1, t2 := aQA[n], aQA[k-n-1]
			v1 := fixed.RShiftRound64(fixed.SMULL(fixed.SubSat32(t1, mul32FracQ(t2, rcQ31, 31)), rcMult2), mult2Q)
			if v1 > math.MaxInt32 || v1 < math.MinInt32 {
				return 0
			}
			v2 := fixed.RShiftRound64(fixed.SMULL(fixed.SubSat32(t2, mul32FracQ(t1, rcQ31, 31)), rcMult2), mult2Q)
			if v2 > math.MaxInt32 || v2 < math.MinInt32 {
				return 0
			}
			aQA[n], aQA[k-n-1] = int32(v1), int32(v2)
		}
	}

	if aQA[0] > invPredGainALimitQ || aQA[0] < -invPredGainALimitQ {
		return 0
	}
	_, invGainQ30 = reflect(-(aQA[0] << (31 - invPredGainQA)), invGainQ30)
	if invGainQ30 < maxPredictionPowerGainInvQ30 {
		return 0
	}
	return invGainQ30
}

// lpcAnalysisFilter whitens in with the Q12 predictor b. The first
// len(b) outputs are zero.
func lpcAnalysisFilter(out, in []int16, b []int16, length int) {
	order := len(b)
	clear(out[:order])
	for ix := order; ix < length; ix++ {
		var predQ12 int32
		for j, c := range b {
			predQ12 = fixed.SMLABB(predQ12, int32(in[ix-1-j]), int32(c))
		}
		resQ12 := int32(in[ix])<<12 - predQ12
		out[ix] = int16(fixed.Sat16(fixed.RShiftRound(resQ12, 12)))
	}
}
