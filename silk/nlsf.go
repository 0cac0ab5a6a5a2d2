package silk

import "github.com/thesyncim/gosilk/internal/fixed"

// unpack returns the entropy-table offsets and predictor coefficients
// selected by the first stage index.
func (cb *nlsfCodebook) unpack(ecIx []int16, predQ8 []uint8, cb1Index int) {
	sel := cb.ecSel[cb1Index*cb.order/2:]
	for i := 0; i < cb.order; i += 2 {
		entry := sel[i>>1]
		ecIx[i] = int16(fixed.SMULBB(int32(entry>>1&7), 2*nlsfQuantMaxAmplitude+1))
		predQ8[i] = cb.predQ8[i+int(entry&1)*(cb.order-1)]
		ecIx[i+1] = int16(fixed.SMULBB(int32(entry>>5&7), 2*nlsfQuantMaxAmplitude+1))
		predQ8[i+1] = cb.predQ8[i+int(entry>>4&1)*(cb.order-1)+1]
	}
}

// residualDequant runs the backward-predictive second stage.
func residualDequant(xQ10 []int16, indices []int8, predQ8 []uint8, stepQ16 int32, order int) {
	var outQ10 int32
	for i := order - 1; i >= 0; i-- {
		predQ10 := fixed.SMULBB(outQ10, int32(predQ8[i])) >> 8
		outQ10 = int32(indices[i]) << 10
		if outQ10 > 0 {
			outQ10 -= nlsfQuantLevelAdjQ10
		} else if outQ10 < 0 {
			outQ10 += nlsfQuantLevelAdjQ10
		}
		outQ10 = fixed.SMLAWB(predQ10, outQ10, stepQ16)
		xQ10[i] = int16(outQ10)
	}
}

// decodeNLSF reconstructs the normalized line spectral frequencies of a
// frame from its codebook indices and stabilizes them.
func decodeNLSF(nlsfQ15 []int16, indices []int8, cb *nlsfCodebook) {
	var ecIx [maxLPCOrder]int16
	var predQ8 [maxLPCOrder]uint8
	var resQ10 [maxLPCOrder]int16

	cb.unpack(ecIx[:], predQ8[:], int(indices[0]))
	residualDequant(resQ10[:], indices[1:], predQ8[:], cb.quantStepSizeQ16, cb.order)

	base := int(indices[0]) * cb.order
	cb1 := cb.cb1Q8[base : base+cb.order]
	w := cb.cb1WghtQ9[base : base+cb.order]
	for i := range cb1 {
		v := fixed.Div32_16(int32(resQ10[i])<<14, int32(w[i])) + int32(cb1[i])<<7
		nlsfQ15[i] = int16(fixed.Limit(v, 0, 32767))
	}

	stabilizeNLSF(nlsfQ15[:cb.order], cb.deltaMinQ15)
}

// stabilizeNLSF enforces the minimum spacing deltaMinQ15 between adjacent
// frequencies and to the 0 and pi edges. deltaMinQ15 has len(nlsf)+1
// entries.
func stabilizeNLSF(nlsfQ15 []int16, deltaMinQ15 []int16) {
	order := len(nlsfQ15)
	const maxLoops = 20

	for loops := 0; loops < maxLoops; loops++ {
		minDiff := int32(nlsfQ15[0]) - int32(deltaMinQ15[0])
		at := 0
		for i := 1; i < order; i++ {
			d := int32(nlsfQ15[i]) - (int32(nlsfQ15[i-1]) + int32(deltaMinQ15[i]))
			if d < minDiff {
				minDiff, at = d, i
			}
		}
		if d := 1<<15 - (int32(nlsfQ15[order-1]) + int32(deltaMinQ15[order])); d < minDiff {
			minDiff, at = d, order
		}
		if minDiff >= 0 {
			return
		}

		switch at {
		case 0:
			nlsfQ15[0] = deltaMinQ15[0]
		case order:
			nlsfQ15[order-1] = int16(1<<15 - int32(deltaMinQ15[order]))
		default:
			var minCenter int32
			for k := 0; k < at; k++ {
				minCenter += int32(deltaMinQ15[k])
			}
			minCenter += int32(deltaMinQ15[at]) >> 1

			maxCenter := int32(1 << 15)
			for k := order; k > at; k-- {
				maxCenter -= int32(deltaMinQ15[k])
			}
			maxCenter -= int32(deltaMinQ15[at]) >> 1

			center := fixed.RShiftRound(int32(nlsfQ15[at-1])+int32(nlsfQ15[at]), 1)
			center = fixed.Limit(center, minCenter, maxCenter)
			nlsfQ15[at-1] = int16(center - int32(deltaMinQ15[at])>>1)
			nlsfQ15[at] = nlsfQ15[at-1] + deltaMinQ15[at]
		}
	}

	// Fall back to sorting and clamping in both directions.
	insertionSort(nlsfQ15)
	nlsfQ15[0] = max(nlsfQ15[0], deltaMinQ15[0])
	for i := 1; i < order; i++ {
		nlsfQ15[i] = max(nlsfQ15[i], fixed.AddSat16(nlsfQ15[i-1], deltaMinQ15[i]))
	}
	nlsfQ15[order-1] = min(nlsfQ15[order-1], int16(1<<15-int32(deltaMinQ15[order])))
	for i := order - 2; i >= 0; i-- {
		nlsfQ15[i] = min(nlsfQ15[i], nlsfQ15[i+1]-deltaMinQ15[i+1])
	}
}

func insertionSort(a []int16) {
	for i := 1; i < len(a); i++ {
		v := a[i]
		j := i - 1
		for ; j >= 0 && a[j] > v; j-- {
			a[j+1] = a[j]
		}
		a[j+1] = v
	}
}
