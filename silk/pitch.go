package silk

import "github.com/thesyncim/gosilk/internal/fixed"

// decodePitch expands a lag index and contour index into one pitch lag per
// subframe, limited to the 2..18 ms search range.
func decodePitch(pitchL []int, lagIndex int16, contourIndex int8, fsKHz, nbSubfr int) {
	var lags func(k, c int) int8
	switch {
	case fsKHz == 8 && nbSubfr == maxNbSubfr:
		lags = func(k, c int) int8 { return cbLagsStage2[k][c] }
	case fsKHz == 8:
		lags = func(k, c int) int8 { return cbLagsStage2_10ms[k][c] }
	case nbSubfr == maxNbSubfr:
		lags = func(k, c int) int8 { return cbLagsStage3[k][c] }
	default:
		lags = func(k, c int) int8 { return cbLagsStage3_10ms[k][c] }
	}

	minLag := pitchEstMinLagMs * fsKHz
	maxLag := pitchEstMaxLagMs * fsKHz
	lag := minLag + int(lagIndex)
	for k := 0; k < nbSubfr; k++ {
		pitchL[k] = fixed.Limit(lag+int(lags(k, int(contourIndex))), minLag, maxLag)
	}
}
