package silk

import "github.com/thesyncim/gosilk/internal/fixed"

const (
	gainRangeQ7     = (maxQGainDb - minQGainDb) * 128 / 6
	gainOffsetQ7    = minQGainDb*128/6 + 16*128
	gainInvScaleQ16 = (1 << 16) * gainRangeQ7 / (nLevelsQGain - 1)
	maxLogGainQ7    = 3967
)

// dequantGains turns gain indices into linear Q16 gains. prevIndex carries
// the last quantized level between frames and is updated in place.
func dequantGains(gainsQ16 []int32, indices []int8, prevIndex *int8, conditional bool) {
	prev := int(*prevIndex)
	for k := range gainsQ16 {
		if k == 0 && !conditional {
			// Absolute coding may drop at most 16 levels at once.
			prev = max(int(indices[k]), prev-16)
		} else {
			ind := int(indices[k]) + minDeltaGainQuant
			doubleStep := 2*maxDeltaGainQuant - nLevelsQGain + prev
			if ind > doubleStep {
				prev += ind<<1 - doubleStep
			} else {
				prev += ind
			}
		}
		prev = fixed.Limit(prev, 0, nLevelsQGain-1)

		logQ7 := fixed.SMULWB(gainInvScaleQ16, int32(prev)) + gainOffsetQ7
		gainsQ16[k] = fixed.Log2Lin(min(logQ7, maxLogGainQ7))
	}
	*prevIndex = int8(prev)
}
