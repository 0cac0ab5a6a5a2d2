package resample

import "github.com/thesyncim/gosilk/internal/fixed"

// ar2 runs the second-order AR prefilter, writing Q8 output.
func ar2(s *[6]int32, outQ8 []int32, in []int16, aQ14 []int16) {
	for k, v := range in {
		out32 := s[0] + int32(v)<<8
		outQ8[k] = out32
		out32 <<= 2
		s[0] = fixed.SMLAWB(s[1], out32, int32(aQ14[0]))
		s[1] = fixed.SMULWB(out32, int32(aQ14[1]))
	}
}

// downFIR decimates in batches. Unlike the upsampler it stops once a single
// input sample remains, so that sample is dropped rather than buffered.
func (r *Resampler) downFIR(out, in []int16) {
	order := r.firOrder
	buf := r.buf32[:r.batchSize+order]
	copy(buf, r.sFIR32[:order])
	firCoefs := r.coefs[2:]

	nIn := 0
	for {
		nIn = min(len(in), r.batchSize)
		ar2(&r.sIIR, buf[order:], in[:nIn], r.coefs)

		maxIndexQ16 := int32(nIn) << 16
		out = r.interpolDown(out, buf, firCoefs, maxIndexQ16)

		in = in[nIn:]
		if len(in) <= 1 {
			break
		}
		copy(buf, buf[nIn:nIn+order])
	}
	copy(r.sFIR32[:order], buf[nIn:nIn+order])
}

func (r *Resampler) interpolDown(out []int16, buf []int32, coefs []int16, maxIndexQ16 int32) []int16 {
	order := r.firOrder
	half := order / 2
	o := 0
	for indexQ16 := int32(0); indexQ16 < maxIndexQ16 && o < len(out); indexQ16 += r.invRatioQ16 {
		p := buf[indexQ16>>16:]
		var res int32
		if order == downOrderFIR0 {
			phase := int(fixed.SMULWB(indexQ16&0xffff, int32(r.firFracs)))
			fwd := coefs[half*phase:]
			rev := coefs[half*(r.firFracs-1-phase):]
			res = fixed.SMULWB(p[0], int32(fwd[0]))
			for i := 1; i < half; i++ {
				res = fixed.SMLAWB(res, p[i], int32(fwd[i]))
			}
			for i := 0; i < half; i++ {
				res = fixed.SMLAWB(res, p[order-1-i], int32(rev[i]))
			}
		} else {
			res = fixed.SMULWB(p[0]+p[order-1], int32(coefs[0]))
			for i := 1; i < half; i++ {
				res = fixed.SMLAWB(res, p[i]+p[order-1-i], int32(coefs[i]))
			}
		}
		out[o] = int16(fixed.Sat16(fixed.RShiftRound(res, 6)))
		o++
	}
	return out[o:]
}
