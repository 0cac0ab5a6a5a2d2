package resample

import "github.com/thesyncim/gosilk/internal/fixed"

// up2HQ upsamples in by two into out, which must hold 2*len(in) samples.
func (r *Resampler) up2HQ(out, in []int16) {
	upsample2(&r.sIIR, out, in)
}

// upsample2 runs the two three-stage allpass chains that produce the even and
// odd output phases. s holds both chains' state.
func upsample2(s *[6]int32, out, in []int16) {
	s0, s1, s2 := s[0], s[1], s[2]
	s3, s4, s5 := s[3], s[4], s[5]
	for k, v := range in {
		in32 := int32(v) << 10

		y := in32 - s0
		x := fixed.SMULWB(y, int32(up2HQ0[0]))
		out1 := s0 + x
		s0 = in32 + x

		y = out1 - s1
		x = fixed.SMULWB(y, int32(up2HQ0[1]))
		out2 := s1 + x
		s1 = out1 + x

		y = out2 - s2
		x = fixed.SMLAWB(y, y, int32(up2HQ0[2]))
		out1 = s2 + x
		s2 = out2 + x

		out[2*k] = int16(fixed.Sat16(fixed.RShiftRound(out1, 10)))

		y = in32 - s3
		x = fixed.SMULWB(y, int32(up2HQ1[0]))
		out1 = s3 + x
		s3 = in32 + x

		y = out1 - s4
		x = fixed.SMULWB(y, int32(up2HQ1[1]))
		out2 = s4 + x
		s4 = out1 + x

		y = out2 - s5
		x = fixed.SMLAWB(y, y, int32(up2HQ1[2]))
		out1 = s5 + x
		s5 = out2 + x

		out[2*k+1] = int16(fixed.Sat16(fixed.RShiftRound(out1, 10)))
	}
	s[0], s[1], s[2] = s0, s1, s2
	s[3], s[4], s[5] = s3, s4, s5
}

// iirFIR upsamples by two and then interpolates at the configured ratio,
// one batch at a time. The last orderFIR12 upsampled samples carry over.
func (r *Resampler) iirFIR(out, in []int16) {
	buf := r.buf16[:2*r.batchSize+orderFIR12]
	copy(buf, r.sFIR16[:])

	nIn := 0
	for {
		nIn = min(len(in), r.batchSize)
		upsample2(&r.sIIR, buf[orderFIR12:], in[:nIn])

		maxIndexQ16 := int32(nIn) << (16 + 1)
		out = interpolFIR12(out, buf, maxIndexQ16, r.invRatioQ16)

		in = in[nIn:]
		if len(in) == 0 {
			break
		}
		copy(buf, buf[nIn<<1:nIn<<1+orderFIR12])
	}
	copy(r.sFIR16[:], buf[nIn<<1:nIn<<1+orderFIR12])
}

func interpolFIR12(out, buf []int16, maxIndexQ16, incrQ16 int32) []int16 {
	o := 0
	for indexQ16 := int32(0); indexQ16 < maxIndexQ16 && o < len(out); indexQ16 += incrQ16 {
		t := fixed.SMULWB(indexQ16&0xffff, 12)
		p := buf[indexQ16>>16:]
		lo, hi := &fracFIR12[t], &fracFIR12[11-t]

		res := fixed.SMULBB(int32(p[0]), int32(lo[0]))
		res = fixed.SMLABB(res, int32(p[1]), int32(lo[1]))
		res = fixed.SMLABB(res, int32(p[2]), int32(lo[2]))
		res = fixed.SMLABB(res, int32(p[3]), int32(lo[3]))
		res = fixed.SMLABB(res, int32(p[4]), int32(hi[3]))
		res = fixed.SMLABB(res, int32(p[5]), int32(hi[2]))
		res = fixed.SMLABB(res, int32(p[6]), int32(hi[1]))
		res = fixed.SMLABB(res, int32(p[7]), int32(hi[0]))

		out[o] = int16(fixed.Sat16(fixed.RShiftRound(res, 15)))
		o++
	}
	return out[o:]
}
