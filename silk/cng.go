package silk

import "github.com/thesyncim/gosilk/internal/fixed"

func (c *channelState) resetCNG() {
	step := fixed.Div32_16(32767, int32(c.lpcOrder+1))
	var acc int32
	for i := 0; i < c.lpcOrder; i++ {
		acc += step
		c.cng.smthNLSFQ15[i] = int16(acc)
	}
	c.cng.smthGainQ16 = 0
	c.cng.randSeed = cngInitSeed
}

// cngExcitation draws length samples at random from the stored
// excitation buffer.
func cngExcitation(out []int32, excBuf []int32, seed *int32) {
	mask := int32(cngBufMaskMax)
	for mask > int32(len(out)) {
		mask >>= 1
	}
	s := *seed
	for i := range out {
		s = fixed.Rand(s)
		out[i] = excBuf[(s>>24)&mask]
	}
	*seed = s
}

// runCNG tracks the spectrum and level of background noise during
// inactive frames and adds matching comfort noise to concealed ones.
func (c *channelState) runCNG(ctrl *frameControl, frame []int16) {
	g := &c.cng
	if c.fsKHz != g.fsKHz {
		c.resetCNG()
		g.fsKHz = c.fsKHz
	}

	if c.lossCnt == 0 && c.prevSignalType == typeNoVoiceActivity {
		for i := 0; i < c.lpcOrder; i++ {
			g.smthNLSFQ15[i] += int16(fixed.SMULWB(int32(c.prevNLSFQ15[i])-int32(g.smthNLSFQ15[i]), cngNLSFSmthQ16))
		}

		var maxGain int32
		subfr := 0
		for k := 0; k < c.nbSubfr; k++ {
			if ctrl.gainsQ16[k] > maxGain {
				maxGain, subfr = ctrl.gainsQ16[k], k
			}
		}
		n := c.subfrLength
		copy(g.excBufQ14[n:c.nbSubfr*n], g.excBufQ14[:(c.nbSubfr-1)*n])
		copy(g.excBufQ14[:n], c.excQ14[subfr*n:(subfr+1)*n])

		for k := 0; k < c.nbSubfr; k++ {
			g.smthGainQ16 += fixed.SMULWB(ctrl.gainsQ16[k]-g.smthGainQ16, cngGainSmthQ16)
			// Adapt faster when the smoothed gain is 3 dB above this one.
			if fixed.SMULWW(g.smthGainQ16, cngGainSmthThresholdQ16) > ctrl.gainsQ16[k] {
				g.smthGainQ16 = ctrl.gainsQ16[k]
			}
		}
	}

	if c.lossCnt == 0 {
		clear(g.synthState[:c.lpcOrder])
		return
	}

	gainQ16 := fixed.SMULWW(int32(c.plc.randScaleQ14), c.plc.prevGainQ16[1])
	if gainQ16 >= 1<<21 || g.smthGainQ16 > 1<<23 {
		gainQ16 = fixed.SMULTT(gainQ16, gainQ16)
		gainQ16 = fixed.SMULTT(g.smthGainQ16, g.smthGainQ16) - gainQ16<<5
		gainQ16 = fixed.SqrtApprox(gainQ16) << 16
	} else {
		gainQ16 = fixed.SMULWW(gainQ16, gainQ16)
		gainQ16 = fixed.SMULWW(g.smthGainQ16, g.smthGainQ16) - gainQ16<<5
		gainQ16 = fixed.SqrtApprox(gainQ16) << 8
	}
	gainQ10 := gainQ16 >> 6

	length := len(frame)
	var sig [maxFrameLength + maxLPCOrder]int32
	cngExcitation(sig[maxLPCOrder:maxLPCOrder+length], g.excBufQ14[:], &g.randSeed)

	var a [maxLPCOrder]int16
	nlsfToLPC(a[:c.lpcOrder], g.smthNLSFQ15[:c.lpcOrder])

	copy(sig[:maxLPCOrder], g.synthState[:])
	for i := 0; i < length; i++ {
		predQ10 := int32(c.lpcOrder >> 1)
		for j := 0; j < c.lpcOrder; j++ {
			predQ10 = fixed.SMLAWB(predQ10, sig[maxLPCOrder+i-j-1], int32(a[j]))
		}
		sig[maxLPCOrder+i] = fixed.AddSat32(sig[maxLPCOrder+i], fixed.LShiftSat32(predQ10, 4))
		noise := int16(fixed.Sat16(fixed.RShiftRound(fixed.SMULWW(sig[maxLPCOrder+i], gainQ10), 8)))
		frame[i] = fixed.AddSat16(frame[i], noise)
	}
	copy(g.synthState[:], sig[length:length+maxLPCOrder])
}
