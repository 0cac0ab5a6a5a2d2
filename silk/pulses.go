package silk

import (
	"github.com/thesyncim/gosilk/internal/fixed"
	"github.com/thesyncim/gosilk/rangecoding"
)

const maxShellBlocks = (maxFrameLength + shellCodecFrameLength - 1) / shellCodecFrameLength

// decodePulses reads the excitation pulses of one frame. pulses must hold
// frameLength rounded up to a multiple of shellCodecFrameLength.
func decodePulses(rd *rangecoding.Decoder, pulses []int16, signalType, quantOffsetType, frameLength int) {
	rateLevel := rd.DecodeICDF(rateLevelsICDF[signalType>>1][:], 8)

	iter := frameLength >> log2ShellCodecFrameLength
	if iter*shellCodecFrameLength < frameLength {
		// 10 ms at 12 kHz is 120 samples.
		iter++
	}

	var sumPulses, nLshifts [maxShellBlocks]int
	for i := 0; i < iter; i++ {
		sumPulses[i] = rd.DecodeICDF(pulsesPerBlockICDF[rateLevel][:], 8)
		for sumPulses[i] == silkMaxPulses+1 {
			nLshifts[i]++
			icdf := pulsesPerBlockICDF[nRateLevels-1][:]
			if nLshifts[i] == 10 {
				icdf = icdf[1:]
			}
			sumPulses[i] = rd.DecodeICDF(icdf, 8)
		}
	}

	for i := 0; i < iter; i++ {
		block := pulses[i*shellCodecFrameLength : (i+1)*shellCodecFrameLength]
		if sumPulses[i] > 0 {
			shellDecode(block, rd, sumPulses[i])
		} else {
			clear(block)
		}
	}

	for i := 0; i < iter; i++ {
		nLS := nLshifts[i]
		if nLS == 0 {
			continue
		}
		block := pulses[i*shellCodecFrameLength : (i+1)*shellCodecFrameLength]
		for k := range block {
			q := int32(block[k])
			for j := 0; j < nLS; j++ {
				q = q<<1 + int32(rd.DecodeICDF(lsbICDF, 8))
			}
			block[k] = int16(q)
		}
		sumPulses[i] |= nLS << 5
	}

	decodeSigns(rd, pulses, frameLength, signalType, quantOffsetType, sumPulses[:iter])
}

func decodeSplit(rd *rangecoding.Decoder, p int, table []uint8) (int16, int16) {
	if p <= 0 {
		return 0, 0
	}
	c1 := rd.DecodeICDF(table[shellCodeOffsets[p]:], 8)
	return int16(c1), int16(p - c1)
}

// shellDecode splits the pulse count of a 16-sample block down a binary
// tree until each sample has its own magnitude.
func shellDecode(out []int16, rd *rangecoding.Decoder, pulses4 int) {
	var p3 [2]int16
	var p2 [4]int16
	var p1 [8]int16

	p3[0], p3[1] = decodeSplit(rd, pulses4, shellCodeTable3[:])

	p2[0], p2[1] = decodeSplit(rd, int(p3[0]), shellCodeTable2[:])
	p1[0], p1[1] = decodeSplit(rd, int(p2[0]), shellCodeTable1[:])
	out[0], out[1] = decodeSplit(rd, int(p1[0]), shellCodeTable0[:])
	out[2], out[3] = decodeSplit(rd, int(p1[1]), shellCodeTable0[:])
	p1[2], p1[3] = decodeSplit(rd, int(p2[1]), shellCodeTable1[:])
	out[4], out[5] = decodeSplit(rd, int(p1[2]), shellCodeTable0[:])
	out[6], out[7] = decodeSplit(rd, int(p1[3]), shellCodeTable0[:])

	p2[2], p2[3] = decodeSplit(rd, int(p3[1]), shellCodeTable2[:])
	p1[4], p1[5] = decodeSplit(rd, int(p2[2]), shellCodeTable1[:])
	out[8], out[9] = decodeSplit(rd, int(p1[4]), shellCodeTable0[:])
	out[10], out[11] = decodeSplit(rd, int(p1[5]), shellCodeTable0[:])
	p1[6], p1[7] = decodeSplit(rd, int(p2[3]), shellCodeTable1[:])
	out[12], out[13] = decodeSplit(rd, int(p1[6]), shellCodeTable0[:])
	out[14], out[15] = decodeSplit(rd, int(p1[7]), shellCodeTable0[:])
}

func decodeSigns(rd *rangecoding.Decoder, pulses []int16, length, signalType, quantOffsetType int, sumPulses []int) {
	icdf := []uint8{0, 0}
	tab := signICDF[7*(quantOffsetType+signalType<<1):]
	blocks := (length + shellCodecFrameLength/2) >> log2ShellCodecFrameLength
	for i := 0; i < blocks; i++ {
		p := sumPulses[i]
		if p <= 0 {
			continue
		}
		icdf[0] = tab[fixed.Min(p&0x1f, 6)]
		block := pulses[i*shellCodecFrameLength : (i+1)*shellCodecFrameLength]
		for j := range block {
			if block[j] > 0 && rd.DecodeICDF(icdf, 8) == 0 {
				block[j] = -block[j]
			}
		}
	}
}
