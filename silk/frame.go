package silk

import (
	"fmt"

	"github.com/thesyncim/gosilk/rangecoding"
)

// setFs configures c for an internal rate of fsKHz and an output rate of
// fsAPIHz. Changing the internal rate resets the signal history.
func (c *channelState) setFs(fsKHz, fsAPIHz int) error {
	c.subfrLength = subFrameLengthMs * fsKHz
	frameLength := c.nbSubfr * c.subfrLength

	if c.fsKHz != fsKHz || c.fsAPIHz != fsAPIHz {
		if err := c.resampler.Init(fsKHz*1000, fsAPIHz, false); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidSampleRate, err)
		}
		c.fsAPIHz = fsAPIHz
	}

	if c.fsKHz == fsKHz && frameLength == c.frameLength {
		return nil
	}

	switch {
	case fsKHz == 8 && c.nbSubfr == maxNbSubfr:
		c.pitchContourICDF = pitchContourNBICDF
	case fsKHz == 8:
		c.pitchContourICDF = pitchContour10msNBICDF
	case c.nbSubfr == maxNbSubfr:
		c.pitchContourICDF = pitchContourICDF
	default:
		c.pitchContourICDF = pitchContour10msICDF
	}

	if c.fsKHz != fsKHz {
		c.ltpMemLength = ltpMemLengthMs * fsKHz
		if fsKHz == 16 {
			c.lpcOrder = maxLPCOrder
			c.nlsfCB = nlsfCodebookWB
		} else {
			c.lpcOrder = minLPCOrder
			c.nlsfCB = nlsfCodebookNBMB
		}
		switch fsKHz {
		case 8:
			c.pitchLagLowBitsICDF = uniform4ICDF
		case 12:
			c.pitchLagLowBitsICDF = uniform6ICDF
		default:
			c.pitchLagLowBitsICDF = uniform8ICDF
		}
		c.firstFrameAfterReset = true
		c.lagPrev = 100
		c.lastGainIndex = 10
		c.prevSignalType = typeNoVoiceActivity
		clear(c.outBuf[:])
		clear(c.sLPCQ14Buf[:])
	}

	c.fsKHz = fsKHz
	c.frameLength = frameLength
	return nil
}

// decodeFrame decodes or conceals one frame into out, which must hold
// c.frameLength samples. It returns the number of samples produced.
func (c *channelState) decodeFrame(rd *rangecoding.Decoder, out []int16, mode LossMode, condCoding int) int {
	var ctrl frameControl
	length := c.frameLength
	out = out[:length]

	if mode == Normal || (mode == FEC && c.lbrrFlags[c.nFramesDecoded]) {
		pulses := c.pulses[:(length+shellCodecFrameLength-1)&^(shellCodecFrameLength-1)]
		c.decodeIndices(rd, c.nFramesDecoded, mode == FEC, condCoding)
		decodePulses(rd, pulses, int(c.indices.signalType), int(c.indices.quantOffsetType), length)
		c.decodeParams(&ctrl, condCoding)
		c.decodeCore(&ctrl, out, pulses)
		c.runPLC(&ctrl, out, false)

		c.lossCnt = 0
		c.prevSignalType = int(c.indices.signalType)
		c.firstFrameAfterReset = false
	} else {
		c.indices.signalType = int8(c.prevSignalType)
		c.runPLC(&ctrl, out, true)
	}

	mvLen := c.ltpMemLength - length
	copy(c.outBuf[:mvLen], c.outBuf[length:length+mvLen])
	copy(c.outBuf[mvLen:], out)

	c.runCNG(&ctrl, out)
	c.glueFrames(out)

	c.lagPrev = ctrl.pitchL[c.nbSubfr-1]
	return length
}
