package silk

import (
	"fmt"

	"github.com/thesyncim/gosilk/rangecoding"
)

// LossMode tells Decode what the current call reconstructs.
type LossMode int

const (
	// Normal decodes the primary frames of a received packet.
	Normal LossMode = iota
	// Lost conceals a frame for which no packet arrived.
	Lost
	// FEC decodes the low bit-rate redundant copy of the previous packet's
	// frames carried in the current packet.
	FEC
)

func (m LossMode) String() string {
	switch m {
	case Normal:
		return "normal"
	case Lost:
		return "lost"
	case FEC:
		return "fec"
	}
	return fmt.Sprintf("LossMode(%d)", int(m))
}

// Control carries the per-call configuration of Decode and the values it
// reports back.
type Control struct {
	// APISampleRate is the output rate in Hz, 8000 to 48000.
	APISampleRate int
	// Channels is the number of interleaved output channels.
	Channels int
	// StreamChannels is the number of coded channels in the packet.
	StreamChannels int
	// InternalSampleRate is the coded rate in Hz: 8000, 12000 or 16000.
	InternalSampleRate int
	// PayloadSizeMs is the duration of the SILK payload: 10, 20, 40 or 60.
	PayloadSizeMs int

	// PrevPitchLag is set by Decode to the pitch lag of the last decoded
	// frame at 48 kHz, or 0 when that frame was not voiced.
	PrevPitchLag int
}

// Decoder holds the state of a SILK decoder for up to two coded channels.
// A Decoder must not be used from more than one goroutine at a time.
type Decoder struct {
	channels [2]channelState
	stereo   stereoState

	nChannelsAPI         int
	nChannelsInternal    int
	prevDecodeOnlyMiddle bool

	// Scratch: two samples of history ahead of each decoded frame.
	frames    [2][maxFrameLength + 2]int16
	resampled [3 * maxFrameLength]int16
	skip      [maxFrameLength]int16
}

// NewDecoder returns a decoder in its initial state.
func NewDecoder() *Decoder {
	d := &Decoder{}
	d.Reset()
	return d
}

// Reset clears all signal history. The channel configuration of the last
// call is kept so the next call can detect channel-count transitions.
func (d *Decoder) Reset() {
	for i := range d.channels {
		d.channels[i].reset()
	}
	d.stereo = stereoState{}
	d.prevDecodeOnlyMiddle = false
}

// SetSampleRate configures coded channel n for the given internal and
// output rates, in Hz.
func (d *Decoder) SetSampleRate(n, internalHz, apiHz int) error {
	if n < 0 || n >= len(d.channels) {
		return ErrInvalidChannels
	}
	fsKHz := internalHz / 1000
	if fsKHz*1000 != internalHz || (fsKHz != 8 && fsKHz != 12 && fsKHz != 16) {
		return fmt.Errorf("%w: internal rate %d Hz", ErrInvalidSampleRate, internalHz)
	}
	return d.channels[n].setFs(fsKHz, apiHz)
}

// frameGeometry maps a payload duration to frames per packet and
// subframes per frame.
func frameGeometry(payloadMs int) (frames, subfr int, err error) {
	switch payloadMs {
	case 0, 10:
		return 1, maxNbSubfr / 2, nil
	case 20:
		return 1, maxNbSubfr, nil
	case 40:
		return 2, maxNbSubfr, nil
	case 60:
		return 3, maxNbSubfr, nil
	}
	return 0, 0, fmt.Errorf("%w: %d ms", ErrInvalidFrameDuration, payloadMs)
}

// Decode decodes, or conceals, one SILK frame of up to 20 ms from rd into
// out and returns the number of samples per channel written. Call it once
// per frame of the packet; newPacket must be true on the first call for
// each packet. Output is interleaved when ctl.Channels is 2.
func (d *Decoder) Decode(rd *rangecoding.Decoder, ctl *Control, mode LossMode, newPacket bool, out []int16) (int, error) {
	if ctl.Channels < 1 || ctl.Channels > 2 || ctl.StreamChannels < 1 || ctl.StreamChannels > 2 {
		return 0, fmt.Errorf("%w: %d output, %d coded", ErrInvalidChannels, ctl.Channels, ctl.StreamChannels)
	}
	if ctl.APISampleRate < 8000 || ctl.APISampleRate > 48000 {
		return 0, fmt.Errorf("%w: output rate %d Hz", ErrInvalidSampleRate, ctl.APISampleRate)
	}

	ch := &d.channels
	if newPacket {
		for n := 0; n < ctl.StreamChannels; n++ {
			ch[n].nFramesDecoded = 0
		}
	}

	// A second coded channel starts from scratch.
	if ctl.StreamChannels > d.nChannelsInternal {
		ch[1].reset()
	}

	stereoToMono := ctl.StreamChannels == 1 && d.nChannelsInternal == 2 &&
		ctl.InternalSampleRate == 1000*ch[0].fsKHz

	if ch[0].nFramesDecoded == 0 {
		frames, subfr, err := frameGeometry(ctl.PayloadSizeMs)
		if err != nil {
			return 0, err
		}
		fsKHz := ctl.InternalSampleRate>>10 + 1
		if fsKHz != 8 && fsKHz != 12 && fsKHz != 16 {
			return 0, fmt.Errorf("%w: internal rate %d Hz", ErrInvalidSampleRate, ctl.InternalSampleRate)
		}
		for n := 0; n < ctl.StreamChannels; n++ {
			ch[n].nFramesPerPacket = frames
			ch[n].nbSubfr = subfr
			if err := ch[n].setFs(fsKHz, ctl.APISampleRate); err != nil {
				return 0, err
			}
		}
	}

	if ctl.Channels == 2 && ctl.StreamChannels == 2 && (d.nChannelsAPI == 1 || d.nChannelsInternal == 1) {
		d.stereo.predPrevQ13 = [2]int32{}
		d.stereo.sSide = [2]int16{}
		ch[1].resampler = ch[0].resampler
	}
	d.nChannelsAPI = ctl.Channels
	d.nChannelsInternal = ctl.StreamChannels

	if ch[0].nFramesDecoded >= ch[0].nFramesPerPacket {
		return 0, fmt.Errorf("%w: all %d frames of the packet already decoded", ErrInvalidFrameDuration, ch[0].nFramesPerPacket)
	}

	nDec := ch[0].frameLength
	nOut := ch[0].resampler.OutputLen(nDec)
	if len(out) < nOut*ctl.Channels {
		return 0, fmt.Errorf("%w: need %d samples, have %d", ErrBufferTooSmall, nOut*ctl.Channels, len(out))
	}

	if mode != Lost && ch[0].nFramesDecoded == 0 {
		d.readPacketFlags(rd, ctl.StreamChannels)
		if mode == Normal {
			d.skipLBRR(rd, ctl.StreamChannels)
		}
	}

	fi := ch[0].nFramesDecoded
	var predQ13 [2]int32
	decodeOnlyMiddle := false
	if ctl.StreamChannels == 2 {
		if mode == Normal || (mode == FEC && ch[0].lbrrFlags[fi]) {
			predQ13 = decodeStereoPred(rd)
			if (mode == Normal && !ch[1].vadFlags[fi]) || (mode == FEC && !ch[1].lbrrFlags[fi]) {
				decodeOnlyMiddle = decodeMidOnly(rd)
			}
		} else {
			predQ13 = d.stereo.predPrevQ13
		}
	}

	// The side channel restarts after frames that only coded the mid.
	if ctl.StreamChannels == 2 && !decodeOnlyMiddle && d.prevDecodeOnlyMiddle {
		side := &ch[1]
		clear(side.outBuf[:])
		clear(side.sLPCQ14Buf[:])
		side.lagPrev = 100
		side.lastGainIndex = 10
		side.prevSignalType = typeNoVoiceActivity
		side.firstFrameAfterReset = true
	}

	hasSide := !decodeOnlyMiddle
	if mode != Normal {
		hasSide = !d.prevDecodeOnlyMiddle ||
			(ctl.StreamChannels == 2 && mode == FEC && ch[1].lbrrFlags[ch[1].nFramesDecoded])
	}

	for n := 0; n < ctl.StreamChannels; n++ {
		if n == 0 || hasSide {
			frameIndex := ch[0].nFramesDecoded - n
			var cond int
			switch {
			case frameIndex <= 0:
				cond = codeIndependently
			case mode == FEC:
				cond = codeIndependently
				if ch[n].lbrrFlags[frameIndex-1] {
					cond = codeConditionally
				}
			case n > 0 && d.prevDecodeOnlyMiddle:
				cond = codeIndependentlyNoLtpScaling
			default:
				cond = codeConditionally
			}
			ch[n].decodeFrame(rd, d.frames[n][2:], mode, cond)
		} else {
			clear(d.frames[n][2 : 2+nDec])
		}
		ch[n].nFramesDecoded++
	}

	if ctl.Channels == 2 && ctl.StreamChannels == 2 {
		d.stereo.msToLR(d.frames[0][:nDec+2], d.frames[1][:nDec+2], predQ13, ch[0].fsKHz, nDec)
	} else {
		// Keep mono output aligned with the one-sample stereo delay.
		copy(d.frames[0][:2], d.stereo.sMid[:])
		copy(d.stereo.sMid[:], d.frames[0][nDec:nDec+2])
	}

	tmp := d.resampled[:nOut]
	for n := 0; n < min(ctl.Channels, ctl.StreamChannels); n++ {
		in := d.frames[n][1 : 1+nDec]
		if ctl.Channels == 1 {
			ch[n].resampler.Process(out, in)
			continue
		}
		ch[n].resampler.Process(tmp, in)
		for i, v := range tmp {
			out[n+2*i] = v
		}
	}

	if ctl.Channels == 2 && ctl.StreamChannels == 1 {
		if stereoToMono {
			// The stream just collapsed to mono: keep the right resampler
			// running so it stays in step with the left one.
			ch[1].resampler.Process(tmp, d.frames[0][1:1+nDec])
			for i, v := range tmp {
				out[1+2*i] = v
			}
		} else {
			for i := 0; i < nOut; i++ {
				out[1+2*i] = out[2*i]
			}
		}
	}

	if ch[0].prevSignalType == typeVoiced {
		ctl.PrevPitchLag = ch[0].lagPrev * [3]int{6, 4, 3}[(ch[0].fsKHz-8)>>2]
	} else {
		ctl.PrevPitchLag = 0
	}

	if mode == Lost {
		for n := 0; n < d.nChannelsInternal; n++ {
			ch[n].lastGainIndex = 10
		}
	} else {
		d.prevDecodeOnlyMiddle = decodeOnlyMiddle
	}
	return nOut, nil
}

// readPacketFlags reads the per-frame VAD flags and the LBRR flags that
// open every packet.
func (d *Decoder) readPacketFlags(rd *rangecoding.Decoder, streamChannels int) {
	for n := 0; n < streamChannels; n++ {
		c := &d.channels[n]
		for i := 0; i < c.nFramesPerPacket; i++ {
			c.vadFlags[i] = rd.DecodeBit(1) == 1
		}
		c.lbrrFlag = rd.DecodeBit(1) == 1
	}

	for n := 0; n < streamChannels; n++ {
		c := &d.channels[n]
		c.lbrrFlags = [maxFramesPerPacket]bool{}
		if !c.lbrrFlag {
			continue
		}
		if c.nFramesPerPacket == 1 {
			c.lbrrFlags[0] = true
			continue
		}
		icdf := lbrrFlags2ICDF
		if c.nFramesPerPacket == 3 {
			icdf = lbrrFlags3ICDF
		}
		sym := rd.DecodeICDF(icdf, 8) + 1
		for i := 0; i < c.nFramesPerPacket; i++ {
			c.lbrrFlags[i] = sym>>i&1 == 1
		}
	}
}

// skipLBRR reads past the redundant frames so the primary frames can be
// decoded.
func (d *Decoder) skipLBRR(rd *rangecoding.Decoder, streamChannels int) {
	ch := &d.channels
	for i := 0; i < ch[0].nFramesPerPacket; i++ {
		for n := 0; n < streamChannels; n++ {
			c := &ch[n]
			if !c.lbrrFlags[i] {
				continue
			}
			if streamChannels == 2 && n == 0 {
				decodeStereoPred(rd)
				if !ch[1].lbrrFlags[i] {
					decodeMidOnly(rd)
				}
			}
			cond := codeIndependently
			if i > 0 && c.lbrrFlags[i-1] {
				cond = codeConditionally
			}
			c.decodeIndices(rd, i, true, cond)
			decodePulses(rd, d.skip[:], int(c.indices.signalType), int(c.indices.quantOffsetType), c.frameLength)
		}
	}
}
