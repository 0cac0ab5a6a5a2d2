// Package resample converts 16-bit PCM between the SILK internal rates and
// the rates exposed to callers.
//
// The filter chain is chosen from the rate ratio at Init time:
//
//   - equal rates are copied through,
//   - an exact 2x ratio uses a third-order allpass upsampler,
//   - other upward ratios upsample 2x and then interpolate with an 8-tap FIR,
//   - downward ratios run a second-order AR filter followed by a polyphase
//     FIR decimator (3:4, 2:3, 1:2, 1:3, 1:4 and 1:6 only).
//
// Every call to Process delays the input by a small, ratio-dependent number
// of samples so that successive calls form one continuous stream.
package resample

import (
	"fmt"

	"github.com/thesyncim/gosilk/internal/fixed"
)

const (
	maxBatchSizeMs = 10
	maxFsKHz       = 48
	maxBatchSize   = maxFsKHz * maxBatchSizeMs

	orderFIR12      = 8
	downOrderFIR0   = 18
	downOrderFIR1   = 24
	downOrderFIR2   = 36
	maxDownFIROrder = downOrderFIR2
)

type method uint8

const (
	methodCopy method = iota
	methodUp2HQ
	methodIIRFIR
	methodDownFIR
)

// Resampler holds the filter state of one channel. The zero value is not
// usable; call Init first. A Resampler is a plain value: assigning it to
// another variable duplicates the full filter history.
type Resampler struct {
	sIIR     [6]int32
	sFIR32   [maxDownFIROrder]int32
	sFIR16   [orderFIR12]int16
	delayBuf [maxFsKHz]int16

	method      method
	inputDelay  int
	invRatioQ16 int32
	batchSize   int
	fsInKHz     int
	fsOutKHz    int

	firOrder int
	firFracs int
	coefs    []int16

	buf16 [2*maxBatchSize + orderFIR12]int16
	buf32 [maxBatchSize + maxDownFIROrder]int32
}

// rateID maps 8, 12, 16, 24 and 48 kHz to 0..4.
func rateID(hz int) int {
	r := hz >> 12
	if hz > 16000 {
		r--
	}
	if hz > 24000 {
		r >>= 1
	}
	return r - 1
}

func isSILKRate(hz int) bool {
	return hz == 8000 || hz == 12000 || hz == 16000
}

func isAPIRate(hz int) bool {
	return isSILKRate(hz) || hz == 24000 || hz == 48000
}

// Init clears r and configures it for fsIn to fsOut Hz. Decoder-side
// resamplers (forEnc false) take an internal SILK rate as input; encoder-side
// ones produce an internal SILK rate.
func (r *Resampler) Init(fsIn, fsOut int, forEnc bool) error {
	*r = Resampler{}

	if forEnc {
		if !isAPIRate(fsIn) || !isSILKRate(fsOut) {
			return fmt.Errorf("%w: %d Hz to %d Hz", ErrUnsupportedRatio, fsIn, fsOut)
		}
		r.inputDelay = int(delayMatrixEnc[rateID(fsIn)][rateID(fsOut)])
	} else {
		if !isSILKRate(fsIn) || !isAPIRate(fsOut) {
			return fmt.Errorf("%w: %d Hz to %d Hz", ErrUnsupportedRatio, fsIn, fsOut)
		}
		r.inputDelay = int(delayMatrixDec[rateID(fsIn)][rateID(fsOut)])
	}

	r.fsInKHz = fsIn / 1000
	r.fsOutKHz = fsOut / 1000
	r.batchSize = r.fsInKHz * maxBatchSizeMs

	up2x := 0
	switch {
	case fsOut > fsIn:
		if fsOut == 2*fsIn {
			r.method = methodUp2HQ
		} else {
			r.method = methodIIRFIR
			up2x = 1
		}
	case fsOut < fsIn:
		r.method = methodDownFIR
		switch {
		case 4*fsOut == 3*fsIn:
			r.firFracs, r.firOrder, r.coefs = 3, downOrderFIR0, coefs3to4
		case 3*fsOut == 2*fsIn:
			r.firFracs, r.firOrder, r.coefs = 2, downOrderFIR0, coefs2to3
		case 2*fsOut == fsIn:
			r.firFracs, r.firOrder, r.coefs = 1, downOrderFIR1, coefs1to2
		case 3*fsOut == fsIn:
			r.firFracs, r.firOrder, r.coefs = 1, downOrderFIR2, coefs1to3
		case 4*fsOut == fsIn:
			r.firFracs, r.firOrder, r.coefs = 1, downOrderFIR2, coefs1to4
		case 6*fsOut == fsIn:
			r.firFracs, r.firOrder, r.coefs = 1, downOrderFIR2, coefs1to6
		default:
			*r = Resampler{}
			return fmt.Errorf("%w: %d Hz to %d Hz", ErrUnsupportedRatio, fsIn, fsOut)
		}
	default:
		r.method = methodCopy
	}

	r.invRatioQ16 = int32((fsIn<<(14+up2x))/fsOut) << 2
	for fixed.SMULWW(r.invRatioQ16, int32(fsOut)) < int32(fsIn<<up2x) {
		r.invRatioQ16++
	}
	return nil
}

// Delay returns the number of input samples held back between calls.
func (r *Resampler) Delay() int {
	return r.inputDelay
}

// Clone returns an independent copy of r, history included.
func (r *Resampler) Clone() *Resampler {
	c := *r
	return &c
}

// OutputLen reports how many samples Process writes for n input samples.
func (r *Resampler) OutputLen(n int) int {
	if r.fsInKHz == 0 {
		return 0
	}
	return n * r.fsOutKHz / r.fsInKHz
}

// Process resamples in into out and returns the number of samples written.
// in must hold at least one millisecond of audio; out must have room for
// OutputLen(len(in)) samples.
func (r *Resampler) Process(out, in []int16) int {
	inLen := len(in)
	if r.fsInKHz == 0 || inLen < r.fsInKHz {
		return 0
	}
	n := r.OutputLen(inLen)
	out = out[:n]

	nSamples := r.fsInKHz - r.inputDelay
	copy(r.delayBuf[r.inputDelay:r.fsInKHz], in[:nSamples])

	head := r.delayBuf[:r.fsInKHz]
	tail := in[nSamples : inLen-r.inputDelay]
	switch r.method {
	case methodUp2HQ:
		r.up2HQ(out, head)
		r.up2HQ(out[r.fsOutKHz:], tail)
	case methodIIRFIR:
		r.iirFIR(out, head)
		r.iirFIR(out[r.fsOutKHz:], tail)
	case methodDownFIR:
		r.downFIR(out, head)
		r.downFIR(out[r.fsOutKHz:], tail)
	default:
		copy(out, head)
		copy(out[r.fsOutKHz:], tail)
	}

	copy(r.delayBuf[:r.inputDelay], in[inLen-r.inputDelay:])
	return n
}
