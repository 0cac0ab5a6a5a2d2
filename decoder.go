// decoder.go implements the public Decoder API for SILK payloads.

package gosilk

import (
	"fmt"

	"github.com/thesyncim/gosilk/rangecoding"
	"github.com/thesyncim/gosilk/silk"
)

// Bandwidth selects the internal rate of a SILK payload.
type Bandwidth = silk.Bandwidth

// SILK bandwidths.
const (
	Narrowband = silk.Narrowband
	Mediumband = silk.Mediumband
	Wideband   = silk.Wideband
)

const (
	maxDurationMs = 60
	minSILKMs     = 10
)

// Config describes the PCM a Decoder produces.
type Config struct {
	// SampleRate is the output rate in Hz: 8000, 12000, 16000, 24000 or
	// 48000.
	SampleRate int
	// Channels is 1 for mono or 2 for interleaved stereo output.
	Channels int
}

// Validate reports whether c describes a supported output format.
func (c Config) Validate() error {
	if !validSampleRate(c.SampleRate) {
		return fmt.Errorf("%w: %d", ErrInvalidSampleRate, c.SampleRate)
	}
	if c.Channels < 1 || c.Channels > 2 {
		return fmt.Errorf("%w: %d", ErrInvalidChannels, c.Channels)
	}
	return nil
}

// Decoder decodes SILK payloads into 16-bit PCM.
//
// A Decoder instance maintains internal state and is NOT safe for concurrent use.
// Each goroutine should create its own Decoder instance.
type Decoder struct {
	dec *silk.Decoder
	rd  rangecoding.Decoder
	ctl silk.Control

	sampleRate int
	channels   int

	// Layout of the last payload, reused to conceal lost ones.
	bandwidth      Bandwidth
	streamChannels int
	decoded        bool
	bitsUsed       int

	scratch []int16
}

// NewDecoder creates a decoder producing sampleRate Hz PCM with the given
// number of channels.
func NewDecoder(sampleRate, channels int) (*Decoder, error) {
	return NewDecoderWithConfig(Config{SampleRate: sampleRate, Channels: channels})
}

// NewDecoderWithConfig creates a decoder for cfg.
func NewDecoderWithConfig(cfg Config) (*Decoder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Decoder{
		dec:            silk.NewDecoder(),
		sampleRate:     cfg.SampleRate,
		channels:       cfg.Channels,
		bandwidth:      Wideband,
		streamChannels: 1,
		scratch:        make([]int16, cfg.SampleRate/1000*maxDurationMs*cfg.Channels),
	}, nil
}

// Decode decodes one payload of durationMs (10, 20, 40 or 60) coded at
// bandwidth bw, with two coded channels when stereo is set. pcm must hold
// durationMs of output for every channel; it is interleaved for stereo.
//
// Returns the number of samples per channel written.
func (d *Decoder) Decode(payload []byte, bw Bandwidth, durationMs int, stereo bool, pcm []int16) (int, error) {
	return d.decode(payload, bw, durationMs, stereo, silk.Normal, pcm)
}

// DecodeFloat is Decode with float32 output in [-1, 1).
func (d *Decoder) DecodeFloat(payload []byte, bw Bandwidth, durationMs int, stereo bool, pcm []float32) (int, error) {
	if len(pcm) < d.samples(durationMs)*d.channels {
		return 0, ErrBufferTooSmall
	}
	n, err := d.decode(payload, bw, durationMs, stereo, silk.Normal, d.scratch)
	if err != nil {
		return 0, err
	}
	int16ToFloat32(pcm, d.scratch[:n*d.channels])
	return n, nil
}

// DecodeFEC reconstructs the payload lost before this one from the
// redundancy this payload carries. The arguments describe payload itself.
// Frames without redundancy are concealed. ErrNoFECData is returned, and
// the decoder left untouched, when payload has no redundancy at all.
func (d *Decoder) DecodeFEC(payload []byte, bw Bandwidth, durationMs int, stereo bool, pcm []int16) (int, error) {
	streamChannels := 1
	if stereo {
		streamChannels = 2
	}
	if len(payload) == 0 || !hasRedundancy(payload, durationMs, streamChannels) {
		return 0, ErrNoFECData
	}
	return d.decode(payload, bw, durationMs, stereo, silk.FEC, pcm)
}

// DecodeLost conceals durationMs of missing audio by extrapolating the
// last decoded payload. durationMs may also be 5; shorter requests are
// served from a 10 ms concealment. Before the first payload the output is
// silence.
func (d *Decoder) DecodeLost(durationMs int, pcm []int16) (int, error) {
	switch durationMs {
	case 5, 10, 20, 40, 60:
	default:
		return 0, fmt.Errorf("%w: %d ms", ErrInvalidFrameDuration, durationMs)
	}
	n := d.samples(durationMs)
	if len(pcm) < n*d.channels {
		return 0, ErrBufferTooSmall
	}
	d.bitsUsed = 0
	if !d.decoded {
		clear(pcm[:n*d.channels])
		return n, nil
	}

	d.ctl = d.control(d.bandwidth, max(minSILKMs, durationMs), d.streamChannels)
	out := pcm
	if durationMs < minSILKMs {
		out = d.scratch
	}
	if err := d.run(nil, silk.Lost, d.samples(max(minSILKMs, durationMs)), out); err != nil {
		// Concealment failures are not fatal.
		clear(pcm[:n*d.channels])
		return n, nil
	}
	if durationMs < minSILKMs {
		copy(pcm, d.scratch[:n*d.channels])
	}
	return n, nil
}

// Reset clears all decoder history, as for a new stream.
func (d *Decoder) Reset() {
	d.dec.Reset()
	d.ctl = silk.Control{}
	d.bandwidth = Wideband
	d.streamChannels = 1
	d.decoded = false
	d.bitsUsed = 0
}

// PrevPitchLag returns the pitch lag of the last decoded frame at 48 kHz,
// or 0 when that frame was not voiced.
func (d *Decoder) PrevPitchLag() int {
	return d.ctl.PrevPitchLag
}

// BitsUsed returns how many payload bits the last Decode or DecodeFEC read,
// and 0 after DecodeLost. In a hybrid Opus packet the CELT layer picks up
// the range decoder from this point.
func (d *Decoder) BitsUsed() int {
	return d.bitsUsed
}

// Bandwidth returns the bandwidth of the last decoded payload.
func (d *Decoder) Bandwidth() Bandwidth {
	return d.bandwidth
}

// SampleRate returns the output sample rate in Hz.
func (d *Decoder) SampleRate() int {
	return d.sampleRate
}

// Channels returns the number of output channels.
func (d *Decoder) Channels() int {
	return d.channels
}

func (d *Decoder) samples(durationMs int) int {
	return d.sampleRate / 1000 * durationMs
}

func (d *Decoder) control(bw Bandwidth, payloadMs, streamChannels int) silk.Control {
	return silk.Control{
		APISampleRate:      d.sampleRate,
		Channels:           d.channels,
		StreamChannels:     streamChannels,
		InternalSampleRate: bw.SampleRate(),
		PayloadSizeMs:      payloadMs,
	}
}

func (d *Decoder) decode(payload []byte, bw Bandwidth, durationMs int, stereo bool, mode silk.LossMode, pcm []int16) (int, error) {
	if _, ok := bw.Config(); !ok {
		return 0, fmt.Errorf("%w: %v", ErrInvalidBandwidth, bw)
	}
	switch durationMs {
	case 10, 20, 40, 60:
	default:
		return 0, fmt.Errorf("%w: %d ms", ErrInvalidFrameDuration, durationMs)
	}
	n := d.samples(durationMs)
	if len(pcm) < n*d.channels {
		return 0, ErrBufferTooSmall
	}

	streamChannels := 1
	if stereo {
		streamChannels = 2
	}
	d.rd.Init(payload)
	d.ctl = d.control(bw, durationMs, streamChannels)
	if err := d.run(&d.rd, mode, n, pcm); err != nil {
		return 0, err
	}

	d.bandwidth = bw
	d.streamChannels = streamChannels
	d.decoded = true
	d.bitsUsed = d.rd.Tell()
	return n, nil
}

// run calls the SILK decoder once per internal frame until n samples per
// channel have been written to pcm.
func (d *Decoder) run(rd *rangecoding.Decoder, mode silk.LossMode, n int, pcm []int16) error {
	for done := 0; done < n; {
		got, err := d.dec.Decode(rd, &d.ctl, mode, done == 0, pcm[done*d.channels:])
		if err != nil {
			return fmt.Errorf("gosilk: %w", err)
		}
		done += got
	}
	return nil
}

// hasRedundancy reads the packet header flags and reports whether any
// coded channel carries LBRR frames.
func hasRedundancy(payload []byte, durationMs, streamChannels int) bool {
	frames := max(1, durationMs/20)
	var rd rangecoding.Decoder
	rd.Init(payload)
	found := false
	for n := 0; n < streamChannels; n++ {
		for i := 0; i < frames; i++ {
			rd.DecodeBit(1)
		}
		if rd.DecodeBit(1) == 1 {
			found = true
		}
	}
	return found
}
