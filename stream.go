// stream.go implements a streaming io.Reader over a sequence of SILK payloads.

package gosilk

import (
	"encoding/binary"
	"io"
	"math"
)

// SampleFormat is the byte encoding of PCM served by a Reader.
type SampleFormat int

const (
	// FormatInt16LE serves signed 16-bit little-endian samples.
	FormatInt16LE SampleFormat = iota
	// FormatFloat32LE serves IEEE float32 little-endian samples in [-1, 1).
	FormatFloat32LE
)

// BytesPerSample is 2 for FormatInt16LE and 4 for FormatFloat32LE.
func (f SampleFormat) BytesPerSample() int {
	if f == FormatFloat32LE {
		return 4
	}
	return 2
}

// Packet is one SILK payload with the layout that Opus signals in the TOC
// byte of the packet carrying it.
type Packet struct {
	// Payload is the SILK bitstream, or nil for a lost packet.
	Payload    []byte
	Bandwidth  Bandwidth
	DurationMs int
	Stereo     bool
}

// PacketSource provides payloads for streaming decode.
type PacketSource interface {
	// NextPacket returns the next payload, or io.EOF when the stream ends.
	NextPacket() (Packet, error)
}

// Reader decodes a stream of SILK payloads, implementing io.Reader.
// Output is interleaved PCM in the configured format.
//
// Example:
//
//	reader, err := gosilk.NewReader(48000, 1, source, gosilk.FormatInt16LE)
//	_, err = io.Copy(wavBody, reader)
type Reader struct {
	dec    *Decoder
	source PacketSource
	format SampleFormat

	pcm     []int16
	byteBuf []byte
	offset  int

	eof bool
}

// NewReader returns a Reader that decodes payloads from source into
// sampleRate Hz PCM with the given channel count.
func NewReader(sampleRate, channels int, source PacketSource, format SampleFormat) (*Reader, error) {
	dec, err := NewDecoder(sampleRate, channels)
	if err != nil {
		return nil, err
	}
	return &Reader{
		dec:    dec,
		source: source,
		format: format,
		pcm:    make([]int16, sampleRate/1000*maxDurationMs*channels),
	}, nil
}

// Read implements io.Reader. Lost packets are concealed.
func (r *Reader) Read(p []byte) (int, error) {
	if r.offset >= len(r.byteBuf) {
		if r.eof {
			return 0, io.EOF
		}

		pkt, err := r.source.NextPacket()
		if err == io.EOF {
			r.eof = true
			return 0, io.EOF
		}
		if err != nil {
			return 0, err
		}

		var n int
		if pkt.Payload == nil {
			n, err = r.dec.DecodeLost(pkt.DurationMs, r.pcm)
		} else {
			n, err = r.dec.Decode(pkt.Payload, pkt.Bandwidth, pkt.DurationMs, pkt.Stereo, r.pcm)
		}
		if err != nil {
			return 0, err
		}
		r.byteBuf = r.appendPCM(r.byteBuf[:0], r.pcm[:n*r.dec.Channels()])
		r.offset = 0
	}

	n := copy(p, r.byteBuf[r.offset:])
	r.offset += n
	return n, nil
}

func (r *Reader) appendPCM(dst []byte, samples []int16) []byte {
	if r.format == FormatFloat32LE {
		for _, s := range samples {
			dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(float32(s)/32768))
		}
		return dst
	}
	for _, s := range samples {
		dst = binary.LittleEndian.AppendUint16(dst, uint16(s))
	}
	return dst
}

// SampleRate returns the output rate in Hz.
func (r *Reader) SampleRate() int {
	return r.dec.SampleRate()
}

// Channels returns the number of interleaved output channels.
func (r *Reader) Channels() int {
	return r.dec.Channels()
}

// Reset drops buffered PCM and decoder history so the Reader can start
// over on a new payload stream.
func (r *Reader) Reset() {
	r.dec.Reset()
	r.byteBuf = r.byteBuf[:0]
	r.offset = 0
	r.eof = false
}
