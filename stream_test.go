// stream_test.go contains tests for the streaming io.Reader API.

package gosilk

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"testing"
)

// slicePacketSource implements PacketSource for testing.
type slicePacketSource struct {
	packets []Packet
	index   int
}

func (s *slicePacketSource) NextPacket() (Packet, error) {
	if s.index >= len(s.packets) {
		return Packet{}, io.EOF
	}
	p := s.packets[s.index]
	s.index++
	return p, nil
}

type failingSource struct{ err error }

func (s failingSource) NextPacket() (Packet, error) { return Packet{}, s.err }

func testPackets() []Packet {
	return []Packet{
		{Payload: testPayload(1, 60), Bandwidth: Wideband, DurationMs: 20},
		{Payload: testPayload(2, 60), Bandwidth: Wideband, DurationMs: 20},
		{Bandwidth: Wideband, DurationMs: 20},
		{Payload: testPayload(3, 90), Bandwidth: Mediumband, DurationMs: 40},
	}
}

// TestNewReader_InvalidParams tests that invalid output formats are rejected.
func TestNewReader_InvalidParams(t *testing.T) {
	source := &slicePacketSource{}
	if _, err := NewReader(44100, 1, source, FormatInt16LE); !errors.Is(err, ErrInvalidSampleRate) {
		t.Errorf("44100 Hz: error = %v", err)
	}
	if _, err := NewReader(48000, 3, source, FormatInt16LE); !errors.Is(err, ErrInvalidChannels) {
		t.Errorf("3 channels: error = %v", err)
	}
}

// TestReader_Int16MatchesDecoder tests that the byte stream equals direct
// Decode/DecodeLost output, lost packets included.
func TestReader_Int16MatchesDecoder(t *testing.T) {
	r, err := NewReader(48000, 2, &slicePacketSource{packets: testPackets()}, FormatInt16LE)
	if err != nil {
		t.Fatal(err)
	}
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}

	d := newTestDecoder(t, 48000, 2)
	var want bytes.Buffer
	pcm := make([]int16, 48*60*2)
	for _, p := range testPackets() {
		var n int
		if p.Payload == nil {
			n, err = d.DecodeLost(p.DurationMs, pcm)
		} else {
			n, err = d.Decode(p.Payload, p.Bandwidth, p.DurationMs, p.Stereo, pcm)
		}
		if err != nil {
			t.Fatal(err)
		}
		binary.Write(&want, binary.LittleEndian, pcm[:n*2])
	}

	if wantLen := 48 * (20 + 20 + 20 + 40) * 2 * 2; len(got) != wantLen {
		t.Fatalf("read %d bytes, want %d", len(got), wantLen)
	}
	if !bytes.Equal(got, want.Bytes()) {
		t.Error("reader output differs from direct decode")
	}
}

// TestReader_Float32 tests float output and small reads.
func TestReader_Float32(t *testing.T) {
	packets := testPackets()[:1]
	r, err := NewReader(16000, 1, &slicePacketSource{packets: packets}, FormatFloat32LE)
	if err != nil {
		t.Fatal(err)
	}
	var got []byte
	buf := make([]byte, 7)
	for {
		n, err := r.Read(buf)
		got = append(got, buf[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
	}
	if len(got) != 320*FormatFloat32LE.BytesPerSample() {
		t.Fatalf("read %d bytes, want %d", len(got), 320*4)
	}

	d := newTestDecoder(t, 16000, 1)
	pcm := make([]int16, 320)
	if _, err := d.Decode(packets[0].Payload, Wideband, 20, false, pcm); err != nil {
		t.Fatal(err)
	}
	for i, s := range pcm {
		f := math.Float32frombits(binary.LittleEndian.Uint32(got[4*i:]))
		if f != float32(s)/32768 {
			t.Fatalf("sample %d = %v, want %v", i, f, float32(s)/32768)
		}
	}
}

// TestReader_SourceError tests that source errors are passed through.
func TestReader_SourceError(t *testing.T) {
	boom := errors.New("network down")
	r, err := NewReader(48000, 1, failingSource{boom}, FormatInt16LE)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.Read(make([]byte, 16)); !errors.Is(err, boom) {
		t.Errorf("Read error = %v, want %v", err, boom)
	}
}

// TestReader_Reset tests that a reset reader replays a stream identically.
func TestReader_Reset(t *testing.T) {
	src := &slicePacketSource{packets: testPackets()[:2]}
	r, err := NewReader(24000, 1, src, FormatInt16LE)
	if err != nil {
		t.Fatal(err)
	}
	first, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}

	r.Reset()
	src.index = 0
	second, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Error("output after Reset differs")
	}
	if r.SampleRate() != 24000 || r.Channels() != 1 {
		t.Errorf("reader = %d Hz, %d ch", r.SampleRate(), r.Channels())
	}
}
