package silk

import (
	"fmt"
	"testing"

	"github.com/thesyncim/gosilk/rangecoding"
)

// TestPulsesRoundTrip checks that shell-coded pulses and their signs come
// back unchanged for every frame length.
func TestPulsesRoundTrip(t *testing.T) {
	tests := []struct {
		frameLength int
		signalType  int
		quantOffset int
		rateLevel   int
	}{
		{80, typeUnvoiced, 0, 0},
		{120, typeVoiced, 1, 3},
		{160, typeNoVoiceActivity, 0, 2},
		{240, typeVoiced, 0, 1},
		{320, typeUnvoiced, 1, 5},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("len%d-type%d", tt.frameLength, tt.signalType), func(t *testing.T) {
			f := (&testFrame{}).withPulses(tt.frameLength)

			var enc rangecoding.Encoder
			enc.Init(make([]byte, maxSilkPacketBytes))
			encodeTestPulses(&enc, f.pulses, tt.signalType, tt.quantOffset, tt.rateLevel)
			data := enc.Done()

			var got [maxFrameLength]int16
			decodePulses(newRangeDecoder(data), got[:], tt.signalType, tt.quantOffset, tt.frameLength)
			for i := 0; i < tt.frameLength; i++ {
				if got[i] != f.pulses[i] {
					t.Fatalf("pulse %d = %d, want %d", i, got[i], f.pulses[i])
				}
			}
		})
	}
}

// TestPulsesEmptyBlocks checks that blocks without pulses are cleared.
func TestPulsesEmptyBlocks(t *testing.T) {
	var enc rangecoding.Encoder
	enc.Init(make([]byte, 64))
	encodeTestPulses(&enc, make([]int16, 160), typeUnvoiced, 0, 0)
	data := enc.Done()

	var got [maxFrameLength]int16
	for i := range got {
		got[i] = 99
	}
	decodePulses(newRangeDecoder(data), got[:], typeUnvoiced, 0, 160)
	for i := 0; i < 160; i++ {
		if got[i] != 0 {
			t.Fatalf("pulse %d = %d, want 0", i, got[i])
		}
	}
}

func TestDecodeSplitZeroParent(t *testing.T) {
	rd := newRangeDecoder([]byte{0xff, 0xff})
	a, b := decodeSplit(rd, 0, shellCodeTable0[:])
	if a != 0 || b != 0 {
		t.Errorf("decodeSplit(p=0) = (%d, %d), want (0, 0)", a, b)
	}
}
