package silk

import (
	"testing"

	"github.com/thesyncim/gosilk/rangecoding"
)

func TestDecodeStereoPred(t *testing.T) {
	tests := []struct {
		name  string
		joint int
		ix    [2][2]int
		want  [2]int32
	}{
		{"centre", 12, [2][2]int{{1, 2}, {1, 2}}, [2]int32{0, 0}},
		{"lowest joint", 0, [2][2]int{{0, 0}, {2, 4}}, [2]int32{-5764, -7600}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var enc rangecoding.Encoder
			enc.Init(make([]byte, 16))
			enc.EncodeICDF(tt.joint, stereoPredJointICDF, 8)
			for i := range tt.ix {
				enc.EncodeICDF(tt.ix[i][0], uniform3ICDF, 8)
				enc.EncodeICDF(tt.ix[i][1], uniform5ICDF, 8)
			}
			enc.EncodeICDF(1, stereoOnlyCodeMidICDF, 8)
			rd := newRangeDecoder(enc.Done())

			if got := decodeStereoPred(rd); got != tt.want {
				t.Errorf("decodeStereoPred = %v, want %v", got, tt.want)
			}
			if !decodeMidOnly(rd) {
				t.Error("decodeMidOnly = false, want true")
			}
		})
	}
}

// TestMSToLRZeroPrediction checks the plain sum and difference, delayed
// by one sample, when both predictors are zero.
func TestMSToLRZeroPrediction(t *testing.T) {
	const fl = 160
	mid := make([]int16, fl+2)
	side := make([]int16, fl+2)
	for i := 0; i < fl; i++ {
		mid[2+i] = int16(i + 1)
		side[2+i] = 2
	}

	var s stereoState
	s.msToLR(mid, side, [2]int32{}, 8, fl)

	if mid[1] != 0 || side[1] != 0 {
		t.Errorf("first output = (%d, %d), want history (0, 0)", mid[1], side[1])
	}
	for n := 2; n <= fl; n++ {
		m := int16(n - 1)
		if mid[n] != m+2 || side[n] != m-2 {
			t.Fatalf("sample %d = (%d, %d), want (%d, %d)", n, mid[n], side[n], m+2, m-2)
		}
	}
	if s.sMid != [2]int16{fl - 1, fl} || s.sSide != [2]int16{2, 2} {
		t.Errorf("history = %v %v", s.sMid, s.sSide)
	}
}

// TestMSToLRInterpolatesPredictor checks that the side prediction starts
// from the previous frame's predictor and settles on the new one.
func TestMSToLRInterpolatesPredictor(t *testing.T) {
	const fl = 160
	mid := make([]int16, fl+2)
	side := make([]int16, fl+2)
	for i := range mid {
		mid[i] = 1000
	}

	var s stereoState
	pred := [2]int32{0, 8192}
	s.msToLR(mid, side, pred, 8, fl)
	if s.predPrevQ13 != pred {
		t.Errorf("predPrevQ13 = %v, want %v", s.predPrevQ13, pred)
	}

	// A predictor of 1.0 makes the side equal to the mid, cancelling the
	// right channel.
	early, late := side[2], side[fl]
	if !(early > late) {
		t.Errorf("right channel did not decay: early %d, late %d", early, late)
	}
	if late < -2 || late > 2 {
		t.Errorf("settled right channel = %d, want about 0", late)
	}
}
