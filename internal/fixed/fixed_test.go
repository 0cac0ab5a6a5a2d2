package fixed

import (
	"math"
	"testing"
)

func TestMultiplies(t *testing.T) {
	tests := []struct {
		name string
		got  int32
		want int32
	}{
		{"SMULWB quarter", SMULWB(1<<20, 1<<14), 1 << 18},
		{"SMULWB uses low half of b", SMULWB(1<<16, 0x10000|7), 7},
		{"SMULWB negative", SMULWB(-(1 << 16), 3), -3},
		{"SMLAWB", SMLAWB(10, 1<<16, 5), 15},
		{"SMULWW", SMULWW(1<<16, 1<<16), 1 << 16},
		{"SMULBB sign extends", SMULBB(0xffff, 2), -2},
		{"SMLABB", SMLABB(1, 3, 4), 13},
		{"SMULTT", SMULTT(3<<16, 5<<16), 15},
		{"SMMUL", SMMUL(1<<30, 1<<30), 1 << 28},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.want {
				t.Errorf("got %d, want %d", tc.got, tc.want)
			}
		})
	}
}

func TestRShiftRound(t *testing.T) {
	tests := []struct {
		in    int32
		shift int
		want  int32
	}{
		{5, 1, 3},
		{4, 1, 2},
		{-5, 1, -2},
		{7, 2, 2},
		{6, 2, 2},
		{5, 2, 1},
		{-6, 2, -1},
		{100, 0, 100},
	}
	for _, tc := range tests {
		if got := RShiftRound(tc.in, tc.shift); got != tc.want {
			t.Errorf("RShiftRound(%d, %d) = %d, want %d", tc.in, tc.shift, got, tc.want)
		}
		if got := RShiftRound64(int64(tc.in), tc.shift); got != int64(tc.want) {
			t.Errorf("RShiftRound64(%d, %d) = %d, want %d", tc.in, tc.shift, got, tc.want)
		}
	}
}

func TestSaturation(t *testing.T) {
	if got := Sat16(40000); got != 32767 {
		t.Errorf("Sat16(40000) = %d", got)
	}
	if got := Sat16(-40000); got != -32768 {
		t.Errorf("Sat16(-40000) = %d", got)
	}
	if got := AddSat32(math.MaxInt32, 1); got != math.MaxInt32 {
		t.Errorf("AddSat32 overflow = %d", got)
	}
	if got := SubSat32(math.MinInt32, 1); got != math.MinInt32 {
		t.Errorf("SubSat32 underflow = %d", got)
	}
	if got := AddSat16(32000, 1000); got != 32767 {
		t.Errorf("AddSat16 = %d", got)
	}
	if got := LShiftSat32(1<<30, 2); got != math.MaxInt32>>2<<2 {
		t.Errorf("LShiftSat32 = %d", got)
	}
	if got := LShiftSat32(-3, 4); got != -48 {
		t.Errorf("LShiftSat32(-3, 4) = %d", got)
	}
}

func TestCLZFrac(t *testing.T) {
	tests := []struct {
		in       int32
		lz, frac int32
	}{
		{1, 31, 0},
		{256, 23, 0},
		{384, 23, 64},
		{0x40000000, 1, 0},
		{0x60000000, 1, 64},
	}
	for _, tc := range tests {
		lz, frac := CLZFrac(tc.in)
		if lz != tc.lz || frac != tc.frac {
			t.Errorf("CLZFrac(%#x) = (%d, %d), want (%d, %d)", tc.in, lz, frac, tc.lz, tc.frac)
		}
	}
}

func TestSqrtApprox(t *testing.T) {
	for _, x := range []int32{4, 100, 1 << 14, 1 << 16, 123456, 1 << 30, math.MaxInt32} {
		got := float64(SqrtApprox(x))
		want := math.Sqrt(float64(x))
		if math.Abs(got-want) > want*0.03+1 {
			t.Errorf("SqrtApprox(%d) = %v, want about %v", x, got, want)
		}
	}
	if SqrtApprox(0) != 0 || SqrtApprox(-5) != 0 {
		t.Error("SqrtApprox of non-positive input must be 0")
	}
	if got := SqrtApprox(1 << 16); got != 256 {
		t.Errorf("SqrtApprox(1<<16) = %d, want 256", got)
	}
}

func TestLog2Lin(t *testing.T) {
	if Log2Lin(-1) != 0 {
		t.Error("Log2Lin(-1) should be 0")
	}
	if Log2Lin(3967) != math.MaxInt32 {
		t.Error("Log2Lin(3967) should saturate")
	}
	for exp := int32(0); exp < 30; exp++ {
		if got := Log2Lin(exp << 7); got != 1<<exp {
			t.Errorf("Log2Lin(%d) = %d, want %d", exp<<7, got, 1<<exp)
		}
	}
	for _, in := range []int32{1000, 2000, 2500, 3000} {
		want := math.Exp2(float64(in) / 128)
		if got := float64(Log2Lin(in)); math.Abs(got-want) > want/100 {
			t.Errorf("Log2Lin(%d) = %.0f, want about %.0f", in, got, want)
		}
	}
}

func TestDivisionApproximations(t *testing.T) {
	tests := []struct {
		a, b int32
		q    int
	}{
		{1, 2, 16},
		{1000, 3, 10},
		{-5000, 7, 14},
		{123456, -789, 12},
		{1 << 20, 1 << 10, 0},
	}
	for _, tc := range tests {
		want := float64(tc.a) * math.Ldexp(1, tc.q) / float64(tc.b)
		got := float64(Div32VarQ(tc.a, tc.b, tc.q))
		if math.Abs(got-want) > math.Abs(want)*0.001+2 {
			t.Errorf("Div32VarQ(%d, %d, %d) = %v, want about %v", tc.a, tc.b, tc.q, got, want)
		}
	}
	for _, b := range []int32{2, 3, 1000, 65536, -77} {
		want := math.Ldexp(1, 30) / float64(b)
		got := float64(Inverse32VarQ(b, 30))
		if math.Abs(got-want) > math.Abs(want)*0.001+2 {
			t.Errorf("Inverse32VarQ(%d, 30) = %v, want about %v", b, got, want)
		}
	}
}

func TestSumSqrShift(t *testing.T) {
	x := []int16{100, -100, 200, 0, 50}
	nrg, shift := SumSqrShift(x)
	want := int64(100*100 + 100*100 + 200*200 + 50*50)
	if int64(nrg)<<shift < want-int64(len(x))<<shift || int64(nrg)<<shift > want {
		t.Errorf("SumSqrShift = (%d, %d), want energy about %d", nrg, shift, want)
	}

	loud := make([]int16, 320)
	for i := range loud {
		loud[i] = 32767
	}
	nrg, shift = SumSqrShift(loud)
	if nrg <= 0 || nrg > math.MaxInt32>>2 {
		t.Errorf("loud energy %d (shift %d) lacks headroom", nrg, shift)
	}
}

func TestRand(t *testing.T) {
	if got := Rand(0); got != 907633515 {
		t.Errorf("Rand(0) = %d", got)
	}
	a, b := Rand(12345), Rand(12345)
	if a != b {
		t.Error("Rand must be deterministic")
	}
}

func TestDiv32_16(t *testing.T) {
	tests := []struct{ a, b, want int32 }{
		{32767, 17, 1927},
		{-65536, 320, -204},
		{1 << 20, 40000, 26},
	}
	for _, tc := range tests {
		if got := Div32_16(tc.a, tc.b); got != tc.want {
			t.Errorf("Div32_16(%d, %d) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestFixConst(t *testing.T) {
	tests := []struct {
		c    float64
		q    int
		want int32
	}{
		{0.99, 16, 64881},
		{0.25, 14, 4096},
		{0.999, 16, 65470},
	}
	for _, tc := range tests {
		if got := FixConst(tc.c, tc.q); got != tc.want {
			t.Errorf("FixConst(%v, %d) = %d, want %d", tc.c, tc.q, got, tc.want)
		}
	}
}
