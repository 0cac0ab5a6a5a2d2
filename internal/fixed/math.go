package fixed

const (
	maxInt32 = 0x7fffffff
	minInt32 = -0x80000000
)

// Div32_16 divides a by b. Callers keep b within 16 bits.
func Div32_16(a, b int32) int32 {
	return a / b
}

// headroom returns CLZ(|a|) - 1, never negative.
func headroom(a int32) int {
	h := int(CLZ32(Abs(a))) - 1
	if h < 0 {
		return 0
	}
	return h
}

// Div32VarQ approximates (a << q) / b with one Newton refinement step.
// b must be non-zero.
func Div32VarQ(a, b int32, q int) int32 {
	if b == 0 {
		return maxInt32
	}
	aHR := headroom(a)
	aNrm := a << aHR
	bHR := headroom(b)
	bNrm := b << bHR

	bInv := (maxInt32 >> 2) / (bNrm >> 16)
	res := SMULWB(aNrm, bInv)
	aNrm -= SMMUL(bNrm, res) << 3
	res = SMLAWB(res, aNrm, bInv)

	lshift := 29 + aHR - bHR - q
	switch {
	case lshift < 0:
		return LShiftSat32(res, -lshift)
	case lshift < 32:
		return res >> lshift
	default:
		return 0
	}
}

// Inverse32VarQ approximates (1 << q) / b. b must be non-zero.
func Inverse32VarQ(b int32, q int) int32 {
	if b == 0 {
		return maxInt32
	}
	bHR := headroom(b)
	bNrm := b << bHR

	bInv := (maxInt32 >> 2) / (bNrm >> 16)
	res := bInv << 16
	errQ32 := ((int32(1) << 29) - SMULWB(bNrm, bInv)) << 3
	res = SMLAWW(res, errQ32, bInv)

	lshift := 61 - bHR - q
	switch {
	case lshift <= 0:
		return LShiftSat32(res, -lshift)
	case lshift < 32:
		return res >> lshift
	default:
		return 0
	}
}

// SqrtApprox returns an approximation of sqrt(x), accurate to about 2%.
func SqrtApprox(x int32) int32 {
	if x <= 0 {
		return 0
	}
	lz, frac := CLZFrac(x)
	var y int32 = 46214
	if lz&1 != 0 {
		y = 32768
	}
	y >>= lz >> 1
	return SMLAWB(y, y, SMULBB(213, frac))
}

// Log2Lin approximates 2^(in/128).
func Log2Lin(inLogQ7 int32) int32 {
	if inLogQ7 < 0 {
		return 0
	}
	if inLogQ7 >= 3967 {
		return maxInt32
	}
	out := int32(1) << (inLogQ7 >> 7)
	frac := inLogQ7 & 0x7f
	t := SMLAWB(frac, SMULBB(frac, 128-frac), -174)
	if inLogQ7 < 2048 {
		return AddRShift32(out, out*t, 7)
	}
	return out + (out>>7)*t
}

// SumSqrShift returns the energy of x and the right shift that was applied
// to each squared term so the sum fits in 31 bits with headroom.
func SumSqrShift(x []int16) (energy int32, shift int) {
	n := len(x)
	shift = 31 - int(CLZ32(int32(n)))
	nrg := accumulateEnergy(uint32(n), x, shift)
	shift = Max(0, shift+3-int(CLZ32(int32(nrg))))
	return int32(accumulateEnergy(0, x, shift)), shift
}

func accumulateEnergy(nrg uint32, x []int16, shift int) uint32 {
	i := 0
	for ; i < len(x)-1; i += 2 {
		t := SMULBB(int32(x[i]), int32(x[i]))
		t += SMULBB(int32(x[i+1]), int32(x[i+1]))
		nrg += uint32(t) >> shift
	}
	if i < len(x) {
		t := SMULBB(int32(x[i]), int32(x[i]))
		nrg += uint32(t) >> shift
	}
	return nrg
}
