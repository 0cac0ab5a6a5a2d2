// Package fixed implements the saturating and rounding integer arithmetic
// that every SILK decode stage is built on.
//
// Names follow the signal-processing macro vocabulary used by the SILK
// reference decoder (SMULWB, SMLAWB, ...). A suffix of B selects the low 16
// bits of an operand, T the high 16 bits and W the full 32 bits. All 32-bit
// results wrap on overflow unless the name says Sat.
package fixed

import "math/bits"

// Signed is a constraint for signed integer types.
type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Abs returns the absolute value of x.
func Abs[T Signed](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

// Min returns the smaller of a and b.
func Min[T Signed](a, b T) T {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of a and b.
func Max[T Signed](a, b T) T {
	if a > b {
		return a
	}
	return b
}

// Limit clamps x to [lo, hi]. When lo > hi the bounds are swapped first.
func Limit[T Signed](x, lo, hi T) T {
	if lo > hi {
		lo, hi = hi, lo
	}
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// SMULWB multiplies a by the low 16 bits of b and drops 16 fraction bits.
func SMULWB(a, b int32) int32 {
	return int32((int64(a) * int64(int16(b))) >> 16)
}

// SMLAWB returns a + SMULWB(b, c).
func SMLAWB(a, b, c int32) int32 {
	return a + SMULWB(b, c)
}

// SMULWW multiplies two 32-bit values and drops 16 fraction bits.
func SMULWW(a, b int32) int32 {
	return int32((int64(a) * int64(b)) >> 16)
}

// SMLAWW returns a + SMULWW(b, c).
func SMLAWW(a, b, c int32) int32 {
	return a + SMULWW(b, c)
}

// SMULBB multiplies the low 16 bits of a and b.
func SMULBB(a, b int32) int32 {
	return int32(int16(a)) * int32(int16(b))
}

// SMLABB returns a + SMULBB(b, c).
func SMLABB(a, b, c int32) int32 {
	return a + SMULBB(b, c)
}

// SMULTT multiplies the high 16 bits of a and b.
func SMULTT(a, b int32) int32 {
	return (a >> 16) * (b >> 16)
}

// SMMUL returns the high 32 bits of the 64-bit product.
func SMMUL(a, b int32) int32 {
	return int32((int64(a) * int64(b)) >> 32)
}

// SMULL returns the full 64-bit product.
func SMULL(a, b int32) int64 {
	return int64(a) * int64(b)
}

// RShiftRound shifts right with rounding to nearest.
func RShiftRound(a int32, shift int) int32 {
	if shift <= 0 {
		return a
	}
	if shift == 1 {
		return (a >> 1) + (a & 1)
	}
	return ((a >> (shift - 1)) + 1) >> 1
}

// RShiftRound64 is the 64-bit variant of RShiftRound.
func RShiftRound64(a int64, shift int) int64 {
	if shift <= 0 {
		return a
	}
	if shift == 1 {
		return (a >> 1) + (a & 1)
	}
	return ((a >> (shift - 1)) + 1) >> 1
}

// AddLShift32 returns a + (b << shift).
func AddLShift32(a, b int32, shift int) int32 {
	return a + (b << shift)
}

// AddRShift32 returns a + (b >> shift).
func AddRShift32(a, b int32, shift int) int32 {
	return a + (b >> shift)
}

// Sat16 saturates a to the int16 range.
func Sat16(a int32) int32 {
	if a > 32767 {
		return 32767
	}
	if a < -32768 {
		return -32768
	}
	return a
}

// AddSat16 adds two int16 values with saturation.
func AddSat16(a, b int16) int16 {
	return int16(Sat16(int32(a) + int32(b)))
}

// AddSat32 adds with saturation to the int32 range.
func AddSat32(a, b int32) int32 {
	s := int64(a) + int64(b)
	if s > 0x7fffffff {
		return 0x7fffffff
	}
	if s < -0x80000000 {
		return -0x80000000
	}
	return int32(s)
}

// SubSat32 subtracts with saturation to the int32 range.
func SubSat32(a, b int32) int32 {
	s := int64(a) - int64(b)
	if s > 0x7fffffff {
		return 0x7fffffff
	}
	if s < -0x80000000 {
		return -0x80000000
	}
	return int32(s)
}

// LShiftSat32 shifts left, clamping a first so the result cannot wrap.
func LShiftSat32(a int32, shift int) int32 {
	lo := int32(-0x80000000) >> shift
	hi := int32(0x7fffffff) >> shift
	return Limit(a, lo, hi) << shift
}

// CLZ32 counts leading zero bits.
func CLZ32(a int32) int32 {
	return int32(bits.LeadingZeros32(uint32(a)))
}

// ROR32 rotates a right by rot bits; a negative rot rotates left.
func ROR32(a int32, rot int) int32 {
	return int32(bits.RotateLeft32(uint32(a), -rot))
}

// CLZFrac returns the leading zero count of in and the seven bits that follow
// the leading one, as a Q7 fraction.
func CLZFrac(in int32) (lz, fracQ7 int32) {
	lz = CLZ32(in)
	fracQ7 = ROR32(in, 24-int(lz)) & 0x7f
	return lz, fracQ7
}

// FixConst converts a float constant to the given Q domain.
func FixConst(c float64, q int) int32 {
	return int32(c*float64(int64(1)<<q) + 0.5)
}

// Rand advances the linear congruential generator shared by the decoder's
// excitation, PLC and CNG stages.
func Rand(seed int32) int32 {
	return int32(uint32(907633515) + uint32(seed)*196314165)
}
