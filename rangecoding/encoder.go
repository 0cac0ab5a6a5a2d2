package rangecoding

import "math/bits"

// Encoder is the symmetric inverse of Decoder (libopus entenc.c). The module
// only produces SILK payloads with it, so raw-bit tails are not supported.
type Encoder struct {
	buf        []byte
	offs       int
	rng        uint32
	val        uint32
	rem        int
	ext        uint32
	nbitsTotal int
	overflow   bool
}

// Init prepares e to write into buf. Encoding stops producing output once
// buf is full; Done then returns the truncated buffer.
func (e *Encoder) Init(buf []byte) {
	e.buf = buf
	e.offs = 0
	e.rng = EC_CODE_TOP
	e.val = 0
	e.rem = -1
	e.ext = 0
	e.nbitsTotal = EC_CODE_BITS + 1
	e.overflow = false
}

func (e *Encoder) writeByte(b byte) {
	if e.offs >= len(e.buf) {
		e.overflow = true
		return
	}
	e.buf[e.offs] = b
	e.offs++
}

// carryOut buffers runs of 0xFF until the carry into them is known.
func (e *Encoder) carryOut(c int) {
	if c == EC_SYM_MAX {
		e.ext++
		return
	}
	carry := c >> EC_SYM_BITS
	if e.rem >= 0 {
		e.writeByte(byte(e.rem + carry))
	}
	for ; e.ext > 0; e.ext-- {
		e.writeByte(byte((EC_SYM_MAX + carry) & EC_SYM_MAX))
	}
	e.rem = c & EC_SYM_MAX
}

func (e *Encoder) normalize() {
	for e.rng <= EC_CODE_BOT {
		e.carryOut(int(e.val >> EC_CODE_SHIFT))
		e.val = (e.val << EC_SYM_BITS) & (EC_CODE_TOP - 1)
		e.rng <<= EC_SYM_BITS
		e.nbitsTotal += EC_SYM_BITS
	}
}

// EncodeICDF writes symbol s using the same table DecodeICDF reads it with.
func (e *Encoder) EncodeICDF(s int, icdf []uint8, ftb uint) {
	r := e.rng >> ftb
	if s > 0 {
		e.val += e.rng - r*uint32(icdf[s-1])
		e.rng = r * uint32(icdf[s-1]-icdf[s])
	} else {
		e.rng -= r * uint32(icdf[s])
	}
	e.normalize()
}

// EncodeBit writes a bit whose probability of being 1 is 1/(1<<logp).
func (e *Encoder) EncodeBit(val int, logp uint) {
	s := e.rng >> logp
	if val != 0 {
		e.val += e.rng - s
		e.rng = s
	} else {
		e.rng -= s
	}
	e.normalize()
}

// Tell returns the number of whole bits written so far.
func (e *Encoder) Tell() int {
	return e.nbitsTotal - bits.Len32(e.rng)
}

// Done flushes the coder state and returns the encoded bytes.
func (e *Encoder) Done() []byte {
	l := EC_CODE_BITS - bits.Len32(e.rng)
	msk := uint32(EC_CODE_TOP-1) >> uint(l)
	end := (e.val + msk) &^ msk
	if (end | msk) >= e.val+e.rng {
		l++
		msk >>= 1
		end = (e.val + msk) &^ msk
	}
	for l > 0 {
		e.carryOut(int(end >> EC_CODE_SHIFT))
		end = (end << EC_SYM_BITS) & (EC_CODE_TOP - 1)
		l -= EC_SYM_BITS
	}
	if e.rem >= 0 || e.ext > 0 {
		e.carryOut(0)
	}
	return e.buf[:e.offs]
}

// Overflowed reports whether output was dropped because the buffer was full.
func (e *Encoder) Overflowed() bool {
	return e.overflow
}
