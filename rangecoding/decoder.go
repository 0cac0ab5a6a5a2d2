package rangecoding

import "math/bits"

// Decoder is the range decoder of RFC 6716 Section 4.1 (libopus entdec.c),
// restricted to the operations the SILK layer draws symbols with.
// The zero value is not usable; call Init first.
type Decoder struct {
	buf        []byte // Packet payload
	offs       int    // Read offset of the next byte in buf
	rng        uint32 // Range size, above EC_CODE_BOT after normalize
	val        uint32 // Distance from the top of the range to the coded value
	rem        int    // Last byte read, half consumed by normalize
	nbitsTotal int    // Bits read so far, for Tell
}

// Init prepares d to decode buf, following libopus ec_dec_init.
// Reads past the end of buf yield zero bytes, so a truncated packet decodes
// without error.
func (d *Decoder) Init(buf []byte) {
	d.buf = buf
	d.offs = 0
	d.rng = 1 << EC_CODE_EXTRA
	d.rem = int(d.readByte())
	d.val = d.rng - 1 - uint32(d.rem>>(EC_SYM_BITS-EC_CODE_EXTRA))
	d.nbitsTotal = EC_CODE_BITS + 1 -
		((EC_CODE_BITS-EC_CODE_EXTRA)/EC_SYM_BITS)*EC_SYM_BITS
	d.normalize()
}

// readByte returns the next payload byte, or 0 past the end.
func (d *Decoder) readByte() byte {
	if d.offs < len(d.buf) {
		b := d.buf[d.offs]
		d.offs++
		return b
	}
	return 0
}

// normalize shifts in whole bytes until rng exceeds EC_CODE_BOT
// (RFC 6716 Section 4.1.2.1).
func (d *Decoder) normalize() {
	for d.rng <= EC_CODE_BOT {
		d.nbitsTotal += EC_SYM_BITS
		d.rng <<= EC_SYM_BITS
		sym := d.rem
		d.rem = int(d.readByte())
		sym = (sym<<EC_SYM_BITS | d.rem) >> (EC_SYM_BITS - EC_CODE_EXTRA)
		d.val = ((d.val << EC_SYM_BITS) + uint32(EC_SYM_MAX&^sym)) & (EC_CODE_TOP - 1)
	}
}

// DecodeICDF decodes one symbol against an inverse CDF table and returns its
// index. icdf[k] is (1<<ftb) minus the cumulative frequency of symbols 0..k,
// so entries fall toward a terminating 0. ftb is the table precision in
// bits; every SILK table uses 8.
func (d *Decoder) DecodeICDF(icdf []uint8, ftb uint) int {
	s := d.rng
	r := s >> ftb
	for k := 0; ; k++ {
		t := s
		s = r * uint32(icdf[k])
		if d.val >= s {
			d.val -= s
			d.rng = t - s
			d.normalize()
			return k
		}
	}
}

// DecodeBit decodes a bit whose probability of being 1 is 1/(1<<logp),
// following libopus ec_dec_bit_logp.
func (d *Decoder) DecodeBit(logp uint) int {
	s := d.rng >> logp
	if d.val < s {
		d.rng = s
		d.normalize()
		return 1
	}
	d.val -= s
	d.rng -= s
	d.normalize()
	return 0
}

// Tell returns the number of whole bits consumed so far, rounded up as in
// libopus ec_tell. The SILK layer uses it to check that a frame did not read
// past its payload.
func (d *Decoder) Tell() int {
	return d.nbitsTotal - bits.Len32(d.rng)
}
