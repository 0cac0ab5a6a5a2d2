// Package rangecoding implements the range coder shared by the Opus layers
// (RFC 6716 Section 4.1). SILK consumes it purely as a symbol source.
package rangecoding

// Coder geometry from RFC 6716 Section 4.1 and libopus celt/mfrngcod.h.
const (
	EC_SYM_BITS   = 8
	EC_CODE_BITS  = 32
	EC_SYM_MAX    = (1 << EC_SYM_BITS) - 1
	EC_CODE_TOP   = 1 << (EC_CODE_BITS - 1)
	EC_CODE_BOT   = EC_CODE_TOP >> EC_SYM_BITS
	EC_CODE_SHIFT = EC_CODE_BITS - EC_SYM_BITS - 1
	EC_CODE_EXTRA = (EC_CODE_BITS-2)%EC_SYM_BITS + 1
)
