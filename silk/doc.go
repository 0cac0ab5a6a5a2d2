// Package silk implements the SILK decoder used by Opus for narrowband,
// mediumband and wideband speech.
//
// Decoder.Decode reconstructs one frame of up to 20 ms per call from a range
// decoder positioned at the start of a SILK payload. It runs parameter
// decoding, NLSF to LPC conversion, excitation and LTP/LPC synthesis, and
// resampling to the output rate. Lost frames are concealed and comfort noise
// is mixed in during loss. All arithmetic is fixed point so output matches
// the reference decoder sample for sample.
package silk
