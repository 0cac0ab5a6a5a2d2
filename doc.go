// Package gosilk decodes SILK, the speech layer of the Opus codec, in pure
// Go.
//
// The decoder is bit-exact with the fixed-point reference: every filter,
// table and rounding step reproduces the integer arithmetic of libopus, so
// identical payloads produce identical PCM on every platform.
//
// # Payloads
//
// A SILK payload carries 10, 20, 40 or 60 ms of audio for one or two coded
// channels at one of three internal rates:
//   - Narrowband: 8 kHz
//   - Mediumband: 12 kHz
//   - Wideband: 16 kHz
//
// The caller supplies the bandwidth, duration and channel layout, which in
// Opus come from the TOC byte. Output is resampled to the decoder's rate
// (8, 12, 16, 24 or 48 kHz) and interleaved for stereo.
//
// # Loss handling
//
// DecodeLost conceals a missing payload by extrapolating the last one.
// DecodeFEC rebuilds a missing payload from the low bit-rate redundancy
// carried in the payload that follows it.
//
// The silk, resample and rangecoding packages expose the individual
// layers for callers that drive the decoder frame by frame.
package gosilk
