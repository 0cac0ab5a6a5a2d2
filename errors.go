package gosilk

import "errors"

var (
	// ErrInvalidSampleRate indicates an unsupported output rate.
	// Valid rates are 8000, 12000, 16000, 24000 and 48000.
	ErrInvalidSampleRate = errors.New("gosilk: invalid sample rate (must be 8000, 12000, 16000, 24000, or 48000)")

	// ErrInvalidChannels indicates a channel count other than 1 or 2.
	ErrInvalidChannels = errors.New("gosilk: invalid channels (must be 1 or 2)")

	// ErrBufferTooSmall indicates the output buffer cannot hold
	// duration * sampleRate * channels samples.
	ErrBufferTooSmall = errors.New("gosilk: output buffer too small")

	// ErrInvalidFrameDuration indicates a payload duration SILK cannot code.
	ErrInvalidFrameDuration = errors.New("gosilk: invalid frame duration (must be 10, 20, 40, or 60 ms)")

	// ErrInvalidBandwidth indicates a bandwidth wider than SILK supports.
	ErrInvalidBandwidth = errors.New("gosilk: invalid bandwidth (must be narrowband, mediumband, or wideband)")

	// ErrNoFECData indicates the payload passed to DecodeFEC carries no
	// redundant data. Use DecodeLost instead.
	ErrNoFECData = errors.New("gosilk: no FEC data available for recovery")
)

func validSampleRate(rate int) bool {
	switch rate {
	case 8000, 12000, 16000, 24000, 48000:
		return true
	default:
		return false
	}
}
