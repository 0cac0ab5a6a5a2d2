package silk

import "errors"

var (
	// ErrInvalidFrameDuration is returned when the payload duration is not
	// 10, 20, 40 or 60 ms.
	ErrInvalidFrameDuration = errors.New("silk: invalid frame duration")

	// ErrInvalidSampleRate is returned for an internal rate other than
	// 8, 12 or 16 kHz, or an output rate the resampler cannot reach.
	ErrInvalidSampleRate = errors.New("silk: invalid sample rate")

	// ErrInvalidChannels is returned when a channel count is not 1 or 2.
	ErrInvalidChannels = errors.New("silk: invalid channel count")

	// ErrBufferTooSmall is returned when the output slice cannot hold one
	// decoded frame.
	ErrBufferTooSmall = errors.New("silk: output buffer too small")
)
