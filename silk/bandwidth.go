package silk

// Bandwidth is the audio bandwidth of a SILK stream, which fixes its
// internal sample rate.
type Bandwidth uint8

const (
	// Narrowband codes at 8 kHz.
	Narrowband Bandwidth = iota
	// Mediumband codes at 12 kHz.
	Mediumband
	// Wideband codes at 16 kHz.
	Wideband
)

// BandwidthConfig lists the coding parameters that follow from a
// bandwidth.
type BandwidthConfig struct {
	// SampleRate is the internal rate in Hz.
	SampleRate int
	// LPCOrder is the short-term predictor order.
	LPCOrder int
	// SubframeSamples is the length of a 5 ms subframe.
	SubframeSamples int
	// PitchLagMin and PitchLagMax bound the pitch lag in samples.
	PitchLagMin int
	PitchLagMax int
}

var bandwidthConfigs = [...]BandwidthConfig{
	Narrowband: {8000, minLPCOrder, 40, 16, 144},
	Mediumband: {12000, minLPCOrder, 60, 24, 216},
	Wideband:   {16000, maxLPCOrder, 80, 32, 288},
}

// Config returns the parameters of bw. ok is false for an unknown value.
func (bw Bandwidth) Config() (cfg BandwidthConfig, ok bool) {
	if int(bw) >= len(bandwidthConfigs) {
		return BandwidthConfig{}, false
	}
	return bandwidthConfigs[bw], true
}

// SampleRate returns the internal rate of bw in Hz, or 0 when bw is not a
// SILK bandwidth.
func (bw Bandwidth) SampleRate() int {
	cfg, _ := bw.Config()
	return cfg.SampleRate
}

func (bw Bandwidth) String() string {
	switch bw {
	case Narrowband:
		return "narrowband"
	case Mediumband:
		return "mediumband"
	case Wideband:
		return "wideband"
	default:
		return "unknown"
	}
}
