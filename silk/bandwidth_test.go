package silk

import "testing"

// TestBandwidthConfigMatchesChannelSetup checks the published parameters
// against what a channel actually configures for each rate.
func TestBandwidthConfigMatchesChannelSetup(t *testing.T) {
	for _, bw := range []Bandwidth{Narrowband, Mediumband, Wideband} {
		t.Run(bw.String(), func(t *testing.T) {
			cfg, ok := bw.Config()
			if !ok {
				t.Fatal("Config() not ok")
			}
			if bw.SampleRate() != cfg.SampleRate {
				t.Errorf("SampleRate() = %d, want %d", bw.SampleRate(), cfg.SampleRate)
			}

			var c channelState
			c.reset()
			c.nbSubfr = maxNbSubfr
			fs := cfg.SampleRate / 1000
			if err := c.setFs(fs, 48000); err != nil {
				t.Fatal(err)
			}
			if c.lpcOrder != cfg.LPCOrder {
				t.Errorf("lpcOrder = %d, want %d", c.lpcOrder, cfg.LPCOrder)
			}
			if c.subfrLength != cfg.SubframeSamples {
				t.Errorf("subfrLength = %d, want %d", c.subfrLength, cfg.SubframeSamples)
			}
			if c.frameLength != maxNbSubfr*cfg.SubframeSamples {
				t.Errorf("frameLength = %d", c.frameLength)
			}
			if c.nlsfCB.order != cfg.LPCOrder {
				t.Errorf("codebook order = %d, want %d", c.nlsfCB.order, cfg.LPCOrder)
			}

			lo := make([]int, maxNbSubfr)
			decodePitch(lo, 0, 0, fs, maxNbSubfr)
			hi := make([]int, maxNbSubfr)
			decodePitch(hi, 1<<14, 0, fs, maxNbSubfr)
			if lo[0] != cfg.PitchLagMin || hi[0] != cfg.PitchLagMax {
				t.Errorf("pitch range = [%d, %d], want [%d, %d]", lo[0], hi[0], cfg.PitchLagMin, cfg.PitchLagMax)
			}
		})
	}
}

func TestBandwidthUnknown(t *testing.T) {
	bw := Bandwidth(7)
	if _, ok := bw.Config(); ok {
		t.Error("Config() ok for unknown bandwidth")
	}
	if bw.SampleRate() != 0 {
		t.Errorf("SampleRate() = %d, want 0", bw.SampleRate())
	}
	if bw.String() != "unknown" {
		t.Errorf("String() = %q", bw.String())
	}
}

func TestSetFsRejectsOutputRate(t *testing.T) {
	var c channelState
	c.reset()
	c.nbSubfr = maxNbSubfr
	if err := c.setFs(16, 44100); err == nil {
		t.Fatal("setFs accepted 44100 Hz output")
	}
}
