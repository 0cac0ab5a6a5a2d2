package gosilk_test

import (
	"errors"
	"fmt"
	"log"

	"github.com/thesyncim/gosilk"
)

func ExampleNewDecoder() {
	// Create a decoder for 48kHz stereo audio
	dec, err := gosilk.NewDecoder(48000, 2)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Decoder: %dHz, %d channels\n", dec.SampleRate(), dec.Channels())
	// Output: Decoder: 48000Hz, 2 channels
}

func ExampleDecoder_Decode() {
	dec, err := gosilk.NewDecoder(48000, 1)
	if err != nil {
		log.Fatal(err)
	}

	// A SILK payload as carried in an Opus packet, 20 ms wideband.
	payload := []byte{0x8b, 0x31, 0x07, 0xe2, 0x5d, 0x90, 0x13, 0x44, 0xc6, 0x2a}

	pcm := make([]int16, 960)
	n, err := dec.Decode(payload, gosilk.Wideband, 20, false, pcm)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Decoded %d samples\n", n)
	// Output: Decoded 960 samples
}

func ExampleDecoder_DecodeLost() {
	dec, err := gosilk.NewDecoder(16000, 1)
	if err != nil {
		log.Fatal(err)
	}

	pcm := make([]int16, 320)
	n, err := dec.DecodeLost(20, pcm)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Concealed %d samples\n", n)
	// Output: Concealed 320 samples
}

func ExampleConfig_Validate() {
	err := gosilk.Config{SampleRate: 44100, Channels: 1}.Validate()
	fmt.Println(errors.Is(err, gosilk.ErrInvalidSampleRate))
	// Output: true
}
