package gosilk

func int16ToFloat32(dst []float32, src []int16) {
	for i, s := range src {
		dst[i] = float32(s) / 32768
	}
}
