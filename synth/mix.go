package synth

import "github.com/cwbudde/algo-vecmath"

// Mix sums channels sample by sample. The result is as long as the longest
// channel; shorter channels contribute silence past their end. No clipping or
// normalization is applied.
func Mix(channels ...[]float64) []float64 {
	n := 0
	for _, ch := range channels {
		if len(ch) > n {
			n = len(ch)
		}
	}

	out := make([]float64, n)
	for _, ch := range channels {
		if len(ch) == 0 {
			continue
		}
		vecmath.AddBlockInPlace(out[:len(ch)], ch)
	}
	return out
}
