package synth

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"
)

// Buffer is a rendered mono signal.
type Buffer struct {
	Samples    []float64
	SampleRate int
}

// Len returns the number of samples.
func (b Buffer) Len() int {
	return len(b.Samples)
}

// Duration returns the length in seconds.
func (b Buffer) Duration() float64 {
	if b.SampleRate <= 0 {
		return 0
	}
	return float64(len(b.Samples)) / float64(b.SampleRate)
}

// Float32 returns a float32 copy of the samples for playback backends.
func (b Buffer) Float32() []float32 {
	out := make([]float32, len(b.Samples))
	for i, v := range b.Samples {
		out[i] = float32(v)
	}
	return out
}

// Peak returns the largest sample magnitude.
func (b Buffer) Peak() float64 {
	if len(b.Samples) == 0 {
		return 0
	}
	return vecmath.MaxAbs(b.Samples)
}

// Normalize returns a copy of b scaled so its peak equals targetPeak.
// Silent buffers stay silent.
func (b Buffer) Normalize(targetPeak float64) (Buffer, error) {
	if targetPeak < 0 {
		return Buffer{}, fmt.Errorf("normalize target peak must be >= 0: %f", targetPeak)
	}

	out := Buffer{Samples: make([]float64, len(b.Samples)), SampleRate: b.SampleRate}
	peak := b.Peak()
	if peak == 0 || targetPeak == 0 {
		return out, nil
	}

	vecmath.ScaleBlock(out.Samples, b.Samples, targetPeak/peak)
	return out, nil
}
