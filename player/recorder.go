package player

import (
	"sync"

	"github.com/cwbudde/algo-ringtone/pcm"
	"github.com/cwbudde/algo-ringtone/synth"
)

// FileBackend is a Backend that writes each played buffer to a WAV file
// instead of a sound device. Loop is recorded but has no effect.
type FileBackend struct {
	Path string

	mu      sync.Mutex
	playing bool
	loop    bool
}

// Play writes samples to Path.
func (b *FileBackend) Play(samples []float32, sampleRate int, loop bool) error {
	out := make([]float64, len(samples))
	for i, v := range samples {
		out[i] = float64(v)
	}
	if err := pcm.WriteFile(b.Path, synth.Buffer{Samples: out, SampleRate: sampleRate}); err != nil {
		return err
	}

	b.mu.Lock()
	b.playing, b.loop = true, loop
	b.mu.Unlock()
	return nil
}

// Stop clears the playing state.
func (b *FileBackend) Stop() error {
	b.mu.Lock()
	b.playing = false
	b.mu.Unlock()
	return nil
}

// IsPlaying reports whether a buffer was written since the last Stop.
func (b *FileBackend) IsPlaying() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.playing
}

// Looping reports the loop flag of the last Play.
func (b *FileBackend) Looping() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loop
}
