// Package pcm converts rendered buffers to 16-bit PCM and WAV files.
package pcm

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-ringtone/synth"
)

const (
	// BitDepth is the sample width of written files.
	BitDepth = 16

	fullScale = 32767
	// wavFormatPCM is the WAVE_FORMAT_PCM audio format tag.
	wavFormatPCM = 1
)

var (
	ErrInvalidWAV        = errors.New("invalid WAV file")
	ErrInvalidSampleRate = errors.New("sample rate must be > 0")
)

// Scale converts a float sample to a 16-bit integer, clamping to full scale.
func Scale(v float64) int {
	switch {
	case v >= 1:
		return fullScale
	case v <= -1:
		return -fullScale
	default:
		return int(v * fullScale)
	}
}

// ToInt16 converts samples to signed 16-bit PCM.
func ToInt16(samples []float64) []int16 {
	out := make([]int16, len(samples))
	for i, v := range samples {
		out[i] = int16(Scale(v))
	}
	return out
}

// IntBuffer wraps buf as a mono go-audio buffer at BitDepth.
func IntBuffer(buf synth.Buffer) *audio.IntBuffer {
	data := make([]int, len(buf.Samples))
	for i, v := range buf.Samples {
		data[i] = Scale(v)
	}
	return &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  buf.SampleRate,
		},
		Data:           data,
		SourceBitDepth: BitDepth,
	}
}

// WriteWAV encodes buf as a mono 16-bit WAV stream.
func WriteWAV(w io.WriteSeeker, buf synth.Buffer) error {
	if buf.SampleRate <= 0 {
		return ErrInvalidSampleRate
	}

	enc := wav.NewEncoder(w, buf.SampleRate, BitDepth, 1, wavFormatPCM)
	if err := enc.Write(IntBuffer(buf)); err != nil {
		return fmt.Errorf("encode wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalize wav: %w", err)
	}
	return nil
}

// WriteFile creates path and writes buf to it as WAV.
func WriteFile(path string, buf synth.Buffer) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return WriteWAV(f, buf)
}

// ReadWAV decodes a WAV stream into a mono buffer scaled to [-1, 1].
// Multi-channel files are downmixed by averaging.
func ReadWAV(r io.ReadSeeker) (synth.Buffer, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return synth.Buffer{}, ErrInvalidWAV
	}

	ib, err := dec.FullPCMBuffer()
	if err != nil {
		return synth.Buffer{}, fmt.Errorf("decode wav: %w", err)
	}

	channels := ib.Format.NumChannels
	if channels <= 0 {
		return synth.Buffer{}, ErrInvalidWAV
	}
	depth := int(dec.BitDepth)
	if depth <= 0 {
		depth = BitDepth
	}
	factor := float64(int(1)<<(depth-1) - 1)

	frames := len(ib.Data) / channels
	samples := make([]float64, frames)
	for i := range samples {
		sum := 0
		for c := 0; c < channels; c++ {
			sum += ib.Data[i*channels+c]
		}
		samples[i] = float64(sum) / float64(channels) / factor
	}
	return synth.Buffer{Samples: samples, SampleRate: ib.Format.SampleRate}, nil
}

// ReadFile opens path and decodes it with ReadWAV.
func ReadFile(path string) (synth.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return synth.Buffer{}, err
	}
	defer f.Close()
	return ReadWAV(f)
}
