package synth

import (
	"math"

	"github.com/cwbudde/algo-ringtone/compose"
)

const (
	// Headroom scales a full-volume note so several channels can be summed.
	Headroom = 0.2

	// VibratoRate is the vibrato LFO frequency in Hz.
	VibratoRate = 5.0

	// VibratoDepth is the relative frequency deviation of the vibrato.
	VibratoDepth = 0.02

	pulseDuty = 0.25
)

// MIDIToFrequency converts a MIDI note number to Hz using A4 = 440 Hz.
func MIDIToFrequency(midi int) float64 {
	return 440 * math.Pow(2, float64(midi-69)/12)
}

// Oscillator returns the sample of a waveform after the given number of
// cycles, scaled to amplitude.
type Oscillator func(cycles, amplitude float64) float64

// OscillatorFor returns the oscillator for w. Unknown waveforms fall back to
// square.
func OscillatorFor(w compose.Waveform) Oscillator {
	switch w {
	case compose.Triangle:
		return Triangle
	case compose.Sawtooth:
		return Sawtooth
	case compose.Pulse:
		return Pulse
	default:
		return Square
	}
}

// Square is the sign of a sine at the same phase; zero maps to +amplitude.
func Square(cycles, amplitude float64) float64 {
	if math.Sin(2*math.Pi*cycles) >= 0 {
		return amplitude
	}
	return -amplitude
}

// Triangle rises from -amplitude to +amplitude over the first half cycle.
func Triangle(cycles, amplitude float64) float64 {
	phase := phaseOf(cycles)
	if phase < 0.5 {
		return amplitude * (4*phase - 1)
	}
	return amplitude * (3 - 4*phase)
}

// Sawtooth ramps from -amplitude to +amplitude once per cycle.
func Sawtooth(cycles, amplitude float64) float64 {
	return amplitude * (2*phaseOf(cycles) - 1)
}

// Pulse is high for the first quarter of each cycle.
func Pulse(cycles, amplitude float64) float64 {
	if phaseOf(cycles) < pulseDuty {
		return amplitude
	}
	return -amplitude
}

// Vibrato returns freq modulated by a 5 Hz sine at time t seconds.
func Vibrato(t, freq float64) float64 {
	return freq * (1 + VibratoDepth*math.Sin(2*math.Pi*VibratoRate*t))
}

func phaseOf(cycles float64) float64 {
	_, frac := math.Modf(cycles)
	if frac < 0 {
		frac++
	}
	return frac
}
