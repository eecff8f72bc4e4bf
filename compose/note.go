package compose

import "fmt"

// Waveform selects the oscillator used to render a note.
type Waveform int

const (
	Square Waveform = iota
	Triangle
	Sawtooth
	Pulse
)

func (w Waveform) String() string {
	switch w {
	case Square:
		return "square"
	case Triangle:
		return "triangle"
	case Sawtooth:
		return "sawtooth"
	case Pulse:
		return "pulse"
	default:
		return fmt.Sprintf("waveform(%d)", int(w))
	}
}

// waveformFor maps a waveform suffix letter to its Waveform.
func waveformFor(c byte) (Waveform, bool) {
	switch c {
	case 'q':
		return Square, true
	case 't':
		return Triangle, true
	case 's':
		return Sawtooth, true
	case 'p':
		return Pulse, true
	}
	return Square, false
}

// DefaultVolume is the volume of a note without a ".N" suffix.
const DefaultVolume = 1.0

// Note is one playable or silent event. Exactly one of the following holds:
// Pitch is set, Arpeggio is non-empty, or neither (a rest).
type Note struct {
	Pitch    *int
	Duration float64 // seconds
	Waveform Waveform
	Volume   float64
	Arpeggio []int
	ADSR     bool
	Vibrato  bool
}

// IsRest reports whether the note produces silence.
func (n Note) IsRest() bool {
	return n.Pitch == nil && len(n.Arpeggio) == 0
}

// IsArpeggio reports whether the note cycles through several pitches.
func (n Note) IsArpeggio() bool {
	return len(n.Arpeggio) > 0
}

// WithChannel returns a copy of n with channel attributes applied. The channel
// volume only replaces a note volume still at DefaultVolume.
func (n Note) WithChannel(ch Channel) Note {
	out := n
	if ch.Volume != nil && n.Volume == DefaultVolume {
		out.Volume = *ch.Volume
	}
	out.ADSR = n.ADSR || ch.ADSR
	out.Vibrato = n.Vibrato || ch.Vibrato
	if len(n.Arpeggio) > 0 {
		out.Arpeggio = append([]int(nil), n.Arpeggio...)
	}
	return out
}

// Channel is a sub-composition with inherited or overridden attributes.
type Channel struct {
	Composition string
	Volume      *float64
	ADSR        bool
	Vibrato     bool
}

// ParsedComposition is the result of the multi-channel flag grammar.
type ParsedComposition struct {
	Channels []Channel
	BPM      *int
	// Explicit is true when the input opened at least one --channel.
	Explicit bool
}

// SingleChannel reports whether the composition can skip the mixing step.
func (pc ParsedComposition) SingleChannel() bool {
	return len(pc.Channels) == 1 && !pc.Explicit
}

// semitones holds the offset of each natural note within an octave.
var semitones = map[byte]int{
	'c': 0, 'd': 2, 'e': 4, 'f': 5, 'g': 7, 'a': 9, 'b': 11,
}

// DefaultOctave is used when a note has no octave digits.
const DefaultOctave = 4

// MIDINumber returns the note number for a letter, octave and sharp flag,
// clamped to [0,127]. Middle C (c4) is 60.
func MIDINumber(letter byte, octave int, sharp bool) int {
	m := 12 + octave*12 + semitones[lower(letter)]
	if sharp {
		m++
	}
	if m < 0 {
		return 0
	}
	if m > 127 {
		return 127
	}
	return m
}
