package synth

import (
	"math"
	"strings"

	"github.com/cwbudde/algo-ringtone/compose"
)

// sampleEpsilon keeps rate*duration products such as 48000*0.1 from
// truncating one sample short.
const sampleEpsilon = 1e-9

// Engine renders compositions at a fixed sample rate.
// An Engine holds no mutable state and is safe for concurrent use.
type Engine struct {
	cfg    Config
	parser *compose.Parser
}

// NewEngine creates an Engine from options.
func NewEngine(opts ...Option) *Engine {
	cfg := ApplyOptions(opts...)
	return &Engine{
		cfg:    cfg,
		parser: cfg.parser(cfg.Tempo),
	}
}

func (cfg Config) parser(bpm int) *compose.Parser {
	return compose.NewParser(compose.WithTempo(bpm), compose.WithLogger(cfg.Logger))
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// SampleRate returns the output rate in Hz.
func (e *Engine) SampleRate() int {
	return e.cfg.SampleRate
}

// SampleCount returns the number of samples covering seconds.
func (e *Engine) SampleCount(seconds float64) int {
	if seconds <= 0 {
		return 0
	}
	return int(math.Floor(float64(e.cfg.SampleRate)*seconds + sampleEpsilon))
}

// NoteLen returns the rendered length of n in samples. Arpeggios are split
// into equal slices, so the total may be a few samples short of the note
// duration.
func (e *Engine) NoteLen(n compose.Note) int {
	if n.IsArpeggio() {
		k := len(n.Arpeggio)
		return k * e.SampleCount(n.Duration/float64(k))
	}
	return e.SampleCount(n.Duration)
}

// RenderNote renders a single note. Rests render as silence.
func (e *Engine) RenderNote(n compose.Note) []float64 {
	out := make([]float64, e.NoteLen(n))
	e.renderInto(out, n)
	return out
}

// RenderNotes renders notes back to back into one buffer.
func (e *Engine) RenderNotes(notes []compose.Note) []float64 {
	total := 0
	for _, n := range notes {
		total += e.NoteLen(n)
	}

	out := make([]float64, total)
	pos := 0
	for _, n := range notes {
		k := e.NoteLen(n)
		e.renderInto(out[pos:pos+k], n)
		pos += k
	}
	return out
}

// RenderChannels renders each note list and mixes the results.
func (e *Engine) RenderChannels(channels [][]compose.Note) []float64 {
	rendered := make([][]float64, len(channels))
	for i, notes := range channels {
		rendered[i] = e.RenderNotes(notes)
	}
	return Mix(rendered...)
}

// Generate parses and renders text.
//
// Plain compositions are rendered at the engine tempo with invalid tokens
// skipped. Compositions with flags go through compose.ParseChannels; a --bpm
// flag overrides the engine tempo for this call only. Flag grammar errors are
// returned as is. ErrNoValidNotes is returned when nothing survives parsing.
func (e *Engine) Generate(text string) (Buffer, error) {
	if strings.TrimSpace(text) == "" {
		return Buffer{}, compose.ErrEmptyComposition
	}

	if !compose.HasFlags(text) {
		notes := e.parser.ParseComposition(text)
		if len(notes) == 0 {
			return Buffer{}, ErrNoValidNotes
		}
		return e.buffer(e.RenderNotes(notes), 1), nil
	}

	parsed, err := compose.ParseChannels(text)
	if err != nil {
		return Buffer{}, err
	}

	parser := e.parser
	if parsed.BPM != nil {
		parser = e.cfg.parser(*parsed.BPM)
	}

	channels := make([][]compose.Note, len(parsed.Channels))
	total := 0
	for i, ch := range parsed.Channels {
		notes := parser.ParseComposition(ch.Composition)
		for j := range notes {
			notes[j] = notes[j].WithChannel(ch)
		}
		channels[i] = notes
		total += len(notes)
	}
	if total == 0 {
		return Buffer{}, ErrNoValidNotes
	}

	if parsed.SingleChannel() {
		return e.buffer(e.RenderNotes(channels[0]), 1), nil
	}
	return e.buffer(e.RenderChannels(channels), len(channels)), nil
}

func (e *Engine) buffer(samples []float64, channels int) Buffer {
	e.cfg.Logger.Debug("rendered composition",
		"channels", channels,
		"samples", len(samples),
		"sampleRate", e.cfg.SampleRate)
	return Buffer{Samples: samples, SampleRate: e.cfg.SampleRate}
}

func (e *Engine) renderInto(dst []float64, n compose.Note) {
	switch {
	case n.IsArpeggio():
		k := len(dst) / len(n.Arpeggio)
		for i, pitch := range n.Arpeggio {
			e.tone(dst[i*k:(i+1)*k], MIDIToFrequency(pitch), n)
		}
	case n.Pitch != nil:
		e.tone(dst, MIDIToFrequency(*n.Pitch), n)
	}
}

// tone fills dst with one pitch. Time restarts at zero for every call so each
// note and arpeggio step starts at phase zero.
func (e *Engine) tone(dst []float64, freq float64, n compose.Note) {
	osc := OscillatorFor(n.Waveform)
	amp := Headroom * n.Volume
	rate := float64(e.cfg.SampleRate)

	for i := range dst {
		t := float64(i) / rate
		f := freq
		if n.Vibrato {
			f = Vibrato(t, freq)
		}
		s := osc(t*f, amp)
		if n.ADSR {
			s *= ADSR(i, len(dst))
		}
		dst[i] = s
	}
}
