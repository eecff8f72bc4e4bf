package compose

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pitchOf(t *testing.T, n Note) int {
	t.Helper()
	require.NotNil(t, n.Pitch, "expected a pitched note")
	return *n.Pitch
}

func TestParseNote_Quarter(t *testing.T) {
	n, err := ParseNote("4c")
	require.NoError(t, err)

	assert.Equal(t, 60, pitchOf(t, n))
	assert.InDelta(t, 0.5, n.Duration, 1e-12)
	assert.Equal(t, Square, n.Waveform)
	assert.Equal(t, 1.0, n.Volume)
	assert.Empty(t, n.Arpeggio)
	assert.False(t, n.ADSR)
	assert.False(t, n.Vibrato)
}

func TestParseNote_FullSyntax(t *testing.T) {
	for _, tok := range []string{"8c#5q.5", "8#c5q.5"} {
		t.Run(tok, func(t *testing.T) {
			n, err := ParseNote(tok)
			require.NoError(t, err)

			assert.Equal(t, 73, pitchOf(t, n))
			assert.InDelta(t, 0.25, n.Duration, 1e-12)
			assert.Equal(t, Square, n.Waveform)
			assert.InDelta(t, 0.5, n.Volume, 1e-12)
		})
	}
}

func TestParseNote_Rest(t *testing.T) {
	n, err := ParseNote("4-")
	require.NoError(t, err)

	assert.Nil(t, n.Pitch)
	assert.True(t, n.IsRest())
	assert.InDelta(t, 0.5, n.Duration, 1e-12)
}

func TestParseNote_Pitches(t *testing.T) {
	tests := []struct {
		token string
		pitch int
	}{
		{token: "4c", pitch: 60},
		{token: "4C", pitch: 60},
		{token: "4a", pitch: 69},
		{token: "4a5", pitch: 81},
		{token: "4c1", pitch: 24},
		{token: "4#f2", pitch: 42},
		{token: "2b8", pitch: 119},
		{token: "4c0", pitch: 12},
		{token: "4c10", pitch: 127},
		{token: "4c99999999999999999999", pitch: 127},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			n, err := ParseNote(tt.token)
			require.NoError(t, err)
			assert.Equal(t, tt.pitch, pitchOf(t, n))
		})
	}
}

func TestParseNote_Durations(t *testing.T) {
	tests := []struct {
		token    string
		bpm      int
		duration float64
	}{
		{token: "1c", bpm: 120, duration: 2.0},
		{token: "2c", bpm: 120, duration: 1.0},
		{token: "8c", bpm: 120, duration: 0.25},
		{token: "16c", bpm: 120, duration: 0.125},
		{token: "4c", bpm: 60, duration: 1.0},
		{token: "4c", bpm: 240, duration: 0.25},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			p := NewParser(WithTempo(tt.bpm))
			n, err := p.ParseNote(tt.token)
			require.NoError(t, err)
			assert.InDelta(t, tt.duration, n.Duration, 1e-12)
		})
	}
}

func TestParseNote_Waveforms(t *testing.T) {
	tests := map[string]Waveform{
		"4cq": Square,
		"4ct": Triangle,
		"4cs": Sawtooth,
		"4cp": Pulse,
		"4c":  Square,
	}
	for tok, want := range tests {
		n, err := ParseNote(tok)
		require.NoError(t, err, tok)
		assert.Equal(t, want, n.Waveform, tok)
	}
}

func TestParseNote_Volume(t *testing.T) {
	n, err := ParseNote("4e.0")
	require.NoError(t, err)
	assert.Equal(t, 0.0, n.Volume)

	n, err = ParseNote("4e5t.9")
	require.NoError(t, err)
	assert.InDelta(t, 0.9, n.Volume, 1e-12)
	assert.Equal(t, Triangle, n.Waveform)
	assert.Equal(t, 76, pitchOf(t, n))
}

func TestParseNote_Arpeggio(t *testing.T) {
	for _, tok := range []string{"4(ceg)", "4(c e g)", "4( c  e g )"} {
		t.Run(tok, func(t *testing.T) {
			n, err := ParseNote(tok)
			require.NoError(t, err)

			assert.Nil(t, n.Pitch)
			assert.True(t, n.IsArpeggio())
			assert.Equal(t, []int{60, 64, 67}, n.Arpeggio)
			assert.InDelta(t, 0.5, n.Duration, 1e-12)
			assert.InDelta(t, 0.5/3, n.Duration/float64(len(n.Arpeggio)), 1e-12)
		})
	}
}

func TestParseNote_ArpeggioModifiers(t *testing.T) {
	_, err := ParseNote("8(#c5 e5 g#)s.3")
	require.Error(t, err, "postfix sharp is not allowed inside arpeggios")

	n, err := ParseNote("8(#c5 e5 #g)s.3")
	require.NoError(t, err)
	assert.Equal(t, []int{73, 76, 68}, n.Arpeggio)
	assert.Equal(t, Sawtooth, n.Waveform)
	assert.InDelta(t, 0.3, n.Volume, 1e-12)
	assert.InDelta(t, 0.25, n.Duration, 1e-12)
}

func TestParseNote_Errors(t *testing.T) {
	tests := []struct {
		token string
		want  error
	}{
		{token: "", want: ErrMissingDuration},
		{token: "c", want: ErrMissingDuration},
		{token: "xx", want: ErrMissingDuration},
		{token: "0c", want: ErrInvalidDuration},
		{token: "4", want: ErrInvalidNoteLetter},
		{token: "4x", want: ErrInvalidNoteLetter},
		{token: "4#", want: ErrInvalidNoteLetter},
		{token: "4(ceg", want: ErrUnterminatedArpeggio},
		{token: "4()", want: ErrEmptyArpeggio},
		{token: "4(  )", want: ErrEmptyArpeggio},
		{token: "4(cxe)", want: ErrInvalidNoteLetter},
		{token: "4c.", want: ErrUnexpectedCharacter},
		{token: "4cz", want: ErrUnexpectedCharacter},
		{token: "4c##", want: ErrUnexpectedCharacter},
		{token: "4cq.5x", want: ErrUnexpectedCharacter},
		{token: "4-q", want: ErrUnexpectedCharacter},
		{token: "4(ce)x", want: ErrUnexpectedCharacter},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			_, err := ParseNote(tt.token)
			require.ErrorIs(t, err, tt.want)

			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.token, pe.Token)
		})
	}
}

func TestParseErrorOffset(t *testing.T) {
	_, err := ParseNote("4(ce x)")

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "4(ce x)", pe.Token)
	assert.Equal(t, 5, pe.Pos)
	assert.Contains(t, pe.Error(), "invalid note letter")
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"4(c e g)", "4d", "8-"}, Tokenize("  4(c e\tg)\n 4d   8- "))
	assert.Empty(t, Tokenize(" \t\n"))
	assert.Equal(t, []string{"4(c", "e"}, Tokenize("4(c e"))
	assert.Equal(t, []string{"4(c", "4e", "--adsr", "4g"}, Tokenize("4(c 4e --adsr 4g"))
	assert.Equal(t, []string{"4(c", "--channel", "4(d f)"}, Tokenize("4(c --channel 4(d f)"))
	assert.Equal(t, []string{"4((c e) g)", "4a"}, Tokenize("4((c e) g) 4a"))
}

func TestParseComposition_UnclosedArpeggio(t *testing.T) {
	p := NewParser(WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))

	notes := p.ParseComposition("4(c 4e 4g 4c5")
	require.Len(t, notes, 3)
	assert.Equal(t, 64, pitchOf(t, notes[0]))
	assert.Equal(t, 67, pitchOf(t, notes[1]))
	assert.Equal(t, 72, pitchOf(t, notes[2]))
}

func TestParseComposition_SkipsInvalid(t *testing.T) {
	var logs bytes.Buffer
	p := NewParser(WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))

	notes := p.ParseComposition("4c xx 4e 4(ceg")
	require.Len(t, notes, 2)
	assert.Equal(t, 60, pitchOf(t, notes[0]))
	assert.Equal(t, 64, pitchOf(t, notes[1]))

	assert.Contains(t, logs.String(), "skipping invalid note")
	assert.Contains(t, logs.String(), "token=xx")
}

func TestParseComposition_IgnoresFlags(t *testing.T) {
	notes := NewParser(WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))).
		ParseComposition("--bpm 140 --adsr 4c 4(c e g) 2-")
	require.Len(t, notes, 3)
	assert.True(t, notes[1].IsArpeggio())
	assert.True(t, notes[2].IsRest())
}

func TestParseNotes_Strict(t *testing.T) {
	notes, err := NewParser().ParseNotes("4c 4e 4g 2c5")
	require.NoError(t, err)
	require.Len(t, notes, 4)
	assert.Equal(t, 72, pitchOf(t, notes[3]))

	_, err = NewParser().ParseNotes("4c 4q")
	require.ErrorIs(t, err, ErrInvalidNoteLetter)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{text: "", want: false},
		{text: "   ", want: false},
		{text: "xx", want: false},
		{text: "4c 4e", want: true},
		{text: "4c xx", want: false},
		{text: "4- 2-", want: false},
		{text: "4- 4c", want: true},
		{text: "4(c e g) 4(d f a)", want: true},
		{text: "--bpm 140 --adsr --vibrato 2c 2e 2g", want: true},
		{text: "--channel 4c 4e --channel 4e 4g", want: true},
		{text: "--channel 4c --channel 4-", want: true},
		{text: "--channel 4- --channel 2-", want: false},
		{text: "--channel 4c --channel 4x", want: false},
		{text: "--channel", want: false},
		{text: "--bpm 400 4c", want: false},
		{text: "--volume 1.5 4c", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, Validate(tt.text))
		})
	}
}

func TestWithTempoIgnoresOutOfRange(t *testing.T) {
	assert.Equal(t, DefaultBPM, NewParser(WithTempo(0)).Tempo())
	assert.Equal(t, DefaultBPM, NewParser(WithTempo(301)).Tempo())
	assert.Equal(t, 90, NewParser(WithTempo(90)).Tempo())
}

func TestNoteWithChannel(t *testing.T) {
	half := 0.5
	ch := Channel{Volume: &half, ADSR: true}

	n, err := ParseNote("4c")
	require.NoError(t, err)
	got := n.WithChannel(ch)
	assert.Equal(t, 0.5, got.Volume)
	assert.True(t, got.ADSR)
	assert.False(t, got.Vibrato)
	assert.Equal(t, 1.0, n.Volume, "receiver must not change")

	quiet, err := ParseNote("4c.3")
	require.NoError(t, err)
	assert.InDelta(t, 0.3, quiet.WithChannel(ch).Volume, 1e-12)

	arp, err := ParseNote("4(ceg)")
	require.NoError(t, err)
	cp := arp.WithChannel(Channel{Vibrato: true})
	cp.Arpeggio[0] = 0
	assert.Equal(t, 60, arp.Arpeggio[0])
}

func TestMIDINumber(t *testing.T) {
	assert.Equal(t, 60, MIDINumber('c', 4, false))
	assert.Equal(t, 61, MIDINumber('C', 4, true))
	assert.Equal(t, 69, MIDINumber('a', 4, false))
	assert.Equal(t, 127, MIDINumber('b', 12, true))
}

func TestWaveformString(t *testing.T) {
	assert.Equal(t, "square", Square.String())
	assert.Equal(t, "pulse", Pulse.String())
	assert.Equal(t, "waveform(9)", Waveform(9).String())
}
