package compose

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
)

const (
	// DefaultBPM is the tempo used when no --bpm flag or WithTempo option is given.
	DefaultBPM = 120
	MinBPM     = 1
	MaxBPM     = 300

	// octaves beyond this are clamped by MIDINumber anyway
	maxOctave = 99
)

// Parser turns note tokens into Notes at a fixed tempo.
// A Parser is immutable after construction and safe for concurrent use.
type Parser struct {
	bpm    int
	logger *slog.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithTempo sets the tempo in beats per minute. Values outside [MinBPM,MaxBPM]
// are ignored.
func WithTempo(bpm int) Option {
	return func(p *Parser) {
		if bpm >= MinBPM && bpm <= MaxBPM {
			p.bpm = bpm
		}
	}
}

// WithLogger sets the logger that receives skipped-token warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		p.logger = logger
	}
}

// NewParser creates a Parser at DefaultBPM.
func NewParser(opts ...Option) *Parser {
	p := &Parser{bpm: DefaultBPM}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Tempo returns the parser tempo in beats per minute.
func (p *Parser) Tempo() int {
	return p.bpm
}

// Seconds converts a duration divisor (1 = whole, 4 = quarter, ...) to seconds.
func (p *Parser) Seconds(divisor int) float64 {
	return (4.0 / float64(divisor)) * (60.0 / float64(p.bpm))
}

func (p *Parser) log() *slog.Logger {
	if p.logger != nil {
		return p.logger
	}
	return slog.Default()
}

// ParseNote parses a single token of the form
// <duration><arpeggio|note>[octave][waveform][.volume].
// Failures are *ParseError values wrapping one of the package sentinels.
func (p *Parser) ParseNote(token string) (Note, error) {
	tok := strings.TrimSpace(token)
	sc := &scanner{src: tok}

	digits := sc.digits()
	if digits == "" {
		return Note{}, tokenError(tok, 0, ErrMissingDuration)
	}
	divisor, err := strconv.Atoi(digits)
	if err != nil || divisor <= 0 {
		return Note{}, tokenError(tok, 0, ErrInvalidDuration)
	}
	duration := p.Seconds(divisor)

	switch sc.peek() {
	case '(':
		return p.parseArpeggio(sc, duration)
	case '-':
		sc.pos++
		if !sc.eof() {
			return Note{}, tokenError(tok, sc.pos, ErrUnexpectedCharacter)
		}
		return Note{Duration: duration, Volume: DefaultVolume}, nil
	}

	pitch, err := sc.pitch(true)
	if err != nil {
		return Note{}, err
	}
	waveform, volume, err := sc.modifiers()
	if err != nil {
		return Note{}, err
	}
	return Note{
		Pitch:    &pitch,
		Duration: duration,
		Waveform: waveform,
		Volume:   volume,
	}, nil
}

func (p *Parser) parseArpeggio(sc *scanner, duration float64) (Note, error) {
	open := sc.pos
	end := strings.IndexByte(sc.src[open+1:], ')')
	if end < 0 {
		return Note{}, tokenError(sc.src, open, ErrUnterminatedArpeggio)
	}
	end += open + 1
	if strings.TrimSpace(sc.src[open+1:end]) == "" {
		return Note{}, tokenError(sc.src, open, ErrEmptyArpeggio)
	}

	// members share the token scanner so error offsets stay token-relative
	member := &scanner{src: sc.src[:end], pos: open + 1}
	var pitches []int
	for {
		member.skipSpace()
		if member.eof() {
			break
		}
		pitch, err := member.pitch(false)
		if err != nil {
			var pe *ParseError
			if errors.As(err, &pe) {
				pe.Token = sc.src
			}
			return Note{}, err
		}
		pitches = append(pitches, pitch)
	}

	sc.pos = end + 1
	waveform, volume, err := sc.modifiers()
	if err != nil {
		return Note{}, err
	}
	return Note{
		Duration: duration,
		Waveform: waveform,
		Volume:   volume,
		Arpeggio: pitches,
	}, nil
}

// ParseComposition parses every whitespace-separated token and skips the ones
// that fail, logging each at warn level. Flag tokens and their values are ignored.
func (p *Parser) ParseComposition(text string) []Note {
	var notes []Note
	p.eachNoteToken(text, func(tok string) bool {
		note, err := p.ParseNote(tok)
		if err != nil {
			p.log().Warn("skipping invalid note", "token", tok, "err", err)
			return true
		}
		notes = append(notes, note)
		return true
	})
	return notes
}

// ParseNotes is the strict form of ParseComposition: the first invalid token
// aborts parsing.
func (p *Parser) ParseNotes(text string) ([]Note, error) {
	var (
		notes    []Note
		firstErr error
	)
	p.eachNoteToken(text, func(tok string) bool {
		note, err := p.ParseNote(tok)
		if err != nil {
			firstErr = err
			return false
		}
		notes = append(notes, note)
		return true
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return notes, nil
}

func (p *Parser) eachNoteToken(text string, fn func(tok string) bool) {
	tokens := Tokenize(text)
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if isFlag(tok) {
			if flagTakesValue(tok) {
				i++
			}
			continue
		}
		if !fn(tok) {
			return
		}
	}
}

// Validate reports whether every token of text matches the grammar and at
// least one token is audible. Flag compositions must also satisfy the
// channel grammar; a channel of rests is fine as long as another is audible.
func (p *Parser) Validate(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	if !HasFlags(text) {
		return p.validateNotes(text)
	}

	parsed, err := ParseChannels(text)
	if err != nil {
		return false
	}
	cp := p
	if parsed.BPM != nil {
		cp = NewParser(WithTempo(*parsed.BPM), WithLogger(p.logger))
	}
	audible := false
	for _, ch := range parsed.Channels {
		notes, err := cp.ParseNotes(ch.Composition)
		if err != nil {
			return false
		}
		audible = audible || hasAudible(notes)
	}
	return audible
}

func (p *Parser) validateNotes(text string) bool {
	notes, err := p.ParseNotes(text)
	return err == nil && hasAudible(notes)
}

func hasAudible(notes []Note) bool {
	for _, n := range notes {
		if !n.IsRest() {
			return true
		}
	}
	return false
}

var defaultParser = NewParser()

// ParseNote parses a token at DefaultBPM.
func ParseNote(token string) (Note, error) {
	return defaultParser.ParseNote(token)
}

// ParseComposition parses text at DefaultBPM, skipping invalid tokens.
func ParseComposition(text string) []Note {
	return defaultParser.ParseComposition(text)
}

// Validate checks text at DefaultBPM.
func Validate(text string) bool {
	return defaultParser.Validate(text)
}
