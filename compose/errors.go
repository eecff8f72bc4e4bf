package compose

import (
	"errors"
	"fmt"
)

var (
	ErrMissingDuration      = errors.New("missing duration")
	ErrInvalidDuration      = errors.New("duration must be > 0")
	ErrInvalidNoteLetter    = errors.New("invalid note letter")
	ErrUnterminatedArpeggio = errors.New("missing closing parenthesis in arpeggio")
	ErrEmptyArpeggio        = errors.New("empty arpeggio")
	ErrUnexpectedCharacter  = errors.New("unexpected character")
	ErrInvalidVolume        = errors.New("volume must be a number in [0,1]")
	ErrInvalidBPM           = errors.New("bpm must be an integer in [1,300]")
	ErrEmptyChannel         = errors.New("channel has no composition")
	ErrNoChannels           = errors.New("no channels or compositions found")
	ErrUnknownFlag          = errors.New("unknown flag")
	ErrEmptyComposition     = errors.New("empty composition")
)

// ParseError reports where a token or flag failed to parse.
// Err is always one of the package sentinel errors.
type ParseError struct {
	Token string
	Pos   int
	Err   error
}

func (e *ParseError) Error() string {
	if e.Token == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s in %q at offset %d", e.Err, e.Token, e.Pos)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func tokenError(token string, pos int, err error) error {
	return &ParseError{Token: token, Pos: pos, Err: err}
}
