package compose

import "strings"

// scanner walks a single token byte by byte.
type scanner struct {
	src string
	pos int
}

func (sc *scanner) eof() bool {
	return sc.pos >= len(sc.src)
}

// peek returns the current byte or 0 at the end of input.
func (sc *scanner) peek() byte {
	if sc.eof() {
		return 0
	}
	return sc.src[sc.pos]
}

func (sc *scanner) digits() string {
	start := sc.pos
	for !sc.eof() && isDigit(sc.src[sc.pos]) {
		sc.pos++
	}
	return sc.src[start:sc.pos]
}

func (sc *scanner) skipSpace() {
	for !sc.eof() && isSpace(sc.src[sc.pos]) {
		sc.pos++
	}
}

// pitch reads [#]letter[#][octave] and returns the MIDI note number. The
// postfix sharp is only accepted for standalone notes; inside an arpeggio
// "c#e" would be ambiguous.
func (sc *scanner) pitch(postfixSharp bool) (int, error) {
	sharp := false
	if sc.peek() == '#' {
		sharp = true
		sc.pos++
	}
	if sc.eof() {
		return 0, tokenError(sc.src, sc.pos, ErrInvalidNoteLetter)
	}
	letter := lower(sc.src[sc.pos])
	if _, ok := semitones[letter]; !ok {
		return 0, tokenError(sc.src, sc.pos, ErrInvalidNoteLetter)
	}
	sc.pos++
	if postfixSharp && !sharp && sc.peek() == '#' {
		sharp = true
		sc.pos++
	}

	octave := DefaultOctave
	if d := sc.digits(); d != "" {
		octave = 0
		for i := 0; i < len(d) && octave <= maxOctave; i++ {
			octave = octave*10 + int(d[i]-'0')
		}
	}
	return MIDINumber(letter, octave, sharp), nil
}

// modifiers reads the optional waveform letter and ".N" volume that close a
// token, and requires the token to end afterwards.
func (sc *scanner) modifiers() (Waveform, float64, error) {
	waveform := Square
	volume := DefaultVolume

	if w, ok := waveformFor(sc.peek()); ok {
		waveform = w
		sc.pos++
	}
	if sc.peek() == '.' {
		sc.pos++
		if !isDigit(sc.peek()) {
			return Square, 0, tokenError(sc.src, sc.pos, ErrUnexpectedCharacter)
		}
		volume = float64(sc.src[sc.pos]-'0') / 10
		sc.pos++
	}
	if !sc.eof() {
		return Square, 0, tokenError(sc.src, sc.pos, ErrUnexpectedCharacter)
	}
	return waveform, volume, nil
}

// Tokenize splits text on whitespace, rejoining the fields of a parenthesized
// group so that "4(c e g)" stays a single token. A group is only rejoined when
// its closing parenthesis is found before the next flag; otherwise the fields
// are kept apart and each is parsed on its own.
func Tokenize(text string) []string {
	fields := strings.Fields(text)
	tokens := make([]string, 0, len(fields))
	for i := 0; i < len(fields); {
		depth := parenDepth(0, fields[i])
		if depth == 0 || isFlag(fields[i]) {
			tokens = append(tokens, fields[i])
			i++
			continue
		}

		j := i + 1
		for j < len(fields) && depth > 0 && !isFlag(fields[j]) {
			depth = parenDepth(depth, fields[j])
			j++
		}
		if depth > 0 {
			tokens = append(tokens, fields[i])
			i++
			continue
		}
		tokens = append(tokens, strings.Join(fields[i:j], " "))
		i = j
	}
	return tokens
}

func parenDepth(depth int, field string) int {
	for k := 0; k < len(field); k++ {
		switch field[k] {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		}
	}
	return depth
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
