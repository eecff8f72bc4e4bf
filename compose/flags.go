package compose

import (
	"strconv"
	"strings"
)

const (
	flagChannel = "--channel"
	flagVolume  = "--volume"
	flagBPM     = "--bpm"
	flagADSR    = "--adsr"
	flagVibrato = "--vibrato"
)

func isFlag(tok string) bool {
	return strings.HasPrefix(tok, "--")
}

func flagTakesValue(tok string) bool {
	return tok == flagVolume || tok == flagBPM
}

// HasFlags reports whether text uses the multi-channel flag grammar.
func HasFlags(text string) bool {
	for _, tok := range Tokenize(text) {
		if isFlag(tok) {
			return true
		}
	}
	return false
}

type channelFlags struct {
	volume  *float64
	adsr    bool
	vibrato bool
}

// ParseChannels partitions text into channels in a single left-to-right scan.
//
// Flags seen while a --channel is open apply to that channel only; all other
// flags are global. --bpm is always global and the last one wins. Errors are
// *ParseError values whose Pos is the index of the offending token.
func ParseChannels(text string) (ParsedComposition, error) {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return ParsedComposition{}, ErrEmptyComposition
	}

	var (
		out     ParsedComposition
		global  channelFlags
		pending channelFlags
		open    bool
	)
	target := func() *channelFlags {
		if open {
			return &pending
		}
		return &global
	}

	for i := 0; i < len(tokens); {
		tok := tokens[i]
		if !isFlag(tok) {
			j := i
			for j < len(tokens) && !isFlag(tokens[j]) {
				j++
			}
			ch := Channel{
				Composition: strings.Join(tokens[i:j], " "),
				Volume:      cloneFloat(global.volume),
				ADSR:        global.adsr,
				Vibrato:     global.vibrato,
			}
			if open {
				if pending.volume != nil {
					ch.Volume = cloneFloat(pending.volume)
				}
				ch.ADSR = ch.ADSR || pending.adsr
				ch.Vibrato = ch.Vibrato || pending.vibrato
				open = false
			}
			out.Channels = append(out.Channels, ch)
			i = j
			continue
		}

		switch tok {
		case flagVolume:
			vol, err := parseVolume(tokens, i)
			if err != nil {
				return ParsedComposition{}, err
			}
			target().volume = &vol
			i += 2
		case flagBPM:
			bpm, err := parseBPM(tokens, i)
			if err != nil {
				return ParsedComposition{}, err
			}
			out.BPM = &bpm
			i += 2
		case flagADSR:
			target().adsr = true
			i++
		case flagVibrato:
			target().vibrato = true
			i++
		case flagChannel:
			if open {
				return ParsedComposition{}, tokenError(tok, i, ErrEmptyChannel)
			}
			open = true
			pending = channelFlags{}
			out.Explicit = true
			i++
		default:
			return ParsedComposition{}, tokenError(tok, i, ErrUnknownFlag)
		}
	}

	if open {
		return ParsedComposition{}, tokenError(flagChannel, len(tokens)-1, ErrEmptyChannel)
	}
	if len(out.Channels) == 0 {
		return ParsedComposition{}, ErrNoChannels
	}
	return out, nil
}

func parseVolume(tokens []string, i int) (float64, error) {
	if i+1 >= len(tokens) {
		return 0, tokenError(flagVolume, i, ErrInvalidVolume)
	}
	if !isDecimal(tokens[i+1]) {
		return 0, tokenError(tokens[i+1], i+1, ErrInvalidVolume)
	}
	vol, err := strconv.ParseFloat(tokens[i+1], 64)
	if err != nil || vol > 1 {
		return 0, tokenError(tokens[i+1], i+1, ErrInvalidVolume)
	}
	return vol, nil
}

// isDecimal accepts plain decimals such as "1", "0.5" or ".3".
func isDecimal(s string) bool {
	digits, dots := 0, 0
	for k := 0; k < len(s); k++ {
		switch {
		case isDigit(s[k]):
			digits++
		case s[k] == '.':
			dots++
		default:
			return false
		}
	}
	return digits > 0 && dots <= 1
}

func parseBPM(tokens []string, i int) (int, error) {
	if i+1 >= len(tokens) {
		return 0, tokenError(flagBPM, i, ErrInvalidBPM)
	}
	bpm, err := strconv.Atoi(tokens[i+1])
	if err != nil || bpm < MinBPM || bpm > MaxBPM {
		return 0, tokenError(tokens[i+1], i+1, ErrInvalidBPM)
	}
	return bpm, nil
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
