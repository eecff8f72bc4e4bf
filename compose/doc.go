// Package compose parses the ringtone composition grammar.
//
// A composition is a whitespace-separated list of note tokens:
//
//	<duration><arpeggio|note>[octave][waveform][.volume]
//
// where duration divides a whole note (4 = quarter), a note is an optional
// sharp and a letter a-g, a rest is "-", an arpeggio is a parenthesized list of
// pitches such as "(c e g)", the waveform is one of q (square), t (triangle),
// s (sawtooth) or p (pulse) and the volume is a single digit in tenths.
//
// Compositions may also carry flags that group tokens into channels:
//
//	--bpm 140 --volume 0.5 --channel 4c 4e --channel --adsr 4g 4b
//
// Note parsing is lenient (bad tokens are logged and dropped) while the flag
// grammar is strict and returns a *ParseError.
package compose
