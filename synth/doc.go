// Package synth renders parsed ringtone compositions to mono PCM.
//
// An Engine turns notes into float64 samples in [-1, 1] at a fixed sample
// rate. Each note is a square, triangle, sawtooth or pulse tone with optional
// vibrato and ADSR shaping. Multi-channel compositions are rendered per
// channel and summed without normalization.
package synth
