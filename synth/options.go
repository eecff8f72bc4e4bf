package synth

import (
	"log/slog"

	"github.com/cwbudde/algo-ringtone/compose"
)

// DefaultSampleRate is the output rate in Hz.
const DefaultSampleRate = 48000

// Config defines engine settings.
type Config struct {
	SampleRate int
	Tempo      int
	Logger     *slog.Logger
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns a 48 kHz engine at 120 BPM.
func DefaultConfig() Config {
	return Config{
		SampleRate: DefaultSampleRate,
		Tempo:      compose.DefaultBPM,
	}
}

// WithSampleRate sets the output sample rate.
func WithSampleRate(sampleRate int) Option {
	return func(cfg *Config) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithTempo sets the default tempo used when a composition carries no --bpm.
func WithTempo(bpm int) Option {
	return func(cfg *Config) {
		if bpm >= compose.MinBPM && bpm <= compose.MaxBPM {
			cfg.Tempo = bpm
		}
	}
}

// WithLogger sets the logger for skipped tokens and render diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *Config) {
		if logger != nil {
			cfg.Logger = logger
		}
	}
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return cfg
}
