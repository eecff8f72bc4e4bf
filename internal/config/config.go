// Package config loads command settings from the environment and .env files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/cwbudde/algo-ringtone/compose"
	"github.com/cwbudde/algo-ringtone/synth"
)

const (
	EnvSampleRate        = "RINGTONE_SAMPLE_RATE"
	EnvBPM               = "RINGTONE_BPM"
	EnvLogLevel          = "RINGTONE_LOG_LEVEL"
	EnvSentryDSN         = "SENTRY_DSN"
	EnvSentryEnvironment = "SENTRY_ENVIRONMENT"

	defaultEnvFile = ".env"
)

// Config holds settings for cmd/ringtone.
type Config struct {
	SampleRate        int
	BPM               int
	LogLevel          slog.Level
	SentryDSN         string
	SentryEnvironment string
}

// Default returns 48 kHz, 120 BPM and info logging with Sentry disabled.
func Default() Config {
	return Config{
		SampleRate:        synth.DefaultSampleRate,
		BPM:               compose.DefaultBPM,
		LogLevel:          slog.LevelInfo,
		SentryEnvironment: "development",
	}
}

// Load reads files (".env" when none are given) and then the process
// environment, which takes precedence. Missing files are skipped.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{defaultEnvFile}
	}

	values := map[string]string{}
	for _, f := range files {
		m, err := godotenv.Read(f)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return Config{}, fmt.Errorf("read %s: %w", f, err)
		}
		for k, v := range m {
			values[k] = v
		}
	}

	return FromLookup(func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := values[key]
		return v, ok
	})
}

// FromLookup builds a Config from a key lookup such as os.LookupEnv.
// Unset or blank keys keep their defaults.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get(EnvSampleRate); ok {
		rate, err := strconv.Atoi(v)
		if err != nil || rate <= 0 {
			return Config{}, fmt.Errorf("%s must be a positive integer: %q", EnvSampleRate, v)
		}
		cfg.SampleRate = rate
	}

	if v, ok := get(EnvBPM); ok {
		bpm, err := strconv.Atoi(v)
		if err != nil || bpm < compose.MinBPM || bpm > compose.MaxBPM {
			return Config{}, fmt.Errorf("%s must be an integer in [%d,%d]: %q",
				EnvBPM, compose.MinBPM, compose.MaxBPM, v)
		}
		cfg.BPM = bpm
	}

	if v, ok := get(EnvLogLevel); ok {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvLogLevel, err)
		}
	}

	if v, ok := get(EnvSentryDSN); ok {
		cfg.SentryDSN = v
	}
	if v, ok := get(EnvSentryEnvironment); ok {
		cfg.SentryEnvironment = v
	}

	return cfg, nil
}

// SentryEnabled reports whether a Sentry DSN is configured.
func (c Config) SentryEnabled() bool {
	return c.SentryDSN != ""
}
