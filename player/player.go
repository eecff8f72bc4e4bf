// Package player hands rendered compositions to an audio output backend.
package player

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/cwbudde/algo-ringtone/synth"
)

var ErrNilBackend = errors.New("backend is nil")

// Backend is the audio output capability. Implementations own device
// lifecycle, looping and threading; Play must not block for the duration of
// the sound.
type Backend interface {
	Play(samples []float32, sampleRate int, loop bool) error
	Stop() error
	IsPlaying() bool
}

// Composer renders compositions with an Engine and plays them on a Backend.
type Composer struct {
	engine  *synth.Engine
	backend Backend
	logger  *slog.Logger

	mu sync.Mutex
}

// Option configures a Composer.
type Option func(*Composer)

// WithLogger sets the logger for playback events.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Composer) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewComposer returns a Composer for backend. A nil engine selects
// synth.NewEngine().
func NewComposer(engine *synth.Engine, backend Backend, opts ...Option) (*Composer, error) {
	if backend == nil {
		return nil, ErrNilBackend
	}
	if engine == nil {
		engine = synth.NewEngine()
	}

	c := &Composer{
		engine:  engine,
		backend: backend,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// Play renders text and starts playback, stopping anything already playing.
// ctx is checked before rendering and again before hand-off to the backend.
func (c *Composer) Play(ctx context.Context, text string, loop bool) (synth.Buffer, error) {
	if err := ctx.Err(); err != nil {
		return synth.Buffer{}, err
	}

	buf, err := c.engine.Generate(text)
	if err != nil {
		return synth.Buffer{}, err
	}
	if buf.Len() == 0 {
		return synth.Buffer{}, synth.ErrNoValidNotes
	}

	if err := ctx.Err(); err != nil {
		return synth.Buffer{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.backend.IsPlaying() {
		if err := c.backend.Stop(); err != nil {
			return synth.Buffer{}, fmt.Errorf("stop previous playback: %w", err)
		}
	}
	if err := c.backend.Play(buf.Float32(), buf.SampleRate, loop); err != nil {
		return synth.Buffer{}, fmt.Errorf("play: %w", err)
	}

	c.logger.Info("playing composition",
		"samples", buf.Len(),
		"seconds", buf.Duration(),
		"loop", loop)
	return buf, nil
}

// Stop halts playback.
func (c *Composer) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.backend.Stop()
}

// IsPlaying reports whether the backend is producing sound.
func (c *Composer) IsPlaying() bool {
	return c.backend.IsPlaying()
}
