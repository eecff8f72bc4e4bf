package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"

	"gitlab.com/gomidi/midi/v2"

	"github.com/cwbudde/algo-ringtone/compose"
	"github.com/cwbudde/algo-ringtone/measure/tone"
	"github.com/cwbudde/algo-ringtone/pcm"
	"github.com/cwbudde/algo-ringtone/synth"
)

var (
	errInvalidComposition = errors.New("composition is invalid")
	errSilentComposition  = errors.New("composition has no audible notes")
)

type app struct {
	engine *synth.Engine
	parser *compose.Parser
	logger *slog.Logger
	styles styles
	tel    *telemetry
	out    io.Writer
	errOut io.Writer
}

func (a *app) execute(ctx context.Context, text string, opts options) error {
	if opts.validate {
		return a.validate(text)
	}

	if opts.notes {
		if err := a.listNotes(text); err != nil {
			return err
		}
	}

	output := opts.output
	if output == "" && !opts.info && !opts.notes {
		output = defaultOutput
	}
	if output == "" && !opts.info {
		return nil
	}

	buf, err := a.render(ctx, text)
	if err != nil {
		return err
	}
	if opts.normalize > 0 {
		if buf, err = buf.Normalize(opts.normalize); err != nil {
			return err
		}
	}

	if opts.info {
		if err := a.printInfo(buf); err != nil {
			return err
		}
	}
	if output != "" {
		return a.write(output, buf)
	}
	return nil
}

func (a *app) render(ctx context.Context, text string) (synth.Buffer, error) {
	var buf synth.Buffer
	err := a.tel.trace(ctx, "ringtone.render", text, func(context.Context) (map[string]any, error) {
		var err error
		buf, err = a.engine.Generate(text)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"samples":     buf.Len(),
			"sample_rate": buf.SampleRate,
			"seconds":     buf.Duration(),
		}, nil
	})
	if err != nil {
		return synth.Buffer{}, fmt.Errorf("render: %w", err)
	}
	return buf, nil
}

func (a *app) write(path string, buf synth.Buffer) error {
	if err := pcm.WriteFile(path, buf); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	a.logger.Debug("wrote wav", "path", path, "samples", buf.Len())
	fmt.Fprintln(a.out, a.styles.ok.Render("wrote")+" "+path+
		a.styles.muted.Render(fmt.Sprintf(" (%.2fs)", buf.Duration())))
	return nil
}

func (a *app) validate(text string) error {
	if a.parser.Validate(text) {
		fmt.Fprintln(a.out, a.styles.ok.Render("valid"))
		return nil
	}

	reason := diagnose(a.parser, text)
	fmt.Fprintln(a.out, a.styles.err.Render("invalid")+": "+reason.Error())
	return errInvalidComposition
}

// diagnose explains why Validate rejected text.
func diagnose(p *compose.Parser, text string) error {
	if strings.TrimSpace(text) == "" {
		return compose.ErrEmptyComposition
	}
	if !compose.HasFlags(text) {
		if _, err := p.ParseNotes(text); err != nil {
			return err
		}
		return errSilentComposition
	}

	parsed, err := compose.ParseChannels(text)
	if err != nil {
		return err
	}
	if parsed.BPM != nil {
		p = compose.NewParser(compose.WithTempo(*parsed.BPM))
	}
	for i, ch := range parsed.Channels {
		if _, err := p.ParseNotes(ch.Composition); err != nil {
			return fmt.Errorf("channel %d: %w", i+1, err)
		}
	}
	return errSilentComposition
}

func (a *app) listNotes(text string) error {
	parsed, err := compose.ParseChannels(text)
	if err != nil {
		return err
	}
	p := a.parser
	if parsed.BPM != nil {
		p = compose.NewParser(compose.WithTempo(*parsed.BPM), compose.WithLogger(a.logger))
	}

	for i, ch := range parsed.Channels {
		notes, err := p.ParseNotes(ch.Composition)
		if err != nil {
			return fmt.Errorf("channel %d: %w", i+1, err)
		}
		fmt.Fprintln(a.out, a.styles.title.Render(channelHeader(i, ch, p.Tempo())))
		for j, n := range notes {
			n = n.WithChannel(ch)
			fmt.Fprintf(a.out, "  %3d  %-12s %6.3fs  %-8s %.1f%s\n",
				j+1, describePitch(n), n.Duration, n.Waveform, n.Volume, effects(n))
		}
	}
	return nil
}

func channelHeader(i int, ch compose.Channel, bpm int) string {
	h := fmt.Sprintf("channel %d @ %d bpm", i+1, bpm)
	if ch.Volume != nil {
		h += fmt.Sprintf(" volume %.2f", *ch.Volume)
	}
	return h
}

func describePitch(n compose.Note) string {
	switch {
	case n.IsArpeggio():
		names := make([]string, len(n.Arpeggio))
		for i, p := range n.Arpeggio {
			names[i] = noteName(p)
		}
		return "(" + strings.Join(names, " ") + ")"
	case n.Pitch != nil:
		return noteName(*n.Pitch)
	default:
		return "rest"
	}
}

func effects(n compose.Note) string {
	var s string
	if n.ADSR {
		s += " adsr"
	}
	if n.Vibrato {
		s += " vibrato"
	}
	return s
}

func noteName(pitch int) string {
	return midi.Note(uint8(pitch)).String()
}

// nearestPitch returns the MIDI note closest to freq.
func nearestPitch(freq float64) int {
	if freq <= 0 {
		return 0
	}
	m := int(math.Round(69 + 12*math.Log2(freq/440)))
	return max(0, min(127, m))
}

func (a *app) printInfo(buf synth.Buffer) error {
	res, err := tone.Analyze(buf.Samples, buf.SampleRate)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	s := a.styles
	fmt.Fprintln(a.out, s.field("duration", fmt.Sprintf("%.3fs (%d samples @ %d Hz)", res.Duration, res.Samples, buf.SampleRate)))
	if res.Silent() {
		fmt.Fprintln(a.out, s.field("level", "silent"))
		return nil
	}
	fmt.Fprintln(a.out, s.field("peak", fmt.Sprintf("%.3f (%.1f dBFS)", res.Peak, res.PeakDB())))
	fmt.Fprintln(a.out, s.field("rms", fmt.Sprintf("%.3f (%.1f dBFS)", res.RMS, res.RMSDB())))
	fmt.Fprintln(a.out, s.field("pitch", fmt.Sprintf("%.1f Hz (%s)", res.Frequency, noteName(nearestPitch(res.Frequency)))))
	fmt.Fprintln(a.out, s.field("thd", fmt.Sprintf("%.1f%%", res.THD*100)))
	if res.Clipped > 0 {
		fmt.Fprintln(a.out, s.warn.Render(fmt.Sprintf("warning: %d samples exceed full scale and will clip", res.Clipped)))
	}
	return nil
}

func (a *app) fail(err error) {
	a.logger.Debug("command failed", "err", err)
	if errors.Is(err, errInvalidComposition) {
		return
	}
	a.tel.capture(err)
	fmt.Fprintln(a.errOut, a.styles.err.Render("error:")+" "+err.Error())
}
