// Command ringtone renders ringtone compositions to WAV files.
//
// Usage:
//
//	ringtone [flags] [composition ...]
//
// The composition is taken from -file or from the remaining arguments.
// Without a mode flag it is rendered to -o (ringtone.wav by default).
//
// Examples:
//
//	ringtone 4c 4e 4g 2c5
//	ringtone -o intro.wav "--bpm 140 --channel 4c 4e --channel --volume 0.3 2g"
//	ringtone -validate -file song.txt
//	ringtone -info -notes "8(c e g)t 4a5.7"
//	ringtone -repl
//
// Arguments starting with a double dash belong to the composition grammar and
// end command flag parsing.
//
// Settings are read from the environment and a .env file: RINGTONE_SAMPLE_RATE,
// RINGTONE_BPM, RINGTONE_LOG_LEVEL, SENTRY_DSN and SENTRY_ENVIRONMENT.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/cwbudde/algo-ringtone/compose"
	"github.com/cwbudde/algo-ringtone/internal/config"
	"github.com/cwbudde/algo-ringtone/synth"
)

const defaultOutput = "ringtone.wav"

var errNoComposition = errors.New("no composition given (pass it as arguments or use -file)")

type options struct {
	file      string
	output    string
	validate  bool
	info      bool
	notes     bool
	repl      bool
	bpm       int
	rate      int
	normalize float64
	verbose   bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("ringtone", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	fs.StringVar(&opts.file, "file", "", "read the composition from `path` (\"-\" for stdin)")
	fs.StringVar(&opts.output, "o", "", "write the rendered WAV to `path` (a directory for -repl takes)")
	fs.BoolVar(&opts.validate, "validate", false, "only check the composition")
	fs.BoolVar(&opts.info, "info", false, "print duration, level and pitch of the render")
	fs.BoolVar(&opts.notes, "notes", false, "list the parsed notes of every channel")
	fs.BoolVar(&opts.repl, "repl", false, "read compositions interactively")
	fs.IntVar(&opts.bpm, "bpm", 0, "default tempo when the composition has no --bpm (overrides RINGTONE_BPM)")
	fs.IntVar(&opts.rate, "rate", 0, "output sample rate in Hz (overrides RINGTONE_SAMPLE_RATE)")
	fs.Float64Var(&opts.normalize, "normalize", 0, "scale the render to this `peak` in (0,1]; 0 keeps the raw mix")
	fs.BoolVar(&opts.verbose, "v", false, "enable debug logging")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: ringtone [flags] [composition ...]\n\n")
		fmt.Fprintf(stderr, "Renders ringtone compositions to 16-bit mono WAV.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  ringtone 4c 4e 4g 2c5\n")
		fmt.Fprintf(stderr, "  ringtone -o intro.wav \"--bpm 140 --channel 4c 4e --channel 2g\"\n")
		fmt.Fprintf(stderr, "  ringtone -validate -file song.txt\n")
		fmt.Fprintf(stderr, "  ringtone -repl\n")
	}
	if err := fs.Parse(terminateFlags(args)); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	if opts.bpm != 0 && (opts.bpm < compose.MinBPM || opts.bpm > compose.MaxBPM) {
		fmt.Fprintf(stderr, "error: -bpm must be in [%d,%d]: %d\n", compose.MinBPM, compose.MaxBPM, opts.bpm)
		return 2
	}
	if opts.normalize < 0 || opts.normalize > 1 {
		fmt.Fprintf(stderr, "error: -normalize must be in [0,1]: %g\n", opts.normalize)
		return 2
	}
	if opts.rate < 0 {
		fmt.Fprintf(stderr, "error: -rate must be > 0: %d\n", opts.rate)
		return 2
	}
	if opts.bpm != 0 {
		cfg.BPM = opts.bpm
	}
	if opts.rate != 0 {
		cfg.SampleRate = opts.rate
	}
	if opts.verbose {
		cfg.LogLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	tel, err := newTelemetry(cfg, logger)
	if err != nil {
		logger.Warn("sentry disabled", "err", err)
	}
	defer tel.close()

	a := &app{
		engine: synth.NewEngine(
			synth.WithSampleRate(cfg.SampleRate),
			synth.WithTempo(cfg.BPM),
			synth.WithLogger(logger),
		),
		parser: compose.NewParser(compose.WithTempo(cfg.BPM), compose.WithLogger(logger)),
		logger: logger,
		styles: newStyles(),
		tel:    tel,
		out:    stdout,
		errOut: stderr,
	}

	ctx := context.Background()
	if opts.repl {
		if err := a.repl(ctx, stdin, opts.output); err != nil {
			a.fail(err)
			return 1
		}
		return 0
	}

	text, err := readComposition(opts.file, fs.Args(), stdin)
	if err != nil {
		a.fail(err)
		return 1
	}

	if err := a.execute(ctx, text, opts); err != nil {
		a.fail(err)
		return 1
	}
	return 0
}

// terminateFlags inserts "--" before the first composition flag so that
// "--bpm 140 4c" is read as composition text rather than command flags.
func terminateFlags(args []string) []string {
	for i, arg := range args {
		if arg == "--" {
			return args
		}
		if strings.HasPrefix(arg, "--") {
			out := make([]string, 0, len(args)+1)
			out = append(out, args[:i]...)
			out = append(out, "--")
			return append(out, args[i:]...)
		}
	}
	return args
}

func readComposition(path string, args []string, stdin io.Reader) (string, error) {
	switch path {
	case "":
		if len(args) == 0 {
			return "", errNoComposition
		}
		return strings.Join(args, " "), nil
	case "-":
		data, err := io.ReadAll(stdin)
		return string(data), err
	default:
		data, err := os.ReadFile(path)
		return string(data), err
	}
}
