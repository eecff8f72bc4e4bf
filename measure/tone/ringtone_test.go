package tone_test

import (
	"bytes"
	"log/slog"
	"math"
	"testing"

	"github.com/cwbudde/algo-ringtone/measure/tone"
	"github.com/cwbudde/algo-ringtone/synth"
)

func analyzeComposition(t *testing.T, text string) tone.Result {
	t.Helper()
	engine := synth.NewEngine(synth.WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))

	buf, err := engine.Generate(text)
	if err != nil {
		t.Fatalf("Generate(%q) error = %v", text, err)
	}
	res, err := tone.Analyze(buf.Samples, buf.SampleRate)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	return res
}

func TestRenderedPitch(t *testing.T) {
	tests := []struct {
		text string
		want float64
	}{
		{text: "4a", want: 440},
		{text: "4a5", want: 880},
		{text: "4at", want: 440},
		{text: "2e", want: 329.63},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			res := analyzeComposition(t, tt.text)
			if math.Abs(res.Frequency-tt.want) > 2 {
				t.Fatalf("Frequency = %v, want %v", res.Frequency, tt.want)
			}
		})
	}
}

func TestRenderedLevel(t *testing.T) {
	res := analyzeComposition(t, "4a")
	if math.Abs(res.Peak-synth.Headroom) > 1e-12 {
		t.Fatalf("Peak = %v, want %v", res.Peak, synth.Headroom)
	}
	// a square wave's RMS equals its peak
	if math.Abs(res.RMS-synth.Headroom) > 1e-9 {
		t.Fatalf("RMS = %v, want %v", res.RMS, synth.Headroom)
	}
}

func TestWaveformHarmonics(t *testing.T) {
	square := analyzeComposition(t, "4aq")
	triangle := analyzeComposition(t, "4at")

	if square.THD < 0.3 || square.THD > 0.6 {
		t.Fatalf("square THD = %v, want about 0.45", square.THD)
	}
	if triangle.THD > 0.2 {
		t.Fatalf("triangle THD = %v, want about 0.12", triangle.THD)
	}
}

func TestMixedChannelsCanExceedFullScale(t *testing.T) {
	text := "--channel 4a --channel 4a --channel 4a --channel 4a --channel 4a --channel 4a"
	res := analyzeComposition(t, text)
	if res.Clipped == 0 {
		t.Fatal("Clipped = 0, want the unnormalized mix to exceed full scale")
	}
}
