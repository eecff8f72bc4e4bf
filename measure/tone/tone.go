// Package tone measures level and pitch of a rendered ringtone.
package tone

import (
	"errors"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-ringtone/dsp/window"
	"github.com/cwbudde/algo-vecmath"
)

const (
	defaultMaxFFTSize   = 1 << 16
	defaultCaptureBins  = 4
	defaultMaxHarmonics = 16
)

var (
	ErrEmptySignal       = errors.New("signal is empty")
	ErrInvalidSampleRate = errors.New("sample rate must be > 0")
)

// Config holds analysis parameters. Zero values select defaults.
type Config struct {
	// MaxFFTSize bounds the analysis window; longer signals are truncated.
	MaxFFTSize int
	// CaptureBins is the half-width in bins summed around each partial.
	CaptureBins int
	// MaxHarmonics limits the partials counted for THD.
	MaxHarmonics int
	// Window tapers the analysis frame. Zero selects Hann.
	Window window.Type
}

// Result holds level and spectral measurements of a signal.
type Result struct {
	Samples  int
	Duration float64 // seconds
	Peak     float64
	RMS      float64
	// Clipped counts samples whose magnitude exceeds full scale.
	Clipped int
	// Frequency is the dominant spectral peak in Hz, 0 for silence.
	Frequency float64
	// THD is the harmonic-to-fundamental amplitude ratio of the dominant tone.
	THD float64
}

// Silent reports whether the signal has no energy.
func (r Result) Silent() bool {
	return r.Peak == 0
}

// PeakDB returns the peak level in dBFS, or -Inf for silence.
func (r Result) PeakDB() float64 {
	return 20 * math.Log10(r.Peak)
}

// RMSDB returns the RMS level in dBFS, or -Inf for silence.
func (r Result) RMSDB() float64 {
	return 20 * math.Log10(r.RMS)
}

// Analyze measures signal with the default Config.
func Analyze(signal []float64, sampleRate int) (Result, error) {
	return AnalyzeWithConfig(signal, sampleRate, Config{})
}

// AnalyzeWithConfig measures levels over the whole signal and pitch over its
// first MaxFFTSize samples.
func AnalyzeWithConfig(signal []float64, sampleRate int, cfg Config) (Result, error) {
	if len(signal) == 0 {
		return Result{}, ErrEmptySignal
	}
	if sampleRate <= 0 {
		return Result{}, ErrInvalidSampleRate
	}
	cfg = normalizeConfig(cfg)

	res := Result{
		Samples:  len(signal),
		Duration: float64(len(signal)) / float64(sampleRate),
		Peak:     vecmath.MaxAbs(signal),
	}

	sum := 0.0
	for _, v := range signal {
		sum += v * v
		if math.Abs(v) > 1 {
			res.Clipped++
		}
	}
	res.RMS = math.Sqrt(sum / float64(len(signal)))

	if res.Silent() {
		return res, nil
	}

	mag, fftSize, err := magnitudeSpectrum(signal, cfg.MaxFFTSize, cfg.Window)
	if err != nil {
		return Result{}, err
	}

	binHz := float64(sampleRate) / float64(fftSize)
	peakBin := interpolatePeak(mag, dominantBin(mag))
	res.Frequency = peakBin * binHz
	res.THD = harmonicDistortion(mag, peakBin, cfg)

	return res, nil
}

// magnitudeSpectrum returns the windowed magnitude spectrum [0..Nyquist].
func magnitudeSpectrum(signal []float64, maxSize int, win window.Type) ([]float64, int, error) {
	n := len(signal)
	if n > maxSize {
		n = maxSize
	}
	fftSize := nextPowerOf2(n)
	if fftSize < 2 {
		fftSize = 2
	}

	frame := make([]float64, n)
	copy(frame, signal[:n])
	window.Apply(win, frame)

	in := make([]complex128, fftSize)
	for i, v := range frame {
		in[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, 0, err
	}
	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return nil, 0, err
	}

	bins := fftSize/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)
	for i := range re {
		re[i] = real(out[i])
		im[i] = imag(out[i])
	}
	mag := make([]float64, bins)
	vecmath.Magnitude(mag, re, im)
	return mag, fftSize, nil
}

// dominantBin skips DC.
func dominantBin(mag []float64) int {
	best := 1
	for i := 2; i < len(mag); i++ {
		if mag[i] > mag[best] {
			best = i
		}
	}
	return best
}

// interpolatePeak refines bin k with a parabola through its neighbours.
func interpolatePeak(mag []float64, k int) float64 {
	if k <= 0 || k >= len(mag)-1 {
		return float64(k)
	}
	a, b, c := mag[k-1], mag[k], mag[k+1]
	den := a - 2*b + c
	if den == 0 {
		return float64(k)
	}
	return float64(k) + 0.5*(a-c)/den
}

func harmonicDistortion(mag []float64, peakBin float64, cfg Config) float64 {
	fundamental := int(math.Round(peakBin))
	capture := cfg.CaptureBins
	if capture*2 > fundamental {
		capture = fundamental / 2
	}

	fund := binEnergy(mag, fundamental, capture)
	if fund <= 0 {
		return 0
	}

	harm := 0.0
	for k := 2; k <= cfg.MaxHarmonics; k++ {
		bin := int(math.Round(float64(k) * peakBin))
		if bin >= len(mag) {
			break
		}
		harm += binEnergy(mag, bin, capture)
	}
	return math.Sqrt(harm / fund)
}

func binEnergy(mag []float64, center, halfWidth int) float64 {
	lo := max(center-halfWidth, 0)
	hi := min(center+halfWidth, len(mag)-1)
	sum := 0.0
	for i := lo; i <= hi; i++ {
		sum += mag[i] * mag[i]
	}
	return sum
}

func normalizeConfig(cfg Config) Config {
	if cfg.MaxFFTSize <= 1 {
		cfg.MaxFFTSize = defaultMaxFFTSize
	}
	if cfg.CaptureBins <= 0 {
		cfg.CaptureBins = defaultCaptureBins
	}
	if cfg.MaxHarmonics < 2 {
		cfg.MaxHarmonics = defaultMaxHarmonics
	}
	if cfg.Window == window.TypeRectangular {
		cfg.Window = window.TypeHann
	}
	return cfg
}

func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}

	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
