// Package response characterizes a configured smoothing method at a nominal
// trigger rate.
//
// The smoothing filters are defined on irregular wall-clock intervals, but
// their steady behavior under a uniform tick is what users reason about when
// choosing tau or window length. Analyze synthesizes the impulse response on
// a uniform grid, derives the magnitude response by FFT, and estimates the
// -3 dB cutoff and the step-response settling time.
package response

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-smooth/filter/method"
)

const (
	defaultFFTSize     = 4096
	settlingTolerance  = 0.01
	maxSettlingTicks   = 1 << 20
	halfPowerMagnitude = 0.7071067811865476 // 1/sqrt(2)
)

// Config selects the method and the nominal tick rate to analyze.
type Config struct {
	Method        method.Kind
	TauSeconds    float64
	WindowSeconds float64

	// TickSeconds is the uniform trigger interval used for synthesis.
	TickSeconds float64

	// FFTSize is the analysis length; it must be a power of two.
	// Zero selects the default of 4096.
	FFTSize int
}

// Result holds the analysis of one method configuration.
type Result struct {
	// TickSeconds echoes the analyzed trigger interval.
	TickSeconds float64

	// Frequencies holds the analyzed bins in Hz, DC through Nyquist.
	Frequencies []float64

	// Magnitude holds the linear gain per bin.
	Magnitude []float64

	// CutoffHz is the estimated -3 dB frequency, 0 when the response never
	// drops below half power within the analyzed band.
	CutoffHz float64

	// SettlingSeconds is the time for the step response to stay within 1%
	// of its final value, 0 when it does not settle within the analysis cap.
	SettlingSeconds float64
}

// Analyze computes the frequency and step response of the configured
// method. The integrator is rejected: it reports interval integrals, not a
// steady-state gain, so a frequency response is not meaningful for it.
func Analyze(cfg Config) (Result, error) {
	if cfg.TickSeconds <= 0 || math.IsNaN(cfg.TickSeconds) || math.IsInf(cfg.TickSeconds, 0) {
		return Result{}, fmt.Errorf("response: tick must be positive and finite: %f", cfg.TickSeconds)
	}

	if cfg.Method == method.KindIntegrator {
		return Result{}, fmt.Errorf("response: integrator has no steady-state frequency response")
	}

	fftSize := cfg.FFTSize
	if fftSize == 0 {
		fftSize = defaultFFTSize
	}

	if fftSize < 2 || fftSize&(fftSize-1) != 0 {
		return Result{}, fmt.Errorf("response: fft size must be a power of two >= 2: %d", fftSize)
	}

	impulse, err := impulseResponse(cfg, fftSize)
	if err != nil {
		return Result{}, err
	}

	mags, err := magnitudeSpectrum(impulse, fftSize)
	if err != nil {
		return Result{}, err
	}

	binCount := fftSize/2 + 1
	sampleRate := 1.0 / cfg.TickSeconds

	freqs := make([]float64, binCount)
	for i := range freqs {
		freqs[i] = float64(i) * sampleRate / float64(fftSize)
	}

	settling, err := settlingTime(cfg)
	if err != nil {
		return Result{}, err
	}

	return Result{
		TickSeconds:     cfg.TickSeconds,
		Frequencies:     freqs,
		Magnitude:       mags,
		CutoffHz:        cutoffFrequency(freqs, mags),
		SettlingSeconds: settling,
	}, nil
}

func newStrategy(cfg Config) (method.Strategy, error) {
	param := cfg.TauSeconds
	if cfg.Method == method.KindTimeSMA {
		param = cfg.WindowSeconds
	}

	strat, err := method.New(cfg.Method, param)
	if err != nil {
		return nil, fmt.Errorf("response: %w", err)
	}

	return strat, nil
}

// impulseResponse drives a fresh strategy with a unit impulse on the
// uniform tick grid, after initializing the first-sample state at zero so
// the init-to-first-value behavior does not masquerade as gain.
func impulseResponse(cfg Config, n int) ([]float64, error) {
	strat, err := newStrategy(cfg)
	if err != nil {
		return nil, err
	}

	strat.Step(0, 0, 0)

	h := make([]float64, n)
	prev := 0.0

	for k := 0; k < n; k++ {
		x := 0.0
		if k == 0 {
			x = 1
		}

		h[k] = strat.Step(prev, x, cfg.TickSeconds)
		prev = x
	}

	return h, nil
}

func magnitudeSpectrum(h []float64, fftSize int) ([]float64, error) {
	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("response: %w", err)
	}

	in := make([]complex128, fftSize)
	for i, v := range h {
		in[i] = complex(v, 0)
	}

	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return nil, fmt.Errorf("response: %w", err)
	}

	binCount := fftSize/2 + 1
	re := make([]float64, binCount)
	im := make([]float64, binCount)

	for i := 0; i < binCount; i++ {
		re[i] = real(out[i])
		im[i] = imag(out[i])
	}

	mags := make([]float64, binCount)
	vecmath.Magnitude(mags, re, im)

	return mags, nil
}

// cutoffFrequency estimates the -3 dB point relative to the DC gain by
// linear interpolation between the straddling bins.
func cutoffFrequency(freqs, mags []float64) float64 {
	if len(mags) == 0 || mags[0] <= 0 {
		return 0
	}

	target := mags[0] * halfPowerMagnitude

	for i := 1; i < len(mags); i++ {
		if mags[i] > target {
			continue
		}

		prev := mags[i-1]
		if prev <= mags[i] {
			return freqs[i]
		}

		frac := (prev - target) / (prev - mags[i])

		return freqs[i-1] + frac*(freqs[i]-freqs[i-1])
	}

	return 0
}

// settlingTime runs the step response until the output stays within the
// tolerance of the final value 1.
func settlingTime(cfg Config) (float64, error) {
	strat, err := newStrategy(cfg)
	if err != nil {
		return 0, err
	}

	strat.Step(0, 0, 0)

	prev := 0.0

	for k := 1; k <= maxSettlingTicks; k++ {
		y := strat.Step(prev, 1, cfg.TickSeconds)
		prev = 1

		if math.Abs(y-1) <= settlingTolerance {
			return float64(k) * cfg.TickSeconds, nil
		}
	}

	return 0, nil
}
