package method

import (
	"fmt"
	"math"
)

// EMA is a single-pole exponentially weighted filter with an elapsed-time
// dependent decay factor: alpha = 1 - exp(-elapsed/tau). It smooths noise
// while tracking a drifting signal, and stays correct across irregular
// update intervals.
type EMA struct {
	kind        Kind
	tau         float64
	y           float64
	initialized bool
}

// NewEMA returns an EMA with the given time constant in seconds.
func NewEMA(tauSeconds float64) (*EMA, error) {
	return newEMA(KindEMA, tauSeconds)
}

// NewLowpass returns a single-pole lowpass filter. The transfer function is
// identical to [NewEMA]; only the reported kind differs.
func NewLowpass(tauSeconds float64) (*EMA, error) {
	return newEMA(KindLowpass, tauSeconds)
}

func newEMA(kind Kind, tauSeconds float64) (*EMA, error) {
	if tauSeconds <= 0 || !isFinite(tauSeconds) {
		return nil, fmt.Errorf("%s: tau must be positive and finite: %f", kind, tauSeconds)
	}

	return &EMA{kind: kind, tau: tauSeconds}, nil
}

// Seed is a no-op: the first processed sample initializes the output, so
// the filter starts from the first post-seed value rather than the seed.
func (f *EMA) Seed(float64) {}

// Step advances the filter toward next. The first-ever sample initializes
// the output to next with no decay applied; a later step with elapsed == 0
// leaves the output unchanged (alpha is exactly zero).
func (f *EMA) Step(_, next, elapsed float64) float64 {
	if !f.initialized {
		f.y = next
		f.initialized = true

		return f.y
	}

	if elapsed <= 0 {
		return f.y
	}

	alpha := 1.0 - math.Exp(-elapsed/f.tau)
	f.y += alpha * (next - f.y)

	return f.y
}

// Output returns the current smoothed value.
func (f *EMA) Output() float64 { return f.y }

// Flush is a no-op for the EMA.
func (f *EMA) Flush() {}

// Reset clears filter state; the next Step re-initializes.
func (f *EMA) Reset() {
	f.y = 0
	f.initialized = false
}

// Kind reports the configured spelling (ema or lowpass).
func (f *EMA) Kind() Kind { return f.kind }

// Tau returns the time constant in seconds.
func (f *EMA) Tau() float64 { return f.tau }
