package method

import (
	"errors"
	"fmt"
	"math"
)

// Kind identifies a smoothing method.
type Kind int

const (
	// KindEMA is the exponentially weighted moving average.
	KindEMA Kind = iota
	// KindLowpass is the single-pole lowpass filter. It shares the EMA
	// transfer function; the two names exist for user familiarity only.
	KindLowpass
	// KindIntegrator accumulates value*seconds between emissions.
	KindIntegrator
	// KindTimeSMA is the duration-weighted simple moving average over a
	// trailing time window.
	KindTimeSMA
)

// ErrUnknownKind is returned for method names outside the supported set.
var ErrUnknownKind = errors.New("unknown method kind")

// String returns the configuration spelling of the kind.
func (k Kind) String() string {
	switch k {
	case KindEMA:
		return "ema"
	case KindLowpass:
		return "lowpass"
	case KindIntegrator:
		return "integrator"
	case KindTimeSMA:
		return "time_sma"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind maps a configuration spelling to its Kind.
func ParseKind(name string) (Kind, error) {
	switch name {
	case "ema":
		return KindEMA, nil
	case "lowpass":
		return KindLowpass, nil
	case "integrator":
		return KindIntegrator, nil
	case "time_sma":
		return KindTimeSMA, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
	}
}

// Strategy is the per-method transfer function owned by a filter engine.
//
// Seed records the value observed before the first trigger. The TimeSMA
// keeps it in the window so the time it was held carries weight once later
// samples arrive; the EMA and the integrator account for the seed through
// the held-value mechanics of Step and ignore Seed.
//
// Step advances the filter by elapsed seconds ending now. held is the raw
// value that was in effect during the interval; next is the value effective
// from now on (the new sample, or the held value again on a fallback tick).
// elapsed is never negative; elapsed == 0 leaves state and output unchanged
// except for first-sample initialization. Step returns the new output.
//
// Flush is invoked after the engine has reported the output to its
// collaborator. The integrator zeroes its accumulator there so that each
// report covers only the interval since the previous one; the other methods
// are unchanged by Flush.
type Strategy interface {
	Seed(value float64)
	Step(held, next, elapsed float64) float64
	Output() float64
	Flush()
	Reset()
	Kind() Kind
}

// New constructs the strategy for kind. param is tau_seconds for
// KindEMA/KindLowpass and window_seconds for KindTimeSMA; KindIntegrator
// takes no parameter and ignores it.
func New(kind Kind, param float64) (Strategy, error) {
	switch kind {
	case KindEMA:
		return NewEMA(param)
	case KindLowpass:
		return NewLowpass(param)
	case KindIntegrator:
		return NewIntegrator(), nil
	case KindTimeSMA:
		return NewTimeSMA(param)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(kind))
	}
}

func isFinite(v float64) bool {
	return !(math.IsNaN(v) || math.IsInf(v, 0))
}
