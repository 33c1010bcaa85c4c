package filter

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-smooth/filter/method"
)

// Config defines one smoothing filter.
type Config struct {
	// Method selects the transfer function.
	Method method.Kind

	// TauSeconds is the time constant for KindEMA and KindLowpass.
	TauSeconds float64

	// WindowSeconds is the trailing window for KindTimeSMA.
	WindowSeconds float64

	// TickSeconds is the fallback tick interval: how long the source may
	// stay quiet before the filter re-evaluates with the held value.
	TickSeconds float64

	// FallbackTimeoutSeconds is an accepted alias for TickSeconds, kept for
	// configs written against the older spelling. When positive it takes
	// precedence over TickSeconds.
	FallbackTimeoutSeconds float64

	// EmitEveryTick controls whether fallback ticks emit a reading.
	// Genuine source changes always emit.
	EmitEveryTick bool

	// Round is the number of decimal places applied to emitted values.
	// Negative disables rounding. The internal accumulator is never
	// rounded.
	Round int

	// Unit is an opaque label attached to emitted readings.
	Unit string
}

// DefaultConfig returns the defaults: EMA with tau 30 s, window 60 s,
// 30 s fallback tick, emit on every tick, no rounding.
func DefaultConfig() Config {
	return Config{
		Method:        method.KindEMA,
		TauSeconds:    30,
		WindowSeconds: 60,
		TickSeconds:   30,
		EmitEveryTick: true,
		Round:         -1,
	}
}

// tickSeconds resolves the two tick spellings to the effective interval.
func (c Config) tickSeconds() float64 {
	if c.FallbackTimeoutSeconds > 0 {
		return c.FallbackTimeoutSeconds
	}

	return c.TickSeconds
}

// Validate rejects configurations the engine must not be built from:
// unknown methods, and non-positive or non-finite method parameters.
func (c Config) Validate() error {
	tick := c.tickSeconds()
	if tick <= 0 || !isFinite(tick) {
		return fmt.Errorf("filter: tick interval must be positive and finite: %f", tick)
	}

	switch c.Method {
	case method.KindEMA, method.KindLowpass:
		if c.TauSeconds <= 0 || !isFinite(c.TauSeconds) {
			return fmt.Errorf("filter: tau must be positive and finite: %f", c.TauSeconds)
		}
	case method.KindIntegrator:
		// No method parameter.
	case method.KindTimeSMA:
		if c.WindowSeconds <= 0 || !isFinite(c.WindowSeconds) {
			return fmt.Errorf("filter: window must be positive and finite: %f", c.WindowSeconds)
		}
	default:
		return fmt.Errorf("filter: %w: %d", method.ErrUnknownKind, int(c.Method))
	}

	return nil
}

// TickInterval returns the effective fallback tick interval as a Duration.
func (c Config) TickInterval() time.Duration {
	return time.Duration(c.tickSeconds() * float64(time.Second))
}

// Option configures collaborator hooks on an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger. The default is a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithEmitFunc sets the callback invoked for every emitted reading.
func WithEmitFunc(fn func(Reading)) Option {
	return func(e *Engine) {
		e.onEmit = fn
	}
}

func isFinite(v float64) bool {
	return !(math.IsNaN(v) || math.IsInf(v, 0))
}
