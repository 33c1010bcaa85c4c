package filter

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-smooth/filter/method"
)

// Reading is one emitted output value.
type Reading struct {
	Value float64
	Unit  string
	At    time.Time
}

// Engine coordinates one method strategy with the per-filter state and
// decides, per trigger, whether to emit. It is not safe for concurrent use;
// all triggers must arrive from a single sequential context.
type Engine struct {
	cfg   Config
	strat method.Strategy

	log    *zap.Logger
	onEmit func(Reading)

	seeded    bool
	lastRaw   float64
	lastTime  time.Time
	output    float64
	hasOutput bool
	rejected  uint64
}

// New validates cfg, builds the configured strategy and returns an engine.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	param := cfg.TauSeconds
	if cfg.Method == method.KindTimeSMA {
		param = cfg.WindowSeconds
	}

	strat, err := method.New(cfg.Method, param)
	if err != nil {
		return nil, fmt.Errorf("filter: %w", err)
	}

	e := &Engine{
		cfg:   cfg,
		strat: strat,
		log:   zap.NewNop(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}

	if cfg.FallbackTimeoutSeconds > 0 && cfg.TickSeconds > 0 &&
		cfg.FallbackTimeoutSeconds != cfg.TickSeconds {
		e.log.Debug("both tick spellings set, fallback timeout takes precedence",
			zap.Float64("fallbackTimeoutSeconds", cfg.FallbackTimeoutSeconds),
			zap.Float64("tickSeconds", cfg.TickSeconds))
	}

	return e, nil
}

// Seed records the first observed raw value and its timestamp without
// producing any output. Window-based methods also record the sample so the
// time it was held carries weight. Further calls after the first are
// no-ops; later observations go through OnSourceChange.
func (e *Engine) Seed(value float64, at time.Time) {
	if e.seeded {
		return
	}

	if !isFinite(value) {
		e.rejected++
		e.log.Debug("rejected non-finite seed value",
			zap.Float64("value", value), zap.Time("at", at))

		return
	}

	e.seeded = true
	e.lastRaw = value
	e.lastTime = at
	e.strat.Seed(value)
}

// OnSourceChange processes a genuine source update. The first finite value
// seeds the filter; every later change advances the strategy by the real
// elapsed time and always emits. A non-finite value is absorbed as a
// fallback tick so the accumulator is never poisoned.
func (e *Engine) OnSourceChange(value float64, at time.Time) {
	if !isFinite(value) {
		e.rejected++
		e.log.Debug("rejected non-finite sample, holding last value",
			zap.Float64("value", value), zap.Time("at", at))

		if e.seeded {
			e.apply(at, e.lastRaw, false)
		}

		return
	}

	if !e.seeded {
		e.Seed(value, at)
		return
	}

	e.apply(at, value, true)
}

// OnTick processes a fallback tick: the strategy advances with the held
// value and the result is emitted only when EmitEveryTick is set. Ticks
// before the first sample are ignored.
func (e *Engine) OnTick(at time.Time) {
	if !e.seeded {
		e.log.Debug("tick before first sample", zap.Time("at", at))
		return
	}

	e.apply(at, e.lastRaw, false)
}

func (e *Engine) apply(at time.Time, next float64, change bool) {
	elapsed := at.Sub(e.lastTime).Seconds()
	if elapsed < 0 {
		e.log.Debug("clamped negative elapsed time",
			zap.Float64("elapsedSeconds", elapsed), zap.Time("at", at))

		elapsed = 0
	}

	// A repeated tick at the same instant must leave output and
	// accumulator untouched; re-emitting would also flush the integrator.
	if elapsed == 0 && !change && e.hasOutput {
		return
	}

	out := e.strat.Step(e.lastRaw, next, elapsed)

	e.lastRaw = next
	if at.After(e.lastTime) {
		e.lastTime = at
	}

	e.output = roundTo(out, e.cfg.Round)
	e.hasOutput = true

	if change || e.cfg.EmitEveryTick {
		if e.onEmit != nil {
			e.onEmit(Reading{Value: e.output, Unit: e.cfg.Unit, At: e.lastTime})
		}

		// The integrator starts a fresh interval after each report.
		e.strat.Flush()
	}
}

// Output returns the last computed, rounded value and whether one exists.
func (e *Engine) Output() (float64, bool) {
	return e.output, e.hasOutput
}

// Unit returns the configured unit label.
func (e *Engine) Unit() string { return e.cfg.Unit }

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.cfg }

// Seeded reports whether a first raw value has been observed.
func (e *Engine) Seeded() bool { return e.seeded }

// LastTime returns the timestamp of the last processed trigger.
func (e *Engine) LastTime() time.Time { return e.lastTime }

// Rejected returns the number of samples dropped as non-finite.
func (e *Engine) Rejected() uint64 { return e.rejected }

// Reset clears all filter state; the engine behaves as freshly registered.
func (e *Engine) Reset() {
	e.strat.Reset()
	e.seeded = false
	e.lastRaw = 0
	e.lastTime = time.Time{}
	e.output = 0
	e.hasOutput = false
	e.rejected = 0
}

// roundTo rounds to the given number of decimal places; negative places
// return v unchanged.
func roundTo(v float64, places int) float64 {
	if places < 0 {
		return v
	}

	scale := math.Pow(10, float64(places))

	return math.Round(v*scale) / scale
}
