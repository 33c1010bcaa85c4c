// Package method provides the time-correct transfer functions used by the
// smoothing filter engine.
//
// Each [Strategy] advances by elapsed wall-clock seconds, not by sample
// count: an update after 1 second and one after 61 seconds are weighted by
// their actual durations. The set of strategies is closed — [EMA] (also
// spelled lowpass), [Integrator] and [TimeSMA] — and is selected once at
// configuration time via [New].
//
// Strategies are plain state machines with no timers and no goroutines.
// Trigger scheduling and raw-value bookkeeping live in the filter package.
package method
