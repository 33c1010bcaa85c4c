package method

// Integrator accumulates a value-over-time product (for example power over
// time = energy) between emissions. Integration is rectangular against the
// left edge of each interval: the held value was in effect during the
// elapsed span, the new sample only becomes effective now.
//
// The accumulator is zeroed by Flush after each emission, so every reported
// value covers only the interval since the previous report. A collaborator
// that wants a running total sums the emitted deltas.
type Integrator struct {
	sum float64
}

// NewIntegrator returns an empty integrator.
func NewIntegrator() *Integrator {
	return &Integrator{}
}

// Seed is a no-op: the engine passes the seed as the held value of the
// first interval, so its hold time is already integrated.
func (f *Integrator) Seed(float64) {}

// Step adds held * elapsed to the accumulator and returns it.
func (f *Integrator) Step(held, _, elapsed float64) float64 {
	if elapsed <= 0 {
		return f.sum
	}

	f.sum += held * elapsed

	return f.sum
}

// Output returns the accumulated value-seconds since the last Flush.
func (f *Integrator) Output() float64 { return f.sum }

// Flush zeroes the accumulator. Called by the engine after each emission.
func (f *Integrator) Flush() { f.sum = 0 }

// Reset clears all state.
func (f *Integrator) Reset() { f.sum = 0 }

// Kind reports KindIntegrator.
func (f *Integrator) Kind() Kind { return KindIntegrator }
