package method

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"
)

const minTimeSMACapacity = 8

// TimeSMA is a simple moving average over a trailing time window where each
// sample contributes proportionally to the duration it was the current
// value, not proportionally to sample count.
//
// Samples are kept in a ring buffer of (timestamp, value) pairs covering at
// most the window plus one straddling entry; the straddler is retained
// because its value still holds at the window start and is clipped during
// weighting. Before the window has filled, the denominator is the actual
// elapsed time since the first sample.
type TimeSMA struct {
	window float64

	// Ring buffer state. times are seconds on an internal axis accumulated
	// from elapsed spans, strictly increasing.
	times  []float64
	values []float64
	head   int
	count  int

	now float64
	y   float64

	// Scratch for the weighted-mean pass, reused across steps.
	wScratch []float64
	vScratch []float64
	pScratch []float64
}

// NewTimeSMA returns a TimeSMA over the given window in seconds.
func NewTimeSMA(windowSeconds float64) (*TimeSMA, error) {
	if windowSeconds <= 0 || !isFinite(windowSeconds) {
		return nil, fmt.Errorf("time_sma: window must be positive and finite: %f", windowSeconds)
	}

	return &TimeSMA{
		window: windowSeconds,
		times:  make([]float64, minTimeSMACapacity),
		values: make([]float64, minTimeSMACapacity),
	}, nil
}

// Seed records the pre-observation sample at the start of the time axis so
// the interval it was held carries weight once later samples arrive. It is
// a no-op once any sample exists.
func (f *TimeSMA) Seed(value float64) {
	if f.count > 0 {
		return
	}

	f.push(f.now, value)
	f.y = value
}

// Step appends next at the current point in time, drops samples that fell
// fully outside the window, and recomputes the duration-weighted mean.
// elapsed == 0 is a no-op once the first sample exists.
func (f *TimeSMA) Step(_, next, elapsed float64) float64 {
	if f.count > 0 && elapsed <= 0 {
		return f.y
	}

	f.now += elapsed
	f.push(f.now, next)
	f.trim()
	f.y = f.weightedMean()

	return f.y
}

// Output returns the current duration-weighted mean.
func (f *TimeSMA) Output() float64 { return f.y }

// Flush is a no-op for the TimeSMA.
func (f *TimeSMA) Flush() {}

// Reset clears the window and restarts the internal time axis.
func (f *TimeSMA) Reset() {
	f.head = 0
	f.count = 0
	f.now = 0
	f.y = 0
}

// Kind reports KindTimeSMA.
func (f *TimeSMA) Kind() Kind { return KindTimeSMA }

// Window returns the window length in seconds.
func (f *TimeSMA) Window() float64 { return f.window }

// Len returns the number of retained samples.
func (f *TimeSMA) Len() int { return f.count }

func (f *TimeSMA) at(i int) int {
	return (f.head + i) % len(f.times)
}

func (f *TimeSMA) push(t, v float64) {
	if f.count == len(f.times) {
		f.grow()
	}

	idx := f.at(f.count)
	f.times[idx] = t
	f.values[idx] = v
	f.count++
}

func (f *TimeSMA) popFront() {
	f.head++
	if f.head >= len(f.times) {
		f.head = 0
	}

	f.count--
}

// grow doubles the ring capacity, re-linearizing entries from head.
func (f *TimeSMA) grow() {
	times := make([]float64, 2*len(f.times))
	values := make([]float64, 2*len(f.values))

	for i := 0; i < f.count; i++ {
		idx := f.at(i)
		times[i] = f.times[idx]
		values[i] = f.values[idx]
	}

	f.times = times
	f.values = values
	f.head = 0
}

// trim drops entries whose hold interval ended at or before the window
// start. The newest entry older than the cutoff stays: its value holds
// across the window edge.
func (f *TimeSMA) trim() {
	cutoff := f.now - f.window
	for f.count >= 2 && f.times[f.at(1)] <= cutoff {
		f.popFront()
	}
}

// weightedMean computes sum(value_i * weight_i) / sum(weight_i) where each
// weight is the portion of the sample's hold interval inside the window.
// The newest sample holds a zero-length interval and contributes on the
// next step.
func (f *TimeSMA) weightedMean() float64 {
	if f.count == 0 {
		return 0
	}

	last := f.values[f.at(f.count-1)]
	if f.count == 1 {
		return last
	}

	cutoff := f.now - f.window

	n := f.count - 1
	f.wScratch = resize(f.wScratch, n)
	f.vScratch = resize(f.vScratch, n)
	f.pScratch = resize(f.pScratch, n)

	for i := 0; i < n; i++ {
		start := f.times[f.at(i)]
		if start < cutoff {
			start = cutoff
		}

		end := f.times[f.at(i+1)]

		w := end - start
		if w < 0 {
			w = 0
		}

		f.wScratch[i] = w
		f.vScratch[i] = f.values[f.at(i)]
	}

	vecmath.MulBlock(f.pScratch, f.vScratch, f.wScratch)

	var sum, wSum float64
	for i := 0; i < n; i++ {
		sum += f.pScratch[i]
		wSum += f.wScratch[i]
	}

	if wSum <= 0 {
		return last
	}

	return sum / wSum
}

func resize(s []float64, n int) []float64 {
	if cap(s) < n {
		return make([]float64, n)
	}

	return s[:n]
}
