// Package series computes duration-weighted statistics over irregular
// (timestamp, value) readings.
//
// Readings are treated as step-held: a value stays current from its own
// timestamp until the next one, so each value contributes proportionally to
// the time it was current, not to how often the source happened to report.
// The final reading spans no time yet and contributes only to Count, Min
// and Max.
package series

import (
	"math"
	"time"
)

// Point is one timestamped reading.
type Point struct {
	At    time.Time
	Value float64
}

// Stats holds duration-weighted statistics of a step-held series.
type Stats struct {
	Count    int
	Seconds  float64 // time spanned from first to last reading
	Mean     float64 // duration-weighted mean
	Min      float64
	Max      float64
	Variance float64 // duration-weighted population variance
	Integral float64 // sum of value*seconds over the span
}

// Calculate computes statistics for points ordered by time. Out-of-order
// gaps are clamped to zero duration, matching the filter engine's treatment
// of clock skew. A single reading yields its own value as mean with zero
// variance.
func Calculate(points []Point) Stats {
	var s Streaming
	for _, p := range points {
		s.Add(p)
	}

	return s.Result()
}

// Streaming accumulates duration-weighted statistics incrementally. It
// processes one reading at a time and yields results identical to
// [Calculate] on the same sequence.
type Streaming struct {
	count  int
	hasPrev bool
	prev   Point

	wSum     float64
	mean     float64
	m2       float64
	integral float64

	minVal float64
	maxVal float64
}

// Add appends one reading. Readings should arrive in time order; a reading
// older than its predecessor is treated as simultaneous with it.
func (s *Streaming) Add(p Point) {
	s.count++

	if s.count == 1 {
		s.minVal = p.Value
		s.maxVal = p.Value
	} else {
		s.minVal = math.Min(s.minVal, p.Value)
		s.maxVal = math.Max(s.maxVal, p.Value)
	}

	if s.hasPrev {
		w := p.At.Sub(s.prev.At).Seconds()
		if w < 0 {
			w = 0
		}

		if w > 0 {
			x := s.prev.Value

			// Weighted Welford update (West's incremental algorithm).
			s.wSum += w
			delta := x - s.mean
			s.mean += (w / s.wSum) * delta
			s.m2 += w * delta * (x - s.mean)

			s.integral += x * w
		}
	}

	s.prev = p
	s.hasPrev = true
}

// Result computes the statistics accumulated so far.
func (s *Streaming) Result() Stats {
	if s.count == 0 {
		return Stats{}
	}

	out := Stats{
		Count:    s.count,
		Seconds:  s.wSum,
		Min:      s.minVal,
		Max:      s.maxVal,
		Integral: s.integral,
	}

	if s.wSum > 0 {
		out.Mean = s.mean
		out.Variance = s.m2 / s.wSum
	} else {
		// No time spanned yet: the series is a single instant.
		out.Mean = s.prev.Value
	}

	return out
}

// Reset clears all accumulated data for reuse.
func (s *Streaming) Reset() {
	*s = Streaming{}
}
