package testutil

import "time"

// Timeline hands out timestamps at fixed offsets from one base instant,
// keeping irregular-interval tests readable.
type Timeline struct {
	base time.Time
}

// NewTimeline returns a timeline anchored at an arbitrary fixed instant.
func NewTimeline() Timeline {
	return Timeline{base: time.Date(2025, time.March, 9, 12, 0, 0, 0, time.UTC)}
}

// At returns the instant offset seconds after the base.
func (tl Timeline) At(offsetSeconds float64) time.Time {
	return tl.base.Add(time.Duration(offsetSeconds * float64(time.Second)))
}
