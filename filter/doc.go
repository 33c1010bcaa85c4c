// Package filter turns an irregularly-updating numeric source reading into
// a smoothed, time-correct output reading.
//
// An [Engine] owns one method strategy and the per-filter state: the held
// last raw value, the timestamp of the last processed trigger, and the
// rounded output exposed to the collaborator. It receives two trigger
// kinds, [Engine.OnSourceChange] for genuine source updates and
// [Engine.OnTick] for fallback ticks that re-evaluate the filter with the
// held value when the source goes quiet.
//
// Engines hold no locks. All triggers for one engine must arrive from a
// single sequential context; the schedule package provides that context
// when the filter is driven by a live timer.
package filter
