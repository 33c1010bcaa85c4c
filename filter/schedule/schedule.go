// Package schedule drives a filter engine from two trigger sources: a
// collaborator pushing source-change events and a fallback tick timer.
//
// Both trigger kinds land on one goroutine per scheduler, so OnSourceChange
// and OnTick never run concurrently for the same filter and no locking is
// needed in the engine. Every applied source change moves the tick deadline
// to the change timestamp plus the tick interval; a timer firing before the
// current deadline was armed against a stale schedule and is discarded
// without touching the engine. A tick that fires late applies the real
// elapsed time in a single catch-up step, so ticks never pile up after a
// gap such as process suspension.
package schedule

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Target consumes strictly ordered triggers. *filter.Engine satisfies it.
type Target interface {
	OnSourceChange(value float64, at time.Time)
	OnTick(at time.Time)
}

type event struct {
	value float64
	at    time.Time
}

// Scheduler owns the tick timer and the event inbox for one filter.
type Scheduler struct {
	target Target
	tick   time.Duration
	log    *zap.Logger

	events chan event
	stop   chan struct{}
	done   chan struct{}

	stopOnce sync.Once
	started  atomic.Bool

	// deadline is owned by the run goroutine.
	deadline time.Time
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the scheduler logger. The default is a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Scheduler) {
		if log != nil {
			s.log = log
		}
	}
}

// New returns a stopped scheduler delivering triggers to target every tick
// interval at the latest.
func New(target Target, tick time.Duration, opts ...Option) (*Scheduler, error) {
	if target == nil {
		return nil, fmt.Errorf("schedule: target must not be nil")
	}

	if tick <= 0 {
		return nil, fmt.Errorf("schedule: tick interval must be positive: %s", tick)
	}

	s := &Scheduler{
		target: target,
		tick:   tick,
		log:    zap.NewNop(),
		events: make(chan event, 16),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	return s, nil
}

// Start launches the trigger goroutine. Further calls are no-ops.
func (s *Scheduler) Start() {
	if !s.started.CompareAndSwap(false, true) {
		return
	}

	go s.run()
}

// Observe delivers a source-change event. It never blocks a stopped
// scheduler; events arriving after Stop are dropped.
func (s *Scheduler) Observe(value float64, at time.Time) {
	select {
	case <-s.stop:
	case s.events <- event{value: value, at: at}:
	}
}

// Stop cancels the pending tick and ends the trigger goroutine. It is
// idempotent and safe to call concurrently.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})

	if s.started.Load() {
		<-s.done
	}
}

func (s *Scheduler) run() {
	defer close(s.done)

	s.deadline = time.Now().Add(s.tick)

	timer := time.NewTimer(s.tick)
	defer timer.Stop()

	for {
		select {
		case <-s.stop:
			return
		case ev := <-s.events:
			s.handleChange(ev, timer)
		case now := <-timer.C:
			s.handleTick(now, timer)
		}
	}
}

// handleChange forwards the event and re-arms the timer for the new
// deadline, change time plus tick interval.
func (s *Scheduler) handleChange(ev event, timer *time.Timer) {
	s.target.OnSourceChange(ev.value, ev.at)
	s.deadline = ev.at.Add(s.tick)
	resetTimer(timer, time.Until(s.deadline))
}

// handleTick applies a fallback tick, unless a source change moved the
// deadline after this firing was scheduled; such a stale tick is discarded
// and the timer re-armed for the remainder.
func (s *Scheduler) handleTick(now time.Time, timer *time.Timer) {
	if now.Before(s.deadline) {
		s.log.Debug("discarded stale tick",
			zap.Time("firedAt", now), zap.Time("deadline", s.deadline))
		resetTimer(timer, s.deadline.Sub(now))

		return
	}

	s.target.OnTick(now)
	s.deadline = now.Add(s.tick)
	resetTimer(timer, s.tick)
}

// resetTimer re-arms an already-drained timer, clamping the delay so a
// collaborator clock running behind the local one cannot busy-loop the
// scheduler.
func resetTimer(t *time.Timer, d time.Duration) {
	if d < time.Millisecond {
		d = time.Millisecond
	}

	t.Reset(d)
}
