package glimmer

import "time"

// Scheduler cycles through states on a fixed dwell time. Times are
// animation time measured from the scheduler's origin; the caller owns the
// clock.
type Scheduler struct {
	states []State
	dwell  time.Duration
	index  int
	last   time.Duration
}

// NewScheduler creates a scheduler positioned at the first state with its
// transition clock at zero. A non-positive dwell never advances on its own.
func NewScheduler(states []State, dwell time.Duration) *Scheduler {
	return &Scheduler{states: states, dwell: dwell}
}

// Advance moves to the next state once at least one dwell has elapsed since
// the last transition. If several dwells elapsed it skips ahead so the index
// stays aligned with the clock; transitioned is true if any dwell boundary
// was crossed in this call. The transition origin advances by whole dwells.
func (s *Scheduler) Advance(now time.Duration) (state State, transitioned bool) {
	if len(s.states) == 0 {
		return State{}, false
	}
	if s.dwell > 0 && now-s.last >= s.dwell {
		steps := int((now - s.last) / s.dwell)
		s.last += time.Duration(steps) * s.dwell
		s.index = (s.index + steps) % len(s.states)
		transitioned = true
	}
	return s.states[s.index], transitioned
}

// Skip forces a transition to the next state and restarts the dwell at now.
func (s *Scheduler) Skip(now time.Duration) State {
	if len(s.states) == 0 {
		return State{}
	}
	s.index = (s.index + 1) % len(s.states)
	s.last = now
	return s.states[s.index]
}

// Current returns the active state.
func (s *Scheduler) Current() State {
	if len(s.states) == 0 {
		return State{}
	}
	return s.states[s.index]
}

// Index returns the position of the active state in the cycle.
func (s *Scheduler) Index() int {
	return s.index
}

// Dwell returns the configured dwell duration.
func (s *Scheduler) Dwell() time.Duration {
	return s.dwell
}

// StateIndexAt returns the cycle index active after elapsed time for a
// scheduler started at zero: floor(elapsed/dwell) mod n.
func StateIndexAt(elapsed, dwell time.Duration, n int) int {
	if n <= 0 || dwell <= 0 || elapsed < 0 {
		return 0
	}
	return int(elapsed/dwell) % n
}
