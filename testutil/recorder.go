// Package testutil provides helpers for testing state machines.
package testutil

import (
	"sync"

	"github.com/comalice/staticfsm"
	"github.com/comalice/staticfsm/clock"
)

// Recorder is an observer that keeps every transition it sees.
type Recorder struct {
	mu          sync.Mutex
	transitions []staticfsm.Transition
}

var _ staticfsm.Observer = (*Recorder)(nil)

func (r *Recorder) OnTransition(t staticfsm.Transition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transitions = append(r.transitions, t)
}

// Transitions returns a copy of the recorded transitions.
func (r *Recorder) Transitions() []staticfsm.Transition {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]staticfsm.Transition(nil), r.transitions...)
}

// Targets returns the To names of the recorded transitions in order.
func (r *Recorder) Targets() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, len(r.transitions))
	for i, t := range r.transitions {
		names[i] = t.To
	}
	return names
}

// Reset drops everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transitions = nil
}

// Updater is advanced one step per tick.
type Updater interface {
	Update()
}

// Drive runs ticks Updates on u, advancing c by step after each one.
// observe, if not nil, is called after every Update with the tick index
// and the clock reading at which that Update ran.
func Drive[T clock.Instant](u Updater, c *clock.Manual[T], ticks int, step T, observe func(tick int, at T)) {
	for i := 0; i < ticks; i++ {
		at := c.Now()
		u.Update()
		if observe != nil {
			observe(i, at)
		}
		c.Advance(step)
	}
}
