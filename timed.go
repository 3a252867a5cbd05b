package staticfsm

import (
	"go.uber.org/atomic"

	"github.com/comalice/staticfsm/clock"
)

// Timed is a Machine that also tracks how long it has been in the current
// state, measured with a host-supplied time source.
type Timed[M any, T clock.Instant] struct {
	*Machine[M]

	now  clock.Source[T]
	last atomic.Uint64
}

// NewTimed builds a timed machine for host from def and enters initial,
// stamping the transition time with now.
func NewTimed[M any, T clock.Instant](host *M, def *Definition[M], initial State[M], now clock.Source[T], opts ...Option) (*Timed[M, T], error) {
	if now == nil {
		return nil, ErrNilClock
	}
	m, err := newMachine(host, def, initial, opts)
	if err != nil {
		return nil, err
	}
	t := &Timed[M, T]{Machine: m, now: now}
	m.stamp = t.stamp
	m.ChangeState(initial)
	return t, nil
}

// StateElapsed returns the time since the last ChangeState. The
// subtraction is done in T, so an unsigned T stays correct across one
// wraparound of the clock.
func (t *Timed[M, T]) StateElapsed() T {
	return t.now() - T(t.last.Load())
}

// LastTransition returns the instant of the last ChangeState.
func (t *Timed[M, T]) LastTransition() T {
	return T(t.last.Load())
}

// Now reads the machine's time source.
func (t *Timed[M, T]) Now() T {
	return t.now()
}

// stamp runs on every ChangeState, self transitions included.
func (t *Timed[M, T]) stamp() {
	t.last.Store(uint64(t.now()))
}
