package clock

import "go.uber.org/atomic"

// Manual is a simulated clock advanced explicitly by the caller.
// It is safe for concurrent use.
type Manual[T Instant] struct {
	now atomic.Uint64
}

// NewManual returns a Manual clock reading start.
func NewManual[T Instant](start T) *Manual[T] {
	m := &Manual[T]{}
	m.now.Store(uint64(start))
	return m
}

// Now returns the current simulated instant.
func (m *Manual[T]) Now() T {
	return T(m.now.Load())
}

// Advance moves the clock forward by d, wrapping at the width of T.
func (m *Manual[T]) Advance(d T) T {
	for {
		old := m.now.Load()
		next := T(old) + d
		if m.now.CompareAndSwap(old, uint64(next)) {
			return next
		}
	}
}

// Set jumps the clock to t.
func (m *Manual[T]) Set(t T) {
	m.now.Store(uint64(t))
}

// Source returns m as a Source.
func (m *Manual[T]) Source() Source[T] {
	return m.Now
}
