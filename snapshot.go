package staticfsm

import (
	"time"

	"github.com/pkg/errors"
)

// Snapshot is the serializable state of a machine.
type Snapshot struct {
	Machine     string    `json:"machine" yaml:"machine"`
	Definition  string    `json:"definition" yaml:"definition"`
	State       string    `json:"state" yaml:"state"`
	Timed       bool      `json:"timed,omitempty" yaml:"timed,omitempty"`
	Elapsed     uint64    `json:"elapsed,omitempty" yaml:"elapsed,omitempty"`
	Transitions uint64    `json:"transitions" yaml:"transitions"`
	Timestamp   time.Time `json:"timestamp" yaml:"timestamp"`
}

// Snapshot captures the current state.
func (m *Machine[M]) Snapshot() Snapshot {
	return Snapshot{
		Machine:     m.name,
		Definition:  m.def.name,
		State:       m.State().Name(),
		Transitions: m.transitions.Load(),
		Timestamp:   time.Now(),
	}
}

// Restore changes to the state recorded in snap. Call it from the goroutine
// that drives Update, between ticks.
func (m *Machine[M]) Restore(snap Snapshot) error {
	if snap.Definition != m.def.name {
		return errors.Wrapf(ErrDefinitionMismatch, "have %q, snapshot %q", m.def.name, snap.Definition)
	}
	s, ok := m.def.Lookup(snap.State)
	if !ok {
		return errors.Wrapf(ErrUnknownState, "%q in definition %q", snap.State, m.def.name)
	}
	m.ChangeState(s)
	m.transitions.Store(snap.Transitions)
	return nil
}

// Snapshot captures the current state and the time spent in it.
func (t *Timed[M, T]) Snapshot() Snapshot {
	snap := t.Machine.Snapshot()
	snap.Timed = true
	snap.Elapsed = uint64(t.StateElapsed())
	return snap
}

// Restore changes to the recorded state and backdates the transition time
// so that StateElapsed continues from the recorded value.
func (t *Timed[M, T]) Restore(snap Snapshot) error {
	if err := t.Machine.Restore(snap); err != nil {
		return err
	}
	t.last.Store(uint64(t.now() - T(snap.Elapsed)))
	return nil
}
