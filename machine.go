package staticfsm

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

// Machine is a running instance of a Definition[M]. The host type M
// usually embeds *Machine[M] so that its step methods can call
// ChangeState and IsState directly.
type Machine[M any] struct {
	def  *Definition[M]
	host *M
	name string

	// ids of the current and requested states, 0 meaning none
	current atomic.Uint32
	pending atomic.Uint32

	dispatching atomic.Bool
	transitions atomic.Uint64

	// stamp runs before every state assignment; set by Timed
	stamp func()

	logger    *log.Entry
	metrics   *Metrics
	observers []Observer
}

// NewMachine builds a machine for host from def and enters initial.
// Nothing is dispatched until the first Update.
func NewMachine[M any](host *M, def *Definition[M], initial State[M], opts ...Option) (*Machine[M], error) {
	m, err := newMachine(host, def, initial, opts)
	if err != nil {
		return nil, err
	}
	m.ChangeState(initial)
	return m, nil
}

func newMachine[M any](host *M, def *Definition[M], initial State[M], opts []Option) (*Machine[M], error) {
	if host == nil {
		return nil, ErrNilHost
	}
	if def == nil {
		return nil, errors.Wrap(ErrInvalidDefinition, "nil definition")
	}
	if err := def.seal(); err != nil {
		return nil, errors.Wrapf(err, "definition %q", def.name)
	}
	if initial.def != def || !initial.Valid() {
		return nil, errors.Wrapf(ErrForeignState, "initial state %v of definition %q", initial, def.name)
	}

	o := buildOptions(def.name, opts)
	return &Machine[M]{
		def:       def,
		host:      host,
		name:      o.name,
		logger:    o.logger,
		metrics:   NewMetrics(o.scope),
		observers: o.observers,
	}, nil
}

// ChangeState makes s the current state. It takes effect on the next
// Update; the calling step keeps running to completion. Calling it more
// than once in a tick keeps the last state.
//
// It panics with ErrForeignState if s does not belong to the machine's
// definition.
func (m *Machine[M]) ChangeState(s State[M]) {
	m.mustOwn(s)
	m.change(s.id)
}

// IsState reports whether s is the current state.
func (m *Machine[M]) IsState(s State[M]) bool {
	return s.def == m.def && s.id == m.current.Load()
}

// State returns the current state.
func (m *Machine[M]) State() State[M] {
	return State[M]{def: m.def, id: m.current.Load()}
}

// Update applies a pending Request, if any, and runs the step of the
// current state once. Only one Update may be in flight; an overlapping
// call is dropped and counted.
func (m *Machine[M]) Update() {
	if !m.dispatching.CompareAndSwap(false, true) {
		m.metrics.updateOverlaps.Inc(1)
		m.logger.Warn("overlapping update dropped")
		return
	}
	defer m.dispatching.Store(false)

	if id := m.pending.Swap(0); id != 0 {
		m.change(id)
	}
	m.metrics.updates.Inc(1)
	m.def.decls[m.current.Load()-1].run(m)
}

// Request asks for a change to s from outside the step functions, e.g.
// another goroutine or a signal handler. The next Update applies it
// before dispatching. A later Request replaces an earlier one.
func (m *Machine[M]) Request(s State[M]) {
	m.mustOwn(s)
	m.pending.Store(s.id)
	m.metrics.requests.Inc(1)
}

// Pending returns the requested state not yet applied.
func (m *Machine[M]) Pending() (State[M], bool) {
	id := m.pending.Load()
	return State[M]{def: m.def, id: id}, id != 0
}

// Name returns the instance name.
func (m *Machine[M]) Name() string {
	return m.name
}

// Definition returns the definition the machine was built from.
func (m *Machine[M]) Definition() *Definition[M] {
	return m.def
}

// Host returns the host the steps are invoked on.
func (m *Machine[M]) Host() *M {
	return m.host
}

// Transitions returns the number of ChangeState calls so far.
func (m *Machine[M]) Transitions() uint64 {
	return m.transitions.Load()
}

func (m *Machine[M]) change(id uint32) {
	if m.stamp != nil {
		m.stamp()
	}
	from := m.current.Swap(id)
	seq := m.transitions.Inc()
	m.metrics.transitions.Inc(1)

	debug := m.logger.Logger.IsLevelEnabled(log.DebugLevel)
	if len(m.observers) == 0 && !debug {
		return
	}
	t := Transition{
		Machine: m.name,
		FromID:  int(from),
		To:      m.def.decls[id-1].name,
		ToID:    int(id),
		Entry:   m.def.decls[id-1].target != 0,
		Seq:     seq,
	}
	if from != 0 {
		t.From = m.def.decls[from-1].name
	}
	if debug {
		m.logger.WithFields(log.Fields{
			"from": t.From,
			"to":   t.To,
			"seq":  seq,
		}).Debug("state changed")
	}
	for _, o := range m.observers {
		o.OnTransition(t)
	}
}

func (m *Machine[M]) mustOwn(s State[M]) {
	if s.def != m.def || !s.Valid() {
		panic(errors.Wrapf(ErrForeignState, "machine %q: state %v", m.name, s))
	}
}
