package staticfsm

import (
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/atomic"
	"go.uber.org/multierr"
)

// decl is one row of the dispatch table.
type decl[M any] struct {
	name    string
	target  uint32 // target id for entry states, 0 otherwise
	defined bool
	run     func(*Machine[M])
}

// Definition is the closed set of states of machine type M together with
// the dispatch table binding each state to its step. It is built once,
// normally from package-level variables, and sealed when the first
// machine is constructed from it. All machines of type M share it.
type Definition[M any] struct {
	name string

	mu     sync.Mutex
	decls  []decl[M]
	byName map[string]uint32
	edges  []EdgeInfo
	errs   error

	once   sync.Once
	sealed atomic.Bool
	err    error
}

// NewDefinition returns an empty definition for machine type M.
func NewDefinition[M any](name string) *Definition[M] {
	return &Definition[M]{
		name:   name,
		byName: make(map[string]uint32),
	}
}

// Name returns the definition name.
func (d *Definition[M]) Name() string {
	return d.name
}

// Declare adds a state without binding its step, which is supplied later
// with Define.
func (d *Definition[M]) Declare(name string) State[M] {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.declareLocked(name, 0)
}

// DeclareEntry adds an entry state for target named "<target>_<name>".
// Its body is supplied later with Define.
func (d *Definition[M]) DeclareEntry(target State[M], name string) State[M] {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.ownsLocked(target) {
		d.fail(errors.Wrapf(ErrForeignState, "entry %q target %v", name, target))
		return d.declareLocked(name, 0)
	}
	if d.decls[target.id-1].target != 0 {
		d.fail(errors.Wrapf(ErrInvalidDefinition, "entry %q targets entry state %q", name, target.Name()))
	}
	return d.declareLocked(d.decls[target.id-1].name+"_"+name, target.id)
}

// Define binds step to a declared state. For an entry state step is the
// one-shot body run after the transition to the target.
func (d *Definition[M]) Define(s State[M], step StepFunc[M]) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.checkOpen()

	if !d.ownsLocked(s) {
		d.fail(errors.Wrapf(ErrForeignState, "define %v", s))
		return
	}
	row := &d.decls[s.id-1]
	switch {
	case step == nil:
		d.fail(errors.Wrapf(ErrInvalidDefinition, "state %q: nil step", row.name))
		return
	case row.defined:
		d.fail(errors.Wrapf(ErrInvalidDefinition, "state %q defined twice", row.name))
		return
	}

	row.defined = true
	if row.target == 0 {
		row.run = func(m *Machine[M]) { step(m.host) }
		return
	}
	target := row.target
	row.run = func(m *Machine[M]) {
		m.change(target)
		step(m.host)
	}
}

// State declares and defines a state in one call.
func (d *Definition[M]) State(name string, step StepFunc[M]) State[M] {
	s := d.Declare(name)
	d.Define(s, step)
	return s
}

// Entry declares and defines an entry state in one call.
func (d *Definition[M]) Entry(target State[M], name string, body StepFunc[M]) State[M] {
	s := d.DeclareEntry(target, name)
	d.Define(s, body)
	return s
}

// Edge documents a transition for visualization. The engine does not
// enforce it.
func (d *Definition[M]) Edge(from, to State[M], label string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.checkOpen()

	if !d.ownsLocked(from) || !d.ownsLocked(to) {
		d.fail(errors.Wrapf(ErrForeignState, "edge %v -> %v", from, to))
		return
	}
	d.edges = append(d.edges, EdgeInfo{
		From:  d.decls[from.id-1].name,
		To:    d.decls[to.id-1].name,
		Label: label,
	})
}

// Lookup returns the state declared under name.
func (d *Definition[M]) Lookup(name string) (State[M], bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	id, ok := d.byName[name]
	if !ok {
		return State[M]{}, false
	}
	return State[M]{def: d, id: id}, true
}

// States returns every declared state in declaration order.
func (d *Definition[M]) States() []State[M] {
	d.mu.Lock()
	defer d.mu.Unlock()
	states := make([]State[M], len(d.decls))
	for i := range d.decls {
		states[i] = State[M]{def: d, id: uint32(i + 1)}
	}
	return states
}

// Info describes every declared state in declaration order.
func (d *Definition[M]) Info() []StateInfo {
	d.mu.Lock()
	defer d.mu.Unlock()
	info := make([]StateInfo, len(d.decls))
	for i, row := range d.decls {
		info[i] = StateInfo{ID: i + 1, Name: row.name}
		if row.target != 0 {
			info[i].Entry = true
			info[i].Target = d.decls[row.target-1].name
		}
	}
	return info
}

// Edges returns the documented transitions.
func (d *Definition[M]) Edges() []EdgeInfo {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]EdgeInfo(nil), d.edges...)
}

// Validate reports every problem recorded while building the definition
// and every state that was declared but never defined.
func (d *Definition[M]) Validate() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.validateLocked()
}

// Sealed reports whether a machine has been built from d.
func (d *Definition[M]) Sealed() bool {
	return d.sealed.Load()
}

func (d *Definition[M]) validateLocked() error {
	err := d.errs
	if len(d.decls) == 0 {
		err = multierr.Append(err, errors.Wrapf(ErrInvalidDefinition, "%q declares no states", d.name))
	}
	for _, row := range d.decls {
		if !row.defined {
			err = multierr.Append(err, errors.Wrapf(ErrInvalidDefinition, "state %q declared but never defined", row.name))
		}
	}
	return err
}

// seal validates d once and freezes the dispatch table.
func (d *Definition[M]) seal() error {
	d.once.Do(func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.err = d.validateLocked()
		d.sealed.Store(true)
	})
	return d.err
}

func (d *Definition[M]) declareLocked(name string, target uint32) State[M] {
	d.checkOpen()

	id := uint32(len(d.decls) + 1)
	switch _, dup := d.byName[name]; {
	case name == "":
		d.fail(errors.Wrapf(ErrInvalidDefinition, "state %d has no name", id))
	case dup:
		d.fail(errors.Wrapf(ErrInvalidDefinition, "duplicate state %q", name))
	default:
		d.byName[name] = id
	}
	d.decls = append(d.decls, decl[M]{name: name, target: target})
	return State[M]{def: d, id: id}
}

func (d *Definition[M]) ownsLocked(s State[M]) bool {
	return s.def == d && s.id != 0 && int(s.id) <= len(d.decls)
}

func (d *Definition[M]) checkOpen() {
	if d.sealed.Load() {
		panic(errors.Wrapf(ErrSealed, "definition %q", d.name))
	}
}

func (d *Definition[M]) fail(err error) {
	d.errs = multierr.Append(d.errs, err)
}
