package staticfsm

// StepFunc is the behaviour bound to a state. It runs once per Update
// while the machine is in that state and must not block.
type StepFunc[M any] func(*M)

// State selects one declared state of a Definition[M]. The zero value is
// not a valid state.
type State[M any] struct {
	def *Definition[M]
	id  uint32
}

// Valid reports whether s was produced by a definition.
func (s State[M]) Valid() bool {
	return s.def != nil && s.id != 0
}

// ID returns the 1-based position of s in its definition, or 0.
func (s State[M]) ID() int {
	return int(s.id)
}

func (s State[M]) Name() string {
	if !s.Valid() {
		return ""
	}
	return s.def.decls[s.id-1].name
}

// IsEntry reports whether s is an entry state.
func (s State[M]) IsEntry() bool {
	return s.Valid() && s.def.decls[s.id-1].target != 0
}

// Target returns the state an entry state transitions to, or s itself.
func (s State[M]) Target() State[M] {
	if !s.IsEntry() {
		return s
	}
	return State[M]{def: s.def, id: s.def.decls[s.id-1].target}
}

func (s State[M]) String() string {
	if !s.Valid() {
		return "<invalid>"
	}
	return s.Name()
}

// StateInfo describes a declared state without the machine type.
type StateInfo struct {
	ID     int    `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Entry  bool   `json:"entry,omitempty" yaml:"entry,omitempty"`
	Target string `json:"target,omitempty" yaml:"target,omitempty"`
}

// EdgeInfo is a documented transition between two states.
type EdgeInfo struct {
	From  string `json:"from" yaml:"from"`
	To    string `json:"to" yaml:"to"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}
