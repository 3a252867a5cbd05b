// Package benchmarks measures dispatch and transition cost of staticfsm
// machines.
package benchmarks

import (
	"fmt"

	"github.com/comalice/staticfsm"
	"github.com/comalice/staticfsm/clock"
)

// Ring is a host whose states advance to the next state on every tick.
type Ring struct {
	*staticfsm.Machine[Ring]
	ticks int
}

// GenRing builds a definition of n states s0..s(n-1) where each step moves
// to the following state. With n == 1 the single state loops onto itself.
func GenRing(n int) (*staticfsm.Definition[Ring], []staticfsm.State[Ring]) {
	if n < 1 {
		n = 1
	}
	def := staticfsm.NewDefinition[Ring](fmt.Sprintf("ring_%d", n))
	states := make([]staticfsm.State[Ring], n)
	for i := range states {
		states[i] = def.Declare(fmt.Sprintf("s%d", i))
	}
	for i, s := range states {
		next := states[(i+1)%n]
		def.Define(s, func(r *Ring) {
			r.ticks++
			r.ChangeState(next)
		})
	}
	return def, states
}

// NewRing starts a Ring machine on the first state of def.
func NewRing(def *staticfsm.Definition[Ring], states []staticfsm.State[Ring], opts ...staticfsm.Option) (*Ring, error) {
	r := &Ring{}
	m, err := staticfsm.NewMachine(r, def, states[0], opts...)
	if err != nil {
		return nil, err
	}
	r.Machine = m
	return r, nil
}

// Idle is a host that stays in one state and reads its elapsed time.
type Idle struct {
	*staticfsm.Timed[Idle, uint32]
	sum uint32
}

var (
	idleDef  = staticfsm.NewDefinition[Idle]("idle")
	idleWait = idleDef.Declare("wait")
)

func init() {
	idleDef.Define(idleWait, func(i *Idle) { i.sum += i.StateElapsed() })
}

// NewIdle starts an Idle machine on a manual clock.
func NewIdle(c *clock.Manual[uint32], opts ...staticfsm.Option) (*Idle, error) {
	i := &Idle{}
	m, err := staticfsm.NewTimed(i, idleDef, idleWait, c.Source(), opts...)
	if err != nil {
		return nil, err
	}
	i.Timed = m
	return i, nil
}
