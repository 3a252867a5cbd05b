package staticfsm_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/uber-go/tally/v4"

	"github.com/comalice/staticfsm"
)

// probe records which steps ran. A step moves to next when it is set.
type probe struct {
	*staticfsm.Machine[probe]

	trace []string
	next  *staticfsm.State[probe]
	// during entry bodies: was the target already current?
	entryObserved []bool
}

var (
	probeDef   = staticfsm.NewDefinition[probe]("probe")
	probeA     = probeDef.Declare("a")
	probeB     = probeDef.Declare("b")
	probeC     = probeDef.Declare("c")
	probeAInit = probeDef.DeclareEntry(probeA, "init")
	probeAFrom = probeDef.DeclareEntry(probeA, "from_b")
)

func init() {
	probeDef.Define(probeA, (*probe).stepA)
	probeDef.Define(probeB, (*probe).stepB)
	probeDef.Define(probeC, (*probe).stepC)
	probeDef.Define(probeAInit, (*probe).enterAInit)
	probeDef.Define(probeAFrom, (*probe).enterAFromB)
	probeDef.Edge(probeA, probeB, "next")
}

func (p *probe) step(name string) {
	p.trace = append(p.trace, name)
	if p.next != nil {
		next := *p.next
		p.next = nil
		p.ChangeState(next)
	}
}

func (p *probe) stepA() { p.step("a") }
func (p *probe) stepB() { p.step("b") }
func (p *probe) stepC() { p.step("c") }

func (p *probe) enterAInit() {
	p.entryObserved = append(p.entryObserved, p.IsState(probeA) && !p.IsState(probeAInit))
	p.step("a_init")
}

func (p *probe) enterAFromB() {
	p.entryObserved = append(p.entryObserved, p.IsState(probeA))
	p.step("a_from_b")
}

func newProbe(t *testing.T, initial staticfsm.State[probe], opts ...staticfsm.Option) *probe {
	p := &probe{}
	m, err := staticfsm.NewMachine(p, probeDef, initial, opts...)
	require.NoError(t, err)
	p.Machine = m
	return p
}

type MachineTestSuite struct {
	suite.Suite

	p *probe
}

func TestMachineTestSuite(t *testing.T) {
	suite.Run(t, new(MachineTestSuite))
}

func (s *MachineTestSuite) SetupTest() {
	s.p = newProbe(s.T(), probeA)
}

func (s *MachineTestSuite) TestChangeStateIsExclusive() {
	all := probeDef.States()
	for _, target := range all {
		s.p.ChangeState(target)
		for _, other := range all {
			s.Equal(target == other, s.p.IsState(other), "after change to %v, IsState(%v)", target, other)
		}
		s.Equal(target, s.p.State())
	}
}

func (s *MachineTestSuite) TestUpdateRunsOnlyCurrentStep() {
	s.p.Update()
	s.Equal([]string{"a"}, s.p.trace)

	s.p.ChangeState(probeC)
	s.p.Update()
	s.p.Update()
	s.Equal([]string{"a", "c", "c"}, s.p.trace)
}

func (s *MachineTestSuite) TestChangeTakesEffectNextTick() {
	s.p.next = &probeB
	s.p.Update()

	s.True(s.p.IsState(probeB))
	s.Equal([]string{"a"}, s.p.trace)

	s.p.Update()
	s.Equal([]string{"a", "b"}, s.p.trace)
}

func (s *MachineTestSuite) TestLastChangeWins() {
	s.p.ChangeState(probeB)
	s.p.ChangeState(probeC)
	s.p.ChangeState(probeB)

	s.True(s.p.IsState(probeB))
	s.p.Update()
	s.Equal([]string{"b"}, s.p.trace)
}

func (s *MachineTestSuite) TestEntryStateRunsBodyOnce() {
	p := newProbe(s.T(), probeAInit)
	s.True(p.IsState(probeAInit))

	p.Update()
	s.Equal([]string{"a_init"}, p.trace)
	s.True(p.IsState(probeA))
	s.False(p.IsState(probeAInit))
	s.Equal([]bool{true}, p.entryObserved)

	p.Update()
	p.Update()
	s.Equal([]string{"a_init", "a", "a"}, p.trace)
}

func (s *MachineTestSuite) TestEntryStatesShareTarget() {
	s.p.ChangeState(probeAFrom)
	s.p.Update()
	s.p.ChangeState(probeAInit)
	s.p.Update()
	s.p.Update()

	s.Equal([]string{"a_from_b", "a_init", "a"}, s.p.trace)
	s.Equal([]bool{true, true}, s.p.entryObserved)
}

func (s *MachineTestSuite) TestEntryBodyMayLeaveTarget() {
	p := newProbe(s.T(), probeAInit)
	p.next = &probeC
	p.Update()

	s.True(p.IsState(probeC))
	p.Update()
	s.Equal([]string{"a_init", "c"}, p.trace)
}

func (s *MachineTestSuite) TestRequestAppliedOnNextUpdate() {
	s.p.Request(probeB)

	pending, ok := s.p.Pending()
	s.True(ok)
	s.Equal(probeB, pending)
	s.True(s.p.IsState(probeA))

	s.p.Update()
	s.Equal([]string{"b"}, s.p.trace)
	_, ok = s.p.Pending()
	s.False(ok)

	s.p.Update()
	s.Equal([]string{"b", "b"}, s.p.trace)
}

func (s *MachineTestSuite) TestRequestFromGoroutines() {
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.p.Request(probeC)
		}()
	}
	wg.Wait()

	s.p.Update()
	s.True(s.p.IsState(probeC))
	s.Equal([]string{"c"}, s.p.trace)
}

func (s *MachineTestSuite) TestForeignStatePanics() {
	other := staticfsm.NewDefinition[probe]("other")
	foreign := other.State("a", (*probe).stepA)

	s.PanicsWithError(
		`machine "probe": state a: state does not belong to this definition`,
		func() { s.p.ChangeState(foreign) },
	)
	s.Panics(func() { s.p.ChangeState(staticfsm.State[probe]{}) })
	s.Panics(func() { s.p.Request(foreign) })
	s.False(s.p.IsState(foreign))
}

func (s *MachineTestSuite) TestAccessors() {
	s.Equal("probe", s.p.Name())
	s.Same(probeDef, s.p.Definition())
	s.Same(s.p, s.p.Host())
	s.Equal(uint64(1), s.p.Transitions())

	s.p.ChangeState(probeA)
	s.Equal(uint64(2), s.p.Transitions())
}

func TestNewMachineErrors(t *testing.T) {
	_, err := staticfsm.NewMachine[probe](nil, probeDef, probeA)
	assert.ErrorIs(t, err, staticfsm.ErrNilHost)

	_, err = staticfsm.NewMachine(&probe{}, nil, probeA)
	assert.ErrorIs(t, err, staticfsm.ErrInvalidDefinition)

	_, err = staticfsm.NewMachine(&probe{}, probeDef, staticfsm.State[probe]{})
	assert.ErrorIs(t, err, staticfsm.ErrForeignState)

	broken := staticfsm.NewDefinition[probe]("broken")
	s := broken.Declare("never_defined")
	_, err = staticfsm.NewMachine(&probe{}, broken, s)
	assert.ErrorIs(t, err, staticfsm.ErrInvalidDefinition)
	assert.Contains(t, err.Error(), `state "never_defined" declared but never defined`)
}

func TestObserversSeeEveryChange(t *testing.T) {
	var got []staticfsm.Transition
	p := newProbe(t, probeAInit, staticfsm.WithName("probe-1"), staticfsm.WithObserver(
		staticfsm.ObserverFunc(func(tr staticfsm.Transition) { got = append(got, tr) }),
	))
	p.Update()
	p.ChangeState(probeA)

	require.Len(t, got, 3)
	assert.Equal(t, staticfsm.Transition{
		Machine: "probe-1", To: "a_init", ToID: probeAInit.ID(), Entry: true, Seq: 1,
	}, got[0])
	assert.Equal(t, staticfsm.Transition{
		Machine: "probe-1", From: "a_init", FromID: probeAInit.ID(), To: "a", ToID: probeA.ID(), Seq: 2,
	}, got[1])
	assert.Equal(t, "a", got[2].From)
	assert.Equal(t, "a", got[2].To)
	assert.Equal(t, uint64(3), got[2].Seq)
}

func TestMetrics(t *testing.T) {
	scope := tally.NewTestScope("", map[string]string{})
	p := newProbe(t, probeA, staticfsm.WithMetricsScope(scope))

	p.next = &probeB
	p.Update()
	p.Update()
	p.Request(probeC)
	p.Update()

	counters := scope.Snapshot().Counters()
	assert.Equal(t, int64(3), counters["transitions+"].Value())
	assert.Equal(t, int64(3), counters["updates+"].Value())
	assert.Equal(t, int64(1), counters["requests+"].Value())
}

// reentrant calls Update from inside its own step.
type reentrant struct {
	*staticfsm.Machine[reentrant]
	depth int
}

var (
	reentrantDef  = staticfsm.NewDefinition[reentrant]("reentrant")
	reentrantLoop = reentrantDef.Declare("loop")
)

func init() {
	reentrantDef.Define(reentrantLoop, func(r *reentrant) {
		r.depth++
		r.Update()
	})
}

func TestOverlappingUpdateDropped(t *testing.T) {
	scope := tally.NewTestScope("", map[string]string{})
	r := &reentrant{}
	m, err := staticfsm.NewMachine(r, reentrantDef, reentrantLoop, staticfsm.WithMetricsScope(scope))
	require.NoError(t, err)
	r.Machine = m

	r.Update()
	assert.Equal(t, 1, r.depth)
	assert.Equal(t, int64(1), scope.Snapshot().Counters()["update_overlaps+"].Value())

	// the flag is released after the outer Update returns
	r.Update()
	assert.Equal(t, 2, r.depth)
}

func TestSnapshotRestore(t *testing.T) {
	p := newProbe(t, probeA)
	p.ChangeState(probeC)

	snap := p.Snapshot()
	assert.Equal(t, "probe", snap.Machine)
	assert.Equal(t, "probe", snap.Definition)
	assert.Equal(t, "c", snap.State)
	assert.False(t, snap.Timed)
	assert.Equal(t, uint64(2), snap.Transitions)

	q := newProbe(t, probeA)
	require.NoError(t, q.Restore(snap))
	assert.True(t, q.IsState(probeC))
	assert.Equal(t, uint64(2), q.Transitions())

	bad := snap
	bad.State = "missing"
	assert.ErrorIs(t, q.Restore(bad), staticfsm.ErrUnknownState)

	bad = snap
	bad.Definition = "other"
	assert.ErrorIs(t, q.Restore(bad), staticfsm.ErrDefinitionMismatch)
}
