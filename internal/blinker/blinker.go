// Package blinker is a timed machine that blinks an output on and off.
//
// It starts through the on_init entry state, alternates between on and
// off according to its Config, and can be paused and resumed from other
// goroutines. Resuming goes through on_resume, a second entry state of on.
package blinker

import (
	"github.com/pkg/errors"

	"github.com/comalice/staticfsm"
	"github.com/comalice/staticfsm/clock"
)

// Config holds the blink timing in clock units.
type Config struct {
	// OnTime is exceeded before switching off.
	OnTime uint32 `yaml:"on_time" json:"on_time"`
	// OffTime is exceeded before switching on.
	OffTime uint32 `yaml:"off_time" json:"off_time"`
}

// Validate checks that both phases are non-zero.
func (c Config) Validate() error {
	if c.OnTime == 0 || c.OffTime == 0 {
		return errors.Errorf("blink times must be positive, got on=%d off=%d", c.OnTime, c.OffTime)
	}
	return nil
}

var (
	Definition = staticfsm.NewDefinition[Blinker]("blinker")

	On       = Definition.Declare("on")
	Off      = Definition.Declare("off")
	Paused   = Definition.Declare("paused")
	OnInit   = Definition.DeclareEntry(On, "init")
	OnResume = Definition.DeclareEntry(On, "resume")
)

func init() {
	Definition.Define(On, (*Blinker).stepOn)
	Definition.Define(Off, (*Blinker).stepOff)
	Definition.Define(Paused, (*Blinker).stepPaused)
	Definition.Define(OnInit, (*Blinker).enterOnInit)
	Definition.Define(OnResume, (*Blinker).enterOnResume)

	Definition.Edge(On, Off, "on_time")
	Definition.Edge(Off, On, "off_time")
	Definition.Edge(On, Paused, "pause")
	Definition.Edge(Off, Paused, "pause")
	Definition.Edge(Paused, OnResume, "resume")
}

// Blinker drives output according to Config.
type Blinker struct {
	*staticfsm.Timed[Blinker, uint32]

	cfg    Config
	output func(bool)

	lit     bool
	toggles int
	boots   int
	resumes int
}

// New returns a blinker in on_init. output, if not nil, is called with the
// desired level whenever it changes.
func New(cfg Config, now clock.Source[uint32], output func(bool), opts ...staticfsm.Option) (*Blinker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	b := &Blinker{cfg: cfg, output: output}
	m, err := staticfsm.NewTimed(b, Definition, OnInit, now, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "blinker")
	}
	b.Timed = m
	return b, nil
}

// Pause asks the blinker to stop with the output off. Safe to call from
// any goroutine; it takes effect on the next tick.
func (b *Blinker) Pause() {
	b.Request(Paused)
}

// Resume asks a paused blinker to start again with the on phase.
func (b *Blinker) Resume() {
	b.Request(OnResume)
}

// Lit reports the current output level.
func (b *Blinker) Lit() bool { return b.lit }

// Toggles counts on/off switches after start.
func (b *Blinker) Toggles() int { return b.toggles }

// Boots counts on_init entries.
func (b *Blinker) Boots() int { return b.boots }

// Resumes counts on_resume entries.
func (b *Blinker) Resumes() int { return b.resumes }

func (b *Blinker) stepOn() {
	if b.StateElapsed() > b.cfg.OnTime {
		b.toggles++
		b.set(false)
		b.ChangeState(Off)
	}
}

func (b *Blinker) stepOff() {
	if b.StateElapsed() > b.cfg.OffTime {
		b.toggles++
		b.set(true)
		b.ChangeState(On)
	}
}

func (b *Blinker) stepPaused() {
	b.set(false)
}

func (b *Blinker) enterOnInit() {
	b.boots++
	b.set(true)
}

func (b *Blinker) enterOnResume() {
	b.resumes++
	b.set(true)
}

func (b *Blinker) set(lit bool) {
	if b.lit == lit {
		return
	}
	b.lit = lit
	if b.output != nil {
		b.output(lit)
	}
}
