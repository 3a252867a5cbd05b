package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/uber-go/tally/v4"
	"go.uber.org/atomic"
)

// DefaultTickRate is 60 Hz.
const DefaultTickRate = 16667 * time.Microsecond

var (
	ErrAlreadyStarted = errors.New("runtime already started")
	ErrNotStarted     = errors.New("runtime not started")
)

// Updater is anything advanced one step per tick, typically a
// *staticfsm.Machine or *staticfsm.Timed.
type Updater interface {
	Update()
}

// Config configures the runtime.
type Config struct {
	TickRate time.Duration // default DefaultTickRate
	Logger   *log.Entry    // default standard logger
	Scope    tally.Scope   // default tally.NoopScope
}

// Runtime calls Update on its Updater at a fixed rate.
type Runtime struct {
	u        Updater
	tickRate time.Duration
	logger   *log.Entry
	metrics  *metrics

	tickNum atomic.Uint64

	mu      sync.Mutex
	cancel  context.CancelFunc
	stopped chan struct{}
}

type metrics struct {
	ticks  tally.Counter
	panics tally.Counter
}

// NewRuntime returns a runtime for u.
func NewRuntime(u Updater, cfg Config) *Runtime {
	if cfg.TickRate <= 0 {
		cfg.TickRate = DefaultTickRate
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewEntry(log.StandardLogger())
	}
	if cfg.Scope == nil {
		cfg.Scope = tally.NoopScope
	}
	return &Runtime{
		u:        u,
		tickRate: cfg.TickRate,
		logger:   cfg.Logger.WithField("tick_rate", cfg.TickRate),
		metrics: &metrics{
			ticks:  cfg.Scope.Counter("ticks"),
			panics: cfg.Scope.Counter("tick_panics"),
		},
	}
}

// Start launches the tick loop. It runs until ctx is done or Stop is
// called.
func (rt *Runtime) Start(ctx context.Context) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	if rt.stopped != nil {
		return ErrAlreadyStarted
	}
	ctx, rt.cancel = context.WithCancel(ctx)
	rt.stopped = make(chan struct{})

	go rt.loop(ctx, rt.stopped)
	rt.logger.Info("runtime started")
	return nil
}

// Stop stops the tick loop and waits for the tick in progress to finish.
// The runtime may be started again afterwards.
func (rt *Runtime) Stop() error {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	if rt.stopped == nil {
		return ErrNotStarted
	}
	rt.cancel()
	<-rt.stopped
	rt.stopped = nil
	rt.logger.WithField("ticks", rt.tickNum.Load()).Info("runtime stopped")
	return nil
}

// Run ticks on the calling goroutine until ctx is done.
func (rt *Runtime) Run(ctx context.Context) error {
	done := make(chan struct{})
	rt.loop(ctx, done)
	return ctx.Err()
}

// TickNumber returns the number of ticks executed.
func (rt *Runtime) TickNumber() uint64 {
	return rt.tickNum.Load()
}

func (rt *Runtime) loop(ctx context.Context, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(rt.tickRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rt.tick()
		}
	}
}

func (rt *Runtime) tick() {
	defer func() {
		if r := recover(); r != nil {
			rt.metrics.panics.Inc(1)
			rt.logger.WithFields(log.Fields{
				"tick":  rt.tickNum.Load(),
				"panic": r,
			}).Error("recovered panic in state step")
		}
		rt.tickNum.Inc()
		rt.metrics.ticks.Inc(1)
	}()
	rt.u.Update()
}
