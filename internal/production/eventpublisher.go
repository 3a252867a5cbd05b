package production

import (
	"sync"

	"github.com/uber-go/tally/v4"

	"github.com/comalice/staticfsm"
)

// ChannelPublisher is an observer that forwards transitions to a channel.
// Publishing never blocks the step function: when the channel is full the
// transition is dropped and counted.
type ChannelPublisher struct {
	ch      chan<- staticfsm.Transition
	dropped tally.Counter

	mu     sync.RWMutex
	closed bool
}

var _ staticfsm.Observer = (*ChannelPublisher)(nil)

// NewChannelPublisher creates a ChannelPublisher with the given output
// channel. scope may be nil.
func NewChannelPublisher(ch chan<- staticfsm.Transition, scope tally.Scope) *ChannelPublisher {
	if scope == nil {
		scope = tally.NoopScope
	}
	return &ChannelPublisher{
		ch:      ch,
		dropped: scope.Counter("dropped"),
	}
}

func (p *ChannelPublisher) OnTransition(t staticfsm.Transition) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return
	}
	select {
	case p.ch <- t:
	default:
		p.dropped.Inc(1)
	}
}

// Close closes the output channel. Later transitions are ignored.
func (p *ChannelPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.closed = true
		close(p.ch)
	}
	return nil
}
