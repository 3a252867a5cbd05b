package realtime

import (
	"context"
	"time"

	"github.com/comalice/staticfsm"
)

// Requester accepts asynchronous state change requests. Both
// *staticfsm.Machine and *staticfsm.Timed implement it.
type Requester[M any] interface {
	Request(s staticfsm.State[M])
}

// Forward requests every state received on ch. It returns nil when ch is
// closed and ctx.Err() when ctx is done first.
//
// Requests coalesce: if several arrive between two ticks only the last one
// is applied.
func Forward[M any](ctx context.Context, r Requester[M], ch <-chan staticfsm.State[M]) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case s, ok := <-ch:
			if !ok {
				return nil
			}
			r.Request(s)
		}
	}
}

// Every requests s once per period until ctx is done, e.g. a heartbeat or
// watchdog state. It always returns ctx.Err().
func Every[M any](ctx context.Context, r Requester[M], s staticfsm.State[M], period time.Duration) error {
	t := time.NewTicker(period)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			r.Request(s)
		}
	}
}
