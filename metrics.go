package staticfsm

import "github.com/uber-go/tally/v4"

// Metrics holds the counters of one machine.
type Metrics struct {
	scope tally.Scope

	// every ChangeState, including self transitions
	transitions tally.Counter
	// dispatched steps
	updates tally.Counter
	// asynchronous change requests
	requests tally.Counter
	// Update calls dropped because another was in flight
	updateOverlaps tally.Counter
}

// NewMetrics returns a new Metrics struct.
func NewMetrics(scope tally.Scope) *Metrics {
	return &Metrics{
		scope:          scope,
		transitions:    scope.Counter("transitions"),
		updates:        scope.Counter("updates"),
		requests:       scope.Counter("requests"),
		updateOverlaps: scope.Counter("update_overlaps"),
	}
}
