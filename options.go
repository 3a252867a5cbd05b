package staticfsm

import (
	log "github.com/sirupsen/logrus"
	"github.com/uber-go/tally/v4"
)

type options struct {
	name      string
	logger    *log.Entry
	scope     tally.Scope
	observers []Observer
}

// Option configures a machine via the functional options pattern.
type Option func(*options)

// WithName sets the instance name used in logs, metrics, transitions and
// snapshots. It defaults to the definition name.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithLogger sets the logger. Transitions are logged at debug level.
func WithLogger(logger *log.Entry) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetricsScope reports machine counters to scope.
func WithMetricsScope(scope tally.Scope) Option {
	return func(o *options) {
		o.scope = scope
	}
}

// WithObserver registers observers notified synchronously on every
// ChangeState.
func WithObserver(obs ...Observer) Option {
	return func(o *options) {
		o.observers = append(o.observers, obs...)
	}
}

func buildOptions(defName string, opts []Option) options {
	o := options{name: defName}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.NewEntry(log.StandardLogger())
	}
	if o.scope == nil {
		o.scope = tally.NoopScope
	}
	o.logger = o.logger.WithField("machine", o.name)
	return o
}
