package staticfsm

// Transition describes one ChangeState call.
type Transition struct {
	Machine string
	// From is empty for the initial transition made at construction.
	From   string
	FromID int
	To     string
	ToID   int
	// Entry is set when To is an entry state.
	Entry bool
	// Seq counts ChangeState calls on the machine, starting at 1.
	Seq uint64
}

// Observer is notified synchronously, on the calling goroutine, after
// every ChangeState. It runs inside the step function and must not block.
type Observer interface {
	OnTransition(Transition)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Transition)

func (f ObserverFunc) OnTransition(t Transition) {
	f(t)
}
