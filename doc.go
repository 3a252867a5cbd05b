// Package staticfsm is a small, allocation-free finite state machine
// runtime for cooperative control loops.
//
// A machine type M declares its states once, at program start, on a
// Definition[M]. Each state is bound to a step function, normally a method
// expression of M. The host embeds a *Machine[M] (or *Timed[M, T]) and
// calls Update once per loop iteration; Update runs the step bound to the
// current state exactly once. Steps move the machine with ChangeState,
// which takes effect on the next Update.
//
//	var (
//		blinker = staticfsm.NewDefinition[Blinker]("blinker")
//		on      = blinker.Declare("on")
//		off     = blinker.Declare("off")
//		onInit  = blinker.DeclareEntry(on, "init")
//	)
//
//	func init() {
//		blinker.Define(on, (*Blinker).stepOn)
//		blinker.Define(off, (*Blinker).stepOff)
//		blinker.Define(onInit, (*Blinker).enterOn)
//	}
//
// Declaring and defining separately avoids initialization cycles between
// the selector variables and the methods that reference them.
//
// # Entry states
//
// An entry state is a transient selector whose dispatch first changes to
// its target and then runs a one-shot body. From the moment the body runs
// the machine reports the target state, so entry selectors are never
// meaningful arguments to IsState.
//
// # Concurrency
//
// One Update may be in flight at a time and ChangeState belongs inside
// step functions. Other goroutines may read the state (IsState, State,
// StateElapsed) and may ask for a change with Request, which the next
// Update applies before dispatching.
package staticfsm
