package staticfsm

import "github.com/pkg/errors"

var (
	// ErrInvalidDefinition is wrapped by every definition validation error.
	ErrInvalidDefinition = errors.New("invalid state definition")
	// ErrSealed is the panic value when a definition is mutated after a
	// machine has been built from it.
	ErrSealed = errors.New("definition is sealed")
	// ErrForeignState reports a selector that does not belong to the
	// machine's definition.
	ErrForeignState = errors.New("state does not belong to this definition")
	ErrNilHost      = errors.New("nil host")
	ErrNilClock     = errors.New("nil time source")

	ErrUnknownState       = errors.New("unknown state")
	ErrDefinitionMismatch = errors.New("snapshot definition mismatch")
)
