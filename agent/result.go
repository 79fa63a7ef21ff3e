package agent

import (
	"errors"

	"github.com/nstehr/regressiongames/world"
)

// Outcome classifies how a turn ended.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeIllegalAction
	OutcomeUnexpectedFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeIllegalAction:
		return "illegal_action"
	case OutcomeUnexpectedFailure:
		return "unexpected_failure"
	}
	return "unknown"
}

// Result is what one turn produced. A failed turn is reported here and never
// escapes Turn as an error or panic.
type Result struct {
	Turn    int
	Round   int
	Role    Role
	Outcome Outcome
	Err     error
	Events  []Event
}

func classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, world.ErrIllegalAction):
		return OutcomeIllegalAction
	default:
		return OutcomeUnexpectedFailure
	}
}
