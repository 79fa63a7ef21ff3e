package world

import (
	"errors"
	"fmt"
)

// ErrIllegalAction is matched by every ActionError.
var ErrIllegalAction = errors.New("illegal action")

// ErrNotVisible is returned by sensing calls aimed outside vision.
var ErrNotVisible = errors.New("not visible")

// ActionError is the host rejecting a request as not currently legal.
type ActionError struct {
	Op     string // "move", "attack", ...
	Reason string
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

func (e *ActionError) Is(target error) bool { return target == ErrIllegalAction }

// Illegal builds an ActionError.
func Illegal(op, format string, args ...any) error {
	return &ActionError{Op: op, Reason: fmt.Sprintf(format, args...)}
}

// IsIllegalAction reports whether err is, or wraps, a rejected action.
func IsIllegalAction(err error) bool {
	return errors.Is(err, ErrIllegalAction)
}
