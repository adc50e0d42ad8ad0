package commands

import (
	"errors"
	"time"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrEndStaleShiftsCommandIsNotConstructed = errors.New(
	"EndStaleShiftsCommand must be created via NewEndStaleShiftsCommand constructor",
)

// EndStaleShiftsCommand takes silent drivers off shift so they are no longer
// offered deliveries.
type EndStaleShiftsCommand struct {
	silentFor time.Duration

	guard guard.ConstructorGuard
}

func NewEndStaleShiftsCommand(silentFor time.Duration) (EndStaleShiftsCommand, error) {
	if silentFor <= 0 {
		return EndStaleShiftsCommand{}, errs.NewValueIsOutOfRangeError("silent for", silentFor, "1ns", "unbounded")
	}
	return EndStaleShiftsCommand{silentFor: silentFor, guard: guard.NewConstructorGuard()}, nil
}

func (c EndStaleShiftsCommand) Validate() error {
	return c.guard.Validate(ErrEndStaleShiftsCommandIsNotConstructed)
}

func (c EndStaleShiftsCommand) SilentFor() time.Duration { return c.silentFor }
