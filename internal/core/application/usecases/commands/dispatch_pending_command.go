package commands

import (
	"errors"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrDispatchPendingCommandIsNotConstructed = errors.New(
	"DispatchPendingCommand must be created via NewDispatchPendingCommand constructor",
)

// DispatchPendingCommand retries assignment for the oldest waiting deliveries.
type DispatchPendingCommand struct {
	batchSize int

	guard guard.ConstructorGuard
}

func NewDispatchPendingCommand(batchSize int) (DispatchPendingCommand, error) {
	if batchSize <= 0 {
		return DispatchPendingCommand{}, errs.NewValueIsOutOfRangeError("batch size", batchSize, 1, "unbounded")
	}
	return DispatchPendingCommand{batchSize: batchSize, guard: guard.NewConstructorGuard()}, nil
}

func (c DispatchPendingCommand) Validate() error {
	return c.guard.Validate(ErrDispatchPendingCommandIsNotConstructed)
}

func (c DispatchPendingCommand) BatchSize() int { return c.batchSize }
