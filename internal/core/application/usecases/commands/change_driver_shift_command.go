package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrChangeDriverShiftCommandIsNotConstructed = errors.New(
	"ChangeDriverShiftCommand must be created via NewChangeDriverShiftCommand constructor",
)

// ChangeDriverShiftCommand puts a driver on or off shift.
type ChangeDriverShiftCommand struct {
	driverID kernel.UUID
	onShift  bool

	guard guard.ConstructorGuard
}

func NewChangeDriverShiftCommand(driverID kernel.UUID, onShift bool) (ChangeDriverShiftCommand, error) {
	if err := driverID.Validate(); err != nil {
		return ChangeDriverShiftCommand{}, err
	}
	return ChangeDriverShiftCommand{driverID: driverID, onShift: onShift, guard: guard.NewConstructorGuard()}, nil
}

func (c ChangeDriverShiftCommand) Validate() error {
	return c.guard.Validate(ErrChangeDriverShiftCommandIsNotConstructed)
}

func (c ChangeDriverShiftCommand) DriverID() kernel.UUID { return c.driverID }
func (c ChangeDriverShiftCommand) OnShift() bool         { return c.onShift }
