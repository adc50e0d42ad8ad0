package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrVerifyDriverCommandIsNotConstructed = errors.New(
	"VerifyDriverCommand must be created via NewVerifyDriverCommand constructor",
)

type VerifyDriverCommand struct {
	driverID kernel.UUID

	guard guard.ConstructorGuard
}

func NewVerifyDriverCommand(driverID kernel.UUID) (VerifyDriverCommand, error) {
	if err := driverID.Validate(); err != nil {
		return VerifyDriverCommand{}, err
	}
	return VerifyDriverCommand{driverID: driverID, guard: guard.NewConstructorGuard()}, nil
}

func (c VerifyDriverCommand) Validate() error {
	return c.guard.Validate(ErrVerifyDriverCommandIsNotConstructed)
}

func (c VerifyDriverCommand) DriverID() kernel.UUID { return c.driverID }
