package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrRegenerateCodesCommandIsNotConstructed = errors.New(
	"RegenerateCodesCommand must be created via NewRegenerateCodesCommand constructor",
)

type RegenerateCodesCommand struct {
	deliveryID kernel.UUID

	guard guard.ConstructorGuard
}

func NewRegenerateCodesCommand(deliveryID kernel.UUID) (RegenerateCodesCommand, error) {
	if err := deliveryID.Validate(); err != nil {
		return RegenerateCodesCommand{}, err
	}
	return RegenerateCodesCommand{deliveryID: deliveryID, guard: guard.NewConstructorGuard()}, nil
}

func (c RegenerateCodesCommand) Validate() error {
	return c.guard.Validate(ErrRegenerateCodesCommandIsNotConstructed)
}

func (c RegenerateCodesCommand) DeliveryID() kernel.UUID { return c.deliveryID }
