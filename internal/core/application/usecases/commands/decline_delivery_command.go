package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrDeclineDeliveryCommandIsNotConstructed = errors.New(
	"DeclineDeliveryCommand must be created via NewDeclineDeliveryCommand constructor",
)

// DeclineDeliveryCommand is sent by an assigned driver who refuses the delivery.
type DeclineDeliveryCommand struct {
	deliveryID kernel.UUID
	driverID   kernel.UUID

	guard guard.ConstructorGuard
}

func NewDeclineDeliveryCommand(deliveryID, driverID kernel.UUID) (DeclineDeliveryCommand, error) {
	if err := errors.Join(deliveryID.Validate(), driverID.Validate()); err != nil {
		return DeclineDeliveryCommand{}, err
	}

	return DeclineDeliveryCommand{
		deliveryID: deliveryID,
		driverID:   driverID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c DeclineDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrDeclineDeliveryCommandIsNotConstructed)
}

func (c DeclineDeliveryCommand) DeliveryID() kernel.UUID { return c.deliveryID }
func (c DeclineDeliveryCommand) DriverID() kernel.UUID   { return c.driverID }
