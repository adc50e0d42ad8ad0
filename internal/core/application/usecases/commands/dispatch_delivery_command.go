package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrDispatchDeliveryCommandIsNotConstructed = errors.New(
	"DispatchDeliveryCommand must be created via NewDispatchDeliveryCommand constructor",
)

// DispatchDeliveryCommand asks the assignment engine for the best driver of a
// pending delivery and claims it.
type DispatchDeliveryCommand struct {
	deliveryID kernel.UUID
	excluded   []kernel.UUID

	guard guard.ConstructorGuard
}

// NewDispatchDeliveryCommand creates a dispatch request. Drivers listed in
// excluded are never offered the delivery.
func NewDispatchDeliveryCommand(deliveryID kernel.UUID, excluded ...kernel.UUID) (DispatchDeliveryCommand, error) {
	if err := deliveryID.Validate(); err != nil {
		return DispatchDeliveryCommand{}, err
	}
	for _, id := range excluded {
		if err := id.Validate(); err != nil {
			return DispatchDeliveryCommand{}, err
		}
	}

	return DispatchDeliveryCommand{
		deliveryID: deliveryID,
		excluded:   append([]kernel.UUID(nil), excluded...),
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c DispatchDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrDispatchDeliveryCommandIsNotConstructed)
}

func (c DispatchDeliveryCommand) DeliveryID() kernel.UUID { return c.deliveryID }

func (c DispatchDeliveryCommand) Excluded() []kernel.UUID {
	return append([]kernel.UUID(nil), c.excluded...)
}
