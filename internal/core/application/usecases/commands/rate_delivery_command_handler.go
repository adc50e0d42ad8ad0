package commands

import (
	"context"
)

// RateDeliveryCommandHandler stores customer ratings and updates driver averages.
type RateDeliveryCommandHandler struct {
	uowFactory UoWFactory
}

func NewRateDeliveryCommandHandler(uowFactory UoWFactory) RateDeliveryCommandHandler {
	return RateDeliveryCommandHandler{uowFactory: uowFactory}
}

// Handle rates the delivery once and folds the rating into the average of the
// driver who delivered it.
func (h RateDeliveryCommandHandler) Handle(ctx context.Context, command RateDeliveryCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	now := utcNow()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	d, err := uow.DeliveryRepository().GetForUpdate(ctx, command.DeliveryID())
	if err != nil {
		return err
	}

	driverID, err := d.Rate(command.Rating(), command.Feedback(), now)
	if err != nil {
		return err
	}

	if err := uow.DeliveryRepository().Update(ctx, d); err != nil {
		return err
	}

	drv, err := uow.DriverRepository().GetForUpdate(ctx, driverID)
	if err != nil {
		return err
	}

	if err := drv.ApplyRating(command.Rating(), now); err != nil {
		return err
	}

	if err := uow.DriverRepository().Update(ctx, drv); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
