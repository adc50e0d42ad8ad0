package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/tracking"
)

// persistTransition writes a transition of a delivery locked in uow. When the
// transition ended the assignment, the driver is released in the same
// transaction and, on delivered, credited with the delivery and its fee.
func persistTransition(
	ctx context.Context,
	uow UoW,
	d *delivery.Delivery,
	tr delivery.Transition,
	actor tracking.Actor,
	note string,
	loc *kernel.Location,
	now time.Time,
) error {
	if !tr.Changed {
		return nil
	}

	if err := uow.DeliveryRepository().Update(ctx, d); err != nil {
		return err
	}

	if tr.ReleasedDriverID != nil {
		drivers := uow.DriverRepository()
		drv, err := drivers.GetForUpdate(ctx, *tr.ReleasedDriverID)
		if err != nil {
			return err
		}

		drv.Release(now)
		if tr.Completed() {
			drv.CompleteDelivery(d.Fee(), now)
		}

		if err := drivers.Update(ctx, drv); err != nil {
			return err
		}
	}

	return appendEvent(ctx, uow, d.ID(), tr.To, loc, note, actor, now)
}

// appendEvent adds one entry to a delivery's history.
func appendEvent(
	ctx context.Context,
	repos TrackingRepoFactory,
	deliveryID kernel.UUID,
	status delivery.Status,
	loc *kernel.Location,
	note string,
	actor tracking.Actor,
	now time.Time,
) error {
	event, err := tracking.NewEvent(deliveryID, status, loc, note, actor, now)
	if err != nil {
		return err
	}
	return repos.TrackingRepository().AddEvent(ctx, event)
}
