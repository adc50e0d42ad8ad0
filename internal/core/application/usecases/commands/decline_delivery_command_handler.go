package commands

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/tracking"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

// DeclineResult tells whether the delivery found a new driver right away.
type DeclineResult struct {
	Transition   delivery.Transition
	ReassignedTo *kernel.UUID
}

// DeclineDeliveryCommandHandler releases a declining driver and reassigns the
// delivery in the same transaction.
type DeclineDeliveryCommandHandler struct {
	uowFactory UoWFactory
	assigner   services.DriverAssigner
	estimator  services.ETAEstimator
}

func NewDeclineDeliveryCommandHandler(
	uowFactory UoWFactory,
	assigner services.DriverAssigner,
	estimator services.ETAEstimator,
) DeclineDeliveryCommandHandler {
	return DeclineDeliveryCommandHandler{
		uowFactory: uowFactory,
		assigner:   assigner,
		estimator:  estimator,
	}
}

// Handle records the refusal, frees the driver and offers the delivery to the
// best driver who has not declined it. The write is conditioned on the
// delivery still being assigned to the declining driver. When nobody is
// eligible the delivery stays pending for the dispatch job.
//
// The ETA of the new assignment is the straight-line estimate; routing is not
// called while rows are locked.
func (h DeclineDeliveryCommandHandler) Handle(ctx context.Context, command DeclineDeliveryCommand) (DeclineResult, error) {
	if err := command.Validate(); err != nil {
		return DeclineResult{}, err
	}

	now := utcNow()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return DeclineResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	deliveries := uow.DeliveryRepository()
	drivers := uow.DriverRepository()

	d, err := deliveries.GetForUpdate(ctx, command.DeliveryID())
	if err != nil {
		return DeclineResult{}, err
	}

	tr, err := d.Decline(command.DriverID(), now)
	if err != nil {
		return DeclineResult{}, err
	}
	previous := *tr.ReleasedDriverID

	old, err := drivers.GetForUpdate(ctx, previous)
	if err != nil {
		return DeclineResult{}, err
	}
	old.Release(now)
	if err := drivers.Update(ctx, old); err != nil {
		return DeclineResult{}, err
	}

	next, err := h.reassign(ctx, drivers, d, now)
	if err != nil {
		return DeclineResult{}, err
	}

	if err := deliveries.Reassign(ctx, d, previous); err != nil {
		return DeclineResult{}, err
	}

	if err := appendEvent(ctx, uow, d.ID(), delivery.Pending, old.Location(), "declined by driver", tracking.ActorDriver, now); err != nil {
		return DeclineResult{}, err
	}

	result := DeclineResult{Transition: tr}
	if next != nil {
		id := next.ID()
		result.ReassignedTo = &id
		if err := appendEvent(ctx, uow, d.ID(), delivery.Assigned, next.Location(), "reassigned after decline", tracking.ActorSystem, now); err != nil {
			return DeclineResult{}, err
		}
	}

	if err := uow.Commit(ctx); err != nil {
		return DeclineResult{}, err
	}

	return result, nil
}

// reassign claims the first ranked driver that can still be occupied and
// returns it, or nil when the delivery stays pending.
func (h DeclineDeliveryCommandHandler) reassign(
	ctx context.Context,
	drivers ports.DriverRepository,
	d *delivery.Delivery,
	now time.Time,
) (*driver.Driver, error) {
	candidates, err := drivers.ListCandidates(ctx, d.Pickup().BoundingBox(h.assigner.Config().RadiusKm))
	if err != nil {
		return nil, err
	}

	assignment, err := h.assigner.Assign(d.Pickup(), candidates, d.DeclinedDriverIDs(), now)
	if errors.Is(err, services.ErrNoEligibleDriver) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	for _, candidate := range assignment.Ranked() {
		drv, err := drivers.GetForUpdate(ctx, candidate.Driver.ID())
		if err != nil {
			return nil, err
		}
		if err := drv.Occupy(now); err != nil {
			continue
		}
		if err := drivers.Occupy(ctx, drv); errors.Is(err, driver.ErrDriverUnavailable) {
			continue
		} else if err != nil {
			return nil, err
		}

		if err := d.Claim(drv.ID(), now); err != nil {
			return nil, err
		}
		eta := h.estimator.Fallback(*candidate.Driver.Location(), d.NavigationTargets(), now)
		d.SetEstimatedDeliveryTime(eta.At)

		return drv, nil
	}

	return nil, nil
}
