package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/tracking"
	"dispatch/internal/core/domain/services"
)

// DispatchResult reports the driver that won the claim and the ranking it came from.
type DispatchResult struct {
	DeliveryID            kernel.UUID
	DriverID              kernel.UUID
	Assignment            services.Assignment
	EstimatedDeliveryTime time.Time
}

// DispatchDeliveryCommandHandler binds a driver to a pending delivery.
type DispatchDeliveryCommandHandler struct {
	uowFactory UoWFactory
	assigner   services.DriverAssigner
	estimator  services.ETAEstimator
}

func NewDispatchDeliveryCommandHandler(
	uowFactory UoWFactory,
	assigner services.DriverAssigner,
	estimator services.ETAEstimator,
) DispatchDeliveryCommandHandler {
	return DispatchDeliveryCommandHandler{
		uowFactory: uowFactory,
		assigner:   assigner,
		estimator:  estimator,
	}
}

// Handle ranks candidates and claims the winner. When the winner was occupied
// by a concurrent dispatch, the alternatives are tried in rank order.
//
// Returns:
//   - services.ErrNoEligibleDriver (or a refinement) when nobody can take it
//   - delivery.ErrAlreadyClaimed when the delivery is no longer pending
//   - errs.ErrObjectNotFound when the delivery does not exist
func (h DispatchDeliveryCommandHandler) Handle(ctx context.Context, command DispatchDeliveryCommand) (DispatchResult, error) {
	if err := command.Validate(); err != nil {
		return DispatchResult{}, err
	}

	d, assignment, err := h.rank(ctx, command)
	if err != nil {
		return DispatchResult{}, err
	}

	for _, candidate := range assignment.Ranked() {
		eta := h.estimator.Estimate(ctx, *candidate.Driver.Location(), []kernel.Location{d.Pickup(), d.Dropoff()}, utcNow())

		err := h.claim(ctx, d.ID(), candidate.Driver.ID(), eta.At)
		if errors.Is(err, driver.ErrDriverUnavailable) {
			continue
		}
		if err != nil {
			return DispatchResult{}, err
		}

		return DispatchResult{
			DeliveryID:            d.ID(),
			DriverID:              candidate.Driver.ID(),
			Assignment:            assignment,
			EstimatedDeliveryTime: eta.At,
		}, nil
	}

	return DispatchResult{}, fmt.Errorf("%w: every ranked driver was taken", services.ErrNoEligibleDriver)
}

func (h DispatchDeliveryCommandHandler) rank(
	ctx context.Context,
	command DispatchDeliveryCommand,
) (*delivery.Delivery, services.Assignment, error) {
	uow := h.uowFactory.Create()

	d, err := uow.DeliveryRepository().Get(ctx, command.DeliveryID())
	if err != nil {
		return nil, services.Assignment{}, err
	}
	if d.Status() != delivery.Pending || d.DriverID() != nil {
		return nil, services.Assignment{}, delivery.ErrAlreadyClaimed
	}

	box := d.Pickup().BoundingBox(h.assigner.Config().RadiusKm)
	drivers, err := uow.DriverRepository().ListCandidates(ctx, box)
	if err != nil {
		return nil, services.Assignment{}, err
	}

	excluded := append(command.Excluded(), d.DeclinedDriverIDs()...)
	assignment, err := h.assigner.Assign(d.Pickup(), drivers, excluded, utcNow())
	if err != nil {
		return nil, services.Assignment{}, err
	}

	return d, assignment, nil
}

func (h DispatchDeliveryCommandHandler) claim(ctx context.Context, deliveryID, driverID kernel.UUID, eta time.Time) error {
	now := utcNow()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	d, err := uow.DeliveryRepository().Get(ctx, deliveryID)
	if err != nil {
		return err
	}
	if err := d.Claim(driverID, now); err != nil {
		return err
	}
	d.SetEstimatedDeliveryTime(eta)

	if err := uow.DeliveryRepository().Claim(ctx, d); err != nil {
		return err
	}

	drivers := uow.DriverRepository()
	drv, err := drivers.Get(ctx, driverID)
	if err != nil {
		return err
	}
	if err := drv.Occupy(now); err != nil {
		return err
	}
	if err := drivers.Occupy(ctx, drv); err != nil {
		return err
	}

	if err := appendEvent(ctx, uow, d.ID(), delivery.Assigned, drv.Location(), "driver assigned", tracking.ActorSystem, now); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
