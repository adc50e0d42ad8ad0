package commands

import (
	"context"
	"errors"
	"log/slog"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/tracking"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// IngestLocationResult describes the delivery a ping was attributed to, if any.
type IngestLocationResult struct {
	DeliveryID *kernel.UUID
	ETA        *services.ETA
}

// IngestLocationCommandHandler stores driver pings and keeps live tracking current.
type IngestLocationCommandHandler struct {
	uowFactory UoWFactory
	limiter    ports.PingLimiter
	estimator  services.ETAEstimator
	logger     *slog.Logger
}

func NewIngestLocationCommandHandler(
	uowFactory UoWFactory,
	limiter ports.PingLimiter,
	estimator services.ETAEstimator,
	logger *slog.Logger,
) IngestLocationCommandHandler {
	return IngestLocationCommandHandler{
		uowFactory: uowFactory,
		limiter:    limiter,
		estimator:  estimator,
		logger:     logger.With("component", "IngestLocation"),
	}
}

// Handle rate-limits the ping, then in one transaction appends the sample,
// moves the driver and refreshes the position and ETA of their active delivery.
// A ping captured before the driver's stored position is only appended to the
// history; the result then carries the delivery but no ETA.
//
// Returns ports.ErrThrottled when the driver pings faster than allowed.
// A failing limiter lets the ping through.
func (h IngestLocationCommandHandler) Handle(ctx context.Context, command IngestLocationCommand) (IngestLocationResult, error) {
	if err := command.Validate(); err != nil {
		return IngestLocationResult{}, err
	}

	if h.limiter != nil {
		allowed, err := h.limiter.Allow(ctx, command.DriverID())
		if err != nil {
			h.logger.WarnContext(ctx, "ping limiter unavailable", "driver_id", command.DriverID().String(), "error", err)
		} else if !allowed {
			return IngestLocationResult{}, ports.ErrThrottled
		}
	}

	estimated, err := h.estimate(ctx, command)
	if err != nil {
		return IngestLocationResult{}, err
	}

	now := utcNow()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return IngestLocationResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	var result IngestLocationResult

	d, err := uow.DeliveryRepository().GetActiveByDriver(ctx, command.DriverID())
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		d = nil
	case err != nil:
		return IngestLocationResult{}, err
	}

	drivers := uow.DriverRepository()
	drv, err := drivers.Get(ctx, command.DriverID())
	if err != nil {
		return IngestLocationResult{}, err
	}

	var deliveryID *kernel.UUID
	if d != nil && d.Status().IsTrackable() {
		id := d.ID()
		deliveryID = &id
		result.DeliveryID = deliveryID
	}

	sample, err := tracking.NewLocationSample(
		command.DriverID(), deliveryID, command.Location(), command.Telemetry(), command.CapturedAt(), now,
	)
	if err != nil {
		return IngestLocationResult{}, err
	}

	// A late ping only joins the history.
	if !drv.HasNewerLocationThan(sample.CapturedAt) {
		if deliveryID != nil {
			eta := estimated.forDelivery(d)
			if eta == nil {
				fallback := h.estimator.Fallback(command.Location(), d.NavigationTargets(), now)
				eta = &fallback
			}
			if err := d.TrackPosition(command.Location(), eta.At, now); err != nil {
				return IngestLocationResult{}, err
			}
			if err := uow.DeliveryRepository().Update(ctx, d); err != nil {
				return IngestLocationResult{}, err
			}
			result.ETA = eta
		}

		if err := drv.UpdateLocation(command.Location(), sample.CapturedAt); err != nil {
			return IngestLocationResult{}, err
		}
		if err := drivers.UpdateLocation(ctx, drv); err != nil {
			return IngestLocationResult{}, err
		}
	}

	if err := uow.TrackingRepository().AddSample(ctx, sample); err != nil {
		return IngestLocationResult{}, err
	}

	if err := uow.Commit(ctx); err != nil {
		return IngestLocationResult{}, err
	}

	return result, nil
}

// estimatedETA is an ETA computed for a delivery in a given status.
type estimatedETA struct {
	deliveryID kernel.UUID
	status     delivery.Status
	eta        services.ETA
}

// forDelivery returns the ETA if it was computed for d as it is now.
func (e *estimatedETA) forDelivery(d *delivery.Delivery) *services.ETA {
	if e == nil || !e.deliveryID.IsEqual(d.ID()) || e.status != d.Status() {
		return nil
	}
	eta := e.eta
	return &eta
}

// estimate computes the ETA of the driver's active delivery before any row is
// locked, so a slow routing provider never holds a transaction open.
func (h IngestLocationCommandHandler) estimate(ctx context.Context, command IngestLocationCommand) (*estimatedETA, error) {
	d, err := h.uowFactory.Create().DeliveryRepository().GetActiveByDriver(ctx, command.DriverID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !d.Status().IsTrackable() {
		return nil, nil
	}

	return &estimatedETA{
		deliveryID: d.ID(),
		status:     d.Status(),
		eta:        h.estimator.Estimate(ctx, command.Location(), d.NavigationTargets(), utcNow()),
	}, nil
}
