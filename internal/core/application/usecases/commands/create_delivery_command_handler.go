package commands

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/tracking"
	"dispatch/internal/core/domain/services"
)

// trackingNumberAttempts bounds retries on tracking number collisions.
const trackingNumberAttempts = 3

// CreateDeliveryResult identifies the created delivery. Codes are handed out
// once here: the pickup code to the restaurant, the delivery code to the customer.
type CreateDeliveryResult struct {
	ID             kernel.UUID
	TrackingNumber string
	Fee            float64
	Codes          delivery.Codes
}

// CreateDeliveryCommandHandler persists new pending deliveries.
type CreateDeliveryCommandHandler struct {
	uowFactory UoWFactory
	feePolicy  services.FeePolicy
}

// NewCreateDeliveryCommandHandler creates a handler for new delivery requests.
func NewCreateDeliveryCommandHandler(uowFactory UoWFactory, feePolicy services.FeePolicy) CreateDeliveryCommandHandler {
	return CreateDeliveryCommandHandler{
		uowFactory: uowFactory,
		feePolicy:  feePolicy,
	}
}

// Handle creates the delivery with fresh confirmation codes and tracking number.
// A tracking number collision is retried with a new number.
func (h CreateDeliveryCommandHandler) Handle(ctx context.Context, command CreateDeliveryCommand) (CreateDeliveryResult, error) {
	if err := command.Validate(); err != nil {
		return CreateDeliveryResult{}, err
	}

	var err error
	for range trackingNumberAttempts {
		var result CreateDeliveryResult
		result, err = h.create(ctx, command.Params())
		if !errors.Is(err, delivery.ErrTrackingNumberTaken) {
			return result, err
		}
	}

	return CreateDeliveryResult{}, err
}

func (h CreateDeliveryCommandHandler) create(ctx context.Context, p CreateDeliveryParams) (CreateDeliveryResult, error) {
	now := utcNow()

	trackingNumber, err := delivery.NewTrackingNumber(now)
	if err != nil {
		return CreateDeliveryResult{}, err
	}
	codes, err := delivery.NewCodes()
	if err != nil {
		return CreateDeliveryResult{}, err
	}

	fee := h.feePolicy.Calculate(p.Pickup.DistanceTo(p.Dropoff))
	if p.Fee != nil {
		fee = *p.Fee
	}

	d, err := delivery.NewDelivery(delivery.NewParams{
		ID:             kernel.NewUUID(),
		TrackingNumber: trackingNumber,
		OrderRef:       p.OrderRef,
		RestaurantRef:  p.RestaurantRef,
		CustomerRef:    p.CustomerRef,
		Pickup:         p.Pickup,
		PickupAddress:  p.PickupAddress,
		Dropoff:        p.Dropoff,
		DropoffAddress: p.DropoffAddress,
		Fee:            fee,
		Codes:          codes,
	}, now)
	if err != nil {
		return CreateDeliveryResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return CreateDeliveryResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.DeliveryRepository().Add(ctx, d); err != nil {
		return CreateDeliveryResult{}, err
	}

	if err := appendEvent(ctx, uow, d.ID(), delivery.Pending, nil, "delivery created", tracking.ActorSystem, now); err != nil {
		return CreateDeliveryResult{}, err
	}

	if err := uow.Commit(ctx); err != nil {
		return CreateDeliveryResult{}, err
	}

	return CreateDeliveryResult{ID: d.ID(), TrackingNumber: d.TrackingNumber(), Fee: d.Fee(), Codes: d.Codes()}, nil
}
